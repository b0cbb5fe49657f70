/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package abe

import (
	"math/big"
	"strconv"

	"github.com/fentec-project/bn256"
	"golang.org/x/crypto/blake2b"
)

// hashFr hashes an arbitrary string into a nonzero element of Zr, the
// scalar field backing bn256's groups. A zero-valued reduction is
// vanishingly unlikely but would make the element useless as a scalar
// multiplier, so on that event the input is re-hashed with a counter
// appended until a nonzero result is found.
func hashFr(s string) *big.Int {
	for i := 0; ; i++ {
		input := s
		if i > 0 {
			input = s + "|" + strconv.Itoa(i)
		}
		sum := blake2b.Sum512([]byte(input))
		x := new(big.Int).SetBytes(sum[:])
		x.Mod(x, bn256.Order)
		if x.Sign() != 0 {
			return x
		}
	}
}

// hashG1 maps a string into G1 as base^hashFr(s). It is not an
// independent hash-to-curve function: the image lands in the subgroup
// generated by base, which is all LSW needs since base is itself a
// fresh random generator of G1 chosen at Setup.
func hashG1(base *bn256.G1, s string) *bn256.G1 {
	return new(bn256.G1).ScalarMult(base, hashFr(s))
}
