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

	"github.com/classicvalues/rabe/data"
	"github.com/classicvalues/rabe/sample"
	"github.com/fentec-project/bn256"
)

// splitSecret draws a d-dimensional vector over Z_r whose entries sum
// to secret: every entry but the last is drawn independently by
// sampler, and the last is fixed up against the dot product of the
// rest with an all-ones vector. This is the same construction as the
// teacher's abe/gpsw.go getSum, generalized from a raw loop to
// data.Vector's own Dot/Mod. Used both for the two-way AND split in
// genShares and for the n-way ciphertext randomizer split in Encrypt.
func splitSecret(secret *big.Int, d int, sampler sample.Sampler) (data.Vector, error) {
	shares, err := data.NewRandomVector(d, sampler)
	if err != nil {
		return nil, err
	}

	ones := data.NewConstantVector(d-1, big.NewInt(1))
	partial, err := shares[:d-1].Dot(ones)
	if err != nil {
		return nil, err
	}
	shares[d-1] = new(big.Int).Sub(secret, partial)

	return shares.Mod(bn256.Order), nil
}
