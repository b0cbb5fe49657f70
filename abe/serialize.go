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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/classicvalues/rabe/internal"
	"github.com/fentec-project/bn256"
)

// PK, MSK, SK and CT hold bn256 group elements, which expose only
// Marshal/Unmarshal on their concrete types and no exported fields, so
// encoding/gob cannot serialize them: gob only round-trips exported
// struct fields, and it has no hook into a type's own Marshal method
// the way, say, json.Marshaler does. Instead each type below is
// serialized as a flat sequence of length-prefixed byte strings, built
// directly on bn256's own wire format.

func writeBytes(buf *bytes.Buffer, b []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	buf.Write(lenBuf[:])
	buf.Write(b)
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: truncated length prefix: %v", internal.ErrInvalidInput, err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	b := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, fmt.Errorf("%w: truncated field: %v", internal.ErrInvalidInput, err)
		}
	}
	return b, nil
}

// MarshalPK encodes a public key.
func MarshalPK(pk *PK) []byte {
	var buf bytes.Buffer
	writeBytes(&buf, pk.G1.Marshal())
	writeBytes(&buf, pk.G2.Marshal())
	writeBytes(&buf, pk.G1B.Marshal())
	writeBytes(&buf, pk.G1B2.Marshal())
	writeBytes(&buf, pk.H1B.Marshal())
	writeBytes(&buf, pk.EggAlpha.Marshal())
	return buf.Bytes()
}

// UnmarshalPK decodes a public key produced by MarshalPK.
func UnmarshalPK(data []byte) (*PK, error) {
	r := bytes.NewReader(data)

	g1, err := readG1(r)
	if err != nil {
		return nil, err
	}
	g2, err := readG2(r)
	if err != nil {
		return nil, err
	}
	g1b, err := readG1(r)
	if err != nil {
		return nil, err
	}
	g1b2, err := readG1(r)
	if err != nil {
		return nil, err
	}
	h1b, err := readG1(r)
	if err != nil {
		return nil, err
	}
	eggAlpha, err := readGT(r)
	if err != nil {
		return nil, err
	}

	return &PK{G1: g1, G2: g2, G1B: g1b, G1B2: g1b2, H1B: h1b, EggAlpha: eggAlpha}, nil
}

// MarshalMSK encodes a master secret key.
func MarshalMSK(msk *MSK) []byte {
	var buf bytes.Buffer
	writeBytes(&buf, msk.Alpha1.Bytes())
	writeBytes(&buf, msk.Alpha2.Bytes())
	writeBytes(&buf, msk.B.Bytes())
	writeBytes(&buf, msk.H1.Marshal())
	writeBytes(&buf, msk.H2.Marshal())
	return buf.Bytes()
}

// UnmarshalMSK decodes a master secret key produced by MarshalMSK.
func UnmarshalMSK(data []byte) (*MSK, error) {
	r := bytes.NewReader(data)

	alpha1, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	alpha2, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	b, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	h1, err := readG1(r)
	if err != nil {
		return nil, err
	}
	h2, err := readG2(r)
	if err != nil {
		return nil, err
	}

	return &MSK{
		Alpha1: new(big.Int).SetBytes(alpha1),
		Alpha2: new(big.Int).SetBytes(alpha2),
		B:      new(big.Int).SetBytes(b),
		H1:     h1,
		H2:     h2,
	}, nil
}

// MarshalSK encodes a secret key.
func MarshalSK(sk *SK) []byte {
	var buf bytes.Buffer
	writeBytes(&buf, []byte(sk.PolicyJSON))

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(sk.Leaves)))
	buf.Write(countBuf[:])

	for _, leaf := range sk.Leaves {
		writeBytes(&buf, []byte(leaf.Label))
		writeBytes(&buf, leaf.D0.Marshal())
		writeBytes(&buf, leaf.D1.Marshal())
	}
	return buf.Bytes()
}

// UnmarshalSK decodes a secret key produced by MarshalSK.
func UnmarshalSK(data []byte) (*SK, error) {
	r := bytes.NewReader(data)

	policyJSON, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	p, err := parsePolicy(string(policyJSON))
	if err != nil {
		return nil, err
	}

	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: truncated leaf count: %v", internal.ErrInvalidInput, err)
	}
	count := binary.BigEndian.Uint32(countBuf[:])

	leaves := make([]skLeaf, count)
	for i := range leaves {
		label, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		d0, err := readG1(r)
		if err != nil {
			return nil, err
		}
		d1, err := readG2(r)
		if err != nil {
			return nil, err
		}
		leaves[i] = skLeaf{Label: string(label), D0: d0, D1: d1}
	}

	return &SK{Policy: p, PolicyJSON: string(policyJSON), Leaves: leaves}, nil
}

// MarshalCT encodes a ciphertext.
func MarshalCT(ct *CT) []byte {
	var buf bytes.Buffer
	writeBytes(&buf, ct.E1.Marshal())
	writeBytes(&buf, ct.E2.Marshal())

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(ct.Leaves)))
	buf.Write(countBuf[:])

	for _, leaf := range ct.Leaves {
		writeBytes(&buf, []byte(leaf.Attr))
		writeBytes(&buf, leaf.E1.Marshal())
		writeBytes(&buf, leaf.E2.Marshal())
		writeBytes(&buf, leaf.E3.Marshal())
	}

	writeBytes(&buf, ct.Ciphertext)
	return buf.Bytes()
}

// UnmarshalCT decodes a ciphertext produced by MarshalCT.
func UnmarshalCT(data []byte) (*CT, error) {
	r := bytes.NewReader(data)

	e1, err := readGT(r)
	if err != nil {
		return nil, err
	}
	e2, err := readG2(r)
	if err != nil {
		return nil, err
	}

	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: truncated leaf count: %v", internal.ErrInvalidInput, err)
	}
	count := binary.BigEndian.Uint32(countBuf[:])

	leaves := make([]ctLeaf, count)
	for i := range leaves {
		attr, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		e1j, err := readG1(r)
		if err != nil {
			return nil, err
		}
		e2j, err := readG1(r)
		if err != nil {
			return nil, err
		}
		e3j, err := readG1(r)
		if err != nil {
			return nil, err
		}
		leaves[i] = ctLeaf{Attr: string(attr), E1: e1j, E2: e2j, E3: e3j}
	}

	ciphertext, err := readBytes(r)
	if err != nil {
		return nil, err
	}

	return &CT{E1: e1, E2: e2, Leaves: leaves, Ciphertext: ciphertext}, nil
}

func readG1(r *bytes.Reader) (*bn256.G1, error) {
	b, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	g := new(bn256.G1)
	if _, err := g.Unmarshal(b); err != nil {
		return nil, fmt.Errorf("%w: malformed G1 point: %v", internal.ErrInvalidInput, err)
	}
	return g, nil
}

func readG2(r *bytes.Reader) (*bn256.G2, error) {
	b, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	g := new(bn256.G2)
	if _, err := g.Unmarshal(b); err != nil {
		return nil, fmt.Errorf("%w: malformed G2 point: %v", internal.ErrInvalidInput, err)
	}
	return g, nil
}

func readGT(r *bytes.Reader) (*bn256.GT, error) {
	b, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	g := new(bn256.GT)
	if _, err := g.Unmarshal(b); err != nil {
		return nil, fmt.Errorf("%w: malformed GT element: %v", internal.ErrInvalidInput, err)
	}
	return g, nil
}
