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

// Package abe implements the LSW key-policy attribute-based encryption
// scheme of Lewko, Sahai and Waters, "Revocation Systems with Very
// Small Private Keys" (http://eprint.iacr.org/2008/309.pdf). A message
// is encrypted under a set of attributes; a secret key is generated
// for a monotone boolean policy tree over attribute names, and decrypts
// only when the ciphertext's attributes satisfy that policy.
package abe

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/classicvalues/rabe/data"
	"github.com/classicvalues/rabe/internal"
	"github.com/classicvalues/rabe/sample"
	"github.com/fentec-project/bn256"
)

// PK is the LSW public key, published alongside the scheme and used
// for both encryption and key generation.
type PK struct {
	G1       *bn256.G1
	G2       *bn256.G2
	G1B      *bn256.G1 // G1^b
	G1B2     *bn256.G1 // G1^(b^2)
	H1B      *bn256.G1 // H1^b
	EggAlpha *bn256.GT // e(G1,G2)^(alpha1*alpha2)
}

// MSK is the LSW master secret key. Only Keygen needs it.
type MSK struct {
	Alpha1 *big.Int
	Alpha2 *big.Int
	B      *big.Int
	H1     *bn256.G1
	H2     *bn256.G2
}

// skLeaf is one leaf's key material in a secret key. NOT leaves are
// rejected at Keygen (see Keygen), so every leaf here is positive.
type skLeaf struct {
	Label string
	D0    *bn256.G1 // G1^(alpha2*share) * H(label)^r
	D1    *bn256.G2 // G2^r
}

// SK is a secret key bound to a single policy. It decrypts any
// ciphertext whose attribute set satisfies that policy. PolicyJSON is
// kept alongside the parsed tree so a key can be serialized and
// reloaded without re-deriving the tree from scratch.
type SK struct {
	Policy     *policy
	PolicyJSON string
	Leaves     []skLeaf
}

// ctLeaf is one attribute's ciphertext material.
type ctLeaf struct {
	Attr string
	E1   *bn256.G1 // H(attr)^s
	E2   *bn256.G1 // G1B^sx
	E3   *bn256.G1 // G1B2^(sx*H_Fr(attr)) * H1B^sx
}

// CT is an LSW ciphertext: a KEM part binding a random GT element to
// the encryptor's attribute set, and a DEM part holding the payload
// encrypted symmetrically under that element.
type CT struct {
	E1         *bn256.GT // EggAlpha^s * msg
	E2         *bn256.G2 // G2^s
	Leaves     []ctLeaf
	Ciphertext []byte
}

func randomScalar() (*big.Int, error) {
	return sample.NewUniform(bn256.Order).Sample()
}

func mulMod(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), bn256.Order)
}

// Setup runs the LSW setup algorithm, producing a fresh public key and
// master secret key. Every group element and the b exponent are drawn
// independently at random; nothing here is reused across calls.
func Setup() (*PK, *MSK, error) {
	alpha1, err := randomScalar()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}
	alpha2, err := randomScalar()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}
	beta, err := randomScalar()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}

	_, g1, err := bn256.RandomG1(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}
	_, g2, err := bn256.RandomG2(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}
	_, h1, err := bn256.RandomG1(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}
	_, h2, err := bn256.RandomG2(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}

	g1B := new(bn256.G1).ScalarMult(g1, beta)
	g1B2 := new(bn256.G1).ScalarMult(g1B, beta)
	h1B := new(bn256.G1).ScalarMult(h1, beta)
	eggAlpha := new(bn256.GT).ScalarMult(bn256.Pair(g1, g2), mulMod(alpha1, alpha2))

	pk := &PK{
		G1:       g1,
		G2:       g2,
		G1B:      g1B,
		G1B2:     g1B2,
		H1B:      h1B,
		EggAlpha: eggAlpha,
	}
	msk := &MSK{
		Alpha1: alpha1,
		Alpha2: alpha2,
		B:      beta,
		H1:     h1,
		H2:     h2,
	}
	return pk, msk, nil
}

// Keygen issues a secret key bound to policyJSON, an access policy in
// the {"AND":[...]}, {"OR":[...]}, {"ATT":"name"}, {"NOT":{"ATT":"name"}}
// grammar. Policies containing NOT are rejected: the LSSS engine this
// package uses (genShares/calcPruned/calcCoefficients) computes correct
// shares and coefficients for negative leaves, but the corresponding
// decrypt-side pairing terms are not implemented, so accepting such a
// policy here would silently issue a key that can never be satisfied
// on its negative branch.
func Keygen(pk *PK, msk *MSK, policyJSON string) (*SK, error) {
	p, err := parsePolicy(policyJSON)
	if err != nil {
		return nil, err
	}
	if p.hasNot() {
		return nil, internal.ErrNotUnsupported
	}

	shares, err := genShares(msk.Alpha1, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}

	leaves := make([]skLeaf, 0, len(shares))
	for _, sh := range shares {
		r, err := randomScalar()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
		}

		d0 := new(bn256.G1).Add(
			new(bn256.G1).ScalarMult(pk.G1, mulMod(msk.Alpha2, sh.value)),
			new(bn256.G1).ScalarMult(hashG1(pk.G1, sh.label), r),
		)
		d1 := new(bn256.G2).ScalarMult(pk.G2, r)

		leaves = append(leaves, skLeaf{Label: sh.label, D0: d0, D1: d1})
	}

	return &SK{Policy: p, PolicyJSON: policyJSON, Leaves: leaves}, nil
}

// Encrypt encrypts plaintext under the given attribute set. A fresh
// random GT element seeds the symmetric DEM layer; the KEM part binds
// that element to every attribute in attrs so that only a key whose
// policy is satisfied by attrs can recover it.
func Encrypt(pk *PK, attrs []string, plaintext []byte) (*CT, error) {
	if len(attrs) == 0 {
		return nil, fmt.Errorf("%w: attribute set must not be empty", internal.ErrInvalidInput)
	}
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("%w: plaintext must not be empty", internal.ErrInvalidInput)
	}

	s, err := randomScalar()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}

	n := len(attrs)
	var sx data.Vector
	sx, err = splitSecret(s, n, sample.NewUniform(bn256.Order))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}

	leaves := make([]ctLeaf, n)
	for i, attr := range attrs {
		e1 := new(bn256.G1).ScalarMult(hashG1(pk.G1, attr), s)
		e2 := new(bn256.G1).ScalarMult(pk.G1B, sx[i])
		e3 := new(bn256.G1).Add(
			new(bn256.G1).ScalarMult(pk.G1B2, mulMod(sx[i], hashFr(attr))),
			new(bn256.G1).ScalarMult(pk.H1B, sx[i]),
		)
		leaves[i] = ctLeaf{Attr: attr, E1: e1, E2: e2, E3: e3}
	}

	_, randG1, err := bn256.RandomG1(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}
	_, randG2, err := bn256.RandomG2(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}
	msg := bn256.Pair(randG1, randG2)

	key := deriveSymmetricKey(msg.Marshal())
	ciphertext, err := encryptSymmetric(key, plaintext)
	if err != nil {
		return nil, err
	}

	e1 := new(bn256.GT).Add(new(bn256.GT).ScalarMult(pk.EggAlpha, s), msg)
	e2 := new(bn256.G2).ScalarMult(pk.G2, s)

	return &CT{E1: e1, E2: e2, Leaves: leaves, Ciphertext: ciphertext}, nil
}

// Decrypt recovers the plaintext of ct using sk, returning
// ErrPolicyUnsatisfied if ct's attribute set does not satisfy sk's
// policy.
func Decrypt(sk *SK, ct *CT) ([]byte, error) {
	attrSet := make(map[string]bool, len(ct.Leaves))
	ctByAttr := make(map[string]*ctLeaf, len(ct.Leaves))
	for i := range ct.Leaves {
		leaf := &ct.Leaves[i]
		attrSet[leaf.Attr] = true
		ctByAttr[leaf.Attr] = leaf
	}

	ok, labels := calcPruned(attrSet, sk.Policy)
	if !ok {
		return nil, internal.ErrPolicyUnsatisfied
	}

	coeffs := calcCoefficients(sk.Policy)

	skByLabel := make(map[string]*skLeaf, len(sk.Leaves))
	for i := range sk.Leaves {
		skByLabel[sk.Leaves[i].Label] = &sk.Leaves[i]
	}

	prodT := new(bn256.GT).ScalarBaseMult(big.NewInt(0))
	for _, label := range labels {
		if isNegativeLabel(label) {
			// The LSW paper's decryption formula for a negative leaf
			// recombines pairings against the revocation list's
			// companion G2 elements; this scheme never issues a key
			// containing a negative leaf (see Keygen), so this branch
			// is unreachable in practice and left unimplemented.
			return nil, internal.ErrNotUnsupported
		}

		skl, ok := skByLabel[label]
		if !ok {
			return nil, fmt.Errorf("%w: secret key missing share for %q", internal.ErrInvalidInput, label)
		}
		ctl, ok := ctByAttr[attrOfLabel(label)]
		if !ok {
			return nil, fmt.Errorf("%w: ciphertext missing attribute %q", internal.ErrInvalidInput, attrOfLabel(label))
		}
		coeff, ok := coeffs[label]
		if !ok {
			return nil, fmt.Errorf("%w: no coefficient for %q", internal.ErrInvalidInput, label)
		}

		zy := new(bn256.GT).Add(
			bn256.Pair(skl.D0, ct.E2),
			new(bn256.GT).Neg(bn256.Pair(ctl.E1, skl.D1)),
		)
		prodT.Add(prodT, new(bn256.GT).ScalarMult(zy, coeff))
	}

	msg := new(bn256.GT).Add(ct.E1, new(bn256.GT).Neg(prodT))
	key := deriveSymmetricKey(msg.Marshal())

	pt, err := decryptSymmetric(key, ct.Ciphertext)
	if err != nil {
		return nil, internal.ErrPolicyUnsatisfied
	}
	return pt, nil
}
