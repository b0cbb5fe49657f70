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

	"github.com/fentec-project/bn256"
	"github.com/classicvalues/rabe/sample"
)

// share is one leaf's (label, value) pair out of genShares.
type share struct {
	label string
	value *big.Int
}

// genShares implements the LSSS share-generation algorithm of the
// policy tree: at an AND node, a fresh random rho is propagated to the
// left child and parent-value-minus-rho to the right; at an OR node,
// the parent value is propagated unchanged to both children. Leaves
// are emitted in deterministic left-to-right preorder so that genShares
// and calcPruned agree on which leaf a label refers to.
func genShares(secret *big.Int, p *policy) ([]share, error) {
	sampler := sample.NewUniform(bn256.Order)
	return genSharesRec(secret, p, sampler)
}

func genSharesRec(value *big.Int, p *policy, sampler sample.Sampler) ([]share, error) {
	switch p.kind {
	case leafKind, notKind:
		return []share{{label: p.label(), value: new(big.Int).Mod(value, bn256.Order)}}, nil
	case andKind:
		parts, err := splitSecret(value, 2, sampler)
		if err != nil {
			return nil, err
		}
		left, err := genSharesRec(parts[0], p.left, sampler)
		if err != nil {
			return nil, err
		}
		right, err := genSharesRec(parts[1], p.right, sampler)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case orKind:
		left, err := genSharesRec(value, p.left, sampler)
		if err != nil {
			return nil, err
		}
		right, err := genSharesRec(value, p.right, sampler)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	default:
		panic("abe: unreachable policy kind")
	}
}

// calcPruned performs a minimal-cover search over the policy tree given
// a set of attributes, returning whether the policy is satisfied and,
// if so, the ordered list of leaf labels whose shares suffice to
// reconstruct the secret. Within an OR node the left child is preferred
// when both are satisfied, making the choice deterministic.
func calcPruned(attrs map[string]bool, p *policy) (bool, []string) {
	switch p.kind {
	case leafKind:
		if attrs[p.attr] {
			return true, []string{p.attr}
		}
		return false, nil
	case notKind:
		if !attrs[p.attr] {
			return true, []string{"!" + p.attr}
		}
		return false, nil
	case andKind:
		lok, lLabels := calcPruned(attrs, p.left)
		if !lok {
			return false, nil
		}
		rok, rLabels := calcPruned(attrs, p.right)
		if !rok {
			return false, nil
		}
		return true, append(lLabels, rLabels...)
	case orKind:
		if lok, lLabels := calcPruned(attrs, p.left); lok {
			return true, lLabels
		}
		if rok, rLabels := calcPruned(attrs, p.right); rok {
			return true, rLabels
		}
		return false, nil
	default:
		panic("abe: unreachable policy kind")
	}
}

// calcCoefficients computes the linear-recombination coefficients {omega_l}
// such that, for any satisfying label set L returned by calcPruned,
// sum_{l in L} omega_l * share_l = secret. AND/OR both propagate the
// parent coefficient unchanged: AND shares add to the parent value, and
// OR shares equal the parent value outright, so in both cases the
// parent's coefficient already accounts for the child's contribution.
func calcCoefficients(p *policy) map[string]*big.Int {
	coeffs := make(map[string]*big.Int)
	calcCoefficientsRec(p, big.NewInt(1), coeffs)
	return coeffs
}

func calcCoefficientsRec(p *policy, omega *big.Int, coeffs map[string]*big.Int) {
	switch p.kind {
	case leafKind, notKind:
		coeffs[p.label()] = new(big.Int).Mod(omega, bn256.Order)
	case andKind, orKind:
		calcCoefficientsRec(p.left, omega, coeffs)
		calcCoefficientsRec(p.right, omega, coeffs)
	default:
		panic("abe: unreachable policy kind")
	}
}
