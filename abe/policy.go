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
	"encoding/json"
	"fmt"

	"github.com/classicvalues/rabe/internal"
)

// policyKind identifies the shape of a policy tree node.
type policyKind int

const (
	leafKind policyKind = iota
	notKind
	andKind
	orKind
)

// policy is a monotone boolean expression over attribute names, with
// optional NOT at the leaves. It is built by parsing the JSON grammar
// {"AND":[...]}, {"OR":[...]}, {"ATT":"name"}, {"NOT":{"ATT":"name"}}.
type policy struct {
	kind  policyKind
	attr  string // set for leafKind and notKind
	left  *policy
	right *policy // set for andKind/orKind
}

// jsonPolicy mirrors the external JSON policy grammar for decoding.
// Exactly one of the fields is populated in any well-formed document.
type jsonPolicy struct {
	ATT *string       `json:"ATT,omitempty"`
	NOT *jsonPolicy   `json:"NOT,omitempty"`
	AND []*jsonPolicy `json:"AND,omitempty"`
	OR  []*jsonPolicy `json:"OR,omitempty"`
}

// parsePolicy parses a JSON policy string into a policy tree.
func parsePolicy(s string) (*policy, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty policy string", internal.ErrInvalidInput)
	}

	var jp jsonPolicy
	if err := json.Unmarshal([]byte(s), &jp); err != nil {
		return nil, fmt.Errorf("%w: malformed policy JSON: %v", internal.ErrInvalidInput, err)
	}

	return jp.toPolicy()
}

func (jp *jsonPolicy) toPolicy() (*policy, error) {
	switch {
	case jp.ATT != nil:
		return &policy{kind: leafKind, attr: *jp.ATT}, nil
	case jp.NOT != nil:
		inner, err := jp.NOT.toPolicy()
		if err != nil {
			return nil, err
		}
		if inner.kind != leafKind {
			return nil, fmt.Errorf("%w: NOT must wrap a single attribute", internal.ErrInvalidInput)
		}
		return &policy{kind: notKind, attr: inner.attr}, nil
	case jp.AND != nil:
		return foldPolicyList(andKind, jp.AND)
	case jp.OR != nil:
		return foldPolicyList(orKind, jp.OR)
	default:
		return nil, fmt.Errorf("%w: policy node has no recognized field", internal.ErrInvalidInput)
	}
}

// foldPolicyList turns an n-ary AND/OR into a left-leaning binary tree
// of the requested kind, preserving the original left-to-right order
// so leaf emission stays deterministic (see genShares).
func foldPolicyList(kind policyKind, children []*jsonPolicy) (*policy, error) {
	if len(children) < 2 {
		return nil, fmt.Errorf("%w: AND/OR requires at least two children", internal.ErrInvalidInput)
	}

	nodes := make([]*policy, len(children))
	for i, c := range children {
		p, err := c.toPolicy()
		if err != nil {
			return nil, err
		}
		nodes[i] = p
	}

	acc := nodes[0]
	for _, n := range nodes[1:] {
		acc = &policy{kind: kind, left: acc, right: n}
	}
	return acc, nil
}

// label returns the canonical leaf label: the attribute name itself for
// a positive leaf, "!"+name for a negated one.
func (p *policy) label() string {
	if p.kind == notKind {
		return "!" + p.attr
	}
	return p.attr
}

// hasNot reports whether any leaf of the policy is a NOT leaf.
func (p *policy) hasNot() bool {
	switch p.kind {
	case notKind:
		return true
	case leafKind:
		return false
	default:
		return p.left.hasNot() || p.right.hasNot()
	}
}

// isNegativeLabel reports whether a canonical label denotes a negated leaf.
func isNegativeLabel(label string) bool {
	return len(label) > 0 && label[0] == '!'
}

// attrOfLabel strips the negation prefix, if any, returning the plain
// attribute name a label refers to.
func attrOfLabel(label string) string {
	if isNegativeLabel(label) {
		return label[1:]
	}
	return label
}
