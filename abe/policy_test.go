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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy_Leaf(t *testing.T) {
	p, err := parsePolicy(`{"ATT": "A"}`)
	require.NoError(t, err)
	assert.Equal(t, leafKind, p.kind)
	assert.Equal(t, "A", p.label())
}

func TestParsePolicy_Not(t *testing.T) {
	p, err := parsePolicy(`{"NOT": {"ATT": "A"}}`)
	require.NoError(t, err)
	assert.Equal(t, notKind, p.kind)
	assert.Equal(t, "!A", p.label())
	assert.True(t, p.hasNot())
}

func TestParsePolicy_And(t *testing.T) {
	p, err := parsePolicy(`{"AND": [{"ATT": "C"}, {"ATT": "B"}]}`)
	require.NoError(t, err)
	assert.Equal(t, andKind, p.kind)
	assert.False(t, p.hasNot())
}

func TestParsePolicy_OrAndNested(t *testing.T) {
	p, err := parsePolicy(`{"OR": [{"ATT": "X"}, {"AND": [{"ATT": "Y"}, {"ATT": "Z"}]}]}`)
	require.NoError(t, err)
	assert.Equal(t, orKind, p.kind)
	assert.Equal(t, andKind, p.right.kind)
}

func TestParsePolicy_Errors(t *testing.T) {
	_, err := parsePolicy("")
	assert.Error(t, err)

	_, err = parsePolicy("not json at all {")
	assert.Error(t, err)

	_, err = parsePolicy(`{"AND": [{"ATT": "A"}]}`)
	assert.Error(t, err)

	_, err = parsePolicy(`{}`)
	assert.Error(t, err)
}

func TestAttrOfLabel(t *testing.T) {
	assert.Equal(t, "A", attrOfLabel("A"))
	assert.Equal(t, "A", attrOfLabel("!A"))
	assert.False(t, isNegativeLabel("A"))
	assert.True(t, isNegativeLabel("!A"))
}
