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

	"github.com/classicvalues/rabe/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lswPlaintext = "dance like no one's watching, encrypt like everyone is!"

func TestLSW_And(t *testing.T) {
	pk, msk, err := Setup()
	require.NoError(t, err)

	attrs := []string{"A", "B", "C"}
	policy := `{"AND": [{"ATT": "C"}, {"ATT": "B"}]}`

	ct, err := Encrypt(pk, attrs, []byte(lswPlaintext))
	require.NoError(t, err)

	sk, err := Keygen(pk, msk, policy)
	require.NoError(t, err)

	pt, err := Decrypt(sk, ct)
	require.NoError(t, err)
	assert.Equal(t, lswPlaintext, string(pt))
}

func TestLSW_Or(t *testing.T) {
	pk, msk, err := Setup()
	require.NoError(t, err)

	attrs := []string{"A", "B", "C"}
	policy := `{"OR": [{"ATT": "X"}, {"ATT": "B"}]}`

	ct, err := Encrypt(pk, attrs, []byte(lswPlaintext))
	require.NoError(t, err)

	sk, err := Keygen(pk, msk, policy)
	require.NoError(t, err)

	pt, err := Decrypt(sk, ct)
	require.NoError(t, err)
	assert.Equal(t, lswPlaintext, string(pt))
}

func TestLSW_OrAndNested(t *testing.T) {
	pk, msk, err := Setup()
	require.NoError(t, err)

	attrs := []string{"A", "Y", "Z"}
	policy := `{"OR": [{"ATT": "X"}, {"AND": [{"ATT": "Y"}, {"ATT": "Z"}]}]}`

	ct, err := Encrypt(pk, attrs, []byte(lswPlaintext))
	require.NoError(t, err)

	sk, err := Keygen(pk, msk, policy)
	require.NoError(t, err)

	pt, err := Decrypt(sk, ct)
	require.NoError(t, err)
	assert.Equal(t, lswPlaintext, string(pt))
}

func TestLSW_Unsatisfied(t *testing.T) {
	pk, msk, err := Setup()
	require.NoError(t, err)

	attrs := []string{"A", "B"}
	policy := `{"OR": [{"ATT": "X"}, {"ATT": "Y"}]}`

	ct, err := Encrypt(pk, attrs, []byte(lswPlaintext))
	require.NoError(t, err)

	sk, err := Keygen(pk, msk, policy)
	require.NoError(t, err)

	_, err = Decrypt(sk, ct)
	assert.ErrorIs(t, err, internal.ErrPolicyUnsatisfied)
}

func TestLSW_KeygenRejectsNot(t *testing.T) {
	pk, msk, err := Setup()
	require.NoError(t, err)

	_, err = Keygen(pk, msk, `{"AND": [{"ATT": "A"}, {"NOT": {"ATT": "B"}}]}`)
	assert.ErrorIs(t, err, internal.ErrNotUnsupported)
}

func TestLSW_EncryptRejectsEmptyAttrs(t *testing.T) {
	pk, _, err := Setup()
	require.NoError(t, err)

	_, err = Encrypt(pk, nil, []byte("hi"))
	assert.ErrorIs(t, err, internal.ErrInvalidInput)
}

func TestLSW_EncryptRejectsEmptyPlaintext(t *testing.T) {
	pk, _, err := Setup()
	require.NoError(t, err)

	_, err = Encrypt(pk, []string{"A"}, nil)
	assert.ErrorIs(t, err, internal.ErrInvalidInput)
}

func TestLSW_SingleAttribute(t *testing.T) {
	pk, msk, err := Setup()
	require.NoError(t, err)

	ct, err := Encrypt(pk, []string{"A"}, []byte(lswPlaintext))
	require.NoError(t, err)

	sk, err := Keygen(pk, msk, `{"ATT": "A"}`)
	require.NoError(t, err)

	pt, err := Decrypt(sk, ct)
	require.NoError(t, err)
	assert.Equal(t, lswPlaintext, string(pt))
}
