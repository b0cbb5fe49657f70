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
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/classicvalues/rabe/internal"
	"golang.org/x/crypto/sha3"
)

// deriveSymmetricKey reduces a pairing output down to a 256-bit AES key
// with SHA3-256, so the KEM only ever needs to carry a Gt element and
// never the key bytes themselves. The seed is hex-encoded before
// hashing; that doubles the hash input for no security benefit, but
// matches the reference implementation's envelope format bit-for-bit.
func deriveSymmetricKey(seed []byte) []byte {
	hexSeed := make([]byte, hex.EncodedLen(len(seed)))
	hex.Encode(hexSeed, seed)
	key := sha3.Sum256(hexSeed)
	return key[:]
}

// encryptSymmetric AES-256-CBC/PKCS7-encrypts pt under key, prefixing
// the ciphertext with a freshly drawn random IV.
func encryptSymmetric(key, pt []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}

	padded := pkcs7Pad(pt, block.BlockSize())

	ct := make([]byte, block.BlockSize()+len(padded))
	iv := ct[:block.BlockSize()]
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}

	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(ct[block.BlockSize():], padded)

	return ct, nil
}

// decryptSymmetric reverses encryptSymmetric.
func decryptSymmetric(key, ct []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrCryptoFailure, err)
	}

	blockSize := block.BlockSize()
	if len(ct) < blockSize || (len(ct)-blockSize)%blockSize != 0 {
		return nil, fmt.Errorf("%w: malformed ciphertext length", internal.ErrInvalidInput)
	}

	iv := ct[:blockSize]
	body := ct[blockSize:]

	pt := make([]byte, len(body))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(pt, body)

	return pkcs7Unpad(pt, blockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(append([]byte{}, data...), padding...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: malformed padded plaintext", internal.ErrInvalidInput)
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, fmt.Errorf("%w: invalid PKCS7 padding", internal.ErrInvalidInput)
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("%w: invalid PKCS7 padding", internal.ErrInvalidInput)
		}
	}
	return data[:len(data)-padLen], nil
}
