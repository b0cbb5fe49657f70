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

package internal

import "errors"

// Sentinel errors shared by the abe package's public API. The first
// three correspond to the three error kinds in the scheme's design:
// bad caller input, an unsatisfied decryption policy, and a symmetric
// or pairing layer failure. ErrNotUnsupported reports a policy or key
// containing a NOT leaf, which Keygen and Decrypt reject.
var (
	ErrInvalidInput      = errors.New("input is not of the proper form")
	ErrPolicyUnsatisfied = errors.New("attributes do not satisfy the policy")
	ErrCryptoFailure     = errors.New("cryptographic operation failed")
	ErrNotUnsupported    = errors.New("NOT leaves are not supported for key generation or decryption")
)
