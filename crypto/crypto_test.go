// Copyright 2023 The go-veloledger Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyCodec(t *testing.T) {
	vk := &VeloKey{Code: KeyTypeTx, Hash: SHA256HashBytes([]byte("payload"))}
	s := EncodeKey(vk)
	assert.True(t, IsValidKey(s))

	decoded, err := DecodeKey(s)
	assert.Nil(t, err)
	assert.Equal(t, vk.Code, decoded.Code)
	assert.Equal(t, vk.Hash, decoded.Hash)

	_, err = DecodeKey("")
	assert.Equal(t, ErrInvalidKey, err)
	_, err = DecodeKey("not-base58-0OIl")
	assert.Equal(t, ErrInvalidKey, err)
}

func TestKeypairSignVerify(t *testing.T) {
	data := []byte("some signing payload")

	for _, algo := range []Algorithm{AlgoEd25519, AlgoSecp256k1} {
		signingKey, seed, err := GenerateKeypair(algo)
		assert.Nil(t, err)

		sig, err := Sign(seed, data)
		assert.Nil(t, err)
		assert.True(t, Verify(signingKey, sig, data))
		assert.False(t, Verify(signingKey, sig, []byte("other payload")))

		// A keypair of the other algorithm cannot verify it.
		otherKey, _, err := GenerateKeypair(AlgoEd25519)
		if algo == AlgoEd25519 {
			otherKey, _, err = GenerateKeypair(AlgoSecp256k1)
		}
		assert.Nil(t, err)
		assert.False(t, Verify(otherKey, sig, data))
	}
}

func TestKeypairFromSeedDeterministic(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}

	k1, s1, err := GenerateKeypairFromSeed(AlgoEd25519, seed)
	assert.Nil(t, err)
	k2, s2, err := GenerateKeypairFromSeed(AlgoEd25519, seed)
	assert.Nil(t, err)
	assert.Equal(t, k1, k2)
	assert.Equal(t, s1, s2)

	_, _, err = GenerateKeypairFromSeed(AlgoEd25519, seed[:16])
	assert.NotNil(t, err)
}

func TestAccountIDFixedWidth(t *testing.T) {
	edKey, _, err := GenerateKeypair(AlgoEd25519)
	assert.Nil(t, err)
	secpKey, _, err := GenerateKeypair(AlgoSecp256k1)
	assert.Nil(t, err)

	edAddr, err := AccountID(edKey)
	assert.Nil(t, err)
	secpAddr, err := AccountID(secpKey)
	assert.Nil(t, err)

	// Addresses decode to the same typed digest shape no matter
	// which algorithm is behind them.
	ed, err := DecodeKey(edAddr)
	assert.Nil(t, err)
	assert.Equal(t, KeyTypeAccountID, ed.Code)
	secp, err := DecodeKey(secpAddr)
	assert.Nil(t, err)
	assert.Equal(t, KeyTypeAccountID, secp.Code)
}

func TestUnverifiableAlgorithm(t *testing.T) {
	// A secp256r1 tagged key decodes but can never verify.
	sk := &SigningKey{Algo: AlgoSecp256r1, PubKey: make([]byte, 65)}
	enc := EncodeSigningKey(sk)

	decoded, err := DecodeSigningKey(enc)
	assert.Nil(t, err)
	assert.Equal(t, AlgoSecp256r1, decoded.Algo)

	assert.False(t, Verify(enc, "anysig", []byte("data")))

	_, _, err = GenerateKeypair(AlgoSecp256r1)
	assert.NotNil(t, err)
}
