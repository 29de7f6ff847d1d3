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
	"crypto/ed25519"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	b58 "github.com/mr-tron/base58"
)

// Sign the data with the provided seed (equivalent private key).
// The signature scheme follows the algorithm recorded in the seed.
func Sign(seed string, data []byte) (string, error) {
	vk, err := DecodeKey(seed)
	if err != nil {
		return "", err
	}
	if vk.Code != KeyTypeSeed {
		return "", fmt.Errorf("key is not a seed: %s", seed)
	}

	var sig []byte
	switch vk.Algo {
	case AlgoEd25519:
		privateKey := ed25519.NewKeyFromSeed(vk.Hash[:])
		sig = ed25519.Sign(privateKey, data)
	case AlgoSecp256k1:
		privateKey := secp256k1.PrivKeyFromBytes(vk.Hash[:])
		digest := SHA256HashBytes(data)
		sig = secpecdsa.Sign(privateKey, digest[:]).Serialize()
	default:
		return "", fmt.Errorf("signing with %s is not supported", vk.Algo)
	}

	return b58.Encode(sig), nil
}

// Verify the data signature with the encoded signing key. The
// verification scheme is chosen by the algorithm tag of the key,
// an algorithm this node cannot verify always fails.
func Verify(signingKey, signature string, data []byte) bool {
	sk, err := DecodeSigningKey(signingKey)
	if err != nil {
		return false
	}
	return VerifyByKey(sk, signature, data)
}

// Verify the data signature using a decoded SigningKey.
func VerifyByKey(sk *SigningKey, signature string, data []byte) bool {
	sig, err := b58.Decode(signature)
	if err != nil {
		return false
	}

	switch sk.Algo {
	case AlgoEd25519:
		return ed25519.Verify(ed25519.PublicKey(sk.PubKey), data, sig)
	case AlgoSecp256k1:
		pub, err := secp256k1.ParsePubKey(sk.PubKey)
		if err != nil {
			return false
		}
		s, err := secpecdsa.ParseDERSignature(sig)
		if err != nil {
			return false
		}
		digest := SHA256HashBytes(data)
		return s.Verify(digest[:], pub)
	}
	return false
}
