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
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Build the keypair deterministically from a 32 byte seed. Since
// the true private key can always be reconstructed from the seed,
// the encoded seed doubles as the private key.
func keypairFromSeed(algo Algorithm, seed [32]byte) (string, string, error) {
	var pub []byte
	switch algo {
	case AlgoEd25519:
		privateKey := ed25519.NewKeyFromSeed(seed[:])
		pub = privateKey.Public().(ed25519.PublicKey)
	case AlgoSecp256k1:
		privateKey := secp256k1.PrivKeyFromBytes(seed[:])
		pub = privateKey.PubKey().SerializeCompressed()
	default:
		return "", "", fmt.Errorf("keypair generation for %s is not supported", algo)
	}

	signingKey := EncodeSigningKey(&SigningKey{Algo: algo, PubKey: pub})
	seedKey := EncodeKey(&VeloKey{Code: KeyTypeSeed, Algo: algo, Hash: seed})

	return signingKey, seedKey, nil
}

// Randomly generate an account keypair for the given algorithm.
// It returns the encoded signing key and the encoded seed.
func GenerateKeypair(algo Algorithm) (string, string, error) {
	var seed [32]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return "", "", err
	}
	return keypairFromSeed(algo, seed)
}

// Generate an account keypair from the provided seed bytes.
func GenerateKeypairFromSeed(algo Algorithm, seed []byte) (string, string, error) {
	if len(seed) != 32 {
		return "", "", errors.New("invalid seed, byte length is not 32")
	}
	var sd [32]byte
	copy(sd[:], seed)
	return keypairFromSeed(algo, sd)
}

// Randomly generate a node keypair. Nodes always sign with
// ed25519, the encoded node ID is the typed digest of the
// signing key.
func GenerateNodeKeypair() (string, string, error) {
	signingKey, seedKey, err := GenerateKeypair(AlgoEd25519)
	if err != nil {
		return "", "", err
	}

	sk, err := DecodeSigningKey(signingKey)
	if err != nil {
		return "", "", err
	}
	b := append([]byte{byte(sk.Algo)}, sk.PubKey...)
	nodeID := EncodeKey(&VeloKey{Code: KeyTypeNodeID, Hash: SHA256HashBytes(b)})

	return nodeID, seedKey, nil
}
