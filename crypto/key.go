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
	"bytes"
	"encoding/binary"
	"errors"

	b58 "github.com/mr-tron/base58"
)

type KeyType uint8

// Enumeration of key types, zero is deliberately skipped.
const (
	_ KeyType = iota
	KeyTypeAccountID
	KeyTypeSeed
	KeyTypeTx
	KeyTypeTxSet
	KeyTypeNodeID
	KeyTypeLedgerHeader
)

// Algorithm identifies the signing-key algorithm family a key
// belongs to. Secp256r1 is recognized on the wire so that keys
// bearing it can be decoded and rejected by policy, it is never
// acceptable for signing in any feature era.
type Algorithm uint8

const (
	_ Algorithm = iota
	AlgoEd25519
	AlgoSecp256k1
	AlgoSecp256r1
)

func (a Algorithm) String() string {
	switch a {
	case AlgoEd25519:
		return "ed25519"
	case AlgoSecp256k1:
		return "secp256k1"
	case AlgoSecp256r1:
		return "secp256r1"
	}
	return "unknown"
}

var (
	ErrInvalidKey        = errors.New("invalid key string")
	ErrInvalidSigningKey = errors.New("invalid signing key string")
)

// VeloKey is the internal representation of the various key
// hashes. Code identifies what the hash stands for and Algo
// carries the signing algorithm for seed keys, it is zero for
// keys that are plain digests.
type VeloKey struct {
	Code KeyType
	Algo Algorithm
	Hash [32]byte
}

// Decode a base58 encoded key string to a VeloKey.
func DecodeKey(key string) (*VeloKey, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	b, err := b58.Decode(key)
	if err != nil {
		return nil, ErrInvalidKey
	}

	var vk VeloKey
	r := bytes.NewReader(b)
	if err = binary.Read(r, binary.BigEndian, &vk); err != nil {
		return nil, ErrInvalidKey
	}

	switch vk.Code {
	case KeyTypeAccountID, KeyTypeSeed, KeyTypeTx, KeyTypeTxSet, KeyTypeNodeID, KeyTypeLedgerHeader:
		return &vk, nil
	}
	return nil, ErrInvalidKey
}

// Encode a VeloKey to a base58 encoded key string.
func EncodeKey(vk *VeloKey) string {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, vk)
	return b58.Encode(buf.Bytes())
}

// Check the validity of the supplied key string.
func IsValidKey(key string) bool {
	_, err := DecodeKey(key)
	return err == nil
}

// SigningKey is an algorithm-tagged public key as it travels
// inside a transaction. Unlike VeloKey the raw key bytes are kept,
// signature verification needs the full public key.
type SigningKey struct {
	Algo   Algorithm
	PubKey []byte
}

// Encode a SigningKey to its base58 wire form: one algorithm
// byte followed by the raw public key bytes.
func EncodeSigningKey(sk *SigningKey) string {
	b := make([]byte, 0, len(sk.PubKey)+1)
	b = append(b, byte(sk.Algo))
	b = append(b, sk.PubKey...)
	return b58.Encode(b)
}

// Decode the base58 wire form of a signing key. The public key
// length is checked for algorithms this node can verify, keys of
// recognized-but-unverifiable algorithms only need to be non-empty
// so that policy can reject them cleanly.
func DecodeSigningKey(key string) (*SigningKey, error) {
	if key == "" {
		return nil, ErrInvalidSigningKey
	}

	b, err := b58.Decode(key)
	if err != nil {
		return nil, ErrInvalidSigningKey
	}
	if len(b) < 2 {
		return nil, ErrInvalidSigningKey
	}

	sk := &SigningKey{Algo: Algorithm(b[0]), PubKey: b[1:]}
	switch sk.Algo {
	case AlgoEd25519:
		if len(sk.PubKey) != 32 {
			return nil, ErrInvalidSigningKey
		}
	case AlgoSecp256k1:
		if len(sk.PubKey) != 33 {
			return nil, ErrInvalidSigningKey
		}
	case AlgoSecp256r1:
		// Accepted here, rejected later by key policy.
	default:
		return nil, ErrInvalidSigningKey
	}
	return sk, nil
}

// AccountID derives the fixed-width account address from an
// encoded signing key. The address is the typed sha256 digest of
// the algorithm-tagged public key, so addresses have one shape
// regardless of the key algorithm behind them.
func AccountID(signingKey string) (string, error) {
	sk, err := DecodeSigningKey(signingKey)
	if err != nil {
		return "", err
	}

	b := make([]byte, 0, len(sk.PubKey)+1)
	b = append(b, byte(sk.Algo))
	b = append(b, sk.PubKey...)

	vk := &VeloKey{Code: KeyTypeAccountID, Hash: SHA256HashBytes(b)}
	return EncodeKey(vk), nil
}
