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

package types

import (
	"bytes"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/veloledger/go-veloledger/crypto"
)

// Encode a value to its canonical bytes.
func Encode(v interface{}) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Compute the base58 sha256 checksum of the canonical encoding.
func SHA256Hash(v interface{}) (string, error) {
	b, err := Encode(v)
	if err != nil {
		return "", err
	}
	return crypto.SHA256Hash(b), nil
}

// GetTxKey computes the typed key string identifying a tx.
func GetTxKey(tx *Tx) (string, error) {
	b, err := Encode(tx)
	if err != nil {
		return "", err
	}
	k := &crypto.VeloKey{Code: crypto.KeyTypeTx, Hash: crypto.SHA256HashBytes(b)}
	return crypto.EncodeKey(k), nil
}

// GetTxSetHash computes the overall hash of a transaction set.
// The member tx hashes are combined in sorted order so the hash
// does not depend on arrival order.
func GetTxSetHash(ts *TxSet) (string, error) {
	var keys []string
	for _, tx := range ts.TxList {
		k, err := GetTxKey(tx)
		if err != nil {
			return "", err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := bytes.NewBufferString(ts.PrevLedgerHash)
	for _, k := range keys {
		buf.WriteString(k)
	}
	return crypto.SHA256Hash(buf.Bytes()), nil
}

// Decode canonical bytes to an Account.
func DecodeAccount(b []byte) (*Account, error) {
	acc := &Account{}
	if err := msgpack.Unmarshal(b, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Decode canonical bytes to a Tx.
func DecodeTx(b []byte) (*Tx, error) {
	tx := &Tx{}
	if err := msgpack.Unmarshal(b, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Decode canonical bytes to an Offer.
func DecodeOffer(b []byte) (*Offer, error) {
	offer := &Offer{}
	if err := msgpack.Unmarshal(b, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// Decode canonical bytes to a LedgerHeader.
func DecodeLedgerHeader(b []byte) (*LedgerHeader, error) {
	h := &LedgerHeader{}
	if err := msgpack.Unmarshal(b, h); err != nil {
		return nil, err
	}
	return h, nil
}
