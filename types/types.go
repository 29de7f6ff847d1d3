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

// Package types defines the ledger value types and their canonical
// wire encoding. A value's canonical form is its msgpack encoding
// with struct fields emitted in declaration order, which keeps the
// identity of transactions and state hashes stable across nodes.
package types

import "fmt"

type AssetType int32

const (
	AssetTypeNative AssetType = iota
	AssetTypeCustom
)

// Asset denotes either the native currency or an issued one.
type Asset struct {
	AssetType AssetType
	AssetName string
	Issuer    string
}

func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Price is the exact fraction of buying amount over selling amount.
type Price struct {
	Numerator   int64
	Denominator int64
}

func (p *Price) Clone() *Price {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Account is the per-account ledger state.
type Account struct {
	// Fixed-width address derived from the signing key.
	AccountID string
	// Balance in drips, never negative in committed state.
	Balance int64
	// Sequence number the next transaction must carry,
	// incremented by one per sequence-consuming application.
	SeqNum uint64
	// Encoded signing key the account signs with.
	Signer string
	// Number of ledger objects the account owns.
	EntryCount int32
}

// NewAccount returns the state of a freshly created account. The
// first transaction it can submit carries sequence number one.
func NewAccount(accountID string) *Account {
	return &Account{AccountID: accountID, SeqNum: 1}
}

func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Offer is a live order owned by an account. It is identified by
// the account and the sequence number of the transaction that
// created it.
type Offer struct {
	AccountID string
	SeqNum    uint64
	Selling   *Asset
	Buying    *Asset
	Amount    int64
	Price     *Price
}

func (o *Offer) Clone() *Offer {
	if o == nil {
		return nil
	}
	c := *o
	c.Selling = o.Selling.Clone()
	c.Buying = o.Buying.Clone()
	c.Price = o.Price.Clone()
	return &c
}

// Key of the offer in ledger state.
func OfferKey(accountID string, seq uint64) string {
	return fmt.Sprintf("%s_%d", accountID, seq)
}

// LedgerHeader describes one closed ledger.
type LedgerHeader struct {
	Version        uint32
	SeqNum         uint64
	PrevLedgerHash string
	StateHash      string
	TxListHash     string
	BaseFee        int64
	TotalSupply    int64
	MaxTxListSize  uint32
	CloseTime      int64
	// Names of the capabilities active in this ledger era,
	// sorted for a stable encoding.
	Features []string
}

func (h *LedgerHeader) Clone() *LedgerHeader {
	if h == nil {
		return nil
	}
	c := *h
	c.Features = append([]string(nil), h.Features...)
	return &c
}

// TxSet is the ordered list of transactions closing one ledger.
type TxSet struct {
	PrevLedgerHash string
	TxList         []*Tx
}
