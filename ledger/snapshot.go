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

// Package ledger holds the versioned ledger state: immutable
// snapshots, the mutable open views staged over them, and the
// manager driving the close pipeline.
package ledger

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/veloledger/go-veloledger/crypto"
	"github.com/veloledger/go-veloledger/types"
)

// View is read access to ledger state at some layer, implemented
// by Snapshot and OpenView.
type View interface {
	// BaseFee of the ledger era under the view.
	BaseFee() int64
	// Features of the ledger era under the view.
	Features() *FeatureSet
	// ReadAccount returns a copy of the account state.
	ReadAccount(accountID string) (*types.Account, bool)
	// ReadOffer returns a copy of the offer under the key.
	ReadOffer(key string) (*types.Offer, bool)
}

// Snapshot is the complete account and offer state at one ledger
// height. Once sealed it never changes, new state is produced by
// applying an OpenView to the successor snapshot.
type Snapshot struct {
	header   *types.LedgerHeader
	features *FeatureSet

	accounts map[string]*types.Account
	offers   map[string]*types.Offer

	// Offer keys removed since the previous snapshot, what the
	// persistence layer has to delete.
	dropped map[string]bool

	sealed bool
}

// NewSnapshot creates an empty unsealed snapshot.
func NewSnapshot(header *types.LedgerHeader, features *FeatureSet) *Snapshot {
	return &Snapshot{
		header:   header,
		features: features,
		accounts: make(map[string]*types.Account),
		offers:   make(map[string]*types.Offer),
		dropped:  make(map[string]bool),
	}
}

// Header of the snapshot.
func (s *Snapshot) Header() *types.LedgerHeader {
	return s.header
}

func (s *Snapshot) BaseFee() int64 {
	return s.header.BaseFee
}

func (s *Snapshot) Features() *FeatureSet {
	return s.features
}

func (s *Snapshot) ReadAccount(accountID string) (*types.Account, bool) {
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, false
	}
	return acc.Clone(), true
}

func (s *Snapshot) ReadOffer(key string) (*types.Offer, bool) {
	offer, ok := s.offers[key]
	if !ok {
		return nil, false
	}
	return offer.Clone(), true
}

// AccountIDs returns all account IDs in sorted order.
func (s *Snapshot) AccountIDs() []string {
	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OfferKeys returns all offer keys in sorted order.
func (s *Snapshot) OfferKeys() []string {
	keys := make([]string, 0, len(s.offers))
	for k := range s.offers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OffersOwnedBy returns the live offers of one account sorted by
// creating sequence.
func (s *Snapshot) OffersOwnedBy(accountID string) []*types.Offer {
	var offers []*types.Offer
	for _, o := range s.offers {
		if o.AccountID == accountID {
			offers = append(offers, o.Clone())
		}
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].SeqNum < offers[j].SeqNum })
	return offers
}

// Seal freezes the snapshot against further application.
func (s *Snapshot) Seal() {
	s.sealed = true
}

// StateHash computes the digest of the full state by walking
// accounts and offers in sorted key order, so two snapshots with
// identical state hash identically regardless of how the state
// was assembled.
func (s *Snapshot) StateHash() (string, error) {
	buf := bytes.NewBuffer(nil)
	for _, id := range s.AccountIDs() {
		b, err := types.Encode(s.accounts[id])
		if err != nil {
			return "", fmt.Errorf("encode account %s failed: %v", id, err)
		}
		buf.Write(b)
	}
	for _, k := range s.OfferKeys() {
		b, err := types.Encode(s.offers[k])
		if err != nil {
			return "", fmt.Errorf("encode offer %s failed: %v", k, err)
		}
		buf.Write(b)
	}
	return crypto.SHA256Hash(buf.Bytes()), nil
}

// Clone produces an unsealed deep copy, the starting point of the
// successor ledger.
func (s *Snapshot) Clone() *Snapshot {
	c := NewSnapshot(s.header.Clone(), s.features.Clone())
	for id, acc := range s.accounts {
		c.accounts[id] = acc.Clone()
	}
	for k, o := range s.offers {
		c.offers[k] = o.Clone()
	}
	return c
}

func (s *Snapshot) putAccount(acc *types.Account) {
	s.accounts[acc.AccountID] = acc
}

func (s *Snapshot) putOffer(o *types.Offer) {
	s.offers[types.OfferKey(o.AccountID, o.SeqNum)] = o
}

func (s *Snapshot) dropOffer(key string) {
	delete(s.offers, key)
	s.dropped[key] = true
}

func (s *Snapshot) droppedOfferKeys() []string {
	var keys []string
	for k := range s.dropped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
