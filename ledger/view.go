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

package ledger

import (
	"errors"
	"sort"

	"github.com/veloledger/go-veloledger/types"
)

var ErrSnapshotSealed = errors.New("snapshot is sealed")

// OpenView is a mutable overlay staging the effects of pending
// transaction applications over a base view. Reads see the staged
// deltas layered over the base, the base itself is never touched
// until Apply. Views nest, a nested view gives a transaction
// applier per-operation rollback.
//
// An OpenView is not safe for concurrent use, application against
// one view is strictly sequential.
type OpenView struct {
	base View

	accounts   map[string]*types.Account
	offers     map[string]*types.Offer
	deadOffers map[string]bool

	// Drips removed from circulation by fee charges and claimed
	// balances while this view was staged.
	destroyed int64
}

// NewOpenView stages a fresh overlay on top of the base view.
func NewOpenView(base View) *OpenView {
	return &OpenView{
		base:       base,
		accounts:   make(map[string]*types.Account),
		offers:     make(map[string]*types.Offer),
		deadOffers: make(map[string]bool),
	}
}

func (v *OpenView) BaseFee() int64 {
	return v.base.BaseFee()
}

func (v *OpenView) Features() *FeatureSet {
	return v.base.Features()
}

func (v *OpenView) ReadAccount(accountID string) (*types.Account, bool) {
	if acc, ok := v.accounts[accountID]; ok {
		return acc.Clone(), true
	}
	return v.base.ReadAccount(accountID)
}

// WriteAccount stages the new account state.
func (v *OpenView) WriteAccount(acc *types.Account) {
	v.accounts[acc.AccountID] = acc.Clone()
}

func (v *OpenView) ReadOffer(key string) (*types.Offer, bool) {
	if v.deadOffers[key] {
		return nil, false
	}
	if o, ok := v.offers[key]; ok {
		return o.Clone(), true
	}
	return v.base.ReadOffer(key)
}

// CreateOffer stages a new live offer.
func (v *OpenView) CreateOffer(o *types.Offer) {
	key := types.OfferKey(o.AccountID, o.SeqNum)
	delete(v.deadOffers, key)
	v.offers[key] = o.Clone()
}

// RemoveOffer stages the removal of the offer under the key and
// reports whether a live offer was there to remove.
func (v *OpenView) RemoveOffer(key string) bool {
	_, ok := v.ReadOffer(key)
	if !ok {
		return false
	}
	delete(v.offers, key)
	v.deadOffers[key] = true
	return true
}

// DestroyBalance records drips leaving circulation.
func (v *OpenView) DestroyBalance(amount int64) {
	v.destroyed += amount
}

// Destroyed returns the drips this view removed from circulation.
func (v *OpenView) Destroyed() int64 {
	return v.destroyed
}

// Nest stages a child view over this one. Committing the child
// with Flush folds its deltas back, dropping it instead discards
// them, which is how a failed operation keeps its fee and
// sequence effects without leaking partial state.
func (v *OpenView) Nest() *OpenView {
	return NewOpenView(v)
}

// Flush folds a nested view's deltas into its parent. It is a
// programming error to flush a view whose base is a snapshot.
func (v *OpenView) Flush() {
	parent, ok := v.base.(*OpenView)
	if !ok {
		panic("flush of a non-nested open view")
	}
	for id, acc := range v.accounts {
		parent.accounts[id] = acc
	}
	for k, o := range v.offers {
		delete(parent.deadOffers, k)
		parent.offers[k] = o
	}
	for k := range v.deadOffers {
		delete(parent.offers, k)
		parent.deadOffers[k] = true
	}
	parent.destroyed += v.destroyed
}

// Apply commits all staged deltas into the target snapshot in
// deterministic order and adjusts the total supply by the drips
// destroyed under this view. Visibility is all-or-nothing: the
// target never exposes a half-applied view.
func (v *OpenView) Apply(target *Snapshot) error {
	if target.sealed {
		return ErrSnapshotSealed
	}

	var accountIDs []string
	for id := range v.accounts {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)
	for _, id := range accountIDs {
		target.putAccount(v.accounts[id].Clone())
	}

	var offerKeys []string
	for k := range v.offers {
		offerKeys = append(offerKeys, k)
	}
	sort.Strings(offerKeys)
	for _, k := range offerKeys {
		target.putOffer(v.offers[k].Clone())
	}

	var deadKeys []string
	for k := range v.deadOffers {
		deadKeys = append(deadKeys, k)
	}
	sort.Strings(deadKeys)
	for _, k := range deadKeys {
		target.dropOffer(k)
	}

	target.header.TotalSupply -= v.destroyed

	return nil
}
