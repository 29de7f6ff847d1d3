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
	"math/big"
	"sort"
)

// Compare two prices as exact fractions.
func ComparePrice(lhs *Price, rhs *Price) int {
	l := big.NewRat(lhs.Numerator, lhs.Denominator)
	r := big.NewRat(rhs.Numerator, rhs.Denominator)
	return l.Cmp(r)
}

// Sort offers in ascending order by price, ties broken by the
// owning account and creating sequence so the order is total.
type OfferSlice []*Offer

func (os OfferSlice) Len() int {
	return len(os)
}

func (os OfferSlice) Less(i, j int) bool {
	cmp := ComparePrice(os[i].Price, os[j].Price)
	if cmp != 0 {
		return cmp < 0
	}
	if os[i].AccountID != os[j].AccountID {
		return os[i].AccountID < os[j].AccountID
	}
	return os[i].SeqNum < os[j].SeqNum
}

func (os OfferSlice) Swap(i, j int) {
	os[i], os[j] = os[j], os[i]
}

// Sort transactions of one account in ascending sequence order.
type TxSlice []*Tx

func (ts TxSlice) Len() int {
	return len(ts)
}

func (ts TxSlice) Less(i, j int) bool {
	if ts[i].AccountID != ts[j].AccountID {
		return ts[i].AccountID < ts[j].AccountID
	}
	return ts[i].SeqNum < ts[j].SeqNum
}

func (ts TxSlice) Swap(i, j int) {
	ts[i], ts[j] = ts[j], ts[i]
}

// SortTxs sorts transactions in place in account then sequence
// order.
func SortTxs(txs []*Tx) {
	sort.Sort(TxSlice(txs))
}
