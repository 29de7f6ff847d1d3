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

package op

import (
	"github.com/veloledger/go-veloledger/ledger"
	"github.com/veloledger/go-veloledger/types"
)

// OfferCreate inserts a new live offer owned by the source
// account. When CancelSeq is set, the account's prior offer
// created under that sequence is removed first, so replacing an
// offer by cancel-and-create leaves exactly one live offer for
// the logical intent. A cancel target that is already gone is not
// an error, the removal is best effort.
type OfferCreate struct {
	AccountID string
	TxSeqNum  uint64
	Selling   *types.Asset
	Buying    *types.Asset
	Amount    int64
	Price     *types.Price
	CancelSeq uint64
}

func (o *OfferCreate) Apply(view *ledger.OpenView) error {
	acc, ok := view.ReadAccount(o.AccountID)
	if !ok {
		return ErrNoSrcAccount
	}

	if o.CancelSeq != 0 {
		if view.RemoveOffer(types.OfferKey(o.AccountID, o.CancelSeq)) {
			acc.EntryCount--
		}
	}

	view.CreateOffer(&types.Offer{
		AccountID: o.AccountID,
		SeqNum:    o.TxSeqNum,
		Selling:   o.Selling,
		Buying:    o.Buying,
		Amount:    o.Amount,
		Price:     o.Price,
	})
	acc.EntryCount++
	view.WriteAccount(acc)

	return nil
}

// OfferCancel removes a live offer created by the source account
// under OfferSeq. Cancelling an offer that does not exist
// succeeds without effect, the desired end state already holds.
type OfferCancel struct {
	AccountID string
	OfferSeq  uint64
}

func (o *OfferCancel) Apply(view *ledger.OpenView) error {
	acc, ok := view.ReadAccount(o.AccountID)
	if !ok {
		return ErrNoSrcAccount
	}

	if view.RemoveOffer(types.OfferKey(o.AccountID, o.OfferSeq)) {
		acc.EntryCount--
		view.WriteAccount(acc)
	}

	return nil
}
