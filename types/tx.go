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

import "errors"

var (
	ErrNoOperation       = errors.New("tx carries no operation")
	ErrMultipleOperation = errors.New("tx carries more than one operation")
	ErrInvalidAmount     = errors.New("invalid operation amount")
	ErrInvalidPrice      = errors.New("invalid offer price")
	ErrIdenticalAsset    = errors.New("identical asset pair for offer")
	ErrInvalidCancelSeq  = errors.New("cancel sequence not before tx sequence")
	ErrInvalidAsset      = errors.New("invalid asset")
	ErrNonNativePayment  = errors.New("payment asset must be native")
)

// Peer to peer payment in the specified asset.
type PaymentOp struct {
	DstAccountID string
	Asset        *Asset
	Amount       int64
}

// Create a new offer, optionally cancelling a prior offer of the
// same account first. CancelSeq of zero means no cancellation.
type OfferCreateOp struct {
	Selling   *Asset
	Buying    *Asset
	Amount    int64
	Price     *Price
	CancelSeq uint64
}

// Cancel a live offer created under OfferSeq.
type OfferCancelOp struct {
	OfferSeq uint64
}

// Account settings update. With no fields set it is the canonical
// no-op transaction that only consumes a fee and a sequence slot.
type AccountSetOp struct {
	Signer string
}

// Tx is an immutable signed transaction. Exactly one operation
// field is set. Its identity is the typed digest of the canonical
// encoding, see GetTxKey.
type Tx struct {
	AccountID  string
	Fee        int64
	SeqNum     uint64
	SigningKey string
	Signature  string

	Payment     *PaymentOp
	OfferCreate *OfferCreateOp
	OfferCancel *OfferCancelOp
	AccountSet  *AccountSetOp
}

func (t *Tx) Clone() *Tx {
	if t == nil {
		return nil
	}
	c := *t
	if t.Payment != nil {
		p := *t.Payment
		p.Asset = t.Payment.Asset.Clone()
		c.Payment = &p
	}
	if t.OfferCreate != nil {
		o := *t.OfferCreate
		o.Selling = t.OfferCreate.Selling.Clone()
		o.Buying = t.OfferCreate.Buying.Clone()
		o.Price = t.OfferCreate.Price.Clone()
		c.OfferCreate = &o
	}
	if t.OfferCancel != nil {
		o := *t.OfferCancel
		c.OfferCancel = &o
	}
	if t.AccountSet != nil {
		a := *t.AccountSet
		c.AccountSet = &a
	}
	return &c
}

func ValidateAsset(asset *Asset) error {
	if asset == nil {
		return ErrInvalidAsset
	}
	if asset.AssetType == AssetTypeNative {
		return nil
	}
	if len(asset.AssetName) == 0 || len(asset.AssetName) >= 4 {
		return ErrInvalidAsset
	}
	if asset.Issuer == "" {
		return ErrInvalidAsset
	}
	return nil
}

// Validate checks the structural shape of the transaction. A
// failure here is permanent, no retry or reordering can fix it.
func (t *Tx) Validate() error {
	ops := 0
	if t.Payment != nil {
		ops++
	}
	if t.OfferCreate != nil {
		ops++
	}
	if t.OfferCancel != nil {
		ops++
	}
	if t.AccountSet != nil {
		ops++
	}
	if ops == 0 {
		return ErrNoOperation
	}
	if ops > 1 {
		return ErrMultipleOperation
	}

	switch {
	case t.Payment != nil:
		if err := ValidateAsset(t.Payment.Asset); err != nil {
			return err
		}
		// Accounts hold a single native balance, so a payment in
		// any other asset cannot be honored.
		if t.Payment.Asset.AssetType != AssetTypeNative {
			return ErrNonNativePayment
		}
		if t.Payment.Amount <= 0 {
			return ErrInvalidAmount
		}
	case t.OfferCreate != nil:
		op := t.OfferCreate
		if err := ValidateAsset(op.Selling); err != nil {
			return err
		}
		if err := ValidateAsset(op.Buying); err != nil {
			return err
		}
		if op.Selling.AssetType == op.Buying.AssetType && op.Selling.AssetName == op.Buying.AssetName && op.Selling.Issuer == op.Buying.Issuer {
			return ErrIdenticalAsset
		}
		if op.Amount <= 0 {
			return ErrInvalidAmount
		}
		if op.Price == nil || op.Price.Numerator <= 0 || op.Price.Denominator <= 0 {
			return ErrInvalidPrice
		}
		// A tx cannot cancel an offer it has not created yet.
		if op.CancelSeq != 0 && op.CancelSeq >= t.SeqNum {
			return ErrInvalidCancelSeq
		}
	case t.OfferCancel != nil:
		if t.OfferCancel.OfferSeq == 0 || t.OfferCancel.OfferSeq >= t.SeqNum {
			return ErrInvalidCancelSeq
		}
	}
	return nil
}

// SigningPayload returns the canonical bytes the signature covers,
// the encoding of the transaction with the signature cleared.
func (t *Tx) SigningPayload() ([]byte, error) {
	c := t.Clone()
	c.Signature = ""
	return Encode(c)
}
