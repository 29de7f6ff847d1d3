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

// Package tx implements the transaction applier and the
// admission machinery in front of it. The applier is the single
// authoritative decision point for whether a transaction takes
// effect against an open view.
package tx

import (
	"github.com/veloledger/go-veloledger/crypto"
	"github.com/veloledger/go-veloledger/fee"
	"github.com/veloledger/go-veloledger/ledger"
	"github.com/veloledger/go-veloledger/tx/op"
	"github.com/veloledger/go-veloledger/types"
)

// ApplyFlag adjusts how a transaction is applied.
type ApplyFlag uint32

const (
	ApplyNone ApplyFlag = 0
	// Skip signature verification, used when replaying
	// transactions whose signatures were checked at admission.
	// The signing-key algorithm policy still applies.
	ApplySkipSigCheck ApplyFlag = 1 << iota
)

// Applier applies transactions. An engine-aware applier holds
// submissions to the escalated fee of the current admission
// window, an engine-less one only to the ledger base fee, which
// is the deterministic setting used when closing a ledger.
type Applier struct {
	engine *fee.Engine
}

func NewApplier(engine *fee.Engine) *Applier {
	return &Applier{engine: engine}
}

// Apply is the engine-less application used on agreed tx sets.
func Apply(view *ledger.OpenView, t *types.Tx, flags ApplyFlag) Result {
	return (&Applier{}).Apply(view, t, flags)
}

// Apply validates the transaction against the view and either
// mutates the view and reports success, or reports a classified
// failure. Mutation on failure happens exactly in the claimed
// family: the fee (capped by the whole balance) and the sequence
// slot are consumed, nothing else.
func (a *Applier) Apply(view *ledger.OpenView, t *types.Tx, flags ApplyFlag) Result {
	// Structural checks, nothing is mutated in this section.
	if code := a.preflight(view, t, flags); code != CodeSuccess {
		return Result{Code: code, Applied: false}
	}

	acc, ok := view.ReadAccount(t.AccountID)
	if !ok {
		return Result{Code: CodeNoAccount, Applied: false}
	}

	if t.SeqNum < acc.SeqNum {
		return Result{Code: CodePastSeq, Applied: false}
	}
	if t.SeqNum > acc.SeqNum {
		return Result{Code: CodeFutureSeq, Applied: false}
	}

	if t.Fee < a.requiredFee(view) {
		return Result{Code: CodeInsufficientFee, Applied: false}
	}

	// The account signed for the fee, it cannot escape the
	// obligation by being short: whatever balance is left gets
	// destroyed and the sequence slot is consumed anyway.
	if acc.Balance < t.Fee {
		view.DestroyBalance(acc.Balance)
		acc.Balance = 0
		acc.SeqNum++
		view.WriteAccount(acc)
		return Result{Code: CodeFeeClaimed, Applied: true}
	}

	view.DestroyBalance(t.Fee)
	acc.Balance -= t.Fee
	acc.SeqNum++
	view.WriteAccount(acc)

	// Operation effects run in a nested view. A failure past the
	// fee point discards them while the fee and sequence charges
	// above stay.
	nested := view.Nest()
	if err := buildOp(t).Apply(nested); err != nil {
		return Result{Code: claimedCode(err), Applied: true}
	}
	nested.Flush()

	return Result{Code: CodeSuccess, Applied: true}
}

// preflight covers every check that must reject before any
// mutation: structure, signing-key policy and the signature
// itself.
func (a *Applier) preflight(view *ledger.OpenView, t *types.Tx, flags ApplyFlag) ResultCode {
	if err := t.Validate(); err != nil {
		return malformedCode(err)
	}

	sk, err := crypto.DecodeSigningKey(t.SigningKey)
	if err != nil {
		return CodeBadSigningAlgorithm
	}
	// Policy gates the algorithm before any verification is
	// attempted, whatever algorithm the account otherwise uses.
	if !view.Features().AlgorithmAllowed(sk.Algo) {
		return CodeBadSigningAlgorithm
	}

	if flags&ApplySkipSigCheck == 0 {
		derived, err := crypto.AccountID(t.SigningKey)
		if err != nil || derived != t.AccountID {
			return CodeBadSignature
		}
		payload, err := t.SigningPayload()
		if err != nil {
			return CodeBadSignature
		}
		if !crypto.VerifyByKey(sk, t.Signature, payload) {
			return CodeBadSignature
		}
	}

	return CodeSuccess
}

func (a *Applier) requiredFee(view *ledger.OpenView) int64 {
	if a.engine != nil && view.Features().Has(ledger.FeatureFeeEscalation) {
		return a.engine.RequiredFee()
	}
	return view.BaseFee()
}

func buildOp(t *types.Tx) op.Op {
	switch {
	case t.Payment != nil:
		return &op.Payment{
			SrcAccountID: t.AccountID,
			DstAccountID: t.Payment.DstAccountID,
			Amount:       t.Payment.Amount,
		}
	case t.OfferCreate != nil:
		return &op.OfferCreate{
			AccountID: t.AccountID,
			TxSeqNum:  t.SeqNum,
			Selling:   t.OfferCreate.Selling,
			Buying:    t.OfferCreate.Buying,
			Amount:    t.OfferCreate.Amount,
			Price:     t.OfferCreate.Price,
			CancelSeq: t.OfferCreate.CancelSeq,
		}
	case t.OfferCancel != nil:
		return &op.OfferCancel{
			AccountID: t.AccountID,
			OfferSeq:  t.OfferCancel.OfferSeq,
		}
	default:
		return &op.AccountSet{
			AccountID: t.AccountID,
			Signer:    t.AccountSet.Signer,
		}
	}
}

func malformedCode(err error) ResultCode {
	switch err {
	case types.ErrInvalidAmount, types.ErrInvalidPrice:
		return CodeBadAmount
	case types.ErrInvalidCancelSeq:
		return CodeBadCancelSeq
	default:
		return CodeBadOperation
	}
}

func claimedCode(err error) ResultCode {
	switch err {
	case op.ErrUnderfunded, op.ErrBalanceLimit:
		return CodeUnfunded
	case op.ErrNoTargetOffer:
		return CodeNoDst
	default:
		return CodeUnfunded
	}
}
