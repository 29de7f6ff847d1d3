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

package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veloledger/go-veloledger/crypto"
	"github.com/veloledger/go-veloledger/ledger"
	"github.com/veloledger/go-veloledger/types"
)

type testAccount struct {
	SigningKey string
	Seed       string
	AccountID  string
}

func newTestAccount(t *testing.T) *testAccount {
	t.Helper()
	signingKey, seed, err := crypto.GenerateKeypair(crypto.AlgoEd25519)
	assert.Nil(t, err)
	accountID, err := crypto.AccountID(signingKey)
	assert.Nil(t, err)
	return &testAccount{SigningKey: signingKey, Seed: seed, AccountID: accountID}
}

func signTx(t *testing.T, tx *types.Tx, seed string) {
	t.Helper()
	payload, err := tx.SigningPayload()
	assert.Nil(t, err)
	sig, err := crypto.Sign(seed, payload)
	assert.Nil(t, err)
	tx.Signature = sig
}

func nativeAsset() *types.Asset {
	return &types.Asset{AssetType: types.AssetTypeNative, AssetName: "VLO"}
}

func paymentTx(t *testing.T, src *testAccount, dst string, amount, feeVal int64, seq uint64) *types.Tx {
	t.Helper()
	tx := &types.Tx{
		AccountID:  src.AccountID,
		Fee:        feeVal,
		SeqNum:     seq,
		SigningKey: src.SigningKey,
		Payment: &types.PaymentOp{
			DstAccountID: dst,
			Asset:        nativeAsset(),
			Amount:       amount,
		},
	}
	signTx(t, tx, src.Seed)
	return tx
}

// newTestView builds an open view over a fresh snapshot seeded
// with the given account balances.
func newTestView(t *testing.T, baseFee int64, balances map[string]int64) *ledger.OpenView {
	t.Helper()
	header := &types.LedgerHeader{
		Version:     1,
		SeqNum:      1,
		BaseFee:     baseFee,
		TotalSupply: ledger.GenesisTotalSupply,
	}
	snapshot := ledger.NewSnapshot(header, ledger.DefaultFeatureSet())
	seeder := ledger.NewOpenView(snapshot)
	for id, balance := range balances {
		acc := types.NewAccount(id)
		acc.Balance = balance
		seeder.WriteAccount(acc)
	}
	assert.Nil(t, seeder.Apply(snapshot))
	return ledger.NewOpenView(snapshot)
}

func TestApplyPayment(t *testing.T) {
	src := newTestAccount(t)
	dst := newTestAccount(t)
	view := newTestView(t, 10, map[string]int64{src.AccountID: 1000})

	tx := paymentTx(t, src, dst.AccountID, 300, 10, 1)
	res := Apply(view, tx, ApplyNone)

	assert.Equal(t, CodeSuccess, res.Code)
	assert.True(t, res.Applied)
	assert.Equal(t, FamilySuccess, res.Code.Family())

	acc, ok := view.ReadAccount(src.AccountID)
	assert.True(t, ok)
	assert.Equal(t, int64(690), acc.Balance)
	assert.Equal(t, uint64(2), acc.SeqNum)

	// The payee did not exist and gets created by the payment.
	dacc, ok := view.ReadAccount(dst.AccountID)
	assert.True(t, ok)
	assert.Equal(t, int64(300), dacc.Balance)

	// Only the fee leaves the supply.
	assert.Equal(t, int64(10), view.Destroyed())
}

func TestApplyFeeClaimedWhenShort(t *testing.T) {
	dst := newTestAccount(t)
	view := newTestView(t, 10, nil)

	// Several accounts each hold less than the fee they offer.
	var destroyed int64
	for _, balance := range []int64{1, 5, 9} {
		src := newTestAccount(t)
		acc := types.NewAccount(src.AccountID)
		acc.Balance = balance
		view.WriteAccount(acc)

		tx := paymentTx(t, src, dst.AccountID, 100, 10, 1)
		res := Apply(view, tx, ApplyNone)

		assert.Equal(t, CodeFeeClaimed, res.Code)
		assert.True(t, res.Applied)
		assert.Equal(t, FamilyClaimed, res.Code.Family())

		got, ok := view.ReadAccount(src.AccountID)
		assert.True(t, ok)
		assert.Equal(t, int64(0), got.Balance)
		assert.Equal(t, uint64(2), got.SeqNum)

		destroyed += balance
		assert.Equal(t, destroyed, view.Destroyed())
	}

	// The payment itself never went through.
	_, ok := view.ReadAccount(dst.AccountID)
	assert.False(t, ok)
}

func TestApplyDisallowedAlgorithm(t *testing.T) {
	edSrc := newTestAccount(t)
	k1Signing, _, err := crypto.GenerateKeypair(crypto.AlgoSecp256k1)
	assert.Nil(t, err)
	k1AccountID, err := crypto.AccountID(k1Signing)
	assert.Nil(t, err)

	view := newTestView(t, 10, map[string]int64{
		edSrc.AccountID: 1000,
		k1AccountID:     1000,
	})

	r1Key := crypto.EncodeSigningKey(&crypto.SigningKey{
		Algo:   crypto.AlgoSecp256r1,
		PubKey: []byte("r1-public-key-bytes"),
	})

	// The rejection is uniform whatever algorithm the account
	// otherwise signs with.
	for _, accountID := range []string{edSrc.AccountID, k1AccountID} {
		tx := &types.Tx{
			AccountID:  accountID,
			Fee:        10,
			SeqNum:     1,
			SigningKey: r1Key,
			Signature:  "bogus",
			Payment: &types.PaymentOp{
				DstAccountID: accountID,
				Asset:        nativeAsset(),
				Amount:       100,
			},
		}

		res := Apply(view, tx, ApplyNone)
		assert.Equal(t, CodeBadSigningAlgorithm, res.Code)
		assert.False(t, res.Applied)
		assert.Equal(t, FamilyMalformed, res.Code.Family())

		// Rejection must precede any account lookup or mutation.
		acc, ok := view.ReadAccount(accountID)
		assert.True(t, ok)
		assert.Equal(t, int64(1000), acc.Balance)
		assert.Equal(t, uint64(1), acc.SeqNum)
	}
	assert.Equal(t, int64(0), view.Destroyed())

	// Same rejection for an account that does not exist at all,
	// the key policy wins over the missing-account code.
	tx := &types.Tx{
		AccountID:  "nonexistent",
		Fee:        10,
		SeqNum:     1,
		SigningKey: r1Key,
		Signature:  "bogus",
		Payment: &types.PaymentOp{
			DstAccountID: edSrc.AccountID,
			Asset:        nativeAsset(),
			Amount:       100,
		},
	}
	res := Apply(view, tx, ApplyNone)
	assert.Equal(t, CodeBadSigningAlgorithm, res.Code)
}

func TestApplySequenceGating(t *testing.T) {
	src := newTestAccount(t)
	dst := newTestAccount(t)
	view := newTestView(t, 10, map[string]int64{src.AccountID: 1000})

	acc, _ := view.ReadAccount(src.AccountID)
	acc.SeqNum = 5
	view.WriteAccount(acc)

	stale := paymentTx(t, src, dst.AccountID, 100, 10, 3)
	res := Apply(view, stale, ApplyNone)
	assert.Equal(t, CodePastSeq, res.Code)
	assert.False(t, res.Applied)
	assert.Equal(t, FamilyRetry, res.Code.Family())

	future := paymentTx(t, src, dst.AccountID, 100, 10, 9)
	res = Apply(view, future, ApplyNone)
	assert.Equal(t, CodeFutureSeq, res.Code)
	assert.False(t, res.Applied)

	got, _ := view.ReadAccount(src.AccountID)
	assert.Equal(t, int64(1000), got.Balance)
	assert.Equal(t, uint64(5), got.SeqNum)
	assert.Equal(t, int64(0), view.Destroyed())
}

func TestApplyInsufficientFee(t *testing.T) {
	src := newTestAccount(t)
	dst := newTestAccount(t)
	view := newTestView(t, 10, map[string]int64{src.AccountID: 1000})

	tx := paymentTx(t, src, dst.AccountID, 100, 9, 1)
	res := Apply(view, tx, ApplyNone)

	assert.Equal(t, CodeInsufficientFee, res.Code)
	assert.False(t, res.Applied)

	acc, _ := view.ReadAccount(src.AccountID)
	assert.Equal(t, int64(1000), acc.Balance)
	assert.Equal(t, uint64(1), acc.SeqNum)
}

func TestApplyBadSignature(t *testing.T) {
	src := newTestAccount(t)
	other := newTestAccount(t)
	dst := newTestAccount(t)
	view := newTestView(t, 10, map[string]int64{src.AccountID: 1000})

	// Signed by a different key than the one declared.
	tx := paymentTx(t, src, dst.AccountID, 100, 10, 1)
	sig, err := crypto.Sign(other.Seed, []byte("wrong payload"))
	assert.Nil(t, err)
	tx.Signature = sig

	res := Apply(view, tx, ApplyNone)
	assert.Equal(t, CodeBadSignature, res.Code)
	assert.False(t, res.Applied)

	// Valid signature but the signing key does not derive the
	// declared account.
	tx = paymentTx(t, src, dst.AccountID, 100, 10, 1)
	tx.AccountID = other.AccountID
	signTx(t, tx, src.Seed)
	res = Apply(view, tx, ApplyNone)
	assert.Equal(t, CodeBadSignature, res.Code)
}

func TestApplySkipSigCheck(t *testing.T) {
	src := newTestAccount(t)
	dst := newTestAccount(t)
	view := newTestView(t, 10, map[string]int64{src.AccountID: 1000})

	tx := paymentTx(t, src, dst.AccountID, 100, 10, 1)
	tx.Signature = "replaced-after-admission"

	res := Apply(view, tx, ApplySkipSigCheck)
	assert.Equal(t, CodeSuccess, res.Code)
	assert.True(t, res.Applied)
}

func TestApplyUnderfundedOperation(t *testing.T) {
	src := newTestAccount(t)
	dst := newTestAccount(t)
	view := newTestView(t, 10, map[string]int64{src.AccountID: 100})

	// Fee is covered but the payment amount is not.
	tx := paymentTx(t, src, dst.AccountID, 500, 10, 1)
	res := Apply(view, tx, ApplyNone)

	assert.Equal(t, CodeUnfunded, res.Code)
	assert.True(t, res.Applied)
	assert.Equal(t, FamilyClaimed, res.Code.Family())

	// Fee and sequence are consumed, the operation is not.
	acc, _ := view.ReadAccount(src.AccountID)
	assert.Equal(t, int64(90), acc.Balance)
	assert.Equal(t, uint64(2), acc.SeqNum)
	_, ok := view.ReadAccount(dst.AccountID)
	assert.False(t, ok)
	assert.Equal(t, int64(10), view.Destroyed())
}

func TestApplyMalformed(t *testing.T) {
	src := newTestAccount(t)
	view := newTestView(t, 10, map[string]int64{src.AccountID: 1000})

	// No operation at all.
	tx := &types.Tx{AccountID: src.AccountID, Fee: 10, SeqNum: 1, SigningKey: src.SigningKey}
	signTx(t, tx, src.Seed)
	res := Apply(view, tx, ApplyNone)
	assert.Equal(t, CodeBadOperation, res.Code)
	assert.False(t, res.Applied)

	// Non-positive amount.
	tx = paymentTx(t, src, src.AccountID, 100, 10, 1)
	tx.Payment.Amount = -5
	signTx(t, tx, src.Seed)
	res = Apply(view, tx, ApplyNone)
	assert.Equal(t, CodeBadAmount, res.Code)

	acc, _ := view.ReadAccount(src.AccountID)
	assert.Equal(t, int64(1000), acc.Balance)
	assert.Equal(t, uint64(1), acc.SeqNum)
}

func TestApplyNonNativePayment(t *testing.T) {
	src := newTestAccount(t)
	dst := newTestAccount(t)
	issuer := newTestAccount(t)
	view := newTestView(t, 10, map[string]int64{src.AccountID: 1000})

	tx := paymentTx(t, src, dst.AccountID, 300, 10, 1)
	tx.Payment.Asset = &types.Asset{
		AssetType: types.AssetTypeCustom,
		AssetName: "USD",
		Issuer:    issuer.AccountID,
	}
	signTx(t, tx, src.Seed)

	res := Apply(view, tx, ApplyNone)
	assert.Equal(t, CodeBadOperation, res.Code)
	assert.False(t, res.Applied)
	assert.Equal(t, FamilyMalformed, res.Code.Family())

	// Balances only exist in drips, so nothing may move.
	acc, _ := view.ReadAccount(src.AccountID)
	assert.Equal(t, int64(1000), acc.Balance)
	assert.Equal(t, uint64(1), acc.SeqNum)
	_, ok := view.ReadAccount(dst.AccountID)
	assert.False(t, ok)
}
