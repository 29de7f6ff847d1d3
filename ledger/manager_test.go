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
	"crypto/sha256"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veloledger/go-veloledger/account"
	"github.com/veloledger/go-veloledger/db"
	_ "github.com/veloledger/go-veloledger/db/memdb"
	"github.com/veloledger/go-veloledger/types"
)

func newTestManager(t *testing.T) (*Manager, *account.Manager) {
	t.Helper()
	ctor, err := db.GetBackend("memory")
	assert.Nil(t, err)
	database := ctor("")

	networkID := sha256.Sum256([]byte("velo-testnet"))
	am := account.NewManager(database, 100)
	lm := NewManager(&ManagerContext{
		Database:  database,
		AM:        am,
		NetworkID: networkID,
	})
	assert.Nil(t, lm.CreateGenesisLedger())
	return lm, am
}

// transferTx moves the payment amount and burns the fee, the
// shape of a confirmed payment without the admission machinery.
func transferTx(view *OpenView, tx *types.Tx) {
	src, _ := view.ReadAccount(tx.AccountID)
	src.Balance -= tx.Fee + tx.Payment.Amount
	src.SeqNum++
	view.WriteAccount(src)
	view.DestroyBalance(tx.Fee)

	dst, ok := view.ReadAccount(tx.Payment.DstAccountID)
	if !ok {
		dst = types.NewAccount(tx.Payment.DstAccountID)
	}
	dst.Balance += tx.Payment.Amount
	view.WriteAccount(dst)
}

func TestCreateGenesisLedger(t *testing.T) {
	lm, am := newTestManager(t)

	header := lm.CurrentHeader()
	assert.Equal(t, GenesisSeqNum, header.SeqNum)
	assert.Equal(t, GenesisBaseFee, header.BaseFee)
	assert.Equal(t, GenesisTotalSupply, header.TotalSupply)
	assert.NotEqual(t, "", header.StateHash)
	assert.Equal(t, int64(0), lm.ClosedCount())

	// The master account holds the entire supply.
	master, ok := lm.CurrentSnapshot().ReadAccount(am.Master())
	assert.True(t, ok)
	assert.Equal(t, GenesisTotalSupply, master.Balance)

	// The genesis snapshot is sealed against application.
	view := NewOpenView(lm.CurrentSnapshot())
	assert.Equal(t, ErrSnapshotSealed, view.Apply(lm.CurrentSnapshot()))
}

func TestCloseLedger(t *testing.T) {
	lm, am := newTestManager(t)
	prevHeader := lm.CurrentHeader()

	tx := &types.Tx{
		AccountID: am.Master(),
		Fee:       GenesisBaseFee,
		SeqNum:    1,
		Payment:   &types.PaymentOp{DstAccountID: "payee", Amount: 5000},
	}
	prevHash, err := types.SHA256Hash(prevHeader)
	assert.Nil(t, err)
	txSet := &types.TxSet{PrevLedgerHash: prevHash, TxList: []*types.Tx{tx}}

	snapshot, err := lm.CloseLedger(txSet, transferTx)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), lm.ClosedCount())

	header := snapshot.Header()
	assert.Equal(t, prevHeader.SeqNum+1, header.SeqNum)
	assert.Equal(t, prevHash, header.PrevLedgerHash)
	wantTxHash, err := types.GetTxSetHash(txSet)
	assert.Nil(t, err)
	assert.Equal(t, wantTxHash, header.TxListHash)

	// The fee left the supply, the payment stayed in it.
	assert.Equal(t, GenesisTotalSupply-GenesisBaseFee, header.TotalSupply)
	payee, ok := snapshot.ReadAccount("payee")
	assert.True(t, ok)
	assert.Equal(t, int64(5000), payee.Balance)

	// Closed account state is persisted for restarts.
	master, err := am.GetAccount(lm.database, am.Master())
	assert.Nil(t, err)
	assert.Equal(t, GenesisTotalSupply-GenesisBaseFee-5000, master.Balance)
	assert.Equal(t, uint64(2), master.SeqNum)
}

// The staging loop reads the current header while the event loop
// replaces the snapshot, so the accessors must stay safe under
// concurrent closes.
func TestCurrentHeaderConcurrentClose(t *testing.T) {
	lm, am := newTestManager(t)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var lastSeq uint64
		for {
			select {
			case <-done:
				return
			default:
			}
			header := lm.CurrentHeader()
			assert.GreaterOrEqual(t, header.SeqNum, lastSeq)
			lastSeq = header.SeqNum
			lm.CurrentSnapshot()
			lm.ClosedCount()
		}
	}()

	for i := 0; i < 5; i++ {
		tx := &types.Tx{
			AccountID: am.Master(),
			Fee:       GenesisBaseFee,
			SeqNum:    uint64(i + 1),
			Payment:   &types.PaymentOp{DstAccountID: "payee", Amount: 100},
		}
		prevHash, err := types.SHA256Hash(lm.CurrentHeader())
		assert.Nil(t, err)
		txSet := &types.TxSet{PrevLedgerHash: prevHash, TxList: []*types.Tx{tx}}
		_, err = lm.CloseLedger(txSet, transferTx)
		assert.Nil(t, err)
	}
	close(done)
	wg.Wait()

	assert.Equal(t, int64(5), lm.ClosedCount())
	assert.Equal(t, GenesisSeqNum+5, lm.CurrentHeader().SeqNum)
}

// Two nodes closing the same tx set over the same genesis reach
// bit-identical state hashes.
func TestCloseLedgerDeterministic(t *testing.T) {
	lm1, am1 := newTestManager(t)
	lm2, am2 := newTestManager(t)
	assert.Equal(t, am1.Master(), am2.Master())

	var txList []*types.Tx
	for i, payee := range []string{"carol", "alice", "bob"} {
		txList = append(txList, &types.Tx{
			AccountID: am1.Master(),
			Fee:       GenesisBaseFee,
			SeqNum:    uint64(i + 1),
			Payment:   &types.PaymentOp{DstAccountID: payee, Amount: int64(1000 * (i + 1))},
		})
	}

	prevHash, err := types.SHA256Hash(lm1.CurrentHeader())
	assert.Nil(t, err)
	txSet := &types.TxSet{PrevLedgerHash: prevHash, TxList: txList}

	s1, err := lm1.CloseLedger(txSet, transferTx)
	assert.Nil(t, err)
	s2, err := lm2.CloseLedger(txSet, transferTx)
	assert.Nil(t, err)

	assert.Equal(t, s1.Header().StateHash, s2.Header().StateHash)
	assert.Equal(t, s1.Header().TxListHash, s2.Header().TxListHash)
	assert.Equal(t, s1.Header().TotalSupply, s2.Header().TotalSupply)
}
