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
	"fmt"
	"sync"

	"github.com/deckarep/golang-set"
	lru "github.com/hashicorp/golang-lru"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/veloledger/go-veloledger/account"
	"github.com/veloledger/go-veloledger/db"
	"github.com/veloledger/go-veloledger/fee"
	"github.com/veloledger/go-veloledger/ledger"
	"github.com/veloledger/go-veloledger/log"
	"github.com/veloledger/go-veloledger/types"
)

// StatusCode classifies the lifecycle of a submitted transaction.
type StatusCode int32

const (
	StatusNotExist StatusCode = iota
	StatusRejected
	StatusAccepted
	StatusConfirmed
	StatusFailed
)

func (s StatusCode) String() string {
	switch s {
	case StatusRejected:
		return "rejected"
	case StatusAccepted:
		return "accepted"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	default:
		return "notexist"
	}
}

// Status records the admission outcome of a transaction.
type Status struct {
	StatusCode   StatusCode
	ResultCode   ResultCode
	ErrorMessage string
}

// ManagerContext represents contextual information Manager needs.
type ManagerContext struct {
	Database   db.Database      // database instance
	AM         *account.Manager // account manager
	LM         *ledger.Manager  // ledger manager
	Engine     *fee.Engine      // fee engine of the admission window
	FeeMultMax int64            // autofilled fee cap as a multiple of the base fee
}

func ValidateManagerContext(mc *ManagerContext) error {
	if mc == nil {
		return fmt.Errorf("tx context is nil")
	}
	if mc.Database == nil {
		return fmt.Errorf("database instance is nil")
	}
	if mc.AM == nil {
		return fmt.Errorf("account manager is nil")
	}
	if mc.LM == nil {
		return fmt.Errorf("ledger manager is nil")
	}
	if mc.Engine == nil {
		return fmt.Errorf("fee engine is nil")
	}
	return nil
}

// Manager admits incoming transactions against a speculative view
// of the current ledger and hands admitted sets to the ledger
// manager at close.
type Manager struct {
	database db.Database
	bucket   string

	am     *account.Manager
	lm     *ledger.Manager
	engine *fee.Engine

	feeMultMax int64

	applier *Applier

	rw sync.RWMutex

	// speculative view over the current closed snapshot, rebuilt
	// at every ledger close
	view *ledger.OpenView

	// transactions status
	txStatus *lru.Cache

	// transactions waiting to be included in the ledger
	txSet mapset.Set

	// accountID to tx history map
	accTxMap map[string]*TxHistory

	// tx to accountID map for convenient handling of
	// tx that need to be deleted
	txAccMap map[string]string
}

// NewManager creates an instance of Manager with ManagerContext.
func NewManager(ctx *ManagerContext) *Manager {
	if err := ValidateManagerContext(ctx); err != nil {
		log.Fatalf("tx manager context is invalid: %v", err)
	}
	m := &Manager{
		database:   ctx.Database,
		bucket:     "TX",
		am:         ctx.AM,
		lm:         ctx.LM,
		engine:     ctx.Engine,
		feeMultMax: ctx.FeeMultMax,
		applier:    NewApplier(ctx.Engine),
		txSet:      mapset.NewSet(),
		accTxMap:   make(map[string]*TxHistory),
		txAccMap:   make(map[string]string),
	}
	err := m.database.NewBucket(m.bucket)
	if err != nil {
		log.Fatalf("create tx bucket failed: %v", err)
	}
	cache, err := lru.New(10000)
	if err != nil {
		log.Fatalf("create tx status LRU cache failed: %v", err)
	}
	m.txStatus = cache
	m.view = ledger.NewOpenView(m.lm.CurrentSnapshot())
	return m
}

// AddTx admits a transaction to the pending set by applying it
// speculatively to the open view. The returned result mirrors
// what a closed-ledger application would report at the current
// fee level.
func (m *Manager) AddTx(t *types.Tx) (Result, error) {
	txKey, err := types.GetTxKey(t)
	if err != nil {
		return Result{Code: CodeBadOperation}, fmt.Errorf("compute tx key failed: %v", err)
	}

	m.rw.Lock()
	defer m.rw.Unlock()

	if m.txSet.Contains(txKey) {
		// directly return for duplicate tx
		if s, ok := m.txStatus.Get(txKey); ok {
			st := s.(*Status)
			return Result{Code: st.ResultCode, Applied: st.StatusCode == StatusAccepted}, nil
		}
		return Result{Code: CodeSuccess, Applied: true}, nil
	}

	res := m.applier.Apply(m.view, t, ApplyNone)
	if !res.Applied {
		status := &Status{StatusCode: StatusRejected, ResultCode: res.Code}
		if err := m.updateTxStatus(txKey, status); err != nil {
			log.Errorw("update tx status failed", "tx", txKey, "err", err)
		}
		return res, nil
	}

	if _, ok := m.accTxMap[t.AccountID]; !ok {
		m.accTxMap[t.AccountID] = NewTxHistory()
	}
	if err := m.accTxMap[t.AccountID].AddTx(txKey, t); err != nil {
		return Result{Code: CodePastSeq}, fmt.Errorf("append tx history failed: %v", err)
	}
	m.txAccMap[txKey] = t.AccountID
	m.txSet.Add(txKey)

	// every admitted transaction occupies a slot in the window
	// whatever its eventual operation outcome is
	m.engine.TxAccepted()

	status := &Status{StatusCode: StatusAccepted, ResultCode: res.Code}
	if err := m.updateTxStatus(txKey, status); err != nil {
		return res, fmt.Errorf("update tx status failed: %v", err)
	}

	return res, nil
}

// Autofill resolves fee and sequence for a submission against
// the manager's speculative view.
func (m *Manager) Autofill(req *AutofillRequest) (int64, uint64, error) {
	m.rw.RLock()
	defer m.rw.RUnlock()
	return Autofill(req, m.view, m.engine, m.feeMultMax)
}

// PendingCount reports the number of admitted transactions
// waiting for a ledger.
func (m *Manager) PendingCount() int {
	m.rw.RLock()
	defer m.rw.RUnlock()
	return m.txSet.Cardinality()
}

// GetTxList returns the pending transactions in deterministic
// order for proposing a tx set.
func (m *Manager) GetTxList() []*types.Tx {
	m.rw.RLock()
	defer m.rw.RUnlock()

	var txList []*types.Tx
	for _, txh := range m.accTxMap {
		txs := txh.GetTxList()
		txList = append(txList, txs...)
	}
	types.SortTxs(txList)

	return txList
}

// OnLedgerClosed renews the speculative view on top of the newly
// closed snapshot, marks the confirmed transactions and resets
// the fee window.
func (m *Manager) OnLedgerClosed(confirmed []*types.Tx) {
	m.rw.Lock()
	defer m.rw.Unlock()

	m.deleteTxList(confirmed)
	for _, t := range confirmed {
		txKey, err := types.GetTxKey(t)
		if err != nil {
			continue
		}
		status := &Status{StatusCode: StatusConfirmed, ResultCode: CodeSuccess}
		if err := m.updateTxStatus(txKey, status); err != nil {
			log.Errorw("update tx status failed", "tx", txKey, "err", err)
		}
	}

	m.engine.LedgerClosed()
	m.view = ledger.NewOpenView(m.lm.CurrentSnapshot())

	// replay the survivors against the fresh view so the window
	// reflects what is still pending
	pending := m.pendingTxList()
	m.txSet.Clear()
	m.accTxMap = make(map[string]*TxHistory)
	m.txAccMap = make(map[string]string)
	for _, t := range pending {
		txKey, err := types.GetTxKey(t)
		if err != nil {
			continue
		}
		res := m.applier.Apply(m.view, t, ApplySkipSigCheck)
		if !res.Applied {
			status := &Status{StatusCode: StatusFailed, ResultCode: res.Code}
			if err := m.updateTxStatus(txKey, status); err != nil {
				log.Errorw("update tx status failed", "tx", txKey, "err", err)
			}
			continue
		}
		if _, ok := m.accTxMap[t.AccountID]; !ok {
			m.accTxMap[t.AccountID] = NewTxHistory()
		}
		if err := m.accTxMap[t.AccountID].AddTx(txKey, t); err != nil {
			continue
		}
		m.txAccMap[txKey] = t.AccountID
		m.txSet.Add(txKey)
		m.engine.TxAccepted()
	}
}

// GetTxStatus returns the recorded status of a transaction.
func (m *Manager) GetTxStatus(txKey string) (*Status, error) {
	if s, ok := m.txStatus.Get(txKey); ok {
		return s.(*Status), nil
	}

	b, err := m.database.Get(m.bucket, []byte(txKey))
	if err != nil {
		return nil, fmt.Errorf("query status from db failed: %v", err)
	}
	if b == nil {
		return &Status{StatusCode: StatusNotExist}, nil
	}

	status, err := decodeStatus(b)
	if err != nil {
		return nil, fmt.Errorf("decode status failed: %v", err)
	}

	return status, nil
}

func (m *Manager) updateTxStatus(txKey string, status *Status) error {
	m.txStatus.Add(txKey, status)

	b, err := types.Encode(status)
	if err != nil {
		return fmt.Errorf("encode status failed: %v", err)
	}

	err = m.database.Put(m.bucket, []byte(txKey), b)
	if err != nil {
		return fmt.Errorf("save status in db failed: %v", err)
	}

	return nil
}

func decodeStatus(b []byte) (*Status, error) {
	s := &Status{}
	if err := msgpack.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) pendingTxList() []*types.Tx {
	var txList []*types.Tx
	for _, txh := range m.accTxMap {
		txList = append(txList, txh.GetTxList()...)
	}
	types.SortTxs(txList)
	return txList
}

func (m *Manager) deleteTxList(txList []*types.Tx) {
	for _, t := range txList {
		txKey, err := types.GetTxKey(t)
		if err != nil {
			continue
		}
		if acc, ok := m.txAccMap[txKey]; ok {
			if th, ok := m.accTxMap[acc]; ok {
				th.DeleteTx(txKey)
				if th.Size() == 0 {
					delete(m.accTxMap, acc)
				}
			}
			delete(m.txAccMap, txKey)
		}
		m.txSet.Remove(txKey)
	}
}
