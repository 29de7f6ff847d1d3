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
	"fmt"
	"sync"
	"time"

	"github.com/veloledger/go-veloledger/account"
	"github.com/veloledger/go-veloledger/crypto"
	"github.com/veloledger/go-veloledger/db"
	"github.com/veloledger/go-veloledger/log"
	"github.com/veloledger/go-veloledger/types"
)

var (
	GenesisVersion       = uint32(1)
	GenesisMaxTxListSize = uint32(100)
	GenesisSeqNum        = uint64(1)
	GenesisTotalSupply   = int64(4500000000000000000)
	GenesisBaseFee       = int64(10)
)

// Database key of the latest closed ledger header.
const headKey = "HEAD"

// ManagerContext carries the dependencies the ledger manager
// needs.
type ManagerContext struct {
	Database db.Database
	AM       *account.Manager
	// Hash identifying the network, the master account derives
	// from it.
	NetworkID [32]byte
	// Overrides for genesis parameters, zero means default.
	BaseFee     int64
	TotalSupply int64
	// Capabilities of the initial era, nil means default.
	Features *FeatureSet
}

func ValidateManagerContext(mc *ManagerContext) error {
	if mc == nil {
		return fmt.Errorf("ledger manager context is nil")
	}
	if mc.Database == nil {
		return fmt.Errorf("database instance is nil")
	}
	if mc.AM == nil {
		return fmt.Errorf("account manager is nil")
	}
	return nil
}

// Manager owns the chain of closed snapshots and drives the
// close pipeline: stage a successor, apply the agreed tx set,
// seal and persist.
type Manager struct {
	database db.Database
	bucket   string

	offerBucket string

	am *account.Manager

	networkID [32]byte
	features  *FeatureSet

	baseFee     int64
	totalSupply int64

	// Current closed snapshot, read concurrently with closing.
	rw      sync.RWMutex
	current *Snapshot
	// Start timestamp of the manager.
	startTime int64
	// Number of ledgers closed by this manager.
	closedCount int64
}

func NewManager(ctx *ManagerContext) *Manager {
	if err := ValidateManagerContext(ctx); err != nil {
		log.Fatalf("ledger manager context is invalid: %v", err)
	}
	lm := &Manager{
		database:    ctx.Database,
		bucket:      "LEDGER",
		offerBucket: "OFFER",
		am:          ctx.AM,
		networkID:   ctx.NetworkID,
		features:    ctx.Features,
		baseFee:     ctx.BaseFee,
		totalSupply: ctx.TotalSupply,
		startTime:   time.Now().Unix(),
	}
	if lm.features == nil {
		lm.features = DefaultFeatureSet()
	}
	if lm.baseFee == 0 {
		lm.baseFee = GenesisBaseFee
	}
	if lm.totalSupply == 0 {
		lm.totalSupply = GenesisTotalSupply
	}
	for _, b := range []string{lm.bucket, lm.offerBucket} {
		if err := lm.database.NewBucket(b); err != nil {
			log.Fatalf("create db bucket %s failed: %v", b, err)
		}
	}
	return lm
}

// CreateGenesisLedger seals the first snapshot with the master
// account holding the entire supply.
func (lm *Manager) CreateGenesisLedger() error {
	masterID, err := lm.am.CreateMasterAccount(lm.networkID[:], lm.totalSupply)
	if err != nil {
		return fmt.Errorf("create master account failed: %v", err)
	}

	header := &types.LedgerHeader{
		Version:       GenesisVersion,
		SeqNum:        GenesisSeqNum,
		BaseFee:       lm.baseFee,
		TotalSupply:   lm.totalSupply,
		MaxTxListSize: GenesisMaxTxListSize,
		CloseTime:     time.Now().Unix(),
		Features:      lm.features.Names(),
	}

	genesis := NewSnapshot(header, lm.features)
	master, err := lm.am.GetAccount(lm.database, masterID)
	if err != nil {
		return fmt.Errorf("load master account failed: %v", err)
	}
	genesis.putAccount(master)

	if header.StateHash, err = genesis.StateHash(); err != nil {
		return fmt.Errorf("compute genesis state hash failed: %v", err)
	}
	genesis.Seal()

	if err := lm.saveHeader(lm.database, header); err != nil {
		return err
	}
	lm.rw.Lock()
	lm.current = genesis
	lm.rw.Unlock()

	log.Infow("created genesis ledger", "stateHash", header.StateHash, "totalSupply", header.TotalSupply)

	return nil
}

// CurrentSnapshot returns the latest closed snapshot.
func (lm *Manager) CurrentSnapshot() *Snapshot {
	lm.rw.RLock()
	defer lm.rw.RUnlock()
	return lm.current
}

// CurrentHeader returns the header of the latest closed snapshot.
func (lm *Manager) CurrentHeader() *types.LedgerHeader {
	lm.rw.RLock()
	defer lm.rw.RUnlock()
	return lm.current.Header()
}

// ClosedCount returns how many ledgers this manager has closed.
func (lm *Manager) ClosedCount() int64 {
	lm.rw.RLock()
	defer lm.rw.RUnlock()
	return lm.closedCount
}

// CloseLedger stages the successor of the current snapshot,
// applies the transaction set in order through applyTx, seals the
// result and persists it in one database transaction. The applyTx
// callback owns per-transaction semantics, the manager owns
// ordering, commitment and the header chain.
func (lm *Manager) CloseLedger(txSet *types.TxSet, applyTx func(*OpenView, *types.Tx)) (*Snapshot, error) {
	prevHash, err := types.SHA256Hash(lm.current.Header())
	if err != nil {
		return nil, fmt.Errorf("hash prev ledger header failed: %v", err)
	}

	next := lm.current.Clone()
	header := next.Header()
	header.SeqNum++
	header.PrevLedgerHash = prevHash
	header.CloseTime = time.Now().Unix()

	view := NewOpenView(next)
	for _, tx := range txSet.TxList {
		applyTx(view, tx)
	}
	if err := view.Apply(next); err != nil {
		return nil, fmt.Errorf("apply open view failed: %v", err)
	}

	if header.TxListHash, err = types.GetTxSetHash(txSet); err != nil {
		return nil, fmt.Errorf("hash tx set failed: %v", err)
	}
	if header.StateHash, err = next.StateHash(); err != nil {
		return nil, fmt.Errorf("compute state hash failed: %v", err)
	}
	next.Seal()

	if err := lm.persist(next); err != nil {
		return nil, err
	}

	lm.rw.Lock()
	lm.current = next
	lm.closedCount++
	lm.rw.Unlock()

	log.Infow("closed ledger",
		"seqNum", header.SeqNum,
		"txCount", len(txSet.TxList),
		"stateHash", header.StateHash,
		"totalSupply", header.TotalSupply)

	return next, nil
}

// Persist the snapshot state and header atomically.
func (lm *Manager) persist(s *Snapshot) error {
	dt, err := lm.database.Begin()
	if err != nil {
		return fmt.Errorf("begin db tx failed: %v", err)
	}

	for _, id := range s.AccountIDs() {
		acc, _ := s.ReadAccount(id)
		if err := lm.am.SaveAccount(dt, acc); err != nil {
			dt.Rollback()
			return fmt.Errorf("save account failed: %v", err)
		}
	}
	for _, k := range s.OfferKeys() {
		offer, _ := s.ReadOffer(k)
		b, err := types.Encode(offer)
		if err != nil {
			dt.Rollback()
			return fmt.Errorf("encode offer failed: %v", err)
		}
		if err := dt.Put(lm.offerBucket, []byte(k), b); err != nil {
			dt.Rollback()
			return fmt.Errorf("save offer failed: %v", err)
		}
	}
	for _, k := range s.droppedOfferKeys() {
		if err := dt.Delete(lm.offerBucket, []byte(k)); err != nil {
			dt.Rollback()
			return fmt.Errorf("delete offer failed: %v", err)
		}
	}
	if err := lm.saveHeader(dt, s.Header()); err != nil {
		dt.Rollback()
		return err
	}

	if err := dt.Commit(); err != nil {
		return fmt.Errorf("commit ledger close failed: %v", err)
	}
	return nil
}

func (lm *Manager) saveHeader(putter db.Putter, header *types.LedgerHeader) error {
	b, err := types.Encode(header)
	if err != nil {
		return fmt.Errorf("encode ledger header failed: %v", err)
	}
	key := crypto.EncodeKey(&crypto.VeloKey{
		Code: crypto.KeyTypeLedgerHeader,
		Hash: crypto.SHA256HashBytes(b),
	})
	if err := putter.Put(lm.bucket, []byte(key), b); err != nil {
		return fmt.Errorf("save ledger header failed: %v", err)
	}
	// Track the chain head for restarts.
	if err := putter.Put(lm.bucket, []byte(headKey), b); err != nil {
		return fmt.Errorf("save head ledger header failed: %v", err)
	}
	return nil
}

// RestoreLedger rebuilds the current snapshot from the persisted
// chain head, accounts and offers.
func (lm *Manager) RestoreLedger() error {
	b, err := lm.database.Get(lm.bucket, []byte(headKey))
	if err != nil {
		return fmt.Errorf("query head ledger header failed: %v", err)
	}
	if b == nil {
		return fmt.Errorf("no persisted ledger head")
	}
	header, err := types.DecodeLedgerHeader(b)
	if err != nil {
		return fmt.Errorf("decode ledger header failed: %v", err)
	}

	features := NewFeatureSet(header.Features...)
	snapshot := NewSnapshot(header, features)

	accounts, err := lm.am.AllAccounts()
	if err != nil {
		return fmt.Errorf("load accounts failed: %v", err)
	}
	for _, acc := range accounts {
		snapshot.putAccount(acc)
	}

	offerBytes, err := lm.database.GetAll(lm.offerBucket, nil)
	if err != nil {
		return fmt.Errorf("load offers failed: %v", err)
	}
	for _, ob := range offerBytes {
		offer, err := types.DecodeOffer(ob)
		if err != nil {
			return fmt.Errorf("decode offer failed: %v", err)
		}
		snapshot.putOffer(offer)
	}

	// Restored state must hash to what the head header recorded.
	stateHash, err := snapshot.StateHash()
	if err != nil {
		return fmt.Errorf("compute state hash failed: %v", err)
	}
	if stateHash != header.StateHash {
		return fmt.Errorf("state hash mismatch: computed %s, head %s", stateHash, header.StateHash)
	}

	snapshot.Seal()
	lm.rw.Lock()
	lm.current = snapshot
	lm.rw.Unlock()
	lm.features = features

	log.Infow("restored ledger", "seqNum", header.SeqNum, "stateHash", header.StateHash)

	return nil
}
