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

// Package node wires the managers together and runs the event
// and ledger close loops.
package node

import (
	"fmt"
	"time"

	"github.com/veloledger/go-veloledger/account"
	"github.com/veloledger/go-veloledger/api"
	"github.com/veloledger/go-veloledger/db"
	_ "github.com/veloledger/go-veloledger/db/boltdb"
	_ "github.com/veloledger/go-veloledger/db/leveldb"
	_ "github.com/veloledger/go-veloledger/db/memdb"
	"github.com/veloledger/go-veloledger/fee"
	"github.com/veloledger/go-veloledger/future"
	"github.com/veloledger/go-veloledger/ledger"
	"github.com/veloledger/go-veloledger/log"
	"github.com/veloledger/go-veloledger/tx"
	"github.com/veloledger/go-veloledger/types"
)

// Node is the central controller of a veloledger instance.
type Node struct {
	database db.Database

	config *Config

	server *api.Server
	lm     *ledger.Manager
	am     *account.Manager
	tm     *tx.Manager
	engine *fee.Engine

	// Deterministic applier for closing ledgers.
	applier *tx.Applier

	// Close infos waiting for the event loop.
	closeBuffer *ledger.CloseInfoBuffer

	// start time of the node
	startTime int64

	// channel for stopping all the subroutines
	stopChan chan struct{}

	// futures for requests from the api server
	txFuture       chan *future.Tx
	txStatusFuture chan *future.TxStatus
	accountFuture  chan *future.Account
	autofillFuture chan *future.Autofill
	ledgerFuture   chan *future.Ledger
}

// NewNode assembles a node from the config.
func NewNode(conf *Config) *Node {
	ctor, err := db.GetBackend(conf.DBBackend)
	if err != nil {
		log.Fatalf("get db backend failed: %v", err)
	}
	database := ctor(conf.DBPath)

	var features *ledger.FeatureSet
	if len(conf.Features) > 0 {
		features = ledger.NewFeatureSet(conf.Features...)
	}

	am := account.NewManager(database, 10000)
	lm := ledger.NewManager(&ledger.ManagerContext{
		Database:  database,
		AM:        am,
		NetworkID: conf.NetworkID,
		BaseFee:   conf.BaseFee,
		Features:  features,
	})
	engine := fee.NewEngine(conf.BaseFee, conf.MinLedgerTxs)

	txFuture := make(chan *future.Tx)
	txStatusFuture := make(chan *future.TxStatus)
	accountFuture := make(chan *future.Account)
	autofillFuture := make(chan *future.Autofill)
	ledgerFuture := make(chan *future.Ledger)

	server := api.NewServer(&api.ServerContext{
		Addr:           conf.Addr,
		TxFuture:       txFuture,
		TxStatusFuture: txStatusFuture,
		AccountFuture:  accountFuture,
		AutofillFuture: autofillFuture,
		LedgerFuture:   ledgerFuture,
	})

	node := &Node{
		database:       database,
		config:         conf,
		server:         server,
		lm:             lm,
		am:             am,
		engine:         engine,
		applier:        tx.NewApplier(nil),
		closeBuffer:    &ledger.CloseInfoBuffer{},
		startTime:      time.Now().Unix(),
		stopChan:       make(chan struct{}),
		txFuture:       txFuture,
		txStatusFuture: txStatusFuture,
		accountFuture:  accountFuture,
		autofillFuture: autofillFuture,
		ledgerFuture:   ledgerFuture,
	}

	return node
}

// Start boots the node. A new node seals the genesis ledger
// first, a restarted one picks up from the persisted state.
func (n *Node) Start(newnode bool) {
	if newnode {
		if err := n.lm.CreateGenesisLedger(); err != nil {
			log.Fatalf("create genesis ledger failed: %v", err)
		}
	} else {
		if err := n.lm.RestoreLedger(); err != nil {
			log.Fatalf("restore ledger failed: %v", err)
		}
	}

	// The tx manager needs a closed snapshot to stage its
	// speculative view on.
	n.tm = tx.NewManager(&tx.ManagerContext{
		Database:   n.database,
		AM:         n.am,
		LM:         n.lm,
		Engine:     n.engine,
		FeeMultMax: n.config.FeeMultMax,
	})

	go func() {
		if err := n.server.Start(); err != nil {
			log.Fatalf("serve http failed: %v", err)
		}
	}()

	go n.closeLoop()

	n.eventLoop()
}

// Stop signals all the subroutines to stop.
func (n *Node) Stop() {
	close(n.stopChan)
	n.server.Stop()
	if err := n.database.Close(); err != nil {
		log.Errorf("close database failed: %v", err)
	}
}

// The event loop owns every manager, requests and ledger closes
// are serialized through it.
func (n *Node) eventLoop() {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case txf := <-n.txFuture:
			res, err := n.tm.AddTx(txf.Tx)
			if err != nil {
				log.Errorf("add tx failed: %v", err)
			}
			txf.Result = res
			txf.Respond(err)
		case tsf := <-n.txStatusFuture:
			status, err := n.tm.GetTxStatus(tsf.TxKey)
			if err != nil {
				log.Errorw("query tx status failed", "tx", tsf.TxKey, "err", err)
			}
			tsf.Status = status
			tsf.Respond(err)
		case af := <-n.accountFuture:
			acc, err := n.am.GetAccount(n.database, af.AccountID)
			if err != nil {
				log.Errorw("query account failed", "accountID", af.AccountID, "err", err)
			}
			af.Account = acc
			af.Respond(err)
		case ff := <-n.autofillFuture:
			feeVal, seq, err := n.tm.Autofill(&tx.AutofillRequest{
				AccountID: ff.AccountID,
				Fee:       ff.Fee,
				SeqNum:    ff.SeqNum,
			})
			ff.Fee = feeVal
			ff.SeqNum = seq
			ff.Respond(err)
		case lf := <-n.ledgerFuture:
			lf.Header = n.lm.CurrentHeader()
			lf.Respond(nil)
		case <-tick.C:
			n.drainCloseBuffer()
		case <-n.stopChan:
			log.Info("shutdown event loop")
			return
		}
	}
}

// The close loop periodically stages the pending transactions as
// the next ledger for the event loop to close.
func (n *Node) closeLoop() {
	tick := time.NewTicker(n.config.CloseInterval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			txList := n.tm.GetTxList()
			if len(txList) == 0 {
				continue
			}
			header := n.lm.CurrentHeader()
			prevHash, err := types.SHA256Hash(header)
			if err != nil {
				log.Errorf("hash current ledger header failed: %v", err)
				continue
			}
			n.closeBuffer.Append(&ledger.CloseInfo{
				SeqNum: header.SeqNum + 1,
				TxSet:  &types.TxSet{PrevLedgerHash: prevHash, TxList: txList},
			})
		case <-n.stopChan:
			return
		}
	}
}

func (n *Node) drainCloseBuffer() {
	for {
		info := n.closeBuffer.PopHead()
		if info == nil {
			return
		}
		if err := n.closeLedger(info); err != nil {
			log.Errorf("close ledger failed: %v", err)
		}
	}
}

func (n *Node) closeLedger(info *ledger.CloseInfo) error {
	if want := n.lm.CurrentHeader().SeqNum + 1; info.SeqNum != want {
		return fmt.Errorf("stale close info: seq %d, want %d", info.SeqNum, want)
	}

	// Admission already verified the signatures.
	_, err := n.lm.CloseLedger(info.TxSet, func(view *ledger.OpenView, t *types.Tx) {
		res := n.applier.Apply(view, t, tx.ApplySkipSigCheck)
		if res.Code != tx.CodeSuccess {
			log.Infow("tx failed in closing ledger", "code", res.Code, "applied", res.Applied)
		}
	})
	if err != nil {
		return err
	}

	n.tm.OnLedgerClosed(info.TxSet.TxList)

	return nil
}
