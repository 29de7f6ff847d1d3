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

	"github.com/veloledger/go-veloledger/types"
)

// TxHistory holds the admitted but unconfirmed transactions of
// one account.
type TxHistory struct {
	// maximum sequence number of the tx list
	MaxSeqNum uint64
	// total fees of the tx list
	TotalFees int64

	rw    sync.RWMutex
	txMap map[string]*types.Tx
}

func NewTxHistory() *TxHistory {
	h := &TxHistory{
		MaxSeqNum: uint64(0),
		TotalFees: int64(0),
		txMap:     make(map[string]*types.Tx),
	}
	return h
}

// Add transaction to the pending list. The transaction is
// assumed to have passed admission already, the only check here
// is that sequence numbers never go backwards.
func (th *TxHistory) AddTx(txKey string, tx *types.Tx) error {
	if tx.SeqNum < th.MaxSeqNum {
		return fmt.Errorf("tx seqnum mismatch: max %d, input %d", th.MaxSeqNum, tx.SeqNum)
	}
	th.MaxSeqNum = tx.SeqNum
	th.TotalFees += tx.Fee

	th.rw.Lock()
	th.txMap[txKey] = tx
	th.rw.Unlock()

	return nil
}

// Size reports the number of pending transactions.
func (th *TxHistory) Size() int {
	th.rw.RLock()
	defer th.rw.RUnlock()
	return len(th.txMap)
}

// DeleteTx removes a confirmed transaction and returns whether
// it was present.
func (th *TxHistory) DeleteTx(txKey string) bool {
	th.rw.Lock()
	defer th.rw.Unlock()
	if tx, ok := th.txMap[txKey]; ok {
		th.TotalFees -= tx.Fee
		delete(th.txMap, txKey)
		return true
	}
	return false
}

// Get the flattened tx list.
func (th *TxHistory) GetTxList() []*types.Tx {
	var txList []*types.Tx

	th.rw.RLock()
	for _, tx := range th.txMap {
		txList = append(txList, tx)
	}
	th.rw.RUnlock()

	return txList
}
