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

// Package future defines the request futures the api server
// hands to the node event loop.
package future

import (
	"github.com/veloledger/go-veloledger/tx"
	"github.com/veloledger/go-veloledger/types"
)

type Future interface {
	Error() error
}

// Allow a future to respond an error in the future.
type deferError struct {
	err       error
	errChan   chan error
	responded bool
}

// Every future should call this method to initialize the
// underlying error channel.
func (d *deferError) Init() {
	d.errChan = make(chan error, 1)
}

// Each future responds once, later calls with a different error
// on the same future have no effect.
func (d *deferError) Respond(err error) {
	if d.errChan == nil || d.responded {
		return
	}
	d.errChan <- err
	close(d.errChan)
	d.responded = true
}

// Error always returns the first responded error.
func (d *deferError) Error() error {
	if d.err != nil {
		return d.err
	}
	if d.errChan == nil {
		panic("waiting for response on nil channel")
	}
	d.err = <-d.errChan
	return d.err
}

// Future for the api server to submit a received tx to the tx
// manager.
type Tx struct {
	deferError
	Tx *types.Tx
	// Admission outcome filled in by the node.
	Result tx.Result
}

// Future for the api server to query tx status.
type TxStatus struct {
	deferError
	TxKey  string
	Status *tx.Status
}

// Future for the api server to query an account.
type Account struct {
	deferError
	AccountID string
	Account   *types.Account
}

// Future for the api server to resolve fee and sequence for a
// partially specified submission.
type Autofill struct {
	deferError
	AccountID string
	Fee       int64
	SeqNum    uint64
}

// Future for the api server to query the current ledger header.
type Ledger struct {
	deferError
	Header *types.LedgerHeader
}
