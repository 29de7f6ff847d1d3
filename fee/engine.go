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

// Package fee computes the minimum fee a transaction must carry
// to be admitted into the open ledger. The required fee stays at
// the base fee while the open ledger holds fewer transactions
// than its floor, past the floor it escalates quadratically in
// fee levels so that each admission raises the price of the next
// one by a growing increment.
package fee

import (
	"sync"

	"github.com/veloledger/go-veloledger/util"
)

const (
	// Fee level of a transaction paying exactly the base fee.
	baseLevel = 256
	// Reference level of the escalation curve. A tx at this
	// level pays 500 times the base fee.
	medianLevel = 128000
)

// Engine tracks the admission state of one open-ledger window.
// The open transaction count is explicit per-window state: it
// grows with every accepted transaction and is reset when the
// window's ledger closes.
type Engine struct {
	mu sync.Mutex

	baseFee      int64
	minLedgerTxs int

	openTxCount int
}

// NewEngine creates an engine for windows with the given base fee
// and open-ledger floor.
func NewEngine(baseFee int64, minLedgerTxs int) *Engine {
	return &Engine{
		baseFee:      baseFee,
		minLedgerTxs: minLedgerTxs,
	}
}

// BaseFee returns the configured base fee in drips.
func (e *Engine) BaseFee() int64 {
	return e.baseFee
}

// OpenTxCount returns the number of transactions accepted into
// the current window.
func (e *Engine) OpenTxCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openTxCount
}

// RequiredFee returns the fee in drips a transaction submitted
// now must carry.
func (e *Engine) RequiredFee() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.requiredFee()
}

func (e *Engine) requiredFee() int64 {
	n := e.openTxCount
	if n < e.minLedgerTxs {
		return e.baseFee
	}

	// Scale the median level by the square of the slot the new
	// transaction would occupy relative to the floor, then
	// convert levels back to drips rounding up. Integer rounding
	// here is part of the observable fee schedule, both steps
	// must stay exactly as they are.
	slot := int64(n + 1)
	floor := int64(e.minLedgerTxs)
	level := util.MulDiv(medianLevel, slot*slot, floor*floor)
	return util.MulDivCeil(level, e.baseFee, baseLevel)
}

// TxAccepted records an admission into the current window,
// raising the price of the next one once past the floor.
func (e *Engine) TxAccepted() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openTxCount++
}

// LedgerClosed resets the window when its ledger closes.
func (e *Engine) LedgerClosed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openTxCount = 0
}
