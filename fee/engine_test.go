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

package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredFeeAtFloor(t *testing.T) {
	e := NewEngine(10, 3)

	// Below the floor every admission costs the base fee.
	assert.Equal(t, int64(10), e.RequiredFee())
	e.TxAccepted()
	assert.Equal(t, int64(10), e.RequiredFee())
	e.TxAccepted()
	assert.Equal(t, int64(10), e.RequiredFee())
}

func TestRequiredFeeEscalates(t *testing.T) {
	e := NewEngine(10, 3)

	// One transaction is already in the open window, the next
	// five admissions must see exactly this fee schedule.
	e.TxAccepted()
	expected := []int64{10, 10, 8889, 13889, 20000}
	for i, want := range expected {
		assert.Equal(t, want, e.RequiredFee(), "submission %d", i+1)
		e.TxAccepted()
	}
}

func TestEscalationAccelerates(t *testing.T) {
	e := NewEngine(10, 3)
	for i := 0; i < 3; i++ {
		e.TxAccepted()
	}

	// Past the floor the fee strictly increases and the
	// increments themselves grow.
	prev := e.RequiredFee()
	prevDelta := int64(0)
	for i := 0; i < 10; i++ {
		e.TxAccepted()
		cur := e.RequiredFee()
		delta := cur - prev
		assert.Greater(t, cur, prev)
		assert.Greater(t, delta, prevDelta)
		prev, prevDelta = cur, delta
	}
}

func TestLedgerClosedResetsWindow(t *testing.T) {
	e := NewEngine(10, 3)
	for i := 0; i < 6; i++ {
		e.TxAccepted()
	}
	assert.Greater(t, e.RequiredFee(), int64(10))

	e.LedgerClosed()
	assert.Equal(t, 0, e.OpenTxCount())
	assert.Equal(t, int64(10), e.RequiredFee())
}
