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
	"errors"
	"fmt"

	"github.com/veloledger/go-veloledger/fee"
	"github.com/veloledger/go-veloledger/ledger"
)

// ErrFeeBeyondMaxFee is returned when the escalated fee the
// submission would need exceeds the submitter's cap.
var ErrFeeBeyondMaxFee = errors.New("required fee beyond max fee")

// AutofillRequest carries a partially specified submission. A
// zero Fee or SeqNum asks the server to fill the field from the
// current state, a nonzero value is taken as given.
type AutofillRequest struct {
	AccountID string
	Fee       int64
	SeqNum    uint64
}

// Autofill resolves the fee and sequence of a submission against
// the view and the current admission window. feeMultMax bounds a
// server-chosen fee to feeMultMax times the ledger base fee so
// a busy window cannot silently drain the submitter.
func Autofill(req *AutofillRequest, view *ledger.OpenView, engine *fee.Engine, feeMultMax int64) (int64, uint64, error) {
	feeVal := req.Fee
	if feeVal == 0 {
		required := view.BaseFee()
		if engine != nil && view.Features().Has(ledger.FeatureFeeEscalation) {
			required = engine.RequiredFee()
		}
		if feeMultMax > 0 && required > view.BaseFee()*feeMultMax {
			return 0, 0, fmt.Errorf("%w: required %d, cap %d", ErrFeeBeyondMaxFee, required, view.BaseFee()*feeMultMax)
		}
		feeVal = required
	}

	seq := req.SeqNum
	if seq == 0 {
		acc, ok := view.ReadAccount(req.AccountID)
		if !ok {
			return 0, 0, fmt.Errorf("account %s not found", req.AccountID)
		}
		seq = acc.SeqNum
	}

	return feeVal, seq, nil
}
