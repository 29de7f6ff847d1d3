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

package op

import (
	"math"

	"github.com/veloledger/go-veloledger/ledger"
	"github.com/veloledger/go-veloledger/types"
)

// Payment moves native drips between two accounts. A payment to
// an address without an account creates the account funded with
// the payment amount.
type Payment struct {
	SrcAccountID string
	DstAccountID string
	Amount       int64
}

func (p *Payment) Apply(view *ledger.OpenView) error {
	if p.SrcAccountID == p.DstAccountID {
		return ErrSelfPayment
	}

	src, ok := view.ReadAccount(p.SrcAccountID)
	if !ok {
		return ErrNoSrcAccount
	}
	if src.Balance < p.Amount {
		return ErrUnderfunded
	}
	src.Balance -= p.Amount

	dst, ok := view.ReadAccount(p.DstAccountID)
	if !ok {
		dst = types.NewAccount(p.DstAccountID)
	}
	if dst.Balance > math.MaxInt64-p.Amount {
		return ErrBalanceLimit
	}
	dst.Balance += p.Amount

	view.WriteAccount(src)
	view.WriteAccount(dst)

	return nil
}
