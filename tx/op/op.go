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

// Package op implements the per-type effects of transactions
// against an open view. Operations run after the fee and sequence
// of the source account have been consumed, an operation error
// therefore never unwinds those charges.
package op

import (
	"errors"

	"github.com/veloledger/go-veloledger/ledger"
)

var (
	ErrUnderfunded   = errors.New("source account balance is insufficient")
	ErrNoSrcAccount  = errors.New("source account not exist")
	ErrSelfPayment   = errors.New("source and destination are identical")
	ErrBalanceLimit  = errors.New("destination balance would overflow")
	ErrNoTargetOffer = errors.New("target offer not exist")
)

// Op is the interface transaction operations comply with.
type Op interface {
	Apply(view *ledger.OpenView) error
}
