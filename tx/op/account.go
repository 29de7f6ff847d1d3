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
	"github.com/veloledger/go-veloledger/ledger"
)

// AccountSet updates account settings. With no fields set it has
// no effect beyond the fee and sequence its transaction consumed,
// which makes it the canonical no-op transaction.
type AccountSet struct {
	AccountID string
	Signer    string
}

func (a *AccountSet) Apply(view *ledger.OpenView) error {
	acc, ok := view.ReadAccount(a.AccountID)
	if !ok {
		return ErrNoSrcAccount
	}

	if a.Signer != "" {
		acc.Signer = a.Signer
		view.WriteAccount(acc)
	}

	return nil
}
