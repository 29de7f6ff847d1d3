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

package account

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veloledger/go-veloledger/crypto"
	"github.com/veloledger/go-veloledger/db/memdb"
)

func newTestAccountID(t *testing.T) (string, string) {
	signingKey, _, err := crypto.GenerateKeypair(crypto.AlgoEd25519)
	assert.Nil(t, err)
	accountID, err := crypto.AccountID(signingKey)
	assert.Nil(t, err)
	return accountID, signingKey
}

func TestCreateGetAccount(t *testing.T) {
	memorydb := memdb.New()
	am := NewManager(memorydb, 100)

	accountID, signingKey := newTestAccountID(t)
	err := am.CreateAccount(memorydb, accountID, 1000000, signingKey, 1)
	assert.Nil(t, err)

	acc, err := am.GetAccount(memorydb, accountID)
	assert.Nil(t, err)
	assert.Equal(t, int64(1000000), acc.Balance)
	assert.Equal(t, uint64(1), acc.SeqNum)
	assert.Equal(t, signingKey, acc.Signer)

	// Returned accounts are copies, mutating one must not leak.
	acc.Balance = 0
	again, err := am.GetAccount(memorydb, accountID)
	assert.Nil(t, err)
	assert.Equal(t, int64(1000000), again.Balance)

	_, err = am.GetAccount(memorydb, "bogus-account")
	assert.Equal(t, ErrAccountNotExist, err)

	err = am.CreateAccount(memorydb, "bogus-account", 1, signingKey, 1)
	assert.NotNil(t, err)
}

func TestSaveAccountRefreshesCache(t *testing.T) {
	memorydb := memdb.New()
	am := NewManager(memorydb, 100)

	accountID, signingKey := newTestAccountID(t)
	assert.Nil(t, am.CreateAccount(memorydb, accountID, 500, signingKey, 1))

	acc, err := am.GetAccount(memorydb, accountID)
	assert.Nil(t, err)
	acc.SeqNum = 2
	acc.Balance = 490
	assert.Nil(t, am.SaveAccount(memorydb, acc))

	reloaded, err := am.GetAccount(memorydb, accountID)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), reloaded.SeqNum)
	assert.Equal(t, int64(490), reloaded.Balance)
}

func TestBalanceArithmetic(t *testing.T) {
	memorydb := memdb.New()
	am := NewManager(memorydb, 100)

	accountID, signingKey := newTestAccountID(t)
	assert.Nil(t, am.CreateAccount(memorydb, accountID, 100, signingKey, 1))
	acc, err := am.GetAccount(memorydb, accountID)
	assert.Nil(t, err)

	assert.Nil(t, am.AddBalance(acc, 50))
	assert.Equal(t, int64(150), acc.Balance)

	assert.Equal(t, ErrBalanceUnderflow, am.SubBalance(acc, 151))
	assert.Equal(t, int64(150), acc.Balance)

	acc.Balance = math.MaxInt64
	assert.Equal(t, ErrBalanceOverflow, am.AddBalance(acc, 1))
}

func TestCreateMasterAccount(t *testing.T) {
	memorydb := memdb.New()
	am := NewManager(memorydb, 100)

	networkID := crypto.SHA256HashBytes([]byte("velo testnet"))
	masterID, err := am.CreateMasterAccount(networkID[:], 4500000000000000)
	assert.Nil(t, err)
	assert.Equal(t, masterID, am.Master())

	acc, err := am.GetAccount(memorydb, masterID)
	assert.Nil(t, err)
	assert.Equal(t, int64(4500000000000000), acc.Balance)
}
