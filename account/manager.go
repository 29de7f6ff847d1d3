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

// Package account manages the committed per-account ledger state.
package account

import (
	"errors"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru"

	"github.com/veloledger/go-veloledger/crypto"
	"github.com/veloledger/go-veloledger/db"
	"github.com/veloledger/go-veloledger/log"
	"github.com/veloledger/go-veloledger/types"
)

var (
	ErrAccountNotExist  = errors.New("account not exist")
	ErrBalanceOverflow  = errors.New("account balance overflow")
	ErrBalanceUnderflow = errors.New("account balance underflow")
)

// Manager loads and stores accounts with a read-through LRU cache
// in front of the database.
type Manager struct {
	database db.Database
	bucket   string

	accounts *lru.Cache

	// The master account holds the initial total supply.
	masterID string
}

func NewManager(d db.Database, cacheSize int) *Manager {
	am := &Manager{
		database: d,
		bucket:   "ACCOUNT",
	}
	if err := am.database.NewBucket(am.bucket); err != nil {
		log.Fatalf("create db bucket %s failed: %v", am.bucket, err)
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		log.Fatalf("create account LRU cache failed: %v", err)
	}
	am.accounts = cache
	return am
}

// CreateMasterAccount derives the master account deterministically
// from the network ID and funds it with the initial total supply.
func (am *Manager) CreateMasterAccount(networkID []byte, balance int64) (string, error) {
	signingKey, seed, err := crypto.GenerateKeypairFromSeed(crypto.AlgoEd25519, networkID)
	if err != nil {
		return "", err
	}
	accountID, err := crypto.AccountID(signingKey)
	if err != nil {
		return "", err
	}
	log.Infow("created master account", "accountID", accountID, "seed", seed)

	if err := am.CreateAccount(am.database, accountID, balance, signingKey, 1); err != nil {
		return "", fmt.Errorf("create master account failed: %v", err)
	}
	am.masterID = accountID

	return accountID, nil
}

// Master returns the master account ID, empty before genesis.
func (am *Manager) Master() string {
	return am.masterID
}

// CreateAccount stores a brand new account.
func (am *Manager) CreateAccount(putter db.Putter, accountID string, balance int64, signer string, seqNum uint64) error {
	if !crypto.IsValidKey(accountID) {
		return fmt.Errorf("invalid account ID: %s", accountID)
	}

	acc := &types.Account{
		AccountID: accountID,
		Balance:   balance,
		SeqNum:    seqNum,
		Signer:    signer,
	}
	return am.SaveAccount(putter, acc)
}

// GetAccount loads the account, callers get their own copy.
func (am *Manager) GetAccount(getter db.Getter, accountID string) (*types.Account, error) {
	if acc, ok := am.accounts.Get(accountID); ok {
		return acc.(*types.Account).Clone(), nil
	}

	b, err := getter.Get(am.bucket, []byte(accountID))
	if err != nil {
		return nil, fmt.Errorf("get account %s failed: %v", accountID, err)
	}
	if b == nil {
		return nil, ErrAccountNotExist
	}
	acc, err := types.DecodeAccount(b)
	if err != nil {
		return nil, fmt.Errorf("decode account %s failed: %v", accountID, err)
	}

	am.accounts.Add(accountID, acc)

	return acc.Clone(), nil
}

// AllAccounts loads every persisted account, used to rebuild the
// ledger snapshot on restart.
func (am *Manager) AllAccounts() ([]*types.Account, error) {
	bs, err := am.database.GetAll(am.bucket, nil)
	if err != nil {
		return nil, fmt.Errorf("get all accounts failed: %v", err)
	}
	var accounts []*types.Account
	for _, b := range bs {
		acc, err := types.DecodeAccount(b)
		if err != nil {
			return nil, fmt.Errorf("decode account failed: %v", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// SaveAccount persists the account and refreshes the cache.
func (am *Manager) SaveAccount(putter db.Putter, acc *types.Account) error {
	b, err := types.Encode(acc)
	if err != nil {
		return fmt.Errorf("encode account failed: %v", err)
	}
	if err := putter.Put(am.bucket, []byte(acc.AccountID), b); err != nil {
		return fmt.Errorf("save account in db failed: %v", err)
	}

	am.accounts.Add(acc.AccountID, acc.Clone())

	return nil
}

// AddBalance credits the account, guarding against overflow.
func (am *Manager) AddBalance(acc *types.Account, amount int64) error {
	if amount < 0 {
		return am.SubBalance(acc, -amount)
	}
	if acc.Balance > math.MaxInt64-amount {
		return ErrBalanceOverflow
	}
	acc.Balance += amount
	return nil
}

// SubBalance debits the account, guarding against underflow.
func (am *Manager) SubBalance(acc *types.Account, amount int64) error {
	if amount < 0 {
		return am.AddBalance(acc, -amount)
	}
	if acc.Balance < amount {
		return ErrBalanceUnderflow
	}
	acc.Balance -= amount
	return nil
}
