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

package node

import (
	"crypto/sha256"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	v := viper.New()
	v.Set("network_id", "velo-testnet")
	v.Set("addr", ":8080")
	v.Set("db_backend", "boltdb")
	v.Set("db_path", "/tmp/velo.db")

	c, err := NewConfig(v)
	assert.Nil(t, err)
	assert.Equal(t, sha256.Sum256([]byte("velo-testnet")), c.NetworkID)
	assert.Equal(t, ":8080", c.Addr)

	// Defaults kick in for the unset knobs.
	assert.Equal(t, int64(10), c.BaseFee)
	assert.Equal(t, 3, c.MinLedgerTxs)
	assert.Equal(t, int64(1000), c.FeeMultMax)
	assert.Equal(t, 5*time.Second, c.CloseInterval)

	// Explicit values win over defaults.
	v.Set("base_fee", 20)
	v.Set("min_ledger_txs", 5)
	v.Set("fee_mult_max", 50)
	v.Set("close_interval", "2s")
	c, err = NewConfig(v)
	assert.Nil(t, err)
	assert.Equal(t, int64(20), c.BaseFee)
	assert.Equal(t, 5, c.MinLedgerTxs)
	assert.Equal(t, int64(50), c.FeeMultMax)
	assert.Equal(t, 2*time.Second, c.CloseInterval)
}

func TestNewConfigMissingFields(t *testing.T) {
	v := viper.New()
	_, err := NewConfig(v)
	assert.NotNil(t, err)

	v.Set("network_id", "velo-testnet")
	_, err = NewConfig(v)
	assert.NotNil(t, err)

	v.Set("addr", ":8080")
	v.Set("db_backend", "boltdb")
	_, err = NewConfig(v)
	assert.NotNil(t, err)

	v.Set("db_path", "/tmp/velo.db")
	_, err = NewConfig(v)
	assert.Nil(t, err)
}
