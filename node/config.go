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
	"errors"
	"time"

	"github.com/spf13/viper"

	"github.com/veloledger/go-veloledger/ledger"
)

type Config struct {
	// network ID hash
	NetworkID [32]byte
	// listen address of the http server
	Addr string
	// database backend
	DBBackend string
	// database file path
	DBPath string
	// base fee in drips, zero means the genesis default
	BaseFee int64
	// open ledger size below which the base fee is enough
	MinLedgerTxs int
	// autofilled fee cap as a multiple of the base fee
	FeeMultMax int64
	// interval between ledger closes
	CloseInterval time.Duration
	// capabilities of the ledger era, empty means default
	Features []string
}

func NewConfig(v *viper.Viper) (*Config, error) {
	if v.GetString("network_id") == "" {
		return nil, errors.New("network ID is missing")
	}
	if v.GetString("addr") == "" {
		return nil, errors.New("listen addr is missing")
	}
	if v.GetString("db_backend") == "" {
		return nil, errors.New("db backend is empty")
	}
	if v.GetString("db_path") == "" {
		return nil, errors.New("db path is empty")
	}

	minLedgerTxs := v.GetInt("min_ledger_txs")
	if minLedgerTxs == 0 {
		minLedgerTxs = 3
	}
	feeMultMax := v.GetInt64("fee_mult_max")
	if feeMultMax == 0 {
		feeMultMax = 1000
	}
	closeInterval := v.GetDuration("close_interval")
	if closeInterval == 0 {
		closeInterval = 5 * time.Second
	}
	baseFee := v.GetInt64("base_fee")
	if baseFee == 0 {
		baseFee = ledger.GenesisBaseFee
	}

	c := Config{
		NetworkID:     sha256.Sum256([]byte(v.GetString("network_id"))),
		Addr:          v.GetString("addr"),
		DBBackend:     v.GetString("db_backend"),
		DBPath:        v.GetString("db_path"),
		BaseFee:       baseFee,
		MinLedgerTxs:  minLedgerTxs,
		FeeMultMax:    feeMultMax,
		CloseInterval: closeInterval,
		Features:      v.GetStringSlice("features"),
	}

	return &c, nil
}
