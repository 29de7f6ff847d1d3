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

package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veloledger/go-veloledger/client"
	"github.com/veloledger/go-veloledger/log"
)

var queryEndpoint string

var queryTxCmd = &cobra.Command{
	Use:   "querytx [txkey]",
	Short: "Query the status of a transaction",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := client.New(queryEndpoint)
		resp, err := c.QueryTx(args[0])
		if err != nil {
			log.Fatalf("query tx failed: %v", err)
		}
		fmt.Printf("TxKey: %s\nStatus: %s\nResultCode: %d\n", resp.TxKey, resp.Status, resp.ResultCode)
	},
}

var queryAccountCmd = &cobra.Command{
	Use:   "queryaccount [accountid]",
	Short: "Query the state of an account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := client.New(queryEndpoint)
		acc, err := c.QueryAccount(args[0])
		if err != nil {
			log.Fatalf("query account failed: %v", err)
		}
		fmt.Printf("AccountID: %s\nBalance: %d\nSeqNum: %d\n", acc.AccountID, acc.Balance, acc.SeqNum)
	},
}

var queryLedgerCmd = &cobra.Command{
	Use:   "queryledger",
	Short: "Query the current closed ledger header",
	Run: func(cmd *cobra.Command, args []string) {
		c := client.New(queryEndpoint)
		header, err := c.QueryLedger()
		if err != nil {
			log.Fatalf("query ledger failed: %v", err)
		}
		fmt.Printf("SeqNum: %d\nBaseFee: %d\nTotalSupply: %d\nStateHash: %s\n",
			header.SeqNum, header.BaseFee, header.TotalSupply, header.StateHash)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{queryTxCmd, queryAccountCmd, queryLedgerCmd} {
		cmd.Flags().StringVar(&queryEndpoint, "endpoint", "http://localhost:8080", "node endpoint")
		rootCmd.AddCommand(cmd)
	}
}
