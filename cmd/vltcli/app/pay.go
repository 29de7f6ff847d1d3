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

var (
	payEndpoint   string
	paySeed       string
	paySigningKey string
	payDst        string
	payAmount     int64
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Submit a native payment",
	Long:  `Build, autofill, sign and submit a native payment to a node.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := client.New(payEndpoint)
		resp, err := c.Pay(paySeed, paySigningKey, payDst, payAmount)
		if err != nil {
			log.Fatalf("pay failed: %v", err)
		}
		fmt.Printf("TxKey: %s\nResult: %s\nApplied: %v\n", resp.TxKey, resp.Result, resp.Applied)
	},
}

func init() {
	payCmd.Flags().StringVar(&payEndpoint, "endpoint", "http://localhost:8080", "node endpoint")
	payCmd.Flags().StringVar(&paySeed, "seed", "", "seed of the paying account")
	payCmd.Flags().StringVar(&paySigningKey, "signing-key", "", "signing key of the paying account")
	payCmd.Flags().StringVar(&payDst, "dst", "", "destination account ID")
	payCmd.Flags().Int64Var(&payAmount, "amount", 0, "payment amount in drips")
	payCmd.MarkFlagRequired("seed")
	payCmd.MarkFlagRequired("signing-key")
	payCmd.MarkFlagRequired("dst")
	payCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(payCmd)
}
