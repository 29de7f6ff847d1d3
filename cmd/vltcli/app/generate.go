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

	"github.com/veloledger/go-veloledger/crypto"
	"github.com/veloledger/go-veloledger/log"
)

var keyAlgo string

var genaccountCmd = &cobra.Command{
	Use:   "genaccount",
	Short: "Generate a random keypair for an account",
	Long: `Generate a random keypair for an account. The seed is used for signing
transactions from the account, the account ID derives from the signing key.`,
	Run: func(cmd *cobra.Command, args []string) {
		var algo crypto.Algorithm
		switch keyAlgo {
		case "ed25519":
			algo = crypto.AlgoEd25519
		case "secp256k1":
			algo = crypto.AlgoSecp256k1
		default:
			log.Fatalf("unsupported key algorithm: %s", keyAlgo)
		}
		signingKey, seed, err := crypto.GenerateKeypair(algo)
		if err != nil {
			log.Fatalf("generate account keypair failed: %v", err)
		}
		accountID, err := crypto.AccountID(signingKey)
		if err != nil {
			log.Fatalf("derive account ID failed: %v", err)
		}
		fmt.Printf("AccountID: %s\nSigningKey: %s\nSeed: %s\n", accountID, signingKey, seed)
	},
}

var gennodeidCmd = &cobra.Command{
	Use:   "gennodeid",
	Short: "Generate a random keypair for a node",
	Long: `Generate a random keypair for a node, the keypair contains the crypto
seed and the node ID. The seed is used for signing messages coming out of the node.`,
	Run: func(cmd *cobra.Command, args []string) {
		nodeID, seed, err := crypto.GenerateNodeKeypair()
		if err != nil {
			log.Fatalf("generate node keypair failed: %v", err)
		}
		fmt.Printf("NodeID: %s, Seed: %s\n", nodeID, seed)
	},
}

func init() {
	genaccountCmd.Flags().StringVar(&keyAlgo, "algo", "ed25519", "key algorithm, ed25519 or secp256k1")
	rootCmd.AddCommand(genaccountCmd)
	rootCmd.AddCommand(gennodeidCmd)
}
