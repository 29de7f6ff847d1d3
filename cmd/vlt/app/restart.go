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
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veloledger/go-veloledger/log"
	"github.com/veloledger/go-veloledger/node"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart an existing node",
	Long:  `Restart a node from its persisted ledger state.`,
	Run: func(cmd *cobra.Command, args []string) {
		// read in config file
		if restartCfgFile == "" {
			log.Fatal(errors.New("config file not provided"))
		}
		v := viper.New()
		v.SetConfigFile(restartCfgFile)
		if err := v.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		// init node config from viper
		c, err := node.NewConfig(v)
		if err != nil {
			log.Fatal(err)
		}
		// restart an existing node
		n := node.NewNode(c)
		n.Start(false)
	},
}

var restartCfgFile string

func init() {
	restartCmd.Flags().StringVarP(&restartCfgFile, "config", "c", "", "config file of the node")
	restartCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(restartCmd)
}
