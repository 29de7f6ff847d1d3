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

package client

import (
	"fmt"

	"github.com/veloledger/go-veloledger/api"
	"github.com/veloledger/go-veloledger/crypto"
	"github.com/veloledger/go-veloledger/types"
)

// Pay builds, autofills, signs and submits a native payment from
// the account behind the seed.
func (c *Client) Pay(seed, signingKey, dstAccountID string, amount int64) (*api.SubmitTxResponse, error) {
	srcAccountID, err := crypto.AccountID(signingKey)
	if err != nil {
		return nil, fmt.Errorf("derive account ID failed: %v", err)
	}

	fill, err := c.Autofill(srcAccountID)
	if err != nil {
		return nil, err
	}

	t := &types.Tx{
		AccountID:  srcAccountID,
		Fee:        fill.Fee,
		SeqNum:     fill.SeqNum,
		SigningKey: signingKey,
		Payment: &types.PaymentOp{
			DstAccountID: dstAccountID,
			Asset:        &types.Asset{AssetType: types.AssetTypeNative, AssetName: "VLO"},
			Amount:       amount,
		},
	}
	if err := SignTx(t, seed); err != nil {
		return nil, err
	}

	return c.SubmitTx(t)
}

// SignTx signs the transaction in place with the seed.
func SignTx(t *types.Tx, seed string) error {
	payload, err := t.SigningPayload()
	if err != nil {
		return fmt.Errorf("build signing payload failed: %v", err)
	}
	signature, err := crypto.Sign(seed, payload)
	if err != nil {
		return fmt.Errorf("sign tx failed: %v", err)
	}
	t.Signature = signature
	return nil
}
