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

// Package client talks to the HTTP boundary of a veloledger node.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veloledger/go-veloledger/api"
	"github.com/veloledger/go-veloledger/types"
)

// Client submits transactions to and queries state from one
// veloledger node.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a Client to the given node endpoint, for example
// http://localhost:8080.
func New(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint + "/veloledger",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SubmitTx submits a signed transaction and returns the
// admission outcome.
func (c *Client) SubmitTx(t *types.Tx) (*api.SubmitTxResponse, error) {
	resp := &api.SubmitTxResponse{}
	if err := c.post("/tx", t, resp); err != nil {
		return nil, fmt.Errorf("submit tx failed: %v", err)
	}
	return resp, nil
}

// QueryTx returns the recorded status of a transaction.
func (c *Client) QueryTx(txKey string) (*api.QueryTxResponse, error) {
	resp := &api.QueryTxResponse{}
	if err := c.get("/tx/"+txKey, resp); err != nil {
		return nil, fmt.Errorf("query tx failed: %v", err)
	}
	return resp, nil
}

// Autofill asks the node for the fee and sequence a submission
// from the account would need right now.
func (c *Client) Autofill(accountID string) (*api.AutofillResponse, error) {
	req := &api.AutofillRequest{AccountID: accountID}
	resp := &api.AutofillResponse{}
	if err := c.post("/autofill", req, resp); err != nil {
		return nil, fmt.Errorf("autofill failed: %v", err)
	}
	return resp, nil
}

// QueryAccount returns the account state as of the last closed
// ledger.
func (c *Client) QueryAccount(accountID string) (*types.Account, error) {
	acc := &types.Account{}
	if err := c.get("/account/"+accountID, acc); err != nil {
		return nil, fmt.Errorf("query account failed: %v", err)
	}
	return acc, nil
}

// QueryLedger returns the current closed ledger header.
func (c *Client) QueryLedger() (*types.LedgerHeader, error) {
	header := &types.LedgerHeader{}
	if err := c.get("/ledger", header); err != nil {
		return nil, fmt.Errorf("query ledger failed: %v", err)
	}
	return header, nil
}

func (c *Client) post(path string, req, resp interface{}) error {
	b, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request failed: %v", err)
	}
	httpResp, err := c.httpClient.Post(c.endpoint+path, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	return decodeResponse(httpResp, resp)
}

func (c *Client) get(path string, resp interface{}) error {
	httpResp, err := c.httpClient.Get(c.endpoint + path)
	if err != nil {
		return err
	}
	return decodeResponse(httpResp, resp)
}

func decodeResponse(httpResp *http.Response, resp interface{}) error {
	defer httpResp.Body.Close()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %v", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", httpResp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, resp); err != nil {
		return fmt.Errorf("decode response failed: %v", err)
	}
	return nil
}
