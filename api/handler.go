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

package api

import (
	"net/http"

	"github.com/emicklei/go-restful"

	"github.com/veloledger/go-veloledger/future"
	"github.com/veloledger/go-veloledger/log"
	"github.com/veloledger/go-veloledger/types"
)

// SubmitTxResponse reports the admission outcome of a submitted
// transaction.
type SubmitTxResponse struct {
	TxKey      string `json:"tx_key"`
	ResultCode int32  `json:"result_code"`
	Result     string `json:"result"`
	Applied    bool   `json:"applied"`
}

// QueryTxResponse reports the recorded status of a transaction.
type QueryTxResponse struct {
	TxKey      string `json:"tx_key"`
	Status     string `json:"status"`
	ResultCode int32  `json:"result_code"`
}

// AutofillRequest asks the node to resolve fee and sequence for
// a submission, zero values mean fill-in.
type AutofillRequest struct {
	AccountID string `json:"account_id"`
	Fee       int64  `json:"fee"`
	SeqNum    uint64 `json:"seq_num"`
}

// AutofillResponse carries the resolved fee and sequence.
type AutofillResponse struct {
	Fee    int64  `json:"fee"`
	SeqNum uint64 `json:"seq_num"`
}

// SubmitTx admits a transaction into the pending set.
func (s *Server) SubmitTx(request *restful.Request, response *restful.Response) {
	t := &types.Tx{}
	if err := request.ReadEntity(t); err != nil {
		writeError(response, http.StatusBadRequest, err)
		return
	}
	txKey, err := types.GetTxKey(t)
	if err != nil {
		writeError(response, http.StatusBadRequest, err)
		return
	}

	f := &future.Tx{Tx: t}
	f.Init()
	s.ctx.TxFuture <- f
	if err := f.Error(); err != nil {
		writeError(response, http.StatusInternalServerError, err)
		return
	}

	resp := &SubmitTxResponse{
		TxKey:      txKey,
		ResultCode: int32(f.Result.Code),
		Result:     f.Result.Code.String(),
		Applied:    f.Result.Applied,
	}
	if err := response.WriteEntity(resp); err != nil {
		log.Errorf("write submit tx response failed: %v", err)
	}
}

// QueryTx reports the status of a submitted transaction.
func (s *Server) QueryTx(request *restful.Request, response *restful.Response) {
	txKey := request.PathParameter("key")
	if txKey == "" {
		writeErrorMessage(response, http.StatusBadRequest, "tx key is empty")
		return
	}

	f := &future.TxStatus{TxKey: txKey}
	f.Init()
	s.ctx.TxStatusFuture <- f
	if err := f.Error(); err != nil {
		writeError(response, http.StatusInternalServerError, err)
		return
	}

	resp := &QueryTxResponse{
		TxKey:      txKey,
		Status:     f.Status.StatusCode.String(),
		ResultCode: int32(f.Status.ResultCode),
	}
	if err := response.WriteEntity(resp); err != nil {
		log.Errorf("write query tx response failed: %v", err)
	}
}

// Autofill resolves fee and sequence for a submission.
func (s *Server) Autofill(request *restful.Request, response *restful.Response) {
	req := &AutofillRequest{}
	if err := request.ReadEntity(req); err != nil {
		writeError(response, http.StatusBadRequest, err)
		return
	}
	if req.AccountID == "" {
		writeErrorMessage(response, http.StatusBadRequest, "account ID is empty")
		return
	}

	f := &future.Autofill{AccountID: req.AccountID, Fee: req.Fee, SeqNum: req.SeqNum}
	f.Init()
	s.ctx.AutofillFuture <- f
	if err := f.Error(); err != nil {
		writeError(response, http.StatusUnprocessableEntity, err)
		return
	}

	resp := &AutofillResponse{Fee: f.Fee, SeqNum: f.SeqNum}
	if err := response.WriteEntity(resp); err != nil {
		log.Errorf("write autofill response failed: %v", err)
	}
}

// QueryAccount returns the account state as of the last closed
// ledger.
func (s *Server) QueryAccount(request *restful.Request, response *restful.Response) {
	accountID := request.PathParameter("id")
	if accountID == "" {
		writeErrorMessage(response, http.StatusBadRequest, "account ID is empty")
		return
	}

	f := &future.Account{AccountID: accountID}
	f.Init()
	s.ctx.AccountFuture <- f
	if err := f.Error(); err != nil {
		writeError(response, http.StatusNotFound, err)
		return
	}

	if err := response.WriteEntity(f.Account); err != nil {
		log.Errorf("write query account response failed: %v", err)
	}
}

// QueryLedger returns the current closed ledger header.
func (s *Server) QueryLedger(request *restful.Request, response *restful.Response) {
	f := &future.Ledger{}
	f.Init()
	s.ctx.LedgerFuture <- f
	if err := f.Error(); err != nil {
		writeError(response, http.StatusInternalServerError, err)
		return
	}

	if err := response.WriteEntity(f.Header); err != nil {
		log.Errorf("write query ledger response failed: %v", err)
	}
}

func writeError(response *restful.Response, status int, err error) {
	writeErrorMessage(response, status, err.Error())
}

func writeErrorMessage(response *restful.Response, status int, msg string) {
	if err := response.WriteServiceError(status, restful.NewError(status, msg)); err != nil {
		log.Errorf("write error response failed: %v", err)
	}
}
