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

// Package api exposes the node over HTTP. The server owns no
// state, every request is packaged into a future and serviced by
// the node event loop.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/emicklei/go-restful"

	"github.com/veloledger/go-veloledger/future"
	"github.com/veloledger/go-veloledger/log"
)

// ServerContext carries the channels the server hands requests
// through.
type ServerContext struct {
	// Network address to listen on.
	Addr string
	// Future channels serviced by the node.
	TxFuture       chan *future.Tx
	TxStatusFuture chan *future.TxStatus
	AccountFuture  chan *future.Account
	AutofillFuture chan *future.Autofill
	LedgerFuture   chan *future.Ledger
}

func ValidateServerContext(sc *ServerContext) error {
	if sc == nil {
		return fmt.Errorf("server context is nil")
	}
	if sc.Addr == "" {
		return fmt.Errorf("listen addr is empty")
	}
	if sc.TxFuture == nil || sc.TxStatusFuture == nil || sc.AccountFuture == nil ||
		sc.AutofillFuture == nil || sc.LedgerFuture == nil {
		return fmt.Errorf("future channel is nil")
	}
	return nil
}

// Server is the HTTP submission and query boundary of the node.
type Server struct {
	ctx        *ServerContext
	httpServer *http.Server
}

func NewServer(ctx *ServerContext) *Server {
	if err := ValidateServerContext(ctx); err != nil {
		log.Fatalf("api server context is invalid: %v", err)
	}

	s := &Server{ctx: ctx}

	ws := new(restful.WebService)
	ws.Path("/veloledger").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)
	ws.Route(ws.POST("/tx").To(s.SubmitTx))
	ws.Route(ws.GET("/tx/{key}").To(s.QueryTx))
	ws.Route(ws.POST("/autofill").To(s.Autofill))
	ws.Route(ws.GET("/account/{id}").To(s.QueryAccount))
	ws.Route(ws.GET("/ledger").To(s.QueryLedger))

	container := restful.NewContainer()
	container.Add(ws)

	s.httpServer = &http.Server{Addr: ctx.Addr, Handler: container}

	return s
}

// Handler exposes the route container, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves HTTP requests until Stop.
func (s *Server) Start() error {
	log.Infow("start to serve http requests", "addr", s.ctx.Addr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop() {
	if err := s.httpServer.Shutdown(context.Background()); err != nil {
		log.Errorf("shutdown http server failed: %v", err)
	}
}
