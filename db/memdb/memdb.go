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

// Package memdb implements an in-memory key-value store which is
// mainly used for testing.
package memdb

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/veloledger/go-veloledger/db"
)

func init() {
	db.Register("memory", func(string) db.Database { return New() })
}

var ErrClosed = errors.New("memdb is closed")

type memdb struct {
	sync.RWMutex
	store map[string][]byte
}

// New creates a memory-backed database.
func New() db.Database {
	return &memdb{store: make(map[string][]byte)}
}

func (m *memdb) NewBucket(name string) error {
	return nil
}

func bucketKey(bucket string, key []byte) string {
	return bucket + "/" + string(key)
}

// Put writes the key/value pair to the store.
func (m *memdb) Put(bucket string, key, value []byte) error {
	m.Lock()
	defer m.Unlock()

	if m.store == nil {
		return ErrClosed
	}
	v := append([]byte(nil), value...)
	m.store[bucketKey(bucket, key)] = v
	return nil
}

// Delete removes the key from the store.
func (m *memdb) Delete(bucket string, key []byte) error {
	m.Lock()
	defer m.Unlock()

	if m.store == nil {
		return ErrClosed
	}
	delete(m.store, bucketKey(bucket, key))
	return nil
}

// Get retrieves the value of the key, a missing key yields nil.
func (m *memdb) Get(bucket string, key []byte) ([]byte, error) {
	m.RLock()
	defer m.RUnlock()

	if m.store == nil {
		return nil, ErrClosed
	}
	v, ok := m.store[bucketKey(bucket, key)]
	if !ok {
		return nil, nil
	}
	return v, nil
}

// GetAll retrieves the values of all keys with the prefix in
// ascending key order.
func (m *memdb) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	m.RLock()
	defer m.RUnlock()

	if m.store == nil {
		return nil, ErrClosed
	}

	prefix := bucketKey(bucket, keyPrefix)
	var keys []string
	for k := range m.store {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var vals [][]byte
	for _, k := range keys {
		vals = append(vals, m.store[k])
	}
	return vals, nil
}

// Close drops the store, further calls fail.
func (m *memdb) Close() error {
	m.Lock()
	defer m.Unlock()
	m.store = nil
	return nil
}

// Begin starts a buffered transaction over the store.
func (m *memdb) Begin() (db.Tx, error) {
	m.RLock()
	defer m.RUnlock()
	if m.store == nil {
		return nil, ErrClosed
	}
	return &memdbTx{
		db:      m,
		writes:  make(map[string][]byte),
		deletes: make(map[string]bool),
	}, nil
}

// memdbTx buffers writes until Commit, reads observe the buffered
// state layered over the store.
type memdbTx struct {
	db      *memdb
	writes  map[string][]byte
	deletes map[string]bool
	done    bool
}

func (t *memdbTx) Get(bucket string, key []byte) ([]byte, error) {
	k := bucketKey(bucket, key)
	if t.deletes[k] {
		return nil, nil
	}
	if v, ok := t.writes[k]; ok {
		return v, nil
	}
	return t.db.Get(bucket, key)
}

func (t *memdbTx) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	t.db.RLock()
	defer t.db.RUnlock()

	if t.db.store == nil {
		return nil, ErrClosed
	}

	prefix := bucketKey(bucket, keyPrefix)
	merged := make(map[string][]byte)
	for k, v := range t.db.store {
		if strings.HasPrefix(k, prefix) {
			merged[k] = v
		}
	}
	for k, v := range t.writes {
		if strings.HasPrefix(k, prefix) {
			merged[k] = v
		}
	}
	for k := range t.deletes {
		delete(merged, k)
	}

	var keys []string
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var vals [][]byte
	for _, k := range keys {
		vals = append(vals, merged[k])
	}
	return vals, nil
}

func (t *memdbTx) Put(bucket string, key, value []byte) error {
	k := bucketKey(bucket, key)
	delete(t.deletes, k)
	t.writes[k] = append([]byte(nil), value...)
	return nil
}

func (t *memdbTx) Delete(bucket string, key []byte) error {
	k := bucketKey(bucket, key)
	delete(t.writes, k)
	t.deletes[k] = true
	return nil
}

func (t *memdbTx) Rollback() error {
	t.writes = nil
	t.deletes = nil
	t.done = true
	return nil
}

func (t *memdbTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}

	t.db.Lock()
	defer t.db.Unlock()
	if t.db.store == nil {
		return ErrClosed
	}
	for k, v := range t.writes {
		t.db.store[k] = v
	}
	for k := range t.deletes {
		delete(t.db.store, k)
	}
	t.done = true
	return nil
}
