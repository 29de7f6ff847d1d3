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

// Package leveldb implements the database interfaces on LevelDB.
// LevelDB has no buckets, bucket names become key prefixes.
package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/veloledger/go-veloledger/db"
	"github.com/veloledger/go-veloledger/log"
)

func init() {
	db.Register("leveldb", New)
}

type leveldbStore struct {
	db *leveldb.DB
}

// New opens a LevelDB database rooted at the given path, it
// panics when the database cannot be opened.
func New(path string) db.Database {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		log.Fatalf("open leveldb at %s failed: %v", path, err)
	}
	return &leveldbStore{db: ldb}
}

func storeKey(bucket string, key []byte) []byte {
	b := make([]byte, 0, len(bucket)+1+len(key))
	b = append(b, bucket...)
	b = append(b, '/')
	b = append(b, key...)
	return b
}

func (l *leveldbStore) NewBucket(name string) error {
	return nil
}

// Put writes the key/value pair to the database.
func (l *leveldbStore) Put(bucket string, key, value []byte) error {
	return l.db.Put(storeKey(bucket, key), value, nil)
}

// Delete removes the key from the database.
func (l *leveldbStore) Delete(bucket string, key []byte) error {
	return l.db.Delete(storeKey(bucket, key), nil)
}

// Get retrieves the value of the key, a missing key yields nil.
func (l *leveldbStore) Get(bucket string, key []byte) ([]byte, error) {
	v, err := l.db.Get(storeKey(bucket, key), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetAll retrieves the values of the keys with the prefix in
// ascending key order.
func (l *leveldbStore) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	iter := l.db.NewIterator(util.BytesPrefix(storeKey(bucket, keyPrefix)), nil)
	defer iter.Release()

	var vals [][]byte
	for iter.Next() {
		vals = append(vals, append([]byte(nil), iter.Value()...))
	}
	return vals, iter.Error()
}

// Close closes the underlying database.
func (l *leveldbStore) Close() error {
	return l.db.Close()
}

// Begin starts a LevelDB transaction. LevelDB allows only one
// transaction at a time, callers must finish it promptly.
func (l *leveldbStore) Begin() (db.Tx, error) {
	tr, err := l.db.OpenTransaction()
	if err != nil {
		return nil, err
	}
	return &leveldbTx{tr: tr}, nil
}

type leveldbTx struct {
	tr *leveldb.Transaction
}

func (t *leveldbTx) Get(bucket string, key []byte) ([]byte, error) {
	v, err := t.tr.Get(storeKey(bucket, key), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (t *leveldbTx) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	iter := t.tr.NewIterator(util.BytesPrefix(storeKey(bucket, keyPrefix)), nil)
	defer iter.Release()

	var vals [][]byte
	for iter.Next() {
		vals = append(vals, append([]byte(nil), iter.Value()...))
	}
	return vals, iter.Error()
}

func (t *leveldbTx) Put(bucket string, key, value []byte) error {
	return t.tr.Put(storeKey(bucket, key), value, nil)
}

func (t *leveldbTx) Delete(bucket string, key []byte) error {
	return t.tr.Delete(storeKey(bucket, key), nil)
}

func (t *leveldbTx) Rollback() error {
	t.tr.Discard()
	return nil
}

func (t *leveldbTx) Commit() error {
	return t.tr.Commit()
}
