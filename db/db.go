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

// Package db defines the generic key-value store interfaces the
// node persists state through. Concrete backends register
// themselves by name so the choice stays a config entry.
package db

import "fmt"

// Getter wraps the read methods both databases and their
// transactions provide.
type Getter interface {
	Get(bucket string, key []byte) ([]byte, error)
	GetAll(bucket string, keyPrefix []byte) ([][]byte, error)
}

// Putter wraps the write methods both databases and their
// transactions provide.
type Putter interface {
	Put(bucket string, key, value []byte) error
	Delete(bucket string, key []byte) error
}

// Tx is a database transaction which either commits all its
// writes or none of them.
type Tx interface {
	Getter
	Putter
	Rollback() error
	Commit() error
}

// Database is the full interface a storage backend implements.
type Database interface {
	Getter
	Putter
	NewBucket(name string) error
	Begin() (Tx, error)
	Close() error
}

// Ctor creates a backend instance rooted at the given path.
type Ctor func(path string) Database

var constructors = make(map[string]Ctor)

// Register makes a backend available under the given name,
// backends call it from their package init.
func Register(name string, ctor Ctor) {
	constructors[name] = ctor
}

// GetBackend looks up a registered backend constructor.
func GetBackend(name string) (Ctor, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("database backend %s not registered", name)
	}
	return ctor, nil
}
