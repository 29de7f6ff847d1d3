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

package boltdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoltdbRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	d := New(path)
	defer d.Close()

	assert.Nil(t, d.NewBucket("TEST"))
	assert.Nil(t, d.Put("TEST", []byte("k1"), []byte("v1")))
	assert.Nil(t, d.Put("TEST", []byte("k2"), []byte("v2")))

	v, err := d.Get("TEST", []byte("k1"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v1"), v)

	vals, err := d.GetAll("TEST", []byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("v1"), []byte("v2")}, vals)

	assert.Nil(t, d.Delete("TEST", []byte("k1")))
	v, err = d.Get("TEST", []byte("k1"))
	assert.Nil(t, err)
	assert.Nil(t, v)
}

func TestBoltdbTx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	d := New(path)
	defer d.Close()

	assert.Nil(t, d.NewBucket("TEST"))

	tx, err := d.Begin()
	assert.Nil(t, err)
	assert.Nil(t, tx.Put("TEST", []byte("k"), []byte("v")))
	assert.Nil(t, tx.Rollback())

	v, err := d.Get("TEST", []byte("k"))
	assert.Nil(t, err)
	assert.Nil(t, v)

	tx, err = d.Begin()
	assert.Nil(t, err)
	assert.Nil(t, tx.Put("TEST", []byte("k"), []byte("v")))
	assert.Nil(t, tx.Commit())

	v, err = d.Get("TEST", []byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), v)
}
