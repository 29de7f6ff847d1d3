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

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloseInfoBuffer(t *testing.T) {
	b := &CloseInfoBuffer{}
	assert.Equal(t, 0, b.Size())
	assert.Nil(t, b.PopHead())

	b.Append(nil)
	assert.Equal(t, 0, b.Size())

	b.Append(&CloseInfo{SeqNum: 5})
	b.Append(&CloseInfo{SeqNum: 6})
	// A gap in the sequence is dropped.
	b.Append(&CloseInfo{SeqNum: 8})
	assert.Equal(t, 2, b.Size())

	head := b.PopHead()
	assert.Equal(t, uint64(5), head.SeqNum)
	assert.Equal(t, 1, b.Size())

	b.Clear()
	assert.Equal(t, 0, b.Size())
	assert.Nil(t, b.PopHead())
}
