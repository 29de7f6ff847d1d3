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
	"sync"

	"github.com/veloledger/go-veloledger/types"
)

// CloseInfo carries what the manager needs to close one ledger.
type CloseInfo struct {
	// Target ledger sequence number.
	SeqNum uint64
	// Agreed transaction set.
	TxSet *types.TxSet
}

// CloseInfoBuffer holds close infos that arrived ahead of the
// local ledger state until the manager catches up.
type CloseInfoBuffer struct {
	rwm   sync.RWMutex
	infos []*CloseInfo
}

// Size returns the number of buffered infos.
func (b *CloseInfoBuffer) Size() int {
	b.rwm.RLock()
	defer b.rwm.RUnlock()
	return len(b.infos)
}

// Clear drops all buffered infos.
func (b *CloseInfoBuffer) Clear() {
	b.rwm.Lock()
	defer b.rwm.Unlock()
	b.infos = nil
}

// Append adds the info to the tail when it continues the buffered
// sequence, out-of-order infos are dropped.
func (b *CloseInfoBuffer) Append(info *CloseInfo) {
	if info == nil {
		return
	}
	b.rwm.Lock()
	defer b.rwm.Unlock()
	if n := len(b.infos); n > 0 && b.infos[n-1].SeqNum+1 != info.SeqNum {
		return
	}
	b.infos = append(b.infos, info)
}

// PopHead removes and returns the oldest buffered info, nil when
// the buffer is empty.
func (b *CloseInfoBuffer) PopHead() *CloseInfo {
	b.rwm.Lock()
	defer b.rwm.Unlock()
	if len(b.infos) == 0 {
		return nil
	}
	head := b.infos[0]
	b.infos = b.infos[1:]
	return head
}
