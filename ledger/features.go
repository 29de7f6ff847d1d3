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
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/veloledger/go-veloledger/crypto"
)

// Capability names gating which rules are active for a ledger
// era. They are carried by value on every snapshot, there is no
// process-wide feature toggle.
const (
	FeatureFeeEscalation = "fee-escalation"
	FeatureSignEd25519   = "sign-ed25519"
	FeatureSignSecp256k1 = "sign-secp256k1"
)

// FeatureSet is the set of capabilities active in a ledger era.
type FeatureSet struct {
	set mapset.Set
}

// NewFeatureSet builds a feature set with the given capabilities.
func NewFeatureSet(names ...string) *FeatureSet {
	fs := &FeatureSet{set: mapset.NewSet()}
	for _, n := range names {
		fs.set.Add(n)
	}
	return fs
}

// DefaultFeatureSet returns the capabilities of the current era.
func DefaultFeatureSet() *FeatureSet {
	return NewFeatureSet(FeatureFeeEscalation, FeatureSignEd25519, FeatureSignSecp256k1)
}

// Has reports whether the capability is active.
func (fs *FeatureSet) Has(name string) bool {
	return fs.set.Contains(name)
}

// AlgorithmAllowed reports whether accounts may sign with the
// given key algorithm in this era. Algorithms without a feature
// name are never allowed.
func (fs *FeatureSet) AlgorithmAllowed(algo crypto.Algorithm) bool {
	switch algo {
	case crypto.AlgoEd25519:
		return fs.Has(FeatureSignEd25519)
	case crypto.AlgoSecp256k1:
		return fs.Has(FeatureSignSecp256k1)
	}
	return false
}

// Names returns the sorted capability names, the sorted form is
// what ledger headers embed.
func (fs *FeatureSet) Names() []string {
	var names []string
	for _, v := range fs.set.ToSlice() {
		names = append(names, v.(string))
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the feature set.
func (fs *FeatureSet) Clone() *FeatureSet {
	return NewFeatureSet(fs.Names()...)
}
