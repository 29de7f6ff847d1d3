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

package future

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFutureRespond(t *testing.T) {
	f := &Tx{}
	f.Init()

	want := errors.New("boom")
	go f.Respond(want)
	assert.Equal(t, want, f.Error())

	// Only the first response counts.
	f.Respond(errors.New("other"))
	assert.Equal(t, want, f.Error())
}

func TestFutureRespondNil(t *testing.T) {
	f := &Account{AccountID: "alice"}
	f.Init()
	go f.Respond(nil)
	assert.Nil(t, f.Error())
}
