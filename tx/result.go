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

package tx

// Family classifies apply outcomes by what a submitter can do
// about them.
type Family int8

const (
	// The transaction took full effect.
	FamilySuccess Family = iota
	// The transaction can never succeed, retrying or reordering
	// cannot fix it.
	FamilyMalformed
	// The transaction may succeed later with a corrected fee or
	// sequence, or against a later ledger.
	FamilyRetry
	// The transaction failed but still consumed its fee and its
	// sequence slot.
	FamilyClaimed
)

func (f Family) String() string {
	switch f {
	case FamilySuccess:
		return "success"
	case FamilyMalformed:
		return "malformed"
	case FamilyRetry:
		return "retry"
	case FamilyClaimed:
		return "claimed"
	}
	return "unknown"
}

// ResultCode is the outcome of one transaction application. The
// numeric ranges encode the family: negative hundreds are
// malformed, small negatives are retriable, positive hundreds are
// claimed-cost, zero is success.
type ResultCode int32

const (
	CodeSuccess ResultCode = 0

	// Malformed outcomes, -299..-200.
	CodeBadOperation        ResultCode = -200
	CodeBadSigningAlgorithm ResultCode = -201
	CodeBadSignature        ResultCode = -202
	CodeBadCancelSeq        ResultCode = -203
	CodeBadAmount           ResultCode = -204

	// Retriable outcomes, -99..-1.
	CodeInsufficientFee ResultCode = -1
	CodePastSeq         ResultCode = -2
	CodeFutureSeq       ResultCode = -3
	CodeNoAccount       ResultCode = -4

	// Claimed-cost outcomes, 100..199.
	CodeFeeClaimed ResultCode = 100
	CodeUnfunded   ResultCode = 101
	CodeNoDst      ResultCode = 102
)

// Family returns the outcome family of the code.
func (c ResultCode) Family() Family {
	switch {
	case c == CodeSuccess:
		return FamilySuccess
	case c <= -200:
		return FamilyMalformed
	case c < 0:
		return FamilyRetry
	default:
		return FamilyClaimed
	}
}

func (c ResultCode) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeBadOperation:
		return "bad operation"
	case CodeBadSigningAlgorithm:
		return "bad signing algorithm"
	case CodeBadSignature:
		return "bad signature"
	case CodeBadCancelSeq:
		return "bad cancel sequence"
	case CodeBadAmount:
		return "bad amount"
	case CodeInsufficientFee:
		return "insufficient fee"
	case CodePastSeq:
		return "past sequence"
	case CodeFutureSeq:
		return "future sequence"
	case CodeNoAccount:
		return "account not found"
	case CodeFeeClaimed:
		return "fee claimed"
	case CodeUnfunded:
		return "unfunded"
	case CodeNoDst:
		return "destination not found"
	}
	return "unknown"
}

// Result pairs the outcome code with whether the open view was
// mutated. Applied can be true on failure: the claimed-cost
// family consumes fee and sequence even though the operation did
// not take effect, callers must not infer "no side effect" from a
// non-success code.
type Result struct {
	Code    ResultCode
	Applied bool
}
