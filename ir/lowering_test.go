// Copyright 2026 TxPipe
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir_test

import (
	"os"
	"testing"

	"github.com/txpipe/tx3-go/ast"
	"github.com/txpipe/tx3-go/ir"
	"github.com/txpipe/tx3-go/scope"
)

func lowerFixture(t *testing.T, path, txName string) ir.Tx {
	t.Helper()
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	prog, err := ast.ParseString(string(src))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	report := scope.Analyze(prog)
	if !report.OK() {
		t.Fatalf("analysis errors: %v", report.Errors)
	}
	tx, err := ir.Lower(prog, txName)
	if err != nil {
		t.Fatalf("lowering: %v", err)
	}
	return tx
}

func TestLowerTransfer(t *testing.T) {
	tx := lowerFixture(t, "../testdata/fixtures/transfer.tx3", "transfer")

	if len(tx.Inputs) != 1 || tx.Inputs[0].Name != "source" {
		t.Fatalf("expected a single input named source, got %#v", tx.Inputs)
	}
	q := tx.Inputs[0].Query
	if q == nil || q.Address == nil || q.Address.Kind != ir.KindEvalParameter {
		t.Fatalf("expected input.from to lower to an EvalParameter, got %#v", q)
	}
	if q.MinAmount == nil || q.MinAmount.Kind != ir.KindAssets {
		t.Fatalf("expected min_amount to lower to an Assets literal, got %#v", q.MinAmount)
	}

	if len(tx.Outputs) != 2 {
		t.Fatalf("expected two outputs, got %d", len(tx.Outputs))
	}
	change := tx.Outputs[1].Amount
	if change == nil || change.Kind != ir.KindEvalCustom {
		t.Fatalf("expected the change output amount to be an unreduced expression, got %#v", change)
	}
	if tx.Outputs[0].Amount == nil || tx.Outputs[0].Amount.Kind != ir.KindAssets {
		t.Fatalf("expected first output amount to lower to Assets, got %#v", tx.Outputs[0].Amount)
	}
}

func TestLowerVesting(t *testing.T) {
	tx := lowerFixture(t, "../testdata/fixtures/vesting.tx3", "vesting")

	if len(tx.Outputs) != 1 {
		t.Fatalf("expected one output, got %d", len(tx.Outputs))
	}
	datum := tx.Outputs[0].Datum
	if datum == nil || datum.Kind != ir.KindStruct {
		t.Fatalf("expected the datum field to lower to a Struct, got %#v", datum)
	}
	if len(datum.Struct.Fields) != 3 {
		t.Fatalf("expected VestingDatum's Default case to carry 3 fields, got %d", len(datum.Struct.Fields))
	}
	// lock_until: until
	field0 := datum.Struct.Fields[0]
	if field0.Kind != ir.KindEvalParameter || field0.ParamName != "until" {
		t.Fatalf("expected field 0 (lock_until) to reference the 'until' parameter, got %#v", field0)
	}

	if tx.Validity == nil || tx.Validity.Until == nil {
		t.Fatalf("expected a validity.until expression, got %#v", tx.Validity)
	}
}

func TestLowerFaucetClaim(t *testing.T) {
	tx := lowerFixture(t, "../testdata/fixtures/faucet.tx3", "faucet_claim")

	if len(tx.Mints) != 1 {
		t.Fatalf("expected a single mint block, got %d", len(tx.Mints))
	}
	mint := tx.Mints[0]
	if mint.Amount == nil || mint.Amount.Kind != ir.KindAssets {
		t.Fatalf("expected the mint amount to lower to an Assets literal, got %#v", mint.Amount)
	}
	if mint.Redeemer == nil || mint.Redeemer.Kind != ir.KindEvalParameter || mint.Redeemer.ParamName != "password" {
		t.Fatalf("expected the mint redeemer to reference the 'password' parameter, got %#v", mint.Redeemer)
	}

	if len(tx.Outputs) != 2 {
		t.Fatalf("expected two outputs, got %d", len(tx.Outputs))
	}
	// to: requester (a tx parameter, not a party)
	addr := tx.Outputs[0].Address
	if addr == nil || addr.Kind != ir.KindEvalParameter || addr.ParamName != "requester" {
		t.Fatalf("expected first output address to reference the 'requester' parameter, got %#v", addr)
	}
	sum := tx.Outputs[0].Amount
	if sum == nil || sum.Kind != ir.KindEvalCustom {
		t.Fatalf("expected FaucetToken(quantity) + Ada(2000000) to lower to an unreduced EvalCustom, got %#v", sum)
	}

	change := tx.Outputs[1].Amount
	if change == nil || change.Kind != ir.KindEvalCustom {
		t.Fatalf("expected the change output amount to involve 'fees', got %#v", change)
	}
}
