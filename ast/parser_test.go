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

package ast_test

import (
	"testing"

	"github.com/txpipe/tx3-go/ast"
	"github.com/txpipe/tx3-go/testdata"
)

func mustFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := testdata.Read(name)
	if err != nil {
		t.Fatalf("reading fixture %s: %s", name, err)
	}
	return string(b)
}

func TestParseTransfer(t *testing.T) {
	prog, err := ast.ParseString(mustFixture(t, "transfer.tx3"))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	if len(prog.Parties) != 2 {
		t.Fatalf("expected 2 parties, got %d", len(prog.Parties))
	}
	if len(prog.Txs) != 1 {
		t.Fatalf("expected 1 tx, got %d", len(prog.Txs))
	}
	tx := prog.Txs[0]
	if tx.Name != "transfer" {
		t.Fatalf("expected tx name 'transfer', got %q", tx.Name)
	}
	if len(tx.Params) != 1 || tx.Params[0].Name != "quantity" {
		t.Fatalf("unexpected params: %#v", tx.Params)
	}
	if len(tx.Inputs) != 1 || tx.Inputs[0].Name != "source" {
		t.Fatalf("unexpected inputs: %#v", tx.Inputs)
	}
	if len(tx.Outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(tx.Outputs))
	}
}

func TestParseVesting(t *testing.T) {
	prog, err := ast.ParseString(mustFixture(t, "vesting.tx3"))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	if len(prog.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(prog.Types))
	}
	ty := prog.Types[0]
	if !ty.Record {
		t.Fatalf("expected VestingDatum to parse as a record")
	}
	if len(ty.Cases) != 1 || ty.Cases[0].Name != "Default" {
		t.Fatalf("expected a single synthetic Default case, got %#v", ty.Cases)
	}
	if len(ty.Cases[0].Fields) != 3 {
		t.Fatalf("expected 3 record fields, got %d", len(ty.Cases[0].Fields))
	}
	tx := prog.Txs[0]
	if tx.Validity == nil {
		t.Fatalf("expected a validity block")
	}
}

func TestParseFaucet(t *testing.T) {
	prog, err := ast.ParseString(mustFixture(t, "faucet.tx3"))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	if len(prog.Policies) != 1 || len(prog.Assets) != 1 {
		t.Fatalf("expected 1 policy and 1 asset, got %d/%d", len(prog.Policies), len(prog.Assets))
	}
	tx := prog.Txs[0]
	if tx.Mint == nil {
		t.Fatalf("expected a mint block")
	}
}

func TestOperatorAssociativityIsLeftOnly(t *testing.T) {
	src := `party P;
tx t(a: Int, b: Int, c: Int) {
  output {
    to: P,
    amount: Ada(a) - Ada(b) - Ada(c),
  }
}
`
	prog, err := ast.ParseString(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	amount := prog.Txs[0].Outputs[0].Amount
	outer, ok := amount.(*ast.AssetBinaryExpr)
	if !ok {
		t.Fatalf("expected outer AssetBinaryExpr, got %T", amount)
	}
	if outer.Op != ast.OpSub {
		t.Fatalf("expected outer op to be Sub")
	}
	if _, ok := outer.Right.(*ast.AssetConstructorExpr); !ok {
		t.Fatalf("expected right-hand side to be the single Ada(c) constructor, got %T", outer.Right)
	}
	inner, ok := outer.Left.(*ast.AssetBinaryExpr)
	if !ok {
		t.Fatalf("expected left-hand side to itself be a binary expr (left-assoc grouping), got %T", outer.Left)
	}
	if inner.Op != ast.OpSub {
		t.Fatalf("expected inner op to be Sub")
	}
}

func TestParseErrorCarriesSpan(t *testing.T) {
	_, err := ast.ParseString("party;")
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	perr, ok := err.(*ast.ParseError)
	if !ok {
		t.Fatalf("expected *ast.ParseError, got %T", err)
	}
	if perr.Span.Start == 0 && perr.Span.End == 0 {
		t.Fatalf("expected a non-zero span")
	}
}
