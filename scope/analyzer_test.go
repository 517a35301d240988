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

package scope_test

import (
	"testing"

	"github.com/txpipe/tx3-go/ast"
	"github.com/txpipe/tx3-go/scope"
	"github.com/txpipe/tx3-go/testdata"
)

func parseFixture(t *testing.T, name string) *ast.Program {
	t.Helper()
	b, err := testdata.Read(name)
	if err != nil {
		t.Fatalf("reading fixture: %s", err)
	}
	prog, err := ast.ParseString(string(b))
	if err != nil {
		t.Fatalf("parsing fixture: %s", err)
	}
	return prog
}

func TestAnalyzeTransferResolvesEveryIdentifier(t *testing.T) {
	prog := parseFixture(t, "transfer.tx3")
	report := scope.Analyze(prog)
	if !report.OK() {
		t.Fatalf("unexpected analysis errors: %v", report.Errors)
	}
	tx := prog.Txs[0]
	in := tx.Inputs[0]
	fromIdent := in.From.(*ast.AddressIdentifierExpr)
	if fromIdent.Symbol == nil || fromIdent.Symbol.Kind != ast.SymParty {
		t.Fatalf("expected 'Sender' to resolve to a party symbol, got %#v", fromIdent.Symbol)
	}
	amt := in.MinAmount.(*ast.AssetConstructorExpr)
	qty := amt.Amount.(*ast.IdentifierExpr)
	if qty.Symbol == nil || qty.Symbol.Kind != ast.SymParamVar {
		t.Fatalf("expected 'quantity' to resolve to a param symbol, got %#v", qty.Symbol)
	}
}

func TestAnalyzeReportsNotInScope(t *testing.T) {
	src := `party P;
tx t() {
  output {
    to: P,
    amount: Ada(missing_param),
  }
}
`
	prog, err := ast.ParseString(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	report := scope.Analyze(prog)
	if report.OK() {
		t.Fatalf("expected a NotInScope error")
	}
	found := false
	for _, e := range report.Errors {
		if e.Kind == scope.NotInScope {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected at least one NotInScope error, got %v", report.Errors)
	}
}

func TestAnalyzeReportsDuplicateDefinition(t *testing.T) {
	src := `party P;
party P;
tx t() {
  output {
    to: P,
    amount: Ada(1),
  }
}
`
	prog, err := ast.ParseString(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	report := scope.Analyze(prog)
	found := false
	for _, e := range report.Errors {
		if e.Kind == scope.DuplicateDefinition {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a DuplicateDefinition error, got %v", report.Errors)
	}
}

func TestAnalyzeFaucetResolvesFeesAndMint(t *testing.T) {
	prog := parseFixture(t, "faucet.tx3")
	report := scope.Analyze(prog)
	if !report.OK() {
		t.Fatalf("unexpected analysis errors: %v", report.Errors)
	}
}
