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

package scope

import (
	"fmt"

	"github.com/txpipe/tx3-go/ast"
)

// ErrorKind tags the analysis error taxonomy from spec §4.2.
type ErrorKind int

const (
	DuplicateDefinition ErrorKind = iota
	NotInScope
	InvalidSymbol
)

func (k ErrorKind) String() string {
	switch k {
	case DuplicateDefinition:
		return "DuplicateDefinition"
	case NotInScope:
		return "NotInScope"
	case InvalidSymbol:
		return "InvalidSymbol"
	default:
		return "Unknown"
	}
}

// AnalysisError is one diagnostic produced during analysis.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Span    ast.Span
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Span.Start, e.Span.End, e.Message)
}

// AnalyzeReport collects every diagnostic found during analysis. Unlike
// parsing, analysis never aborts on the first error — it keeps going so an
// editor can surface every problem in one pass (spec §4.2, §7).
type AnalyzeReport struct {
	Errors []*AnalysisError
}

// OK reports whether the report is free of errors.
func (r *AnalyzeReport) OK() bool { return len(r.Errors) == 0 }

func (r *AnalyzeReport) addf(kind ErrorKind, span ast.Span, format string, args ...any) {
	r.Errors = append(r.Errors, &AnalysisError{
		Kind: kind, Span: span, Message: fmt.Sprintf(format, args...),
	})
}

// adaSymbol is the synthetic Ada asset entry every program scope carries
// (spec §3.2): an empty policy and empty name signal native coin.
var adaSymbol = &ast.Symbol{
	Kind: ast.SymAsset,
	Name: "Ada",
	Asset: &ast.AssetDef{Name: "Ada"},
}

// analyzer walks the Program, building scope chains and attaching a Symbol
// to every Identifier node it can resolve.
type analyzer struct {
	report *AnalyzeReport
}

// Analyze builds the program and per-tx scope chains and resolves every
// identifier against them. It never returns an error value: problems are
// recorded in the returned report (spec §4.2, §7).
func Analyze(prog *ast.Program) *AnalyzeReport {
	a := &analyzer{report: &AnalyzeReport{}}
	root := a.buildProgramScope(prog)
	for _, tx := range prog.Txs {
		a.analyzeTx(tx, root)
	}
	return a.report
}

func (a *analyzer) buildProgramScope(prog *ast.Program) *Scope {
	root := New()
	for _, party := range prog.Parties {
		if root.Define(party.Name, &ast.Symbol{Kind: ast.SymParty, Name: party.Name, Party: party}) {
			a.report.addf(DuplicateDefinition, party.Span, "duplicate definition of party %q", party.Name)
		}
	}
	for _, policy := range prog.Policies {
		if root.Define(policy.Name, &ast.Symbol{Kind: ast.SymPolicy, Name: policy.Name, Policy: policy}) {
			a.report.addf(DuplicateDefinition, policy.Span, "duplicate definition of policy %q", policy.Name)
		}
	}
	root.Define("Ada", adaSymbol)
	for _, asset := range prog.Assets {
		if root.Define(asset.Name, &ast.Symbol{Kind: ast.SymAsset, Name: asset.Name, Asset: asset}) {
			a.report.addf(DuplicateDefinition, asset.Span, "duplicate definition of asset %q", asset.Name)
		}
	}
	for _, ty := range prog.Types {
		if root.Define(ty.Name, &ast.Symbol{Kind: ast.SymType, Name: ty.Name, Type: ty}) {
			a.report.addf(DuplicateDefinition, ty.Span, "duplicate definition of type %q", ty.Name)
		}
	}
	return root
}

func (a *analyzer) analyzeTx(tx *ast.TxDef, root *Scope) {
	txScope := root.Child()
	txScope.Define("fees", &ast.Symbol{Kind: ast.SymFees, Name: "fees"})
	for _, param := range tx.Params {
		if txScope.Define(param.Name, &ast.Symbol{Kind: ast.SymParamVar, Name: param.Name, Param: param}) {
			a.report.addf(DuplicateDefinition, param.Span, "duplicate definition of parameter %q", param.Name)
		}
	}
	for _, input := range tx.Inputs {
		if txScope.Define(input.Name, &ast.Symbol{Kind: ast.SymInput, Name: input.Name, Input: input}) {
			a.report.addf(DuplicateDefinition, input.Span, "duplicate definition of input %q", input.Name)
		}
	}

	for _, input := range tx.Inputs {
		a.resolveAddress(input.From, txScope)
		a.resolveAsset(input.MinAmount, txScope)
		a.resolveData(input.Redeemer, txScope)
		a.resolveData(input.Ref, txScope)
	}
	for _, output := range tx.Outputs {
		a.resolveAddress(output.To, txScope)
		a.resolveAsset(output.Amount, txScope)
		a.resolveData(output.Datum, txScope)
	}
	if tx.Mint != nil {
		a.resolveAsset(tx.Mint.Amount, txScope)
		a.resolveData(tx.Mint.Redeemer, txScope)
	}
	if tx.Burn != nil {
		a.resolveAsset(tx.Burn.Amount, txScope)
		a.resolveData(tx.Burn.Redeemer, txScope)
	}
	if tx.Validity != nil {
		a.resolveData(tx.Validity.Since, txScope)
		a.resolveData(tx.Validity.Until, txScope)
	}
	for _, signer := range tx.Signers {
		a.resolveAddress(signer, txScope)
	}
	for _, m := range tx.Metadata {
		a.resolveData(m.Value, txScope)
	}
	for _, ah := range tx.AdHoc {
		for _, k := range ah.Order {
			a.resolveData(ah.Fields[k], txScope)
		}
	}
	if tx.Collateral != nil {
		a.resolveAddress(tx.Collateral.From, txScope)
		a.resolveAsset(tx.Collateral.MinAmount, txScope)
		a.resolveData(tx.Collateral.Ref, txScope)
	}
	for _, ref := range tx.References {
		a.resolveData(ref.Ref, txScope)
	}
}

func (a *analyzer) resolveAddress(expr ast.AddressExpr, s *Scope) {
	if expr == nil {
		return
	}
	ident, ok := expr.(*ast.AddressIdentifierExpr)
	if !ok {
		return
	}
	sym, found := s.Lookup(ident.Name)
	if !found {
		a.report.addf(NotInScope, ident.Span, "identifier %q is not in scope", ident.Name)
		return
	}
	if sym.Kind != ast.SymParty && sym.Kind != ast.SymParamVar {
		a.report.addf(
			InvalidSymbol, ident.Span,
			"expected %q or %q, got %q", ast.SymParty, ast.SymParamVar, sym.Kind,
		)
	}
	ident.Symbol = sym
}

func (a *analyzer) resolveAsset(expr ast.AssetExpr, s *Scope) {
	switch e := expr.(type) {
	case nil:
		return
	case *ast.AssetIdentifierExpr:
		sym, found := s.Lookup(e.Name)
		if !found {
			a.report.addf(NotInScope, e.Span, "identifier %q is not in scope", e.Name)
			return
		}
		e.Symbol = sym
	case *ast.AssetConstructorExpr:
		if _, found := s.Lookup(e.Type); !found {
			a.report.addf(NotInScope, e.Span, "asset type %q is not in scope", e.Type)
		}
		a.resolveData(e.Amount, s)
		a.resolveData(e.AssetName, s)
	case *ast.AssetBinaryExpr:
		a.resolveAsset(e.Left, s)
		a.resolveAsset(e.Right, s)
	case *ast.AssetPropertyExpr:
		// Property access opens its own (empty) child scope: the object
		// resolves against the outer scope, and the path segments are
		// reserved projections (amount/assets/datum) handled in lowering,
		// not symbols to resolve here — tx3 does not type-check beyond
		// identifier resolution (spec §1 Non-goals).
		a.resolveDataIdentifier(e.Object, s)
	}
}

func (a *analyzer) resolveData(expr ast.DataExpr, s *Scope) {
	switch e := expr.(type) {
	case nil:
		return
	case *ast.IdentifierExpr:
		a.resolveDataIdentifier(e, s)
	case *ast.PropertyExpr:
		a.resolveDataIdentifier(e.Object, s)
	case *ast.BinaryExpr:
		a.resolveData(e.Left, s)
		a.resolveData(e.Right, s)
	case *ast.DatumConstructorExpr:
		a.resolveDatumConstructor(e, s)
	default:
		// Number/Bool/String/HexBytes/None/Unit carry no identifiers.
	}
}

func (a *analyzer) resolveDataIdentifier(expr ast.DataExpr, s *Scope) {
	ident, ok := expr.(*ast.IdentifierExpr)
	if !ok {
		a.resolveData(expr, s)
		return
	}
	sym, found := s.Lookup(ident.Name)
	if !found {
		a.report.addf(NotInScope, ident.Span, "identifier %q is not in scope", ident.Name)
		return
	}
	ident.Symbol = sym
}

// resolveDatumConstructor looks up the constructed type, opens the nested
// scope exposing that variant case's fields, and validates that every
// explicit field name names a declared field of the case (spec §4.2 point
// 3). Field values themselves are analyzed against the *enclosing* scope,
// since they reference parameters/inputs, not sibling fields.
func (a *analyzer) resolveDatumConstructor(ctor *ast.DatumConstructorExpr, s *Scope) {
	typeSym, found := s.Lookup(ctor.Type)
	if !found {
		a.report.addf(NotInScope, ctor.Span, "type %q is not in scope", ctor.Type)
	} else if typeSym.Kind != ast.SymType {
		a.report.addf(InvalidSymbol, ctor.Span, "expected %q, got %q", ast.SymType, typeSym.Kind)
	} else {
		caseName := ctor.Case
		if caseName == "" {
			caseName = "Default"
		}
		var vcase *ast.VariantCase
		for _, c := range typeSym.Type.Cases {
			if c.Name == caseName {
				vcase = c
				break
			}
		}
		if vcase == nil {
			a.report.addf(NotInScope, ctor.Span, "type %q has no case %q", ctor.Type, caseName)
		} else {
			fieldScope := s.Child()
			for _, f := range vcase.Fields {
				fieldScope.Define(f.Name, &ast.Symbol{Kind: ast.SymRecordField, Name: f.Name, Field: f})
			}
			for _, fa := range ctor.Fields {
				if _, ok := fieldScope.Lookup(fa.Name); !ok {
					a.report.addf(NotInScope, fa.Span, "type %q case %q has no field %q", ctor.Type, caseName, fa.Name)
				}
			}
		}
	}
	for _, fa := range ctor.Fields {
		a.resolveData(fa.Value, s)
	}
	if ctor.Spread != nil {
		a.resolveData(ctor.Spread, s)
	}
}
