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

package ir

import (
	"encoding/hex"
	"fmt"

	"github.com/txpipe/tx3-go/ast"
)

// LowerError reports a problem found while lowering an already-analyzed
// Program. Lowering assumes Analyze has already run and reported no
// errors; it does not re-validate scoping, only structural shape (spec
// §4.3 takes an analyzed AST as its precondition).
type LowerError struct {
	Message string
	Span    ast.Span
}

func (e *LowerError) Error() string {
	return fmt.Sprintf("lowering error at %d:%d: %s", e.Span.Start, e.Span.End, e.Message)
}

// Lower finds the tx named txName in prog and lowers it to IR (spec §4.3).
func Lower(prog *ast.Program, txName string) (Tx, error) {
	var txDef *ast.TxDef
	for _, t := range prog.Txs {
		if t.Name == txName {
			txDef = t
			break
		}
	}
	if txDef == nil {
		return Tx{}, fmt.Errorf("no tx named %q", txName)
	}
	l := &lowerer{assets: map[string]*ast.AssetDef{}, types: map[string]*ast.TypeDef{}}
	for _, a := range prog.Assets {
		l.assets[a.Name] = a
	}
	for _, t := range prog.Types {
		l.types[t.Name] = t
	}
	return l.lowerTx(txDef)
}

// lowerer carries the program-level asset and type tables so asset
// constructors (which only name their type, spec §4.1) and datum
// constructors (which need their variant case's field order to place
// explicit fields and spread fields correctly) can be lowered.
type lowerer struct {
	assets map[string]*ast.AssetDef
	types  map[string]*ast.TypeDef
}

func (l *lowerer) lowerTx(tx *ast.TxDef) (Tx, error) {
	out := Tx{Name: tx.Name, Fees: FeeQuery()}

	for _, in := range tx.Inputs {
		li, err := l.lowerInput(in)
		if err != nil {
			return Tx{}, err
		}
		out.Inputs = append(out.Inputs, li)
	}
	for _, o := range tx.Outputs {
		lo, err := l.lowerOutput(o)
		if err != nil {
			return Tx{}, err
		}
		out.Outputs = append(out.Outputs, lo)
	}
	if tx.Mint != nil {
		m, err := l.lowerMint(tx.Mint)
		if err != nil {
			return Tx{}, err
		}
		out.Mints = append(out.Mints, m)
	}
	if tx.Burn != nil {
		amt, err := l.lowerAsset(tx.Burn.Amount)
		if err != nil {
			return Tx{}, err
		}
		negated := EvalCustom(Assets(nil), amt, OpSub)
		m := Mint{Amount: ptr(negated)}
		if tx.Burn.Redeemer != nil {
			red, err := l.lowerData(tx.Burn.Redeemer)
			if err != nil {
				return Tx{}, err
			}
			m.Redeemer = ptr(red)
		}
		out.Mints = append(out.Mints, m)
	}
	if tx.Validity != nil {
		v := &Validity{}
		if tx.Validity.Since != nil {
			e, err := l.lowerData(tx.Validity.Since)
			if err != nil {
				return Tx{}, err
			}
			v.Since = ptr(e)
		}
		if tx.Validity.Until != nil {
			e, err := l.lowerData(tx.Validity.Until)
			if err != nil {
				return Tx{}, err
			}
			v.Until = ptr(e)
		}
		out.Validity = v
	}
	for _, s := range tx.Signers {
		e, err := l.lowerAddress(s)
		if err != nil {
			return Tx{}, err
		}
		out.Signers = append(out.Signers, e)
	}
	for _, m := range tx.Metadata {
		e, err := l.lowerData(m.Value)
		if err != nil {
			return Tx{}, err
		}
		out.Metadata = append(out.Metadata, MetadataEntry{Key: m.Key, Value: e})
	}
	for _, ah := range tx.AdHoc {
		fields := make(map[string]Expression, len(ah.Fields))
		for _, k := range ah.Order {
			e, err := l.lowerData(ah.Fields[k])
			if err != nil {
				return Tx{}, err
			}
			fields[k] = e
		}
		out.AdHoc = append(out.AdHoc, AdHocExpr{Name: ah.Name, Fields: fields, Order: ah.Order})
	}
	if tx.Collateral != nil {
		c := &Collateral{}
		if tx.Collateral.Ref != nil {
			e, err := l.lowerData(tx.Collateral.Ref)
			if err != nil {
				return Tx{}, err
			}
			c.RefExpr = ptr(e)
		} else {
			q := &InputQuery{}
			if tx.Collateral.From != nil {
				e, err := l.lowerAddress(tx.Collateral.From)
				if err != nil {
					return Tx{}, err
				}
				q.Address = ptr(e)
			}
			if tx.Collateral.MinAmount != nil {
				e, err := l.lowerAsset(tx.Collateral.MinAmount)
				if err != nil {
					return Tx{}, err
				}
				q.MinAmount = ptr(e)
			}
			c.Query = q
		}
		out.Collateral = c
	}
	for _, r := range tx.References {
		e, err := l.lowerData(r.Ref)
		if err != nil {
			return Tx{}, err
		}
		out.References = append(out.References, e)
	}

	return out, nil
}

func ptr[T any](v T) *T { return &v }

func (l *lowerer) lowerInput(in *ast.InputBlock) (Input, error) {
	out := Input{Name: in.Name}
	if in.Ref != nil {
		e, err := l.lowerData(in.Ref)
		if err != nil {
			return Input{}, err
		}
		out.RefExpr = ptr(e)
	} else {
		q := &InputQuery{}
		if in.From != nil {
			e, err := l.lowerAddress(in.From)
			if err != nil {
				return Input{}, err
			}
			q.Address = ptr(e)
		}
		if in.MinAmount != nil {
			e, err := l.lowerAsset(in.MinAmount)
			if err != nil {
				return Input{}, err
			}
			q.MinAmount = ptr(e)
		}
		out.Query = q
	}
	if in.Redeemer != nil {
		e, err := l.lowerData(in.Redeemer)
		if err != nil {
			return Input{}, err
		}
		out.Redeemer = ptr(e)
	}
	return out, nil
}

func (l *lowerer) lowerOutput(o *ast.OutputBlock) (Output, error) {
	out := Output{}
	if o.To != nil {
		e, err := l.lowerAddress(o.To)
		if err != nil {
			return Output{}, err
		}
		out.Address = ptr(e)
	}
	if o.Amount != nil {
		e, err := l.lowerAsset(o.Amount)
		if err != nil {
			return Output{}, err
		}
		out.Amount = ptr(e)
	}
	if o.Datum != nil {
		e, err := l.lowerData(o.Datum)
		if err != nil {
			return Output{}, err
		}
		out.Datum = ptr(e)
	}
	return out, nil
}

func (l *lowerer) lowerMint(m *ast.MintBlock) (Mint, error) {
	out := Mint{}
	if m.Amount != nil {
		e, err := l.lowerAsset(m.Amount)
		if err != nil {
			return Mint{}, err
		}
		out.Amount = ptr(e)
	}
	if m.Redeemer != nil {
		e, err := l.lowerData(m.Redeemer)
		if err != nil {
			return Mint{}, err
		}
		out.Redeemer = ptr(e)
	}
	return out, nil
}

// lowerData lowers a DataExpr to its erased IR form (spec §4.3).
func (l *lowerer) lowerData(e ast.DataExpr) (Expression, error) {
	switch d := e.(type) {
	case nil:
		return None(), nil
	case *ast.NoneExpr:
		return None(), nil
	case *ast.UnitExpr:
		return Unit(), nil
	case *ast.NumberExpr:
		return Number(d.Value), nil
	case *ast.BoolExpr:
		return Bool(d.Value), nil
	case *ast.StringExpr:
		return String(d.Value), nil
	case *ast.HexBytesExpr:
		return Bytes(d.Value), nil
	case *ast.IdentifierExpr:
		return l.lowerDataIdentifier(d)
	case *ast.PropertyExpr:
		return l.lowerProperty(d.Object, d.Path)
	case *ast.BinaryExpr:
		left, err := l.lowerData(d.Left)
		if err != nil {
			return Expression{}, err
		}
		right, err := l.lowerData(d.Right)
		if err != nil {
			return Expression{}, err
		}
		return EvalCustom(left, right, lowerBinOp(d.Op)), nil
	case *ast.DatumConstructorExpr:
		return l.lowerDatumConstructor(d)
	default:
		return Expression{}, &LowerError{Message: fmt.Sprintf("unhandled data expression %T", e), Span: e.SpanOf()}
	}
}

func (l *lowerer) lowerDataIdentifier(id *ast.IdentifierExpr) (Expression, error) {
	if id.Symbol == nil {
		return Expression{}, &LowerError{Message: fmt.Sprintf("identifier %q has no resolved symbol", id.Name), Span: id.Span}
	}
	switch id.Symbol.Kind {
	case ast.SymParamVar:
		return EvalParameter(id.Name, id.Symbol.Param.Type.Name), nil
	case ast.SymInput:
		// A bare input name in data position denotes that input's datum —
		// the common `source.datum` shorthand collapses to this when the
		// whole datum (not a projected field) is wanted.
		return EvalInputDatum(id.Name), nil
	case ast.SymFees:
		return FeeQuery(), nil
	case ast.SymParty:
		return EvalParameter(id.Name, ast.TypeAddress), nil
	default:
		return Expression{}, &LowerError{
			Message: fmt.Sprintf("identifier %q resolved to unexpected symbol kind %s in data position", id.Name, id.Symbol.Kind),
			Span:    id.Span,
		}
	}
}

// lowerProperty lowers `object.path...`. When the object is an input name,
// the leading path segment picks which IR projection the rest of the path
// walks into: "datum" for EvalInputDatum (further segments index into the
// constructed struct), "assets"/"amount" for EvalInputAssets. Any other
// object lowers generically and the whole path becomes an EvalProperty.
func (l *lowerer) lowerProperty(obj ast.DataExpr, path []string) (Expression, error) {
	if id, ok := obj.(*ast.IdentifierExpr); ok && id.Symbol != nil && id.Symbol.Kind == ast.SymInput && len(path) > 0 {
		switch path[0] {
		case "datum":
			base := EvalInputDatum(id.Name)
			if len(path) == 1 {
				return base, nil
			}
			return EvalProperty(base, path[1:]), nil
		case "assets", "amount":
			return EvalInputAssets(id.Name), nil
		}
	}
	base, err := l.lowerData(obj)
	if err != nil {
		return Expression{}, err
	}
	return EvalProperty(base, path), nil
}

func (l *lowerer) lowerDatumConstructor(ctor *ast.DatumConstructorExpr) (Expression, error) {
	typeDef, ok := l.types[ctor.Type]
	if !ok {
		return Expression{}, &LowerError{Message: fmt.Sprintf("type %q is not declared", ctor.Type), Span: ctor.Span}
	}
	caseName := ctor.Case
	if caseName == "" {
		caseName = "Default"
	}
	var vcase *ast.VariantCase
	ctorIdx := 0
	for i, c := range typeDef.Cases {
		if c.Name == caseName {
			vcase = c
			ctorIdx = i
			break
		}
	}
	if vcase == nil {
		return Expression{}, &LowerError{Message: fmt.Sprintf("type %q has no case %q", ctor.Type, caseName), Span: ctor.Span}
	}

	fields := make([]Expression, len(vcase.Fields))
	for i := range fields {
		fields[i] = None()
	}

	// The spread fills every field positionally from its own (same-shape)
	// struct first; explicit fields, lowered after, overwrite by name so
	// they take precedence over the spread per field.
	if ctor.Spread != nil {
		spread, err := l.lowerData(ctor.Spread)
		if err != nil {
			return Expression{}, err
		}
		if spread.Kind == KindStruct && spread.Struct != nil {
			for i := 0; i < len(fields) && i < len(spread.Struct.Fields); i++ {
				fields[i] = spread.Struct.Fields[i]
			}
		}
	}
	for _, fa := range ctor.Fields {
		idx := -1
		for i, f := range vcase.Fields {
			if f.Name == fa.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			// The analyzer already reports this as NotInScope; lowering
			// skips the field rather than failing a second time.
			continue
		}
		v, err := l.lowerData(fa.Value)
		if err != nil {
			return Expression{}, err
		}
		fields[idx] = v
	}

	return Struct(uint32(ctorIdx), fields), nil
}

// lowerAsset lowers an AssetExpr to its erased IR form (spec §4.3, §4.4.1).
func (l *lowerer) lowerAsset(e ast.AssetExpr) (Expression, error) {
	switch a := e.(type) {
	case nil:
		return Assets(nil), nil
	case *ast.AssetIdentifierExpr:
		if a.Symbol == nil {
			return Expression{}, &LowerError{Message: fmt.Sprintf("identifier %q has no resolved symbol", a.Name), Span: a.Span}
		}
		switch a.Symbol.Kind {
		case ast.SymParamVar:
			return EvalParameter(a.Name, ast.TypeAnyAsset), nil
		case ast.SymInput:
			return EvalInputAssets(a.Name), nil
		case ast.SymFees:
			return FeeQuery(), nil
		default:
			return Expression{}, &LowerError{
				Message: fmt.Sprintf("identifier %q resolved to unexpected symbol kind %s in asset position", a.Name, a.Symbol.Kind),
				Span:    a.Span,
			}
		}
	case *ast.AssetConstructorExpr:
		return l.lowerAssetConstructor(a)
	case *ast.AssetBinaryExpr:
		left, err := l.lowerAsset(a.Left)
		if err != nil {
			return Expression{}, err
		}
		right, err := l.lowerAsset(a.Right)
		if err != nil {
			return Expression{}, err
		}
		return EvalCustom(left, right, lowerBinOp(a.Op)), nil
	case *ast.AssetPropertyExpr:
		return l.lowerProperty(a.Object, a.Path)
	default:
		return Expression{}, &LowerError{Message: fmt.Sprintf("unhandled asset expression %T", e), Span: e.SpanOf()}
	}
}

func (l *lowerer) lowerAssetConstructor(a *ast.AssetConstructorExpr) (Expression, error) {
	amount, err := l.lowerData(a.Amount)
	if err != nil {
		return Expression{}, err
	}

	if a.Type == "Ada" {
		return Assets([]AssetExpr{{Policy: Bytes(nil), AssetName: Bytes(nil), Amount: amount}}), nil
	}

	// The analyzer guarantees a.Type resolved to a SymAsset; lowering reads
	// the policy/asset-name bytes straight off the AssetDef.
	def, ok := l.assets[a.Type]
	if !ok {
		return Expression{}, &LowerError{Message: fmt.Sprintf("asset type %q is not declared", a.Type), Span: a.Span}
	}
	policyBytes, err := hex.DecodeString(def.PolicyHex)
	if err != nil {
		return Expression{}, &LowerError{Message: fmt.Sprintf("asset %q has an invalid policy hex: %s", a.Type, err), Span: a.Span}
	}
	assetName := Bytes([]byte(def.AssetName))
	if a.AssetName != nil {
		assetName, err = l.lowerData(a.AssetName)
		if err != nil {
			return Expression{}, err
		}
	}
	return Assets([]AssetExpr{{Policy: Bytes(policyBytes), AssetName: assetName, Amount: amount}}), nil
}

// lowerAddress lowers an AddressExpr. A literal carries its raw bech32/base58
// text as bytes; decoding to a chain-specific payload happens in the
// compile stage, which is the first point that knows which chain it is
// targeting (spec §4.5/§4.6 split parsing from chain compilation).
func (l *lowerer) lowerAddress(e ast.AddressExpr) (Expression, error) {
	switch a := e.(type) {
	case nil:
		return None(), nil
	case *ast.AddressStringExpr:
		return Address([]byte(a.Value)), nil
	case *ast.AddressIdentifierExpr:
		if a.Symbol == nil {
			return Expression{}, &LowerError{Message: fmt.Sprintf("identifier %q has no resolved symbol", a.Name), Span: a.Span}
		}
		return EvalParameter(a.Name, ast.TypeAddress), nil
	default:
		return Expression{}, &LowerError{Message: fmt.Sprintf("unhandled address expression %T", e), Span: e.SpanOf()}
	}
}

func lowerBinOp(op ast.BinOp) BinOpKind {
	if op == ast.OpAdd {
		return OpAdd
	}
	return OpSub
}
