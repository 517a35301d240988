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

// Transform walks e bottom-up, rewriting every child first and then
// passing the rebuilt node to f. ApplyArgs, ApplyFees and Reduce are all
// instances of this single walk; only f differs between them (spec §9's
// "blanket container instances, one traversal shared by every stage").
func Transform(e Expression, f func(Expression) Expression) Expression {
	switch e.Kind {
	case KindList, KindTuple:
		items := make([]Expression, len(e.List))
		for i, it := range e.List {
			items[i] = Transform(it, f)
		}
		e.List = items
	case KindStruct:
		if e.Struct != nil {
			fields := make([]Expression, len(e.Struct.Fields))
			for i, fld := range e.Struct.Fields {
				fields[i] = Transform(fld, f)
			}
			e.Struct = &StructExpr{Constructor: e.Struct.Constructor, Fields: fields}
		}
	case KindAssets:
		items := make([]AssetExpr, len(e.Assets))
		for i, a := range e.Assets {
			items[i] = AssetExpr{
				Policy:    Transform(a.Policy, f),
				AssetName: Transform(a.AssetName, f),
				Amount:    Transform(a.Amount, f),
			}
		}
		e.Assets = items
	case KindEvalProperty:
		if e.Property != nil {
			e.Property = &PropertyRef{Object: Transform(e.Property.Object, f), Path: e.Property.Path}
		}
	case KindEvalCustom:
		if e.Custom != nil {
			e.Custom = &BinaryOp{
				Left:  Transform(e.Custom.Left, f),
				Right: Transform(e.Custom.Right, f),
				Op:    e.Custom.Op,
			}
		}
	case KindAdHocDirective:
		if e.AdHoc != nil {
			fields := make(map[string]Expression, len(e.AdHoc.Fields))
			for _, k := range e.AdHoc.Order {
				fields[k] = Transform(e.AdHoc.Fields[k], f)
			}
			e.AdHoc = &AdHocExpr{Name: e.AdHoc.Name, Fields: fields, Order: e.AdHoc.Order}
		}
	}
	return f(e)
}

// transformOptional applies Transform to *e in place when e is non-nil.
func transformOptional(e *Expression, f func(Expression) Expression) *Expression {
	if e == nil {
		return nil
	}
	out := Transform(*e, f)
	return &out
}

// TransformTx rewrites every Expression reachable from tx using f, via
// Transform, leaving the surrounding Tx/Input/Output/... shape intact.
func TransformTx(tx Tx, f func(Expression) Expression) Tx {
	inputs := make([]Input, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = in
		inputs[i].Query = transformQuery(in.Query, f)
		inputs[i].RefExpr = transformOptional(in.RefExpr, f)
		inputs[i].Redeemer = transformOptional(in.Redeemer, f)
	}
	tx.Inputs = inputs

	outputs := make([]Output, len(tx.Outputs))
	for i, out := range tx.Outputs {
		outputs[i] = Output{
			Address: transformOptional(out.Address, f),
			Datum:   transformOptional(out.Datum, f),
			Amount:  transformOptional(out.Amount, f),
		}
	}
	tx.Outputs = outputs

	mints := make([]Mint, len(tx.Mints))
	for i, m := range tx.Mints {
		mints[i] = Mint{
			Amount:   transformOptional(m.Amount, f),
			Redeemer: transformOptional(m.Redeemer, f),
		}
	}
	tx.Mints = mints

	if tx.Validity != nil {
		tx.Validity = &Validity{
			Since: transformOptional(tx.Validity.Since, f),
			Until: transformOptional(tx.Validity.Until, f),
		}
	}
	if tx.Collateral != nil {
		tx.Collateral = &Collateral{
			Query:   transformQuery(tx.Collateral.Query, f),
			RefExpr: transformOptional(tx.Collateral.RefExpr, f),
			Refs:    tx.Collateral.Refs,
		}
	}

	signers := make([]Expression, len(tx.Signers))
	for i, s := range tx.Signers {
		signers[i] = Transform(s, f)
	}
	tx.Signers = signers

	meta := make([]MetadataEntry, len(tx.Metadata))
	for i, m := range tx.Metadata {
		meta[i] = MetadataEntry{Key: m.Key, Value: Transform(m.Value, f)}
	}
	tx.Metadata = meta

	adhoc := make([]AdHocExpr, len(tx.AdHoc))
	for i, ah := range tx.AdHoc {
		fields := make(map[string]Expression, len(ah.Fields))
		for _, k := range ah.Order {
			fields[k] = Transform(ah.Fields[k], f)
		}
		adhoc[i] = AdHocExpr{Name: ah.Name, Fields: fields, Order: ah.Order}
	}
	tx.AdHoc = adhoc

	refs := make([]Expression, len(tx.References))
	for i, r := range tx.References {
		refs[i] = Transform(r, f)
	}
	tx.References = refs

	tx.Fees = Transform(tx.Fees, f)
	return tx
}

func transformQuery(q *InputQuery, f func(Expression) Expression) *InputQuery {
	if q == nil {
		return nil
	}
	return &InputQuery{
		Address:   transformOptional(q.Address, f),
		MinAmount: transformOptional(q.MinAmount, f),
	}
}

