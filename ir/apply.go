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

// ApplyArgs substitutes every EvalParameter occurrence in tx whose name is
// bound in args (spec §4.3.1). Parameters left unbound are kept as-is, so a
// tx can be partially applied across several calls.
func ApplyArgs(tx Tx, args map[string]ArgValue) Tx {
	return TransformTx(tx, func(e Expression) Expression {
		if e.Kind != KindEvalParameter {
			return e
		}
		v, ok := args[e.ParamName]
		if !ok {
			return e
		}
		return argToExpression(v)
	})
}

func argToExpression(v ArgValue) Expression {
	switch v.Kind {
	case ArgInt:
		return Number(v.Int)
	case ArgBool:
		return Bool(v.Bool)
	case ArgString:
		return String(v.String)
	case ArgBytes:
		return Bytes(v.Bytes)
	case ArgAddress:
		return Address(v.Address)
	case ArgUtxoRef:
		return Refs([]UtxoRef{v.Ref})
	case ArgUtxoSet:
		return UtxoSetOf(v.Set)
	default:
		return None()
	}
}

// ApplyFees substitutes every FeeQuery occurrence in tx with a single-entry
// Ada assets literal for the given fee, in lovelace (spec §4.3.3). An empty
// policy and asset name denote the chain's native coin, matching the
// synthetic Ada symbol the analyzer seeds every scope with.
func ApplyFees(tx Tx, feeLovelace uint64) Tx {
	lit := Assets([]AssetExpr{{
		Policy:    Bytes(nil),
		AssetName: Bytes(nil),
		Amount:    NumberOf(int64(feeLovelace)),
	}})
	return TransformTx(tx, func(e Expression) Expression {
		if e.Kind != KindFeeQuery {
			return e
		}
		return lit
	})
}

// ApplyInputs substitutes every EvalInputDatum/EvalInputAssets occurrence
// naming one of the given inputs, and replaces that Input's Query with a
// concrete Refs slot once a set of UTxOs has been picked for it (spec
// §4.3.2, §4.4). EvalInputDatum takes the first utxo's datum in the set;
// EvalInputAssets takes the union of the set's assets. A collateral query
// is resolved the same way, under the reserved "collateral" key Queries()
// uses.
func ApplyInputs(tx Tx, resolved map[string][]Utxo) Tx {
	tx = TransformTx(tx, func(e Expression) Expression {
		switch e.Kind {
		case KindEvalInputDatum:
			set, ok := resolved[e.InputName]
			if !ok || len(set) == 0 || set[0].Datum == nil {
				return e
			}
			return Bytes(set[0].Datum)
		case KindEvalInputAssets:
			set, ok := resolved[e.InputName]
			if !ok {
				return e
			}
			var items []AssetExpr
			for _, u := range set {
				for _, a := range u.Assets {
					items = append(items, AssetExpr{
						Policy:    Bytes(a.Policy),
						AssetName: Bytes(a.AssetName),
						Amount:    Number(a.Amount),
					})
				}
			}
			return Assets(items)
		default:
			return e
		}
	})

	inputs := make([]Input, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = in
		if set, ok := resolved[in.Name]; ok {
			inputs[i].Refs = utxoRefs(set)
			inputs[i].Query = nil
		}
	}
	tx.Inputs = inputs

	if tx.Collateral != nil && tx.Collateral.Query != nil {
		if set, ok := resolved["collateral"]; ok {
			tx.Collateral = &Collateral{Refs: utxoRefs(set)}
		}
	}

	return tx
}

func utxoRefs(set []Utxo) []UtxoRef {
	refs := make([]UtxoRef, len(set))
	for i, u := range set {
		refs[i] = u.Ref
	}
	return refs
}
