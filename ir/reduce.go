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

import "math/big"

// IsConstant reports whether e contains no unresolved Eval*/FeeQuery node —
// i.e. whether it is fully applied and ready for compilation.
func IsConstant(e Expression) bool {
	switch e.Kind {
	case KindEvalParameter, KindEvalInputDatum, KindEvalInputAssets,
		KindEvalProperty, KindEvalCustom, KindFeeQuery:
		return false
	case KindList, KindTuple:
		for _, it := range e.List {
			if !IsConstant(it) {
				return false
			}
		}
		return true
	case KindStruct:
		if e.Struct == nil {
			return true
		}
		for _, fld := range e.Struct.Fields {
			if !IsConstant(fld) {
				return false
			}
		}
		return true
	case KindAssets:
		for _, a := range e.Assets {
			if !IsConstant(a.Policy) || !IsConstant(a.AssetName) || !IsConstant(a.Amount) {
				return false
			}
		}
		return true
	case KindAdHocDirective:
		if e.AdHoc == nil {
			return true
		}
		for _, k := range e.AdHoc.Order {
			if !IsConstant(e.AdHoc.Fields[k]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// TxIsConstant reports whether every expression reachable from tx is
// constant — the precondition a chain back end's Compile expects (spec
// §4.6 "a reduced, fully constant IR Tx").
func TxIsConstant(tx Tx) bool {
	ok := true
	TransformTx(tx, func(e Expression) Expression {
		if !IsConstant(e) {
			ok = false
		}
		return e
	})
	if len(tx.Inputs) > 0 {
		for _, in := range tx.Inputs {
			if in.Query != nil || in.RefExpr != nil {
				ok = false
			}
		}
	}
	if tx.Collateral != nil && (tx.Collateral.Query != nil || tx.Collateral.RefExpr != nil) {
		ok = false
	}
	return ok
}

// Reduce folds every fully-applied sub-expression in tx to its simplest
// constant form (spec §4.4): EvalCustom(+/-) over two constant Numbers
// folds to a Number, and over two constant Assets lists folds to a single
// Assets list merged by (policy, asset_name) key (spec §4.4.1). Property
// access over a constant Struct is deliberately left unreduced — field
// names are erased by lowering, so there is nothing to project against
// (see the Open Question decision in SPEC_FULL.md).
func Reduce(tx Tx) Tx {
	tx = TransformTx(tx, reduceExpr)
	return finalizePinnedRefs(tx)
}

// finalizePinnedRefs promotes any explicit `ref:` pin that has reduced down
// to a constant UtxoRefs literal into the input's (or collateral's) Refs
// slot, mirroring what ApplyInputs does for query-resolved inputs.
func finalizePinnedRefs(tx Tx) Tx {
	inputs := make([]Input, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = in
		if in.RefExpr != nil && in.RefExpr.Kind == KindUtxoRefs {
			inputs[i].Refs = in.RefExpr.UtxoRefs
			inputs[i].RefExpr = nil
		}
	}
	tx.Inputs = inputs
	if tx.Collateral != nil && tx.Collateral.RefExpr != nil && tx.Collateral.RefExpr.Kind == KindUtxoRefs {
		tx.Collateral = &Collateral{Refs: tx.Collateral.RefExpr.UtxoRefs}
	}
	return tx
}

func reduceExpr(e Expression) Expression {
	if e.Kind != KindEvalCustom || e.Custom == nil {
		return e
	}
	left, right := e.Custom.Left, e.Custom.Right
	if left.Kind == KindNumber && right.Kind == KindNumber {
		return Number(foldNumber(left.Number, right.Number, e.Custom.Op))
	}
	if left.Kind == KindAssets && right.Kind == KindAssets {
		return Assets(foldAssets(left.Assets, right.Assets, e.Custom.Op))
	}
	return e
}

func foldNumber(a, b *big.Int, op BinOpKind) *big.Int {
	out := new(big.Int)
	if op == OpAdd {
		return out.Add(a, b)
	}
	return out.Sub(a, b)
}

// assetKey is the (policy, asset_name) grouping key from spec §4.4.1.
// Constant bytes values are all that's left once both sides have been
// reduced to Assets, so string-keying their raw bytes is safe.
func assetKey(policy, name Expression) string {
	return string(policy.Bytes) + "\x00" + string(name.Bytes)
}

func foldAssets(left, right []AssetExpr, op BinOpKind) []AssetExpr {
	order := make([]string, 0, len(left)+len(right))
	amounts := make(map[string]*big.Int, len(left)+len(right))
	policies := make(map[string]Expression, len(left)+len(right))
	names := make(map[string]Expression, len(left)+len(right))

	add := func(items []AssetExpr, sign int64) {
		for _, it := range items {
			k := assetKey(it.Policy, it.AssetName)
			n := big.NewInt(0)
			if it.Amount.Kind == KindNumber && it.Amount.Number != nil {
				n = it.Amount.Number
			}
			if cur, ok := amounts[k]; ok {
				if sign > 0 {
					cur.Add(cur, n)
				} else {
					cur.Sub(cur, n)
				}
			} else {
				order = append(order, k)
				policies[k] = it.Policy
				names[k] = it.AssetName
				v := new(big.Int)
				if sign > 0 {
					v.Set(n)
				} else {
					v.Neg(n)
				}
				amounts[k] = v
			}
		}
	}

	add(left, 1)
	sign := int64(1)
	if op == OpSub {
		sign = -1
	}
	add(right, sign)

	out := make([]AssetExpr, len(order))
	for i, k := range order {
		out[i] = AssetExpr{Policy: policies[k], AssetName: names[k], Amount: Number(amounts[k])}
	}
	return out
}
