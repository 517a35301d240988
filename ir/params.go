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

// Params walks tx and returns the monoidal union of every EvalParameter
// leaf's (name -> declared type) pair (spec §4.4.2). When two leaves
// disagree on the declared type for the same name, the last one visited
// wins — traversal visits fees, then inputs, then outputs, then mints,
// and so on by block kind, so this resolves in favor of whichever is
// visited last in that order, a decision recorded as an Open Question resolution in
// SPEC_FULL.md.
func Params(tx Tx) map[string]string {
	out := map[string]string{}
	collectExprParams(tx.Fees, out)
	for _, in := range tx.Inputs {
		collectQueryParams(in.Query, out)
		if in.RefExpr != nil {
			collectExprParams(*in.RefExpr, out)
		}
		if in.Redeemer != nil {
			collectExprParams(*in.Redeemer, out)
		}
	}
	for _, o := range tx.Outputs {
		if o.Address != nil {
			collectExprParams(*o.Address, out)
		}
		if o.Datum != nil {
			collectExprParams(*o.Datum, out)
		}
		if o.Amount != nil {
			collectExprParams(*o.Amount, out)
		}
	}
	for _, m := range tx.Mints {
		if m.Amount != nil {
			collectExprParams(*m.Amount, out)
		}
		if m.Redeemer != nil {
			collectExprParams(*m.Redeemer, out)
		}
	}
	if tx.Validity != nil {
		if tx.Validity.Since != nil {
			collectExprParams(*tx.Validity.Since, out)
		}
		if tx.Validity.Until != nil {
			collectExprParams(*tx.Validity.Until, out)
		}
	}
	if tx.Collateral != nil {
		collectQueryParams(tx.Collateral.Query, out)
	}
	for _, s := range tx.Signers {
		collectExprParams(s, out)
	}
	for _, m := range tx.Metadata {
		collectExprParams(m.Value, out)
	}
	for _, ah := range tx.AdHoc {
		for _, k := range ah.Order {
			collectExprParams(ah.Fields[k], out)
		}
	}
	return out
}

func collectQueryParams(q *InputQuery, out map[string]string) {
	if q == nil {
		return
	}
	if q.Address != nil {
		collectExprParams(*q.Address, out)
	}
	if q.MinAmount != nil {
		collectExprParams(*q.MinAmount, out)
	}
}

func collectExprParams(e Expression, out map[string]string) {
	Transform(e, func(n Expression) Expression {
		if n.Kind == KindEvalParameter {
			out[n.ParamName] = n.ParamType
		}
		return n
	})
}

// Queries walks tx and returns the union of every unresolved input's
// selection query, keyed by input name, plus the reserved "collateral"
// key when a collateral query remains unresolved (spec §4.4.2).
func Queries(tx Tx) map[string]InputQuery {
	out := map[string]InputQuery{}
	for _, in := range tx.Inputs {
		if in.Query != nil {
			out[in.Name] = *in.Query
		}
	}
	if tx.Collateral != nil && tx.Collateral.Query != nil {
		out["collateral"] = *tx.Collateral.Query
	}
	return out
}
