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

package cardano

import (
	"fmt"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/txpipe/tx3-go/ir"
)

// CompilePlutusData compiles a constant IR expression into Plutus data,
// the representation used for inline datums and redeemers (spec §4.6
// step 1 "datum-inline option encoded ... via Plutus-data compilation").
// The call shapes mirror the teacher's ToPlutusData methods in
// ledger/transaction.go and ledger/utxo.go almost exactly:
// data.NewConstr/NewInteger/NewByteString/NewList.
func CompilePlutusData(e ir.Expression) (data.PlutusData, error) {
	switch e.Kind {
	case ir.KindNumber:
		return data.NewInteger(e.Number), nil
	case ir.KindBytes, ir.KindAddress, ir.KindHash:
		return data.NewByteString(e.Bytes), nil
	case ir.KindBool:
		if e.Bool {
			return data.NewConstr(1), nil
		}
		return data.NewConstr(0), nil
	case ir.KindString:
		return data.NewByteString([]byte(e.String)), nil
	case ir.KindList, ir.KindTuple:
		items := make([]data.PlutusData, len(e.List))
		for i, it := range e.List {
			pd, err := CompilePlutusData(it)
			if err != nil {
				return nil, err
			}
			items[i] = pd
		}
		return data.NewList(items...), nil
	case ir.KindStruct:
		if e.Struct == nil {
			return data.NewConstr(0), nil
		}
		fields := make([]data.PlutusData, len(e.Struct.Fields))
		for i, f := range e.Struct.Fields {
			pd, err := CompilePlutusData(f)
			if err != nil {
				return nil, err
			}
			fields[i] = pd
		}
		return data.NewConstr(int64(e.Struct.Constructor), fields...), nil
	case ir.KindAssets:
		return compileAssetsPlutusData(e.Assets)
	default:
		return nil, fmt.Errorf("cannot compile %s expression to plutus data", e.Kind)
	}
}

// compileAssetsPlutusData renders a constant Assets list as the nested
// policy -> asset-name -> amount map shape the ledger's Value uses on
// chain, matching MockTransactionOutput.ToPlutusData's value encoding.
func compileAssetsPlutusData(items []ir.AssetExpr) (data.PlutusData, error) {
	byPolicy := map[string][]ir.AssetExpr{}
	order := []string{}
	for _, a := range items {
		k := string(a.Policy.Bytes)
		if _, ok := byPolicy[k]; !ok {
			order = append(order, k)
		}
		byPolicy[k] = append(byPolicy[k], a)
	}
	outer := make([]data.PlutusData, 0, len(order))
	for _, policyKey := range order {
		entries := byPolicy[policyKey]
		inner := make([]data.PlutusData, len(entries))
		for i, a := range entries {
			amt, ok := a.Amount.Number, a.Amount.Kind == ir.KindNumber
			if !ok {
				return nil, fmt.Errorf("non-constant asset amount for plutus data compilation")
			}
			inner[i] = data.NewList(
				data.NewByteString(a.AssetName.Bytes),
				data.NewInteger(amt),
			)
		}
		outer = append(outer, data.NewList(
			data.NewByteString([]byte(policyKey)),
			data.NewList(inner...),
		))
	}
	return data.NewList(outer...), nil
}
