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
	"math/big"
	"testing"

	"github.com/txpipe/tx3-go/ir"
)

func TestApplyArgsSubstitutesBoundParametersOnly(t *testing.T) {
	tx := ir.Tx{
		Fees: ir.FeeQuery(),
		Outputs: []ir.Output{{
			Amount: exprPtr(ir.Assets([]ir.AssetExpr{{
				Policy: ir.Bytes(nil), AssetName: ir.Bytes(nil),
				Amount: ir.EvalParameter("quantity", "Int"),
			}})),
			Address: exprPtr(ir.EvalParameter("receiver", "Address")),
		}},
	}
	applied := ir.ApplyArgs(tx, map[string]ir.ArgValue{
		"quantity": ir.ArgInt_(big.NewInt(42)),
	})
	amt := applied.Outputs[0].Amount.Assets[0].Amount
	if amt.Kind != ir.KindNumber || amt.Number.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("expected quantity substituted to Number(42), got %#v", amt)
	}
	addr := applied.Outputs[0].Address
	if addr.Kind != ir.KindEvalParameter {
		t.Fatalf("expected 'receiver' to remain unbound, got %#v", addr)
	}
}

func TestApplyFeesReplacesEveryFeeQuery(t *testing.T) {
	tx := ir.Tx{
		Fees: ir.FeeQuery(),
		Mints: []ir.Mint{{
			Redeemer: exprPtr(ir.FeeQuery()),
		}},
	}
	applied := ir.ApplyFees(tx, 170000)
	if applied.Fees.Kind != ir.KindAssets || applied.Fees.Assets[0].Amount.Number.Cmp(big.NewInt(170000)) != 0 {
		t.Fatalf("expected Fees to become a 170000 lovelace literal, got %#v", applied.Fees)
	}
	if applied.Mints[0].Redeemer.Kind != ir.KindAssets {
		t.Fatalf("expected every FeeQuery occurrence to be replaced, got %#v", applied.Mints[0].Redeemer)
	}
}

func TestApplyInputsResolvesDatumAndAssetsAndRefs(t *testing.T) {
	tx := ir.Tx{
		Fees: ir.FeeQuery(),
		Inputs: []ir.Input{{
			Name:  "source",
			Query: &ir.InputQuery{},
		}},
		Outputs: []ir.Output{{
			Datum:  exprPtr(ir.EvalInputDatum("source")),
			Amount: exprPtr(ir.EvalInputAssets("source")),
		}},
	}
	resolved := map[string][]ir.Utxo{
		"source": {{
			Ref:    ir.UtxoRef{TxID: []byte{0xAA}, Index: 0},
			Datum:  []byte{0x01, 0x02},
			Assets: []ir.AssetAmount{{Policy: nil, AssetName: nil, Amount: big.NewInt(5_000_000)}},
		}},
	}
	applied := ir.ApplyInputs(tx, resolved)
	if applied.Inputs[0].Query != nil {
		t.Fatalf("expected input Query to be cleared once resolved")
	}
	if len(applied.Inputs[0].Refs) != 1 || applied.Inputs[0].Refs[0].Index != 0 {
		t.Fatalf("expected a single resolved ref, got %#v", applied.Inputs[0].Refs)
	}
	if applied.Outputs[0].Datum.Kind != ir.KindBytes {
		t.Fatalf("expected datum substituted to raw bytes, got %#v", applied.Outputs[0].Datum)
	}
	if applied.Outputs[0].Amount.Kind != ir.KindAssets || len(applied.Outputs[0].Amount.Assets) != 1 {
		t.Fatalf("expected assets substituted from the resolved utxo, got %#v", applied.Outputs[0].Amount)
	}
}
