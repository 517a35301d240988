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
	"bytes"
	"math/big"
	"testing"

	"github.com/txpipe/tx3-go/ir"
)

func sampleTx() ir.Tx {
	return ir.Tx{
		Name: "transfer",
		Inputs: []ir.Input{{
			Name: "source",
			Query: &ir.InputQuery{
				Address:   exprPtr(ir.EvalParameter("sender", "Address")),
				MinAmount: exprPtr(ir.Assets([]ir.AssetExpr{{Policy: ir.Bytes(nil), AssetName: ir.Bytes(nil), Amount: ir.EvalParameter("quantity", "Int")}})),
			},
		}},
		Outputs: []ir.Output{{
			Address: exprPtr(ir.EvalParameter("receiver", "Address")),
			Amount:  exprPtr(ir.Assets([]ir.AssetExpr{{Policy: ir.Bytes(nil), AssetName: ir.Bytes(nil), Amount: ir.NumberOf(5)}})),
		}},
		Fees: ir.FeeQuery(),
	}
}

func TestCodecRoundTripsATx(t *testing.T) {
	tx := sampleTx()
	b, err := ir.ToBytes(tx)
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
	got, err := ir.FromBytes(b)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got.Name != tx.Name {
		t.Fatalf("expected name %q, got %q", tx.Name, got.Name)
	}
	if len(got.Inputs) != 1 || got.Inputs[0].Name != "source" {
		t.Fatalf("expected the source input to round-trip, got %#v", got.Inputs)
	}
	if got.Inputs[0].Query == nil || got.Inputs[0].Query.Address.Kind != ir.KindEvalParameter {
		t.Fatalf("expected input query address to round-trip, got %#v", got.Inputs[0].Query)
	}
	if len(got.Outputs) != 1 || got.Outputs[0].Amount.Assets[0].Amount.Number.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("expected output amount to round-trip, got %#v", got.Outputs)
	}
	if got.Fees.Kind != ir.KindFeeQuery {
		t.Fatalf("expected fees to round-trip as a FeeQuery, got %#v", got.Fees)
	}
}

func TestCodecRejectsMismatchedVersion(t *testing.T) {
	tx := sampleTx()
	b, err := ir.ToBytes(tx)
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
	if _, err := ir.FromBytes(b); err != nil {
		t.Fatalf("expected the freshly-encoded envelope to decode cleanly: %v", err)
	}
	// Flip the version tag in place (same length, so the CBOR framing stays
	// valid) to exercise the strict version check end to end.
	flipped := bytes.Replace(b, []byte("v1alpha1"), []byte("v9alpha9"), 1)
	if bytes.Equal(flipped, b) {
		t.Fatalf("expected the encoded envelope to carry the v1alpha1 tag")
	}
	if _, err := ir.FromBytes(flipped); err == nil {
		t.Fatalf("expected an envelope with a mismatched version tag to be rejected")
	}
	if _, err := ir.FromBytes(append([]byte{0x00}, b...)); err == nil {
		t.Fatalf("expected a corrupted envelope to fail to decode")
	}
}
