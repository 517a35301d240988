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

package cardano_test

import (
	"testing"

	"github.com/txpipe/tx3-go/cardano"
	"github.com/txpipe/tx3-go/ir"
)

const sampleAddr = "addr1qx0rs5qrvx9qkndwu0w88t0xghgy3f53ha76kpx8uf496m9rn2ursdm3r0fgf5pmm4lpufshl8lquk5yykg4pd00hp6quf2hh2"

func exprPtr(e ir.Expression) *ir.Expression { return &e }

func transferTx() ir.Tx {
	return ir.Tx{
		Name: "transfer",
		Inputs: []ir.Input{{
			Name: "source",
			Refs: []ir.UtxoRef{{TxID: make([]byte, 32), Index: 0}},
		}},
		Outputs: []ir.Output{{
			Address: exprPtr(ir.Address([]byte(sampleAddr))),
			Amount: exprPtr(ir.Assets([]ir.AssetExpr{{
				Policy: ir.Bytes(nil), AssetName: ir.Bytes(nil), Amount: ir.NumberOf(5_000_000),
			}})),
		}},
		Fees: ir.NumberOf(170_000),
	}
}

func TestCompileTransferProducesOneInputAndOutput(t *testing.T) {
	tx := transferTx()
	compiled, err := cardano.Compile(tx, cardano.NewMainnetPParams())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(compiled.Body.Inputs) != 1 {
		t.Fatalf("expected 1 input, got %d", len(compiled.Body.Inputs))
	}
	if len(compiled.Body.Outputs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(compiled.Body.Outputs))
	}
	if compiled.Body.Outputs[0].Lovelace != 5_000_000 {
		t.Fatalf("expected lovelace 5000000, got %d", compiled.Body.Outputs[0].Lovelace)
	}
	if compiled.Body.Fee != 170_000 {
		t.Fatalf("expected fee 170000, got %d", compiled.Body.Fee)
	}
	if compiled.WitnessSet.Redeemers != nil {
		t.Fatalf("expected no redeemers for a plain transfer, got %#v", compiled.WitnessSet.Redeemers)
	}
	if _, err := compiled.ToBytes(); err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
}

func TestCompileRejectsUnresolvedTx(t *testing.T) {
	tx := transferTx()
	tx.Inputs[0].Refs = nil
	tx.Inputs[0].Query = &ir.InputQuery{Address: exprPtr(ir.EvalParameter("sender", "Address"))}
	if _, err := cardano.Compile(tx, cardano.NewMainnetPParams()); err == nil {
		t.Fatalf("expected Compile to reject a tx with an outstanding input query")
	}
}

func TestCompileMintWithRedeemerProducesIndexedWitness(t *testing.T) {
	tx := transferTx()
	policy := make([]byte, 28)
	policy[0] = 0xaa
	tx.Mints = []ir.Mint{{
		Amount: exprPtr(ir.Assets([]ir.AssetExpr{{
			Policy:    ir.Bytes(policy),
			AssetName: ir.Bytes([]byte("faucet")),
			Amount:    ir.NumberOf(10),
		}})),
		Redeemer: exprPtr(ir.Bytes([]byte("open"))),
	}}

	compiled, err := cardano.Compile(tx, cardano.NewMainnetPParams())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(compiled.WitnessSet.Redeemers) != 1 {
		t.Fatalf("expected 1 redeemer, got %d", len(compiled.WitnessSet.Redeemers))
	}
	if compiled.WitnessSet.Redeemers[0].Tag != 3 {
		t.Fatalf("expected a mint-tagged redeemer, got tag %d", compiled.WitnessSet.Redeemers[0].Tag)
	}
	if compiled.Body.Mint == nil {
		t.Fatalf("expected a populated mint value")
	}
	if len(compiled.Body.ScriptDataHash) != 32 {
		t.Fatalf("expected a 32-byte script data hash once a redeemer is present, got %d bytes", len(compiled.Body.ScriptDataHash))
	}
}

func TestCompileCertificateFromAdHocDirective(t *testing.T) {
	tx := transferTx()
	stake := make([]byte, 28)
	stake[0] = 0x01
	drep := make([]byte, 28)
	drep[0] = 0x02
	tx.AdHoc = []ir.AdHocExpr{{
		Name: "vote_delegation_certificate",
		Fields: map[string]ir.Expression{
			"stake": ir.Bytes(stake),
			"drep":  ir.Bytes(drep),
		},
		Order: []string{"stake", "drep"},
	}}

	compiled, err := cardano.Compile(tx, cardano.NewMainnetPParams())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(compiled.Body.Certificates) != 1 {
		t.Fatalf("expected 1 certificate, got %d", len(compiled.Body.Certificates))
	}
	if compiled.Body.Certificates[0].Kind != cardano.CertVoteDelegation {
		t.Fatalf("expected a vote delegation certificate, got %#v", compiled.Body.Certificates[0])
	}
}
