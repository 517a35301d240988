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

package proto_test

import (
	"math/big"
	"os"
	"testing"

	"github.com/txpipe/tx3-go/ir"
	"github.com/txpipe/tx3-go/proto"
)

func loadFixture(t *testing.T, path string) *proto.Protocol {
	t.Helper()
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	p, err := proto.Load(string(src))
	if err != nil {
		t.Fatalf("loading protocol: %v", err)
	}
	return p
}

func TestProtoTxAppliesArgsInputsAndFees(t *testing.T) {
	p := loadFixture(t, "../testdata/fixtures/transfer.tx3")
	tx, err := p.NewTx("transfer")
	if err != nil {
		t.Fatalf("NewTx: %v", err)
	}

	tx.WithArg("quantity", ir.ArgInt_(big.NewInt(10_000_000))).
		WithArg("Receiver", ir.ArgAddress_([]byte("addr_receiver"))).
		WithArg("Sender", ir.ArgAddress_([]byte("addr_sender")))

	queries := tx.Queries()
	if _, ok := queries["source"]; !ok {
		t.Fatalf("expected an outstanding query for 'source', got %#v", queries)
	}

	tx.SetInput("source", []ir.Utxo{{
		Ref:    ir.UtxoRef{TxID: []byte{0x01}, Index: 0},
		Assets: []ir.AssetAmount{{Amount: big.NewInt(50_000_000)}},
	}})
	tx.SetFees(170000)

	applied, err := tx.Apply()
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !applied.IsFullyReduced() {
		t.Fatalf("expected a fully reduced tx after one Apply, got %#v", applied.IR())
	}
	if len(applied.Queries()) != 0 {
		t.Fatalf("expected no outstanding queries after Apply, got %#v", applied.Queries())
	}
}

func TestProtoTxIRBytesRoundTrip(t *testing.T) {
	p := loadFixture(t, "../testdata/fixtures/transfer.tx3")
	tx, err := p.NewTx("transfer")
	if err != nil {
		t.Fatalf("NewTx: %v", err)
	}
	b, err := tx.IRBytes()
	if err != nil {
		t.Fatalf("IRBytes: %v", err)
	}
	back, err := proto.FromIRBytes("transfer", b)
	if err != nil {
		t.Fatalf("FromIRBytes: %v", err)
	}
	if back.Name() != "transfer" {
		t.Fatalf("expected name to round-trip, got %q", back.Name())
	}
}
