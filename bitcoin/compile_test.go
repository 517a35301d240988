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

package bitcoin_test

import (
	"errors"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/txpipe/tx3-go/bitcoin"
	"github.com/txpipe/tx3-go/ir"
)

const p2wpkhAddr = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"

func exprPtr(e ir.Expression) *ir.Expression { return &e }

func simpleTx() ir.Tx {
	return ir.Tx{
		Name: "transfer",
		Inputs: []ir.Input{{
			Name: "source",
			Refs: []ir.UtxoRef{{TxID: make([]byte, 32), Index: 1}},
		}},
		Outputs: []ir.Output{{
			Address: exprPtr(ir.Address([]byte(p2wpkhAddr))),
			Amount:  exprPtr(ir.NumberOf(50_000)),
		}},
		Fees: ir.NumberOf(500),
	}
}

func TestCompileBuildsOneInputAndOutput(t *testing.T) {
	msgTx, err := bitcoin.Compile(simpleTx(), &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(msgTx.TxIn) != 1 {
		t.Fatalf("expected 1 input, got %d", len(msgTx.TxIn))
	}
	if len(msgTx.TxOut) != 1 {
		t.Fatalf("expected 1 output, got %d", len(msgTx.TxOut))
	}
	if msgTx.TxOut[0].Value != 50_000 {
		t.Fatalf("expected value 50000, got %d", msgTx.TxOut[0].Value)
	}
	if msgTx.TxIn[0].PreviousOutPoint.Index != 1 {
		t.Fatalf("expected outpoint index 1, got %d", msgTx.TxIn[0].PreviousOutPoint.Index)
	}
}

func TestCompileRejectsInputRedeemer(t *testing.T) {
	tx := simpleTx()
	tx.Inputs[0].Redeemer = exprPtr(ir.Bytes([]byte("unlock")))
	_, err := bitcoin.Compile(tx, &chaincfg.MainNetParams)
	if !errors.Is(err, bitcoin.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestCompileRejectsMint(t *testing.T) {
	tx := simpleTx()
	tx.Mints = []ir.Mint{{Amount: exprPtr(ir.NumberOf(1))}}
	_, err := bitcoin.Compile(tx, &chaincfg.MainNetParams)
	if !errors.Is(err, bitcoin.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for a mint, got %v", err)
	}
}
