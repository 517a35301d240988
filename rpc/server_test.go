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

package rpc_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/txpipe/tx3-go/cardano"
	"github.com/txpipe/tx3-go/ir"
	"github.com/txpipe/tx3-go/mock"
	"github.com/txpipe/tx3-go/proto"
	"github.com/txpipe/tx3-go/rpc"
)

// testAddr is a bech32 mainnet address; cardano.Compile parses output
// addresses as bech32, so placeholder strings would fail to compile.
const testAddr = "addr1qx0rs5qrvx9qkndwu0w88t0xghgy3f53ha76kpx8uf496m9rn2ursdm3r0fgf5pmm4lpufshl8lquk5yykg4pd00hp6quf2hh2"

// compileToBytes adapts cardano.Compile's *CompiledTx result to the
// plain []byte payload resolve.CompileFunc expects.
func compileToBytes(tx ir.Tx, pp cardano.PParams) ([]byte, error) {
	compiled, err := cardano.Compile(tx, pp)
	if err != nil {
		return nil, err
	}
	return compiled.ToBytes()
}

func loadTransferIR(t *testing.T) []byte {
	t.Helper()
	src, err := os.ReadFile("../testdata/fixtures/transfer.tx3")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	p, err := proto.Load(string(src))
	if err != nil {
		t.Fatalf("loading protocol: %v", err)
	}
	tx, err := p.NewTx("transfer")
	if err != nil {
		t.Fatalf("NewTx: %v", err)
	}
	b, err := tx.IRBytes()
	if err != nil {
		t.Fatalf("IRBytes: %v", err)
	}
	return b
}

func feeModel(pp cardano.PParams, size int) uint64 {
	return pp.MinFeeCoefficient*uint64(size) + pp.MinFeeConstant
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	pp := cardano.NewMainnetPParams()
	ledger := mock.NewLedger(pp)
	senderAddr := []byte(testAddr)
	utxo, err := mock.NewUtxoBuilder(bytes.Repeat([]byte{0x01}, 32), 0).
		WithAddress(senderAddr).
		WithLovelace(50_000_000).
		Build()
	if err != nil {
		t.Fatalf("building utxo: %v", err)
	}
	ledger.AddUtxo(utxo)

	srv := rpc.NewServer[cardano.PParams](ledger, compileToBytes, feeModel)
	return httptest.NewServer(srv)
}

func TestResolveHandlesTransferRequest(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	irBytes := loadTransferIR(t)
	body := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "trp.resolve",
		"params": map[string]any{
			"tir": map[string]any{
				"version":  "v1alpha1",
				"bytecode": hex.EncodeToString(irBytes),
				"encoding": "hex",
			},
			"args": map[string]any{
				"quantity": 10_000_000,
				"Sender":   testAddr,
				"Receiver": testAddr,
			},
		},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}

	resp, err := http.Post(ts.URL, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("posting request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var decoded struct {
		Result struct {
			Tx    string `json:"tx"`
			Error string `json:"error"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if decoded.Result.Error != "" {
		t.Fatalf("expected no resolve error, got %q", decoded.Result.Error)
	}
	if decoded.Result.Tx == "" {
		t.Fatalf("expected a non-empty hex tx payload")
	}
	if _, err := hex.DecodeString(decoded.Result.Tx); err != nil {
		t.Fatalf("tx payload is not valid hex: %v", err)
	}
}

func TestResolveRejectsUnknownMethod(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	body := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "trp.unknown",
		"params":  map[string]any{},
	}
	raw, _ := json.Marshal(body)

	resp, err := http.Post(ts.URL, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("posting request: %v", err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Error *struct {
			Code int `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if decoded.Error == nil || decoded.Error.Code != -32601 {
		t.Fatalf("expected method-not-found error, got %+v", decoded.Error)
	}
}

func TestResolveReportsUnresolvedInputAsResultError(t *testing.T) {
	ts := httptest.NewServer(rpc.NewServer[cardano.PParams](
		mock.NewLedger(cardano.NewMainnetPParams()),
		compileToBytes,
		feeModel,
	))
	defer ts.Close()

	irBytes := loadTransferIR(t)
	body := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "trp.resolve",
		"params": map[string]any{
			"tir": map[string]any{
				"version":  "v1alpha1",
				"bytecode": hex.EncodeToString(irBytes),
				"encoding": "hex",
			},
			"args": map[string]any{
				"quantity": 10_000_000,
				"Sender":   testAddr,
				"Receiver": testAddr,
			},
		},
	}
	raw, _ := json.Marshal(body)

	resp, err := http.Post(ts.URL, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("posting request: %v", err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Result struct {
			Tx    string `json:"tx"`
			Error string `json:"error"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if decoded.Result.Error == "" {
		t.Fatalf("expected a resolve error for a ledger with no matching utxos")
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected resolve errors to still return 200, got %d", resp.StatusCode)
	}
}
