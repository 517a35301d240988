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

// Package rpc serves trp.resolve, the one JSON-RPC 2.0 method a tx3
// client binding calls to turn a parameter-applied IR tx into a signed-
// ready, chain-native payload (spec.md §6). It stays chain-agnostic the
// same way the resolve package does, parameterized over whichever
// protocol-parameter type the configured chain back end needs.
package rpc

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/txpipe/tx3-go/ast"
	"github.com/txpipe/tx3-go/ir"
	"github.com/txpipe/tx3-go/proto"
	"github.com/txpipe/tx3-go/resolve"
)

// Server implements http.Handler for a single trp.resolve endpoint,
// backed by a chain-specific resolve.Ledger/CompileFunc/FeeModel trio.
type Server[P any] struct {
	Ledger    resolve.Ledger[P]
	Compile   resolve.CompileFunc[P]
	FeeModel  resolve.FeeModel[P]
	MaxRounds int
}

// NewServer builds a Server with a sensible default round budget.
func NewServer[P any](ledger resolve.Ledger[P], compile resolve.CompileFunc[P], feeModel resolve.FeeModel[P]) *Server[P] {
	return &Server[P]{Ledger: ledger, Compile: compile, FeeModel: feeModel, MaxRounds: 10}
}

// tirParam is the IR envelope a client binding sends, matching spec §6's
// `{ bytecode, encoding, version }` wrapper.
type tirParam struct {
	Version  string `json:"version"`
	Bytecode string `json:"bytecode"`
	Encoding string `json:"encoding"`
}

type resolveParams struct {
	Tir  tirParam                   `json:"tir"`
	Args map[string]json.RawMessage `json:"args"`
}

// resolveResult is the trp.resolve response body: exactly one of Tx or
// Error is set, per spec §6's literal "{tx: <hex-payload>}` on success or
// `{error: <message>}` on failure" — that alternation is the RPC
// result's own shape, not a JSON-RPC protocol-level error, so a failed
// resolve still returns HTTP 200 with a normal JSON-RPC result.
type resolveResult struct {
	Tx    string `json:"tx,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server[P]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeResponse(w, nil, nil, &rpcError{Code: codeParseError, Message: err.Error()})
		return
	}

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		writeResponse(w, nil, nil, &rpcError{Code: codeParseError, Message: "invalid json"})
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		writeResponse(w, req.ID, nil, &rpcError{Code: codeInvalidRequest, Message: "not a JSON-RPC 2.0 request"})
		return
	}
	if req.Method != "trp.resolve" {
		writeResponse(w, req.ID, nil, &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("unknown method %q", req.Method)})
		return
	}

	var params resolveParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeResponse(w, req.ID, nil, &rpcError{Code: codeInvalidParams, Message: err.Error()})
		return
	}

	result := s.resolve(r.Context(), params)
	writeResponse(w, req.ID, result, nil)
}

func (s *Server[P]) resolve(ctx context.Context, params resolveParams) resolveResult {
	raw, err := decodeBytecode(params.Tir.Bytecode, params.Tir.Encoding)
	if err != nil {
		return resolveResult{Error: err.Error()}
	}

	protoTx, err := proto.FromIRBytes("trp", raw)
	if err != nil {
		return resolveResult{Error: fmt.Sprintf("decoding ir: %s", err)}
	}

	declared := ir.Params(protoTx.IR())
	for name, typ := range declared {
		argRaw, ok := params.Args[name]
		if !ok {
			return resolveResult{Error: fmt.Sprintf("missing argument %q", name)}
		}
		arg, err := decodeArg(typ, argRaw)
		if err != nil {
			return resolveResult{Error: fmt.Sprintf("argument %q: %s", name, err)}
		}
		protoTx.SetArg(name, arg)
	}

	eval, err := resolve.ResolveTx(ctx, protoTx, s.Ledger, s.Compile, s.FeeModel, s.MaxRounds)
	if err != nil {
		return resolveResult{Error: err.Error()}
	}
	return resolveResult{Tx: hex.EncodeToString(eval.Payload)}
}

func decodeBytecode(bytecode, encoding string) ([]byte, error) {
	switch encoding {
	case "hex", "":
		return hex.DecodeString(bytecode)
	case "base64":
		return base64.StdEncoding.DecodeString(bytecode)
	default:
		return nil, fmt.Errorf("unsupported tir encoding %q", encoding)
	}
}

// decodeArg turns a raw JSON argument value into the ir.ArgValue the
// declared tx3 parameter type expects. Address and UtxoRef travel as
// plain strings over JSON-RPC; UtxoRef uses the "txid#index" form
// MockTransactionInput.String() prints, the same shorthand tx3 tooling
// uses elsewhere for a utxo reference.
func decodeArg(typ string, raw json.RawMessage) (ir.ArgValue, error) {
	switch typ {
	case ast.TypeInt:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return ir.ArgValue{}, err
		}
		return ir.ArgInt_(big.NewInt(n)), nil
	case ast.TypeBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return ir.ArgValue{}, err
		}
		return ir.ArgBool_(b), nil
	case ast.TypeString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ir.ArgValue{}, err
		}
		return ir.ArgString_(s), nil
	case ast.TypeBytes, ast.TypeAnyAsset:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ir.ArgValue{}, err
		}
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return ir.ArgValue{}, err
		}
		return ir.ArgBytes_(b), nil
	case ast.TypeAddress:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ir.ArgValue{}, err
		}
		return ir.ArgAddress_([]byte(s)), nil
	case ast.TypeUtxoRef:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ir.ArgValue{}, err
		}
		ref, err := parseUtxoRef(s)
		if err != nil {
			return ir.ArgValue{}, err
		}
		return ir.ArgUtxoRef_(ref), nil
	default:
		return ir.ArgValue{}, fmt.Errorf("unsupported parameter type %q", typ)
	}
}

func parseUtxoRef(s string) (ir.UtxoRef, error) {
	parts := strings.SplitN(s, "#", 2)
	if len(parts) != 2 {
		return ir.UtxoRef{}, fmt.Errorf("malformed utxo ref %q, expected txid#index", s)
	}
	txID, err := hex.DecodeString(parts[0])
	if err != nil {
		return ir.UtxoRef{}, fmt.Errorf("malformed utxo ref txid: %w", err)
	}
	index, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return ir.UtxoRef{}, fmt.Errorf("malformed utxo ref index: %w", err)
	}
	return ir.UtxoRef{TxID: txID, Index: uint32(index)}, nil
}

func writeResponse(w http.ResponseWriter, id json.RawMessage, result any, rpcErr *rpcError) {
	w.Header().Set("content-type", "application/json")
	_ = json.NewEncoder(w).Encode(response{JSONRPC: "2.0", ID: id, Result: result, Error: rpcErr})
}
