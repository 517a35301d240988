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

// Package proto bundles an analyzed tx3 program with the per-tx IR
// templates derived from it, and offers the ProtoTx builder callers use
// to apply arguments, resolved inputs and fees before handing a tx off
// to a chain back end (spec §3.4, §4.5).
package proto

import (
	"fmt"

	"github.com/txpipe/tx3-go/ast"
	"github.com/txpipe/tx3-go/ir"
	"github.com/txpipe/tx3-go/scope"
)

// Protocol is an analyzed program with every tx lowered to IR once, up
// front. It is immutable after Load and safe to share by reference
// across goroutines (spec §3.4, §5 "Shared resources").
type Protocol struct {
	program   *ast.Program
	templates map[string]ir.Tx
}

// Load parses src, analyzes it, and lowers every tx declaration to IR.
// It fails on the first parse error and on any analysis error — a
// Protocol is only ever built from a program with no outstanding
// diagnostics.
func Load(src string) (*Protocol, error) {
	prog, err := ast.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("parsing program: %w", err)
	}
	report := scope.Analyze(prog)
	if !report.OK() {
		return nil, fmt.Errorf("analyzing program: %w", report.Errors[0])
	}
	templates := make(map[string]ir.Tx, len(prog.Txs))
	for _, tx := range prog.Txs {
		lowered, err := ir.Lower(prog, tx.Name)
		if err != nil {
			return nil, fmt.Errorf("lowering tx %q: %w", tx.Name, err)
		}
		templates[tx.Name] = lowered
	}
	return &Protocol{program: prog, templates: templates}, nil
}

// Program exposes the underlying analyzed AST, for callers that need
// the source-level declarations (e.g. bindgen's parameter type mapping).
func (p *Protocol) Program() *ast.Program { return p.program }

// NewTx starts a fresh ProtoTx from the named tx's template. The
// returned handle shares no mutable state with the Protocol or with any
// other ProtoTx spawned from it — cloning a ProtoTx for parallel
// resolution attempts (spec §5) is just calling NewTx again plus
// replaying the With*/Set* calls.
func (p *Protocol) NewTx(name string) (*ProtoTx, error) {
	tmpl, ok := p.templates[name]
	if !ok {
		return nil, fmt.Errorf("no tx named %q in protocol", name)
	}
	return &ProtoTx{
		name:   name,
		ir:     tmpl,
		args:   map[string]ir.ArgValue{},
		inputs: map[string][]ir.Utxo{},
	}, nil
}
