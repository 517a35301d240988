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

// Package bindgen emits client bindings for a loaded protocol's
// transactions, one file per target language, each binding embedding a
// tx's serialized IR alongside a typed constructor a caller fills in
// with argument values (spec §7 "Bindgen").
package bindgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/txpipe/tx3-go/ast"
	"github.com/txpipe/tx3-go/proto"
)

// Target names a supported binding language.
type Target string

const (
	TargetGo         Target = "go"
	TargetTypeScript Target = "typescript"
	TargetPython     Target = "python"
	TargetRust       Target = "rust"
)

// txParameter is one tx parameter rendered into a target's type system.
// Kind carries the original tx3 primitive type name (spec §3.1's
// Int/Bool/Bytes/String/Address/UtxoRef/AnyAsset/Unit set, or a custom
// type's name), which the Go template needs to pick the right
// ir.ArgValue constructor — a detail the other templates don't use: the
// TypeScript one sends plain JSON args over trp.resolve, and the Python
// and Rust ones pass each field through as-is.
type txParameter struct {
	Name     string
	TypeName string
	Kind     string
}

// transaction is the per-tx data a target's template renders from: its
// declared name, its IR serialized to hex (so it can sit in a string or
// byte-string literal regardless of target syntax), and its parameter
// list typed for that target. Identifier casing is applied in-template
// via the pascal/camel/snake/upperSnake functions, since each target
// wants a different case for the same role (a Go params struct is
// PascalCase, a Python one is snake_case).
type transaction struct {
	Name       string
	IRHex      string
	Parameters []txParameter
}

type targetSpec struct {
	tmpl      *template.Template
	extension string
	typeOf    func(ast.TypeRef) string
}

var targets = map[Target]targetSpec{
	TargetGo:         {tmpl: goTemplate, extension: "go", typeOf: goTypeFor},
	TargetTypeScript: {tmpl: typescriptTemplate, extension: "ts", typeOf: typescriptTypeFor},
	TargetPython:     {tmpl: pythonTemplate, extension: "py", typeOf: pythonTypeFor},
	TargetRust:       {tmpl: rustTemplate, extension: "rs", typeOf: rustTypeFor},
}

// Generate writes a single bindings file covering every tx declared in
// protocol, for the given target, under outDir. name is used as the base filename (the
// original source file's stem, e.g. "vesting" for vesting.tx3).
func Generate(protocol *proto.Protocol, target Target, outDir, name string) error {
	spec, ok := targets[target]
	if !ok {
		return fmt.Errorf("bindgen: unsupported target %q", target)
	}

	txs, err := collectTransactions(protocol, spec.typeOf)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := spec.tmpl.Execute(&buf, map[string]any{
		"Transactions": txs,
		"NeedsBigInt":  anyIntParam(txs),
	}); err != nil {
		return fmt.Errorf("rendering %s template: %w", target, err)
	}

	outPath := filepath.Join(outDir, fmt.Sprintf("%s.%s", name, spec.extension))
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

func collectTransactions(protocol *proto.Protocol, typeOf func(ast.TypeRef) string) ([]transaction, error) {
	prog := protocol.Program()
	txs := make([]transaction, 0, len(prog.Txs))
	for _, def := range prog.Txs {
		protoTx, err := protocol.NewTx(def.Name)
		if err != nil {
			return nil, fmt.Errorf("instantiating tx %q: %w", def.Name, err)
		}
		irBytes, err := protoTx.IRBytes()
		if err != nil {
			return nil, fmt.Errorf("serializing ir for tx %q: %w", def.Name, err)
		}

		params := make([]txParameter, 0, len(def.Params))
		for _, p := range def.Params {
			params = append(params, txParameter{
				Name:     p.Name,
				TypeName: typeOf(p.Type),
				Kind:     p.Type.Name,
			})
		}

		txs = append(txs, transaction{
			Name:       def.Name,
			IRHex:      fmt.Sprintf("%x", irBytes),
			Parameters: params,
		})
	}
	return txs, nil
}

func anyIntParam(txs []transaction) bool {
	for _, tx := range txs {
		for _, p := range tx.Parameters {
			if p.Kind == ast.TypeInt {
				return true
			}
		}
	}
	return false
}
