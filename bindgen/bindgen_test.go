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

package bindgen_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/txpipe/tx3-go/bindgen"
	"github.com/txpipe/tx3-go/proto"
)

func loadTransfer(t *testing.T) *proto.Protocol {
	t.Helper()
	src, err := os.ReadFile("../testdata/fixtures/transfer.tx3")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	p, err := proto.Load(string(src))
	if err != nil {
		t.Fatalf("loading protocol: %v", err)
	}
	return p
}

func TestGenerateGoProducesParamsStructAndConstructor(t *testing.T) {
	protocol := loadTransfer(t)
	outDir := t.TempDir()
	if err := bindgen.Generate(protocol, bindgen.TargetGo, outDir, "transfer"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(outDir, "transfer.go"))
	if err != nil {
		t.Fatalf("reading generated file: %v", err)
	}
	src := string(content)
	if !strings.Contains(src, "type TransferParams struct") {
		t.Fatalf("expected a TransferParams struct, got:\n%s", src)
	}
	if !strings.Contains(src, "func NewTransferTx(") {
		t.Fatalf("expected a NewTransferTx constructor, got:\n%s", src)
	}
	if !strings.Contains(src, "math/big") {
		t.Fatalf("expected math/big import for an Int parameter, got:\n%s", src)
	}
	if !strings.Contains(src, "ir.ArgInt_(big.NewInt(params.Quantity))") {
		t.Fatalf("expected an ArgInt_ conversion for Quantity, got:\n%s", src)
	}
}

func TestGenerateRejectsUnknownTarget(t *testing.T) {
	protocol := loadTransfer(t)
	err := bindgen.Generate(protocol, bindgen.Target("cobol"), t.TempDir(), "transfer")
	if err == nil {
		t.Fatalf("expected an error for an unknown target")
	}
}

func TestGenerateEachTargetProducesNonEmptyOutput(t *testing.T) {
	protocol := loadTransfer(t)
	cases := []struct {
		target bindgen.Target
		ext    string
	}{
		{bindgen.TargetGo, "go"},
		{bindgen.TargetTypeScript, "ts"},
		{bindgen.TargetPython, "py"},
		{bindgen.TargetRust, "rs"},
	}
	for _, c := range cases {
		outDir := t.TempDir()
		if err := bindgen.Generate(protocol, c.target, outDir, "transfer"); err != nil {
			t.Fatalf("Generate(%s): %v", c.target, err)
		}
		content, err := os.ReadFile(filepath.Join(outDir, "transfer."+c.ext))
		if err != nil {
			t.Fatalf("reading %s output: %v", c.target, err)
		}
		if len(content) == 0 {
			t.Fatalf("expected non-empty output for target %s", c.target)
		}
	}
}
