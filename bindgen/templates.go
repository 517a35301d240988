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

package bindgen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/txpipe/tx3-go/ast"
)

// caseFuncs are the identifier-casing helpers every target template can
// call on a tx's bare Name, since each target wants a different case
// for the same role (spec §7 "naming is target-specific"), plus a
// couple of target-specific value helpers.
var caseFuncs = template.FuncMap{
	"pascal":        pascalCase,
	"camel":         camelCase,
	"snake":         snakeCase,
	"upperSnake":    upperSnakeCase,
	"goArgExpr":     goArgExpr,
	"rustByteArray": rustByteArray,
}

// goArgExpr renders the Go expression that turns a params struct field
// into the ir.ArgValue SetArg expects, picking the constructor that
// matches the parameter's original tx3 type. Address/UtxoRef/AnyAsset
// fields are already typed ir.ArgValue (see goTypeFor) and pass through
// unchanged.
func goArgExpr(kind, fieldExpr string) string {
	switch kind {
	case ast.TypeInt:
		return fmt.Sprintf("ir.ArgInt_(big.NewInt(%s))", fieldExpr)
	case ast.TypeBool:
		return fmt.Sprintf("ir.ArgBool_(%s)", fieldExpr)
	case ast.TypeBytes:
		return fmt.Sprintf("ir.ArgBytes_(%s)", fieldExpr)
	case ast.TypeString:
		return fmt.Sprintf("ir.ArgString_(%s)", fieldExpr)
	default:
		return fieldExpr
	}
}

// rustByteArray renders a hex string as a Rust `[u8; N]` array literal,
// the shape `&BYTES_IR` in the template needs to coerce to `&[u8]`.
func rustByteArray(hexStr string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < len(hexStr); i += 2 {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "0x%s", hexStr[i:i+2])
	}
	b.WriteByte(']')
	return b.String()
}

func mustParse(name, body string) *template.Template {
	return template.Must(template.New(name).Funcs(caseFuncs).Parse(body))
}

var goTemplate = mustParse("go", `// Code generated by tx3-bindgen. DO NOT EDIT.

package tx3bindings

import (
	"encoding/hex"
{{if .NeedsBigInt}}	"math/big"
{{end}}
	"github.com/txpipe/tx3-go/ir"
	"github.com/txpipe/tx3-go/proto"
)
{{range .Transactions}}
var {{upperSnake .Name}}_IR = mustDecodeHex("{{.IRHex}}")

type {{pascal .Name}}Params struct {
{{range .Parameters}}	{{pascal .Name}} {{.TypeName}}
{{end}}}

func New{{pascal .Name}}Tx(params {{pascal .Name}}Params) (*proto.ProtoTx, error) {
	tx, err := proto.FromIRBytes("{{.Name}}", {{upperSnake .Name}}_IR)
	if err != nil {
		return nil, err
	}
{{range .Parameters}}	tx.SetArg("{{.Name}}", {{goArgExpr .Kind (printf "params.%s" (pascal .Name))}})
{{end}}	return tx.Apply()
}
{{end}}
func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
`)

var typescriptTemplate = mustParse("typescript", `// Code generated by tx3-bindgen. DO NOT EDIT.

export interface TrpClientOptions {
  endpoint: string;
  headers?: Record<string, string>;
}
{{range .Transactions}}
export const {{upperSnake .Name}}_IR = "{{.IRHex}}";

export interface {{pascal .Name}}Params {
{{range .Parameters}}  {{camel .Name}}: {{.TypeName}};
{{end}}}

export async function {{camel .Name}}Tx(
  client: TrpClientOptions,
  params: {{pascal .Name}}Params,
): Promise<string> {
  return resolveTx(client, "{{.Name}}", {{upperSnake .Name}}_IR, params);
}
{{end}}
async function resolveTx(
  client: TrpClientOptions,
  txName: string,
  irHex: string,
  args: Record<string, unknown>,
): Promise<string> {
  const res = await fetch(client.endpoint, {
    method: "POST",
    headers: { "content-type": "application/json", ...(client.headers ?? {}) },
    body: JSON.stringify({
      jsonrpc: "2.0",
      id: 1,
      method: "trp.resolve",
      params: { tir: { bytecode: irHex, encoding: "hex", version: "v1alpha1" }, args, tx: txName },
    }),
  });
  const body = await res.json();
  return body.result.tx;
}
`)

var pythonTemplate = mustParse("python", `# Code generated by tx3-bindgen. DO NOT EDIT.

from dataclasses import dataclass
{{range .Transactions}}
{{upperSnake .Name}}_IR = bytes.fromhex("{{.IRHex}}")


@dataclass
class {{pascal .Name}}Params:
{{if .Parameters}}{{range .Parameters}}    {{snake .Name}}: {{.TypeName}}
{{end}}{{else}}    pass
{{end}}

def {{snake .Name}}_tx(params: {{pascal .Name}}Params):
    return resolve_tx("{{.Name}}", {{upperSnake .Name}}_IR, params)
{{end}}

def resolve_tx(tx_name, ir_bytes, params):
    raise NotImplementedError("wire this up to a trp.resolve client")
`)

var rustTemplate = mustParse("rust", `// Code generated by tx3-bindgen. DO NOT EDIT.
{{range .Transactions}}
pub const {{upperSnake .Name}}_IR: &[u8] = &{{rustByteArray .IRHex}};

pub struct {{pascal .Name}}Params {
{{range .Parameters}}    pub {{snake .Name}}: {{.TypeName}},
{{end}}}

pub fn new_{{snake .Name}}_tx(params: {{pascal .Name}}Params) -> Result<tx3_lang::ProtoTx, tx3_lang::applying::Error> {
    let mut proto_tx = tx3_lang::ProtoTx::from_ir_bytes({{upperSnake .Name}}_IR).unwrap();
{{range .Parameters}}    proto_tx.set_arg("{{.Name}}", params.{{snake .Name}}.into());
{{end}}    proto_tx.apply()
}
{{end}}
`)
