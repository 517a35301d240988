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

import "github.com/txpipe/tx3-go/ast"

// goTypeFor maps a tx parameter's declared type to the Go type a
// generated binding should declare it as. Address, UtxoRef and AnyAsset
// are typed as ir.ArgValue directly rather than string/[]byte; for the
// first two, building the value is already a decision the caller has to make (a bech32
// string vs raw bytes, a single ref vs a whole utxo set) — exactly the
// choice ir.ArgAddress_/ArgUtxoRef_/ArgUtxoSet_ exist to make explicit.
func goTypeFor(ty ast.TypeRef) string {
	switch ty.Name {
	case ast.TypeInt:
		return "int64"
	case ast.TypeBool:
		return "bool"
	case ast.TypeBytes:
		return "[]byte"
	case ast.TypeString:
		return "string"
	case ast.TypeUnit:
		return "struct{}"
	case ast.TypeAddress, ast.TypeUtxoRef, ast.TypeAnyAsset:
		return "ir.ArgValue"
	default:
		return ty.Name
	}
}

func typescriptTypeFor(ty ast.TypeRef) string {
	switch ty.Name {
	case ast.TypeInt:
		return "bigint"
	case ast.TypeBool:
		return "boolean"
	case ast.TypeBytes:
		return "Uint8Array"
	case ast.TypeString, ast.TypeAddress, ast.TypeUtxoRef, ast.TypeAnyAsset:
		return "string"
	case ast.TypeUnit:
		return "void"
	default:
		return ty.Name
	}
}

func pythonTypeFor(ty ast.TypeRef) string {
	switch ty.Name {
	case ast.TypeInt:
		return "int"
	case ast.TypeBool:
		return "bool"
	case ast.TypeBytes:
		return "bytes"
	case ast.TypeString, ast.TypeAddress, ast.TypeUtxoRef, ast.TypeAnyAsset:
		return "str"
	case ast.TypeUnit:
		return "None"
	default:
		return ty.Name
	}
}

func rustTypeFor(ty ast.TypeRef) string {
	switch ty.Name {
	case ast.TypeInt:
		return "i64"
	case ast.TypeBool:
		return "bool"
	case ast.TypeBytes:
		return "Vec<u8>"
	case ast.TypeString, ast.TypeAddress, ast.TypeUtxoRef, ast.TypeAnyAsset:
		return "String"
	case ast.TypeUnit:
		return "()"
	default:
		return ty.Name
	}
}
