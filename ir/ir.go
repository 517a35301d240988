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

// Package ir implements the tx3 intermediate representation: the erased,
// positional structures Lowering produces from an analyzed AST, and the
// staged substitution (ApplyArgs/ApplyInputs/ApplyFees/Reduce) that turns a
// template into a fully-constant transaction body (spec §3.3, §4.3, §4.4).
//
// Expression is a single tagged struct rather than one Go type per
// variant. tx3's own design notes (spec §9) call for "a closed sum type
// over an open class hierarchy" and a uniform capability set applied
// through blanket container instances; a tagged Kind plus a handful of
// payload fields gives that closed-sum-type exhaustiveness (every
// transform is one switch over Kind) while keeping the container cases
// (List/Struct/Assets) genuinely blanket instead of duplicated per
// variant type. The teacher's own MockTransaction (ledger/transaction.go)
// takes the analogous shape: one struct, many optional fields, assembled
// by a builder.
package ir

import "math/big"

// Kind tags an Expression's active payload.
type Kind int

const (
	KindNone Kind = iota
	KindBytes
	KindNumber
	KindBool
	KindString
	KindAddress
	KindHash
	KindUtxoRefs
	KindUtxoSet
	KindList
	KindStruct
	KindAssets
	KindTuple
	KindEvalParameter
	KindEvalInputDatum
	KindEvalInputAssets
	KindEvalProperty
	KindEvalCustom
	KindFeeQuery
	KindAdHocDirective
)

func (k Kind) String() string {
	names := [...]string{
		"None", "Bytes", "Number", "Bool", "String", "Address", "Hash",
		"UtxoRefs", "UtxoSet", "List", "Struct", "Assets", "Tuple",
		"EvalParameter", "EvalInputDatum", "EvalInputAssets", "EvalProperty",
		"EvalCustom", "FeeQuery", "AdHocDirective",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// BinOpKind is the operator of an EvalCustom binary expression.
type BinOpKind int

const (
	OpAdd BinOpKind = iota
	OpSub
)

// UtxoRef identifies a UTxO by its transaction id and output index.
type UtxoRef struct {
	TxID  []byte
	Index uint32
}

// StructExpr is a constructed datum value: the zero-based index of the
// variant case within its type's case list, plus its positional fields
// (field names are erased by lowering — spec §9 Open Question notes this
// is why property access over a constant struct cannot be reduced).
type StructExpr struct {
	Constructor uint32
	Fields      []Expression
}

// PropertyRef is an unresolved `object.path` access.
type PropertyRef struct {
	Object Expression
	Path   []string
}

// BinaryOp is an EvalCustom payload: a deferred `left op right`.
type BinaryOp struct {
	Left  Expression
	Right Expression
	Op    BinOpKind
}

// AdHocExpr is a chain-specific directive (e.g. a Cardano certificate)
// whose fields are otherwise-ordinary Expressions, dispatched on Name by
// the chain back end at compile time.
type AdHocExpr struct {
	Name   string
	Fields map[string]Expression
	Order  []string
}

// AssetExpr is one line item of an asset list: a policy id, asset name,
// and amount, each independently possibly-unevaluated.
type AssetExpr struct {
	Policy    Expression
	AssetName Expression
	Amount    Expression
}

// Expression is the tagged IR value type. Exactly the fields matching Kind
// are meaningful; the rest are zero.
type Expression struct {
	Kind Kind

	Bytes   []byte   // Bytes, Address, Hash
	Number  *big.Int // Number
	Bool    bool     // Bool
	String  string   // String
	UtxoRefs []UtxoRef // UtxoRefs
	UtxoSet  []Utxo    // UtxoSet (a constant, pre-resolved set of utxos)

	List   []Expression // List, Tuple
	Struct *StructExpr  // Struct
	Assets []AssetExpr  // Assets

	ParamName string // EvalParameter
	ParamType string // EvalParameter

	InputName string // EvalInputDatum, EvalInputAssets

	Property *PropertyRef // EvalProperty
	Custom   *BinaryOp    // EvalCustom
	AdHoc    *AdHocExpr   // AdHocDirective
}

// Constructors for the common constant shapes.

func None() Expression                  { return Expression{Kind: KindNone} }
func Unit() Expression                   { return Expression{Kind: KindStruct, Struct: &StructExpr{Constructor: 0}} }
func Bytes(b []byte) Expression          { return Expression{Kind: KindBytes, Bytes: b} }
func Number(n *big.Int) Expression       { return Expression{Kind: KindNumber, Number: n} }
func NumberOf(n int64) Expression        { return Number(big.NewInt(n)) }
func Bool(b bool) Expression             { return Expression{Kind: KindBool, Bool: b} }
func String(s string) Expression         { return Expression{Kind: KindString, String: s} }
func Address(b []byte) Expression        { return Expression{Kind: KindAddress, Bytes: b} }
func Hash(b []byte) Expression           { return Expression{Kind: KindHash, Bytes: b} }
func Refs(refs []UtxoRef) Expression      { return Expression{Kind: KindUtxoRefs, UtxoRefs: refs} }
func UtxoSetOf(utxos []Utxo) Expression   { return Expression{Kind: KindUtxoSet, UtxoSet: utxos} }
func List(items []Expression) Expression { return Expression{Kind: KindList, List: items} }
func Tuple(items []Expression) Expression { return Expression{Kind: KindTuple, List: items} }
func Struct(constructor uint32, fields []Expression) Expression {
	return Expression{Kind: KindStruct, Struct: &StructExpr{Constructor: constructor, Fields: fields}}
}
func Assets(items []AssetExpr) Expression { return Expression{Kind: KindAssets, Assets: items} }
func EvalParameter(name, typ string) Expression {
	return Expression{Kind: KindEvalParameter, ParamName: name, ParamType: typ}
}
func EvalInputDatum(name string) Expression {
	return Expression{Kind: KindEvalInputDatum, InputName: name}
}
func EvalInputAssets(name string) Expression {
	return Expression{Kind: KindEvalInputAssets, InputName: name}
}
func EvalProperty(object Expression, path []string) Expression {
	return Expression{Kind: KindEvalProperty, Property: &PropertyRef{Object: object, Path: path}}
}
func EvalCustom(left, right Expression, op BinOpKind) Expression {
	return Expression{Kind: KindEvalCustom, Custom: &BinaryOp{Left: left, Right: right, Op: op}}
}
func FeeQuery() Expression { return Expression{Kind: KindFeeQuery} }
func AdHocDirective(name string, fields map[string]Expression, order []string) Expression {
	return Expression{Kind: KindAdHocDirective, AdHoc: &AdHocExpr{Name: name, Fields: fields, Order: order}}
}

// ---- Inputs, outputs, mints, the whole Tx ----

// Input is one IR input slot. Exactly one of Query or RefExpr is set prior
// to resolution; Refs holds the final, concrete UTxO reference once
// resolved (by reducing RefExpr to a constant, or via ApplyInputs).
type Input struct {
	Name     string
	Query    *InputQuery
	RefExpr  *Expression // explicit `ref:` pin, expected to reduce to KindUtxoRefs
	Refs     []UtxoRef
	Redeemer *Expression
}

// InputQuery describes the UTxO-selection criteria for an unresolved input.
type InputQuery struct {
	Address   *Expression
	MinAmount *Expression
}

// Output is one IR output slot.
type Output struct {
	Address *Expression
	Datum   *Expression
	Amount  *Expression
}

// Mint is one mint/burn slot.
type Mint struct {
	Amount   *Expression
	Redeemer *Expression
}

// Validity is a transaction's validity interval.
type Validity struct {
	Since *Expression
	Until *Expression
}

// Collateral is the IR collateral slot — an input-like query with no
// redeemer or policy.
type Collateral struct {
	Query   *InputQuery
	RefExpr *Expression
	Refs    []UtxoRef
}

// MetadataEntry is one auxiliary-data entry.
type MetadataEntry struct {
	Key   int64
	Value Expression
}

// Tx is the whole IR template for one `tx` declaration.
type Tx struct {
	Name       string
	References []Expression // each expected to reduce to KindUtxoRefs
	Inputs     []Input
	Outputs    []Output
	Validity   *Validity
	Mints      []Mint
	Fees       Expression
	Collateral *Collateral
	Signers    []Expression
	Metadata   []MetadataEntry
	AdHoc      []AdHocExpr
}
