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

// Package ast defines the concrete syntax tree for the tx3 language: the
// top-level Program, its declarations, and the DataExpr / AssetExpr /
// AddressExpr expression families described by the grammar in spec §4.1.
package ast

import "math/big"

// Span locates a node in the original source text.
type Span struct {
	Start int
	End   int
}

// SymbolKind tags the kind of declaration an Identifier resolved against.
type SymbolKind int

const (
	SymParamVar SymbolKind = iota
	SymInput
	SymParty
	SymPolicy
	SymAsset
	SymType
	SymRecordField
	SymVariantCase
	SymFees
)

func (k SymbolKind) String() string {
	switch k {
	case SymParamVar:
		return "ParamVar"
	case SymInput:
		return "Input"
	case SymParty:
		return "PartyDef"
	case SymPolicy:
		return "PolicyDef"
	case SymAsset:
		return "AssetDef"
	case SymType:
		return "TypeDef"
	case SymRecordField:
		return "RecordField"
	case SymVariantCase:
		return "VariantCase"
	case SymFees:
		return "Fees"
	default:
		return "Unknown"
	}
}

// Symbol is the tagged entry a Scope binds a name to. Exactly one of the
// pointer fields matching Kind is populated; the rest are nil. It is kept
// in the ast package (rather than scope) so expression nodes can hold a
// *Symbol without an import cycle between ast and scope.
type Symbol struct {
	Kind  SymbolKind
	Name  string
	Param *ParamDef
	Input *InputBlock
	Party *PartyDef
	Policy *PolicyDef
	Asset *AssetDef
	Type  *TypeDef
	Field *RecordField
	Case  *VariantCase
}

// TypeRef names a type: either a primitive (Int, Bool, Bytes, String,
// Address, UtxoRef, AnyAsset, Unit) or a reference to a declared TypeDef.
type TypeRef struct {
	Name string
	Span Span
}

const (
	TypeInt      = "Int"
	TypeBool     = "Bool"
	TypeBytes    = "Bytes"
	TypeString   = "String"
	TypeAddress  = "Address"
	TypeUtxoRef  = "UtxoRef"
	TypeAnyAsset = "AnyAsset"
	TypeUnit     = "Unit"
)

// Program is the root of a parsed .tx3 source file.
type Program struct {
	Parties  []*PartyDef
	Policies []*PolicyDef
	Assets   []*AssetDef
	Types    []*TypeDef
	Txs      []*TxDef
	Span     Span
}

// PartyDef declares a named role: `party Name;`.
type PartyDef struct {
	Name string
	Span Span
}

// PolicyValueKind distinguishes a literal hex policy from an imported one.
type PolicyValueKind int

const (
	PolicyHex PolicyValueKind = iota
	PolicyImport
)

// PolicyDef declares a named minting policy: `policy Name = 0x...;` or
// `policy Name = import("path");`.
type PolicyDef struct {
	Name  string
	Kind  PolicyValueKind
	Hex   string // set when Kind == PolicyHex (without the leading 0x)
	Import string // set when Kind == PolicyImport
	Span  Span
}

// AssetDef declares a named asset class: `asset Name = 0xhex.asset_name;`.
type AssetDef struct {
	Name      string
	PolicyHex string // without leading 0x
	AssetName string
	Span      Span
}

// TypeDef declares a record or tagged-variant type. A record lowers to a
// single synthetic variant case named "Default".
type TypeDef struct {
	Name   string
	Cases  []*VariantCase
	Record bool // true if declared as a record rather than explicit variant
	Span   Span
}

// VariantCase is one case of a type (or the synthetic "Default" case of a
// record type).
type VariantCase struct {
	Name   string
	Fields []*RecordField
	Span   Span
}

// RecordField is a named, typed field of a variant case.
type RecordField struct {
	Name string
	Type TypeRef
	Span Span
}

// ParamDef is a tx parameter: name plus declared type.
type ParamDef struct {
	Name string
	Type TypeRef
	Span Span
}

// TxDef is a named transaction template.
type TxDef struct {
	Name       string
	Params     []*ParamDef
	Inputs     []*InputBlock
	Outputs    []*OutputBlock
	Mint       *MintBlock
	Burn       *MintBlock
	Validity   *ValidityBlock
	Signers    []AddressExpr
	Metadata   []*MetadataEntry
	AdHoc      []*AdHocBlock
	Collateral *CollateralBlock
	References []*ReferenceBlock
	Span       Span
}

// InputBlock is `input Name { from:, min_amount:, datum_is:, redeemer:, ref: }`.
type InputBlock struct {
	Name      string
	From      AddressExpr
	MinAmount AssetExpr
	DatumIs   *TypeRef
	Redeemer  DataExpr
	Ref       DataExpr
	Span      Span
}

// OutputBlock is `output [Name] { to:, amount:, datum: }`.
type OutputBlock struct {
	Name   string // optional, empty if anonymous
	To     AddressExpr
	Amount AssetExpr
	Datum  DataExpr
	Span   Span
}

// MintBlock is `mint { amount:, redeemer: }` or the `burn` counterpart.
type MintBlock struct {
	Amount   AssetExpr
	Redeemer DataExpr
	Span     Span
}

// ValidityBlock is the transaction's validity interval.
type ValidityBlock struct {
	Since DataExpr
	Until DataExpr
	Span  Span
}

// MetadataEntry is a single `key: value` auxiliary-data entry.
type MetadataEntry struct {
	Key   int64
	Value DataExpr
	Span  Span
}

// AdHocBlock is a chain-specific block such as
// `cardano::vote_delegation_certificate { drep:, stake: }`; the parser
// keeps unrecognized chain-specific blocks in this generic shape so that
// analysis/lowering can dispatch on Name without the grammar needing to
// know every chain's certificate kinds up front.
type AdHocBlock struct {
	Name   string
	Fields map[string]DataExpr
	Order  []string // field insertion order, for deterministic lowering
	Span   Span
}

// CollateralBlock names the collateral inputs for script execution fees.
type CollateralBlock struct {
	From      AddressExpr
	MinAmount AssetExpr
	Ref       DataExpr
	Span      Span
}

// ReferenceBlock names a reference input.
type ReferenceBlock struct {
	Ref  DataExpr
	Span Span
}

// BinOp is the operator of a binary DataExpr/AssetExpr.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
)

func (o BinOp) String() string {
	if o == OpAdd {
		return "+"
	}
	return "-"
}

// ---- DataExpr family ----

// DataExpr is any scalar/datum-valued expression.
type DataExpr interface {
	dataExpr()
	SpanOf() Span
}

type NoneExpr struct{ Span Span }
type NumberExpr struct {
	Value *big.Int
	Span  Span
}
type BoolExpr struct {
	Value bool
	Span  Span
}
type StringExpr struct {
	Value string // already unquoted
	Span  Span
}
type HexBytesExpr struct {
	Value []byte // already stripped of leading 0x
	Span  Span
}
type UnitExpr struct{ Span Span }

// IdentifierExpr is a bare name; Symbol is populated by the analyzer.
type IdentifierExpr struct {
	Name   string
	Symbol *Symbol
	Span   Span
}

// PropertyExpr is `object.path.segments`.
type PropertyExpr struct {
	Object DataExpr
	Path   []string
	Span   Span
}

// BinaryExpr is `left + right` / `left - right` over DataExprs.
type BinaryExpr struct {
	Left  DataExpr
	Right DataExpr
	Op    BinOp
	Span  Span
}

// FieldAssign is one `name: value` pair inside a datum constructor.
type FieldAssign struct {
	Name  string
	Value DataExpr
	Span  Span
}

// DatumConstructorExpr is `Type.Case{ field: value, ...spread }` (the case
// name is omitted in source for record types, which have a single
// "Default" case).
type DatumConstructorExpr struct {
	Type   string
	Case   string // empty for record types; resolved to "Default" by the analyzer
	Fields []*FieldAssign
	Spread DataExpr // optional, nil if absent
	Span   Span
}

func (*NoneExpr) dataExpr()             {}
func (*NumberExpr) dataExpr()           {}
func (*BoolExpr) dataExpr()             {}
func (*StringExpr) dataExpr()           {}
func (*HexBytesExpr) dataExpr()         {}
func (*UnitExpr) dataExpr()             {}
func (*IdentifierExpr) dataExpr()       {}
func (*PropertyExpr) dataExpr()         {}
func (*BinaryExpr) dataExpr()           {}
func (*DatumConstructorExpr) dataExpr() {}

func (e *NoneExpr) SpanOf() Span             { return e.Span }
func (e *NumberExpr) SpanOf() Span           { return e.Span }
func (e *BoolExpr) SpanOf() Span             { return e.Span }
func (e *StringExpr) SpanOf() Span           { return e.Span }
func (e *HexBytesExpr) SpanOf() Span         { return e.Span }
func (e *UnitExpr) SpanOf() Span             { return e.Span }
func (e *IdentifierExpr) SpanOf() Span       { return e.Span }
func (e *PropertyExpr) SpanOf() Span         { return e.Span }
func (e *BinaryExpr) SpanOf() Span           { return e.Span }
func (e *DatumConstructorExpr) SpanOf() Span { return e.Span }

// ---- AssetExpr family ----

// AssetExpr is any asset-valued expression.
type AssetExpr interface {
	assetExpr()
	SpanOf() Span
}

// AssetIdentifierExpr is a bare name referring to an input's assets or a
// parameter of type AnyAsset.
type AssetIdentifierExpr struct {
	Name   string
	Symbol *Symbol
	Span   Span
}

// AssetConstructorExpr is `Type(amount[, asset_name])`.
type AssetConstructorExpr struct {
	Type      string
	Amount    DataExpr
	AssetName DataExpr // optional, nil if the asset's declared name is used
	Span      Span
}

// AssetBinaryExpr is `left + right` / `left - right` over AssetExprs.
type AssetBinaryExpr struct {
	Left  AssetExpr
	Right AssetExpr
	Op    BinOp
	Span  Span
}

// AssetPropertyExpr is `object.amount` / `object.assets` property access
// yielding an asset value.
type AssetPropertyExpr struct {
	Object DataExpr
	Path   []string
	Span   Span
}

func (*AssetIdentifierExpr) assetExpr() {}
func (*AssetConstructorExpr) assetExpr() {}
func (*AssetBinaryExpr) assetExpr()      {}
func (*AssetPropertyExpr) assetExpr()    {}

func (e *AssetIdentifierExpr) SpanOf() Span { return e.Span }
func (e *AssetConstructorExpr) SpanOf() Span { return e.Span }
func (e *AssetBinaryExpr) SpanOf() Span      { return e.Span }
func (e *AssetPropertyExpr) SpanOf() Span    { return e.Span }

// ---- AddressExpr family ----

// AddressExpr is either a literal bech32 string or an identifier resolving
// to a party.
type AddressExpr interface {
	addressExpr()
	SpanOf() Span
}

type AddressStringExpr struct {
	Value string // already unquoted
	Span  Span
}

type AddressIdentifierExpr struct {
	Name   string
	Symbol *Symbol
	Span   Span
}

func (*AddressStringExpr) addressExpr()     {}
func (*AddressIdentifierExpr) addressExpr() {}

func (e *AddressStringExpr) SpanOf() Span     { return e.Span }
func (e *AddressIdentifierExpr) SpanOf() Span { return e.Span }
