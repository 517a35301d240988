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

package ir

import "math/big"

// AssetAmount is one (policy, asset_name, amount) balance line, the
// already-resolved cousin of AssetExpr used once a UTxO is concrete.
type AssetAmount struct {
	Policy    []byte
	AssetName []byte
	Amount    *big.Int
}

// Utxo is a fully resolved unspent output: what ApplyInputs substitutes in
// place of an input's query once a Ledger has picked a concrete UTxO.
type Utxo struct {
	Ref     UtxoRef
	Address []byte
	Assets  []AssetAmount
	Datum   []byte // raw Plutus Data bytes, nil if none
	Script  []byte // raw script bytes carried by this utxo, nil if none
}

// ArgKind tags an ArgValue's payload, mirroring the primitive TypeRef names
// a tx parameter can declare (spec §3.1).
type ArgKind int

const (
	ArgInt ArgKind = iota
	ArgBool
	ArgString
	ArgBytes
	ArgAddress
	ArgUtxoRef
	ArgUtxoSet
)

// ArgValue is a caller-supplied binding for one tx parameter, passed into
// ApplyArgs.
type ArgValue struct {
	Kind    ArgKind
	Int     *big.Int
	Bool    bool
	String  string
	Bytes   []byte
	Address []byte
	Ref     UtxoRef
	Set     []Utxo
}

func ArgInt_(n *big.Int) ArgValue        { return ArgValue{Kind: ArgInt, Int: n} }
func ArgBool_(b bool) ArgValue           { return ArgValue{Kind: ArgBool, Bool: b} }
func ArgString_(s string) ArgValue       { return ArgValue{Kind: ArgString, String: s} }
func ArgBytes_(b []byte) ArgValue        { return ArgValue{Kind: ArgBytes, Bytes: b} }
func ArgAddress_(b []byte) ArgValue      { return ArgValue{Kind: ArgAddress, Address: b} }
func ArgUtxoRef_(r UtxoRef) ArgValue     { return ArgValue{Kind: ArgUtxoRef, Ref: r} }
func ArgUtxoSet_(u []Utxo) ArgValue      { return ArgValue{Kind: ArgUtxoSet, Set: u} }
