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

import (
	"fmt"
	"math/big"

	"github.com/blinklabs-io/gouroboros/cbor"
)

// wireVersion is the envelope's leading version tag (spec §6's bindgen
// output embeds this alongside the IR bytes, so a client built against an
// older wire shape fails loudly rather than misreading a newer one).
const wireVersion = "v1alpha1"

// envelope is the on-the-wire shape: cbor.StructAsArray keeps it compact,
// mirroring the teacher's own transaction.go wire structs.
type envelope struct {
	cbor.StructAsArray

	Version string
	Tx      wireTx
}

type wireTx struct {
	cbor.StructAsArray

	Name       string
	References []wireExpr
	Inputs     []wireInput
	Outputs    []wireOutput
	Validity   *wireValidity
	Mints      []wireMint
	Fees       wireExpr
	Collateral *wireCollateral
	Signers    []wireExpr
	Metadata   []wireMetadataEntry
	AdHoc      []wireAdHoc
}

type wireExpr struct {
	cbor.StructAsArray

	Kind      uint8
	Bytes     []byte
	Number    *big.Int
	Bool      bool
	String    string
	UtxoRefs  []wireUtxoRef
	UtxoSet   []wireUtxo
	List      []wireExpr
	Struct    *wireStruct
	Assets    []wireAssetExpr
	ParamName string
	ParamType string
	InputName string
	Property  *wireProperty
	Custom    *wireBinaryOp
	AdHoc     *wireAdHocExpr
}

type wireUtxoRef struct {
	cbor.StructAsArray

	TxID  []byte
	Index uint32
}

type wireAssetAmount struct {
	cbor.StructAsArray

	Policy    []byte
	AssetName []byte
	Amount    *big.Int
}

type wireUtxo struct {
	cbor.StructAsArray

	Ref     wireUtxoRef
	Address []byte
	Assets  []wireAssetAmount
	Datum   []byte
	Script  []byte
}

type wireStruct struct {
	cbor.StructAsArray

	Constructor uint32
	Fields      []wireExpr
}

type wireAssetExpr struct {
	cbor.StructAsArray

	Policy    wireExpr
	AssetName wireExpr
	Amount    wireExpr
}

type wireProperty struct {
	cbor.StructAsArray

	Object wireExpr
	Path   []string
}

type wireBinaryOp struct {
	cbor.StructAsArray

	Left  wireExpr
	Right wireExpr
	Op    uint8
}

type wireAdHocExpr struct {
	cbor.StructAsArray

	Name   string
	Keys   []string
	Values []wireExpr
}

type wireInputQuery struct {
	cbor.StructAsArray

	HasAddress   bool
	Address      wireExpr
	HasMinAmount bool
	MinAmount    wireExpr
}

type wireInput struct {
	cbor.StructAsArray

	Name        string
	HasQuery    bool
	Query       wireInputQuery
	HasRefExpr  bool
	RefExpr     wireExpr
	Refs        []wireUtxoRef
	HasRedeemer bool
	Redeemer    wireExpr
}

type wireOutput struct {
	cbor.StructAsArray

	HasAddress bool
	Address    wireExpr
	HasDatum   bool
	Datum      wireExpr
	HasAmount  bool
	Amount     wireExpr
}

type wireMint struct {
	cbor.StructAsArray

	HasAmount   bool
	Amount      wireExpr
	HasRedeemer bool
	Redeemer    wireExpr
}

type wireValidity struct {
	cbor.StructAsArray

	HasSince bool
	Since    wireExpr
	HasUntil bool
	Until    wireExpr
}

type wireCollateral struct {
	cbor.StructAsArray

	HasQuery   bool
	Query      wireInputQuery
	HasRefExpr bool
	RefExpr    wireExpr
	Refs       []wireUtxoRef
}

type wireMetadataEntry struct {
	cbor.StructAsArray

	Key   int64
	Value wireExpr
}

type wireAdHoc struct {
	cbor.StructAsArray

	Name   string
	Keys   []string
	Values []wireExpr
}

// ToBytes serializes tx into the versioned CBOR wire format exchanged
// between bindgen clients and a tx3 resolver (spec §6).
func ToBytes(tx Tx) ([]byte, error) {
	env := envelope{Version: wireVersion, Tx: toWireTx(tx)}
	return cbor.Encode(&env)
}

// FromBytes deserializes b, rejecting any envelope whose version tag does
// not match exactly — tx3's wire format carries no backward-compatibility
// guarantee across version tags (supplemented: spec §6 leaves this
// unstated, so an incompatible future tag fails the round-trip rather than
// silently misreading a reshaped struct).
func FromBytes(b []byte) (Tx, error) {
	var env envelope
	if _, err := cbor.Decode(b, &env); err != nil {
		return Tx{}, fmt.Errorf("decoding ir envelope: %w", err)
	}
	if env.Version != wireVersion {
		return Tx{}, fmt.Errorf("unsupported ir wire version %q (want %q)", env.Version, wireVersion)
	}
	return fromWireTx(env.Tx), nil
}

func toWireExpr(e Expression) wireExpr {
	w := wireExpr{Kind: uint8(e.Kind), Bytes: e.Bytes, Number: e.Number, Bool: e.Bool, String: e.String,
		ParamName: e.ParamName, ParamType: e.ParamType, InputName: e.InputName}
	for _, r := range e.UtxoRefs {
		w.UtxoRefs = append(w.UtxoRefs, wireUtxoRef{TxID: r.TxID, Index: r.Index})
	}
	for _, u := range e.UtxoSet {
		w.UtxoSet = append(w.UtxoSet, toWireUtxo(u))
	}
	for _, it := range e.List {
		w.List = append(w.List, toWireExpr(it))
	}
	if e.Struct != nil {
		fields := make([]wireExpr, len(e.Struct.Fields))
		for i, f := range e.Struct.Fields {
			fields[i] = toWireExpr(f)
		}
		w.Struct = &wireStruct{Constructor: e.Struct.Constructor, Fields: fields}
	}
	for _, a := range e.Assets {
		w.Assets = append(w.Assets, wireAssetExpr{Policy: toWireExpr(a.Policy), AssetName: toWireExpr(a.AssetName), Amount: toWireExpr(a.Amount)})
	}
	if e.Property != nil {
		w.Property = &wireProperty{Object: toWireExpr(e.Property.Object), Path: e.Property.Path}
	}
	if e.Custom != nil {
		w.Custom = &wireBinaryOp{Left: toWireExpr(e.Custom.Left), Right: toWireExpr(e.Custom.Right), Op: uint8(e.Custom.Op)}
	}
	if e.AdHoc != nil {
		w.AdHoc = &wireAdHocExpr{Name: e.AdHoc.Name, Keys: e.AdHoc.Order}
		for _, k := range e.AdHoc.Order {
			w.AdHoc.Values = append(w.AdHoc.Values, toWireExpr(e.AdHoc.Fields[k]))
		}
	}
	return w
}

func fromWireExpr(w wireExpr) Expression {
	e := Expression{Kind: Kind(w.Kind), Bytes: w.Bytes, Number: w.Number, Bool: w.Bool, String: w.String,
		ParamName: w.ParamName, ParamType: w.ParamType, InputName: w.InputName}
	for _, r := range w.UtxoRefs {
		e.UtxoRefs = append(e.UtxoRefs, UtxoRef{TxID: r.TxID, Index: r.Index})
	}
	for _, u := range w.UtxoSet {
		e.UtxoSet = append(e.UtxoSet, fromWireUtxo(u))
	}
	for _, it := range w.List {
		e.List = append(e.List, fromWireExpr(it))
	}
	if w.Struct != nil {
		fields := make([]Expression, len(w.Struct.Fields))
		for i, f := range w.Struct.Fields {
			fields[i] = fromWireExpr(f)
		}
		e.Struct = &StructExpr{Constructor: w.Struct.Constructor, Fields: fields}
	}
	for _, a := range w.Assets {
		e.Assets = append(e.Assets, AssetExpr{Policy: fromWireExpr(a.Policy), AssetName: fromWireExpr(a.AssetName), Amount: fromWireExpr(a.Amount)})
	}
	if w.Property != nil {
		e.Property = &PropertyRef{Object: fromWireExpr(w.Property.Object), Path: w.Property.Path}
	}
	if w.Custom != nil {
		e.Custom = &BinaryOp{Left: fromWireExpr(w.Custom.Left), Right: fromWireExpr(w.Custom.Right), Op: BinOpKind(w.Custom.Op)}
	}
	if w.AdHoc != nil {
		fields := make(map[string]Expression, len(w.AdHoc.Keys))
		for i, k := range w.AdHoc.Keys {
			fields[k] = fromWireExpr(w.AdHoc.Values[i])
		}
		e.AdHoc = &AdHocExpr{Name: w.AdHoc.Name, Fields: fields, Order: w.AdHoc.Keys}
	}
	return e
}

func toWireUtxo(u Utxo) wireUtxo {
	w := wireUtxo{Ref: wireUtxoRef{TxID: u.Ref.TxID, Index: u.Ref.Index}, Address: u.Address, Datum: u.Datum, Script: u.Script}
	for _, a := range u.Assets {
		w.Assets = append(w.Assets, wireAssetAmount{Policy: a.Policy, AssetName: a.AssetName, Amount: a.Amount})
	}
	return w
}

func fromWireUtxo(w wireUtxo) Utxo {
	u := Utxo{Ref: UtxoRef{TxID: w.Ref.TxID, Index: w.Ref.Index}, Address: w.Address, Datum: w.Datum, Script: w.Script}
	for _, a := range w.Assets {
		u.Assets = append(u.Assets, AssetAmount{Policy: a.Policy, AssetName: a.AssetName, Amount: a.Amount})
	}
	return u
}

func toWireQuery(q *InputQuery) (bool, wireInputQuery) {
	if q == nil {
		return false, wireInputQuery{}
	}
	w := wireInputQuery{}
	if q.Address != nil {
		w.HasAddress = true
		w.Address = toWireExpr(*q.Address)
	}
	if q.MinAmount != nil {
		w.HasMinAmount = true
		w.MinAmount = toWireExpr(*q.MinAmount)
	}
	return true, w
}

func fromWireQuery(has bool, w wireInputQuery) *InputQuery {
	if !has {
		return nil
	}
	q := &InputQuery{}
	if w.HasAddress {
		e := fromWireExpr(w.Address)
		q.Address = &e
	}
	if w.HasMinAmount {
		e := fromWireExpr(w.MinAmount)
		q.MinAmount = &e
	}
	return q
}

func toWireTx(tx Tx) wireTx {
	w := wireTx{Name: tx.Name, Fees: toWireExpr(tx.Fees)}
	for _, r := range tx.References {
		w.References = append(w.References, toWireExpr(r))
	}
	for _, in := range tx.Inputs {
		wi := wireInput{Name: in.Name}
		wi.HasQuery, wi.Query = toWireQuery(in.Query)
		if in.RefExpr != nil {
			wi.HasRefExpr = true
			wi.RefExpr = toWireExpr(*in.RefExpr)
		}
		for _, r := range in.Refs {
			wi.Refs = append(wi.Refs, wireUtxoRef{TxID: r.TxID, Index: r.Index})
		}
		if in.Redeemer != nil {
			wi.HasRedeemer = true
			wi.Redeemer = toWireExpr(*in.Redeemer)
		}
		w.Inputs = append(w.Inputs, wi)
	}
	for _, o := range tx.Outputs {
		wo := wireOutput{}
		if o.Address != nil {
			wo.HasAddress = true
			wo.Address = toWireExpr(*o.Address)
		}
		if o.Datum != nil {
			wo.HasDatum = true
			wo.Datum = toWireExpr(*o.Datum)
		}
		if o.Amount != nil {
			wo.HasAmount = true
			wo.Amount = toWireExpr(*o.Amount)
		}
		w.Outputs = append(w.Outputs, wo)
	}
	for _, m := range tx.Mints {
		wm := wireMint{}
		if m.Amount != nil {
			wm.HasAmount = true
			wm.Amount = toWireExpr(*m.Amount)
		}
		if m.Redeemer != nil {
			wm.HasRedeemer = true
			wm.Redeemer = toWireExpr(*m.Redeemer)
		}
		w.Mints = append(w.Mints, wm)
	}
	if tx.Validity != nil {
		wv := &wireValidity{}
		if tx.Validity.Since != nil {
			wv.HasSince = true
			wv.Since = toWireExpr(*tx.Validity.Since)
		}
		if tx.Validity.Until != nil {
			wv.HasUntil = true
			wv.Until = toWireExpr(*tx.Validity.Until)
		}
		w.Validity = wv
	}
	if tx.Collateral != nil {
		wc := &wireCollateral{}
		wc.HasQuery, wc.Query = toWireQuery(tx.Collateral.Query)
		if tx.Collateral.RefExpr != nil {
			wc.HasRefExpr = true
			wc.RefExpr = toWireExpr(*tx.Collateral.RefExpr)
		}
		for _, r := range tx.Collateral.Refs {
			wc.Refs = append(wc.Refs, wireUtxoRef{TxID: r.TxID, Index: r.Index})
		}
		w.Collateral = wc
	}
	for _, s := range tx.Signers {
		w.Signers = append(w.Signers, toWireExpr(s))
	}
	for _, m := range tx.Metadata {
		w.Metadata = append(w.Metadata, wireMetadataEntry{Key: m.Key, Value: toWireExpr(m.Value)})
	}
	for _, ah := range tx.AdHoc {
		wah := wireAdHoc{Name: ah.Name, Keys: ah.Order}
		for _, k := range ah.Order {
			wah.Values = append(wah.Values, toWireExpr(ah.Fields[k]))
		}
		w.AdHoc = append(w.AdHoc, wah)
	}
	return w
}

func fromWireTx(w wireTx) Tx {
	tx := Tx{Name: w.Name, Fees: fromWireExpr(w.Fees)}
	for _, r := range w.References {
		tx.References = append(tx.References, fromWireExpr(r))
	}
	for _, wi := range w.Inputs {
		in := Input{Name: wi.Name, Query: fromWireQuery(wi.HasQuery, wi.Query)}
		if wi.HasRefExpr {
			e := fromWireExpr(wi.RefExpr)
			in.RefExpr = &e
		}
		for _, r := range wi.Refs {
			in.Refs = append(in.Refs, UtxoRef{TxID: r.TxID, Index: r.Index})
		}
		if wi.HasRedeemer {
			e := fromWireExpr(wi.Redeemer)
			in.Redeemer = &e
		}
		tx.Inputs = append(tx.Inputs, in)
	}
	for _, wo := range w.Outputs {
		o := Output{}
		if wo.HasAddress {
			e := fromWireExpr(wo.Address)
			o.Address = &e
		}
		if wo.HasDatum {
			e := fromWireExpr(wo.Datum)
			o.Datum = &e
		}
		if wo.HasAmount {
			e := fromWireExpr(wo.Amount)
			o.Amount = &e
		}
		tx.Outputs = append(tx.Outputs, o)
	}
	for _, wm := range w.Mints {
		m := Mint{}
		if wm.HasAmount {
			e := fromWireExpr(wm.Amount)
			m.Amount = &e
		}
		if wm.HasRedeemer {
			e := fromWireExpr(wm.Redeemer)
			m.Redeemer = &e
		}
		tx.Mints = append(tx.Mints, m)
	}
	if w.Validity != nil {
		v := &Validity{}
		if w.Validity.HasSince {
			e := fromWireExpr(w.Validity.Since)
			v.Since = &e
		}
		if w.Validity.HasUntil {
			e := fromWireExpr(w.Validity.Until)
			v.Until = &e
		}
		tx.Validity = v
	}
	if w.Collateral != nil {
		c := &Collateral{Query: fromWireQuery(w.Collateral.HasQuery, w.Collateral.Query)}
		if w.Collateral.HasRefExpr {
			e := fromWireExpr(w.Collateral.RefExpr)
			c.RefExpr = &e
		}
		for _, r := range w.Collateral.Refs {
			c.Refs = append(c.Refs, UtxoRef{TxID: r.TxID, Index: r.Index})
		}
		tx.Collateral = c
	}
	for _, s := range w.Signers {
		tx.Signers = append(tx.Signers, fromWireExpr(s))
	}
	for _, m := range w.Metadata {
		tx.Metadata = append(tx.Metadata, MetadataEntry{Key: m.Key, Value: fromWireExpr(m.Value)})
	}
	for _, wah := range w.AdHoc {
		fields := make(map[string]Expression, len(wah.Keys))
		for i, k := range wah.Keys {
			fields[k] = fromWireExpr(wah.Values[i])
		}
		tx.AdHoc = append(tx.AdHoc, AdHocExpr{Name: wah.Name, Fields: fields, Order: wah.Keys})
	}
	return tx
}
