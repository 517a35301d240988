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

package cardano

import (
	"fmt"
	"sort"

	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/txpipe/tx3-go/ir"
	"golang.org/x/crypto/blake2b"
)

// fixedExUnits is the placeholder execution-unit budget attached to
// every redeemer (spec §4.6 step 2 "Fixed ex_units budgets are used
// (implementation-defined constants)").
var fixedExUnits = ExUnits{Mem: 1_000_000, Steps: 500_000_000}

// ExUnits is a Plutus execution budget.
type ExUnits struct {
	cbor.StructAsArray

	Mem   uint64
	Steps uint64
}

// TxInput is a flattened (txid, index) input reference.
type TxInput struct {
	cbor.StructAsArray

	TxID  []byte
	Index uint32
}

// TxOutput is a Shelley-post-Alonzo transaction output.
type TxOutput struct {
	cbor.StructAsArray

	Address   []byte
	Lovelace  uint64
	Assets    *lcommon.MultiAsset[lcommon.MultiAssetTypeOutput]
	HasDatum  bool
	DatumKind uint8 // 1 = hash, 2 = inline
	Datum     []byte
}

// Redeemer pairs an applied redeemer with the sorted index of the item
// it spends or mints (spec §4.6 step 2).
type Redeemer struct {
	cbor.StructAsArray

	Tag     uint8 // 0 = spend, 3 = mint
	Index   uint32
	Data    []byte
	ExUnits ExUnits
}

// Body is the Conway-era transaction body (spec §4.6 step 1).
type Body struct {
	cbor.StructAsArray

	Inputs          []TxInput
	Outputs         []TxOutput
	Fee             uint64
	Certificates    []*Certificate
	Mint            *lcommon.MultiAsset[lcommon.MultiAssetTypeMint]
	ReferenceInputs []TxInput
	Collateral      []TxInput
	RequiredSigners [][]byte
	ValidityStart   *uint64
	ValidityEnd     *uint64
	ScriptDataHash  []byte
	AuxDataHash     []byte
}

// WitnessSet carries every redeemer built for the body (spec §4.6 step 2).
type WitnessSet struct {
	cbor.StructAsArray

	Redeemers []Redeemer
}

// AuxData is the `{key -> Metadatum}` tree (spec §4.6 step 3).
type AuxData struct {
	cbor.StructAsArray

	Entries map[int64][]byte
}

// CompiledTx is the Conway-era tx ready for CBOR serialization — the
// output of Compile (spec §4.6).
type CompiledTx struct {
	cbor.StructAsArray

	Body       Body
	WitnessSet WitnessSet
	AuxData    *AuxData
}

// ToBytes CBOR-encodes the compiled transaction, the same
// cbor.Encode(&v) call the teacher uses throughout ledger/*.go.
func (c *CompiledTx) ToBytes() ([]byte, error) {
	return cbor.Encode(c)
}

// Compile turns a reduced, fully-constant IR Tx into a Conway-era
// transaction (spec §4.6). tx must already have passed through
// ApplyArgs/ApplyInputs/ApplyFees/Reduce — Compile does not itself
// resolve anything.
func Compile(tx ir.Tx, pp PParams) (*CompiledTx, error) {
	if !ir.TxIsConstant(tx) {
		return nil, fmt.Errorf("cannot compile a tx with unresolved expressions")
	}

	body, sortedInputs, err := compileBody(tx, pp)
	if err != nil {
		return nil, err
	}

	ws, err := compileWitnessSet(tx, sortedInputs)
	if err != nil {
		return nil, err
	}

	var aux *AuxData
	if len(tx.Metadata) > 0 {
		aux, err = compileAuxData(tx.Metadata)
		if err != nil {
			return nil, err
		}
	}

	if len(ws.Redeemers) > 0 {
		wsBytes, err := cbor.Encode(&ws)
		if err != nil {
			return nil, fmt.Errorf("encoding witness set for script data hash: %w", err)
		}
		body.ScriptDataHash = scriptDataHash(wsBytes, pp, DefaultPlutusVersionPolicy)
	}
	if aux != nil {
		auxBytes, err := cbor.Encode(aux)
		if err != nil {
			return nil, fmt.Errorf("encoding aux data hash: %w", err)
		}
		body.AuxDataHash = blake2b256(auxBytes)
	}

	return &CompiledTx{Body: body, WitnessSet: ws, AuxData: aux}, nil
}

func compileBody(tx ir.Tx, pp PParams) (Body, []ir.UtxoRef, error) {
	sortedInputs := append([]ir.UtxoRef(nil), flattenRefs(tx.Inputs)...)
	sort.Slice(sortedInputs, func(i, j int) bool { return utxoRefLess(sortedInputs[i], sortedInputs[j]) })

	body := Body{}
	for _, r := range sortedInputs {
		body.Inputs = append(body.Inputs, TxInput{TxID: r.TxID, Index: r.Index})
	}

	for _, o := range tx.Outputs {
		out, err := compileOutput(o, pp.Network)
		if err != nil {
			return Body{}, nil, err
		}
		body.Outputs = append(body.Outputs, out)
	}

	if tx.Fees.Kind == ir.KindNone {
		return Body{}, nil, fmt.Errorf("tx has no fees expression")
	}
	fee, err := CoerceAmount(tx.Fees)
	if err != nil {
		return Body{}, nil, fmt.Errorf("coercing fee: %w", err)
	}
	body.Fee = fee

	for _, ah := range tx.AdHoc {
		cert, err := CompileCertificate(ah, pp.Network)
		if err != nil {
			continue // not every ad-hoc directive is a certificate
		}
		body.Certificates = append(body.Certificates, cert)
	}

	if len(tx.Mints) > 0 {
		mint, err := compileMint(tx.Mints)
		if err != nil {
			return Body{}, nil, err
		}
		body.Mint = mint
	}

	refs := make([]ir.UtxoRef, 0, len(tx.References))
	for _, r := range tx.References {
		if r.Kind != ir.KindUtxoRefs {
			return Body{}, nil, fmt.Errorf("reference input did not reduce to a concrete UtxoRefs")
		}
		refs = append(refs, r.UtxoRefs...)
	}
	for _, r := range refs {
		body.ReferenceInputs = append(body.ReferenceInputs, TxInput{TxID: r.TxID, Index: r.Index})
	}

	if tx.Collateral != nil {
		for _, r := range tx.Collateral.Refs {
			body.Collateral = append(body.Collateral, TxInput{TxID: r.TxID, Index: r.Index})
		}
	}

	for _, s := range tx.Signers {
		kh, err := CoerceKeyHash(s, pp.Network)
		if err != nil {
			return Body{}, nil, fmt.Errorf("coercing required signer: %w", err)
		}
		body.RequiredSigners = append(body.RequiredSigners, kh.Bytes())
	}

	if tx.Validity != nil {
		if tx.Validity.Since != nil {
			v, err := CoerceAmount(*tx.Validity.Since)
			if err != nil {
				return Body{}, nil, fmt.Errorf("coercing validity start: %w", err)
			}
			body.ValidityStart = &v
		}
		if tx.Validity.Until != nil {
			v, err := CoerceAmount(*tx.Validity.Until)
			if err != nil {
				return Body{}, nil, fmt.Errorf("coercing validity end: %w", err)
			}
			body.ValidityEnd = &v
		}
	}

	return body, sortedInputs, nil
}

func compileOutput(o ir.Output, network byte) (TxOutput, error) {
	out := TxOutput{}
	if o.Address == nil {
		return TxOutput{}, fmt.Errorf("output has no address")
	}
	addr, err := CoerceAddress(*o.Address, network)
	if err != nil {
		return TxOutput{}, fmt.Errorf("coercing output address: %w", err)
	}
	addrBytes, err := addr.Bytes()
	if err != nil {
		return TxOutput{}, fmt.Errorf("encoding output address: %w", err)
	}
	out.Address = addrBytes

	if o.Amount != nil {
		lovelace, assets, err := splitValue(*o.Amount)
		if err != nil {
			return TxOutput{}, fmt.Errorf("coercing output amount: %w", err)
		}
		out.Lovelace = lovelace
		out.Assets = assets
	}

	if o.Datum != nil {
		pd, err := CompilePlutusData(*o.Datum)
		if err != nil {
			return TxOutput{}, fmt.Errorf("compiling output datum: %w", err)
		}
		datumBytes, err := cbor.Encode(pd)
		if err != nil {
			return TxOutput{}, fmt.Errorf("encoding output datum: %w", err)
		}
		out.HasDatum = true
		out.DatumKind = 2 // inline datum, matching utxo.go's data.NewConstr(2, o.datum.Data)
		out.Datum = datumBytes
	}

	return out, nil
}

// splitValue separates a constant Assets expression into its lovelace
// (empty policy/name) amount and the remaining multi-asset map.
func splitValue(e ir.Expression) (uint64, *lcommon.MultiAsset[lcommon.MultiAssetTypeOutput], error) {
	if e.Kind == ir.KindNumber {
		return e.Number.Uint64(), nil, nil
	}
	if e.Kind != ir.KindAssets {
		return 0, nil, &CoerceError{Form: e.Kind.String(), Target: "Value"}
	}
	var lovelace uint64
	var rest []ir.AssetExpr
	for _, a := range e.Assets {
		if len(a.Policy.Bytes) == 0 {
			amt, err := CoerceAmount(a.Amount)
			if err != nil {
				return 0, nil, err
			}
			lovelace += amt
			continue
		}
		rest = append(rest, a)
	}
	assets, err := MultiAssetFromAssetList(rest)
	if err != nil {
		return 0, nil, err
	}
	return lovelace, assets, nil
}

// compileMint flattens every mint slot's asset list into one combined
// list before aggregating, since lcommon.MultiAsset exposes no merge
// operation — two mint blocks for the same policy fold into one entry
// this way rather than needing a manual map merge.
func compileMint(mints []ir.Mint) (*lcommon.MultiAsset[lcommon.MultiAssetTypeMint], error) {
	var items []ir.AssetExpr
	for _, m := range mints {
		if m.Amount == nil {
			continue
		}
		switch m.Amount.Kind {
		case ir.KindAssets:
			items = append(items, m.Amount.Assets...)
		default:
			return nil, &CoerceError{Form: m.Amount.Kind.String(), Target: "Mint value"}
		}
	}
	return MultiAssetMintFromAssetList(items)
}

func compileWitnessSet(tx ir.Tx, sortedInputs []ir.UtxoRef) (WitnessSet, error) {
	ws := WitnessSet{}

	indexOf := func(ref ir.UtxoRef) int {
		for i, r := range sortedInputs {
			if utxoRefEqual(r, ref) {
				return i
			}
		}
		return -1
	}

	for _, in := range tx.Inputs {
		if in.Redeemer == nil {
			continue
		}
		pd, err := CompilePlutusData(*in.Redeemer)
		if err != nil {
			return WitnessSet{}, fmt.Errorf("compiling input %q redeemer: %w", in.Name, err)
		}
		b, err := cbor.Encode(pd)
		if err != nil {
			return WitnessSet{}, err
		}
		idx := -1
		if len(in.Refs) > 0 {
			idx = indexOf(in.Refs[0])
		}
		ws.Redeemers = append(ws.Redeemers, Redeemer{
			Tag: 0, Index: uint32(idx), Data: b, ExUnits: fixedExUnits,
		})
	}

	mintPolicies := sortedMintPolicies(tx.Mints)
	for _, m := range tx.Mints {
		if m.Redeemer == nil {
			continue
		}
		pd, err := CompilePlutusData(*m.Redeemer)
		if err != nil {
			return WitnessSet{}, fmt.Errorf("compiling mint redeemer: %w", err)
		}
		b, err := cbor.Encode(pd)
		if err != nil {
			return WitnessSet{}, err
		}
		policy := firstMintPolicy(m)
		idx := indexOfPolicy(mintPolicies, policy)
		ws.Redeemers = append(ws.Redeemers, Redeemer{
			Tag: 3, Index: uint32(idx), Data: b, ExUnits: fixedExUnits,
		})
	}

	return ws, nil
}

func firstMintPolicy(m ir.Mint) []byte {
	if m.Amount == nil || m.Amount.Kind != ir.KindAssets || len(m.Amount.Assets) == 0 {
		return nil
	}
	return m.Amount.Assets[0].Policy.Bytes
}

func sortedMintPolicies(mints []ir.Mint) [][]byte {
	seen := map[string]bool{}
	var out [][]byte
	for _, m := range mints {
		p := firstMintPolicy(m)
		k := string(p)
		if !seen[k] {
			seen[k] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return string(out[i]) < string(out[j]) })
	return out
}

func indexOfPolicy(policies [][]byte, target []byte) int {
	for i, p := range policies {
		if string(p) == string(target) {
			return i
		}
	}
	return -1
}

func compileAuxData(entries []ir.MetadataEntry) (*AuxData, error) {
	out := &AuxData{Entries: map[int64][]byte{}}
	for _, m := range entries {
		pd, err := CompilePlutusData(m.Value)
		if err != nil {
			return nil, fmt.Errorf("compiling metadata entry %d: %w", m.Key, err)
		}
		b, err := cbor.Encode(pd)
		if err != nil {
			return nil, err
		}
		out.Entries[m.Key] = b
	}
	return out, nil
}

func flattenRefs(inputs []ir.Input) []ir.UtxoRef {
	var out []ir.UtxoRef
	for _, in := range inputs {
		out = append(out, in.Refs...)
	}
	return out
}

func utxoRefLess(a, b ir.UtxoRef) bool {
	if c := compareBytes(a.TxID, b.TxID); c != 0 {
		return c < 0
	}
	return a.Index < b.Index
}

func utxoRefEqual(a, b ir.UtxoRef) bool {
	return string(a.TxID) == string(b.TxID) && a.Index == b.Index
}

func compareBytes(a, b []byte) int {
	switch {
	case string(a) < string(b):
		return -1
	case string(a) > string(b):
		return 1
	default:
		return 0
	}
}

// scriptDataHash hashes the witness set CBOR together with the
// LanguageView for the policy-inferred Plutus version (spec §4.6 step 4
// only requires *some* LanguageView per language version present in the
// witness set).
func scriptDataHash(witnessSetCBOR []byte, pp PParams, policy PlutusVersionPolicy) []byte {
	version := policy.Infer(pp)
	view := encodeLanguageView(version, pp.CostModels[version])
	return blake2b256(append(append([]byte{}, witnessSetCBOR...), view...))
}

func encodeLanguageView(version PlutusVersion, costModel []int64) []byte {
	b, _ := cbor.Encode(struct {
		Version int64
		Model   []int64
	}{Version: int64(version), Model: costModel})
	return b
}

func blake2b256(b []byte) []byte {
	sum := blake2b.Sum256(b)
	return sum[:]
}
