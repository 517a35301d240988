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
	"math/big"

	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/txpipe/tx3-go/ir"
)

// CoerceError reports an IR expression whose shape can't be coerced to
// the chain-level form a compile step needs (spec §4.6 "Coercion
// helpers define closed rules").
type CoerceError struct {
	Form   string
	Target string
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("cannot coerce %s to %s", e.Form, e.Target)
}

// CoerceAddress accepts Address(bytes), raw Bytes, or String(bech32),
// all carrying bech32 text (ir/lowering.go's lowerAddress never produces
// raw binary address bytes — AddressStringExpr is kept as its literal
// bech32 text, deferring decoding to here), and returns a parsed ledger
// Address (spec §4.6 coercion rules). A Hash expression (a bare policy
// or key hash with no enclosing bech32 text) has no closed rule to turn
// it into an address on its own and is rejected.
func CoerceAddress(e ir.Expression, network byte) (lcommon.Address, error) {
	switch e.Kind {
	case ir.KindAddress, ir.KindBytes:
		addr, err := lcommon.NewAddress(string(e.Bytes))
		if err != nil {
			return lcommon.Address{}, fmt.Errorf("parsing address bytes as bech32: %w", err)
		}
		return addr, nil
	case ir.KindString:
		addr, err := lcommon.NewAddress(e.String)
		if err != nil {
			return lcommon.Address{}, fmt.Errorf("parsing bech32 address: %w", err)
		}
		return addr, nil
	default:
		return lcommon.Address{}, &CoerceError{Form: e.Kind.String(), Target: "Address"}
	}
}

// CoerceAmount accepts a scalar Number or a singleton Assets list and
// returns the amount as an unsigned integer (spec §4.6 "number-valued
// asset expressions accept scalar Number or a singleton Assets list").
func CoerceAmount(e ir.Expression) (uint64, error) {
	switch e.Kind {
	case ir.KindNumber:
		return e.Number.Uint64(), nil
	case ir.KindAssets:
		if len(e.Assets) != 1 {
			return 0, &CoerceError{Form: "Assets(n>1)", Target: "Amount"}
		}
		return CoerceAmount(e.Assets[0].Amount)
	default:
		return 0, &CoerceError{Form: e.Kind.String(), Target: "Amount"}
	}
}

// CoerceKeyHash accepts a 28-byte raw Bytes value or a bech32 Shelley
// address (taking its payment-key credential) and returns its key hash
// (spec §4.6 "Required signers: ... accepting either a bech32 shelley
// address or raw bytes").
func CoerceKeyHash(e ir.Expression, network byte) (lcommon.Blake2b224, error) {
	switch e.Kind {
	case ir.KindBytes, ir.KindHash:
		if len(e.Bytes) == 28 {
			return lcommon.NewBlake2b224(e.Bytes), nil
		}
	case ir.KindString, ir.KindAddress:
		addr, err := CoerceAddress(e, network)
		if err == nil {
			b, err := addr.Bytes()
			if err == nil && len(b) >= 29 {
				return lcommon.NewBlake2b224(b[1:29]), nil
			}
		}
	}
	return lcommon.Blake2b224{}, &CoerceError{Form: e.Kind.String(), Target: "KeyHash"}
}

// MultiAssetFromAssetList aggregates a constant Assets list into a
// gouroboros MultiAsset value, grouped by policy id exactly the way the
// teacher's buildMultiAsset helper does (ledger/utxo.go), except keyed
// directly off the already-constant policy/name bytes rather than a
// flat []Asset. Output-side amounts are always non-negative, matching
// lcommon.MultiAssetTypeOutput.
func MultiAssetFromAssetList(items []ir.AssetExpr) (*lcommon.MultiAsset[lcommon.MultiAssetTypeOutput], error) {
	assetData := map[lcommon.Blake2b224]map[cbor.ByteString]lcommon.MultiAssetTypeOutput{}
	hasAssets := false
	for _, a := range items {
		if len(a.Policy.Bytes) == 0 {
			continue // the native coin, carried separately as lovelace
		}
		hasAssets = true
		policy := lcommon.NewBlake2b224(a.Policy.Bytes)
		if assetData[policy] == nil {
			assetData[policy] = map[cbor.ByteString]lcommon.MultiAssetTypeOutput{}
		}
		amt, err := CoerceAmount(a.Amount)
		if err != nil {
			return nil, err
		}
		assetData[policy][cbor.NewByteString(a.AssetName.Bytes)] = new(big.Int).SetUint64(amt)
	}
	if !hasAssets {
		return nil, nil
	}
	multiAsset := lcommon.NewMultiAsset[lcommon.MultiAssetTypeOutput](assetData)
	return &multiAsset, nil
}

// MultiAssetMintFromAssetList is MultiAssetFromAssetList's mint-side
// counterpart: mint quantities may be negative (a burn), so amounts are
// carried signed via MultiAssetTypeMint.
func MultiAssetMintFromAssetList(items []ir.AssetExpr) (*lcommon.MultiAsset[lcommon.MultiAssetTypeMint], error) {
	assetData := map[lcommon.Blake2b224]map[cbor.ByteString]lcommon.MultiAssetTypeMint{}
	hasAssets := false
	for _, a := range items {
		if len(a.Policy.Bytes) == 0 {
			continue
		}
		hasAssets = true
		policy := lcommon.NewBlake2b224(a.Policy.Bytes)
		if assetData[policy] == nil {
			assetData[policy] = map[cbor.ByteString]lcommon.MultiAssetTypeMint{}
		}
		var qty *big.Int
		if a.Amount.Kind == ir.KindNumber && a.Amount.Number != nil {
			qty = new(big.Int).Set(a.Amount.Number)
		} else {
			amt, err := CoerceAmount(a.Amount)
			if err != nil {
				return nil, err
			}
			qty = new(big.Int).SetUint64(amt)
		}
		assetData[policy][cbor.NewByteString(a.AssetName.Bytes)] = lcommon.MultiAssetTypeMint(qty)
	}
	if !hasAssets {
		return nil, nil
	}
	multiAsset := lcommon.NewMultiAsset[lcommon.MultiAssetTypeMint](assetData)
	return &multiAsset, nil
}
