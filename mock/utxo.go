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

package mock

import (
	"errors"
	"math/big"

	"github.com/txpipe/tx3-go/ir"
)

// UtxoBuilder assembles an ir.Utxo field by field, deferring malformed
// input to Build rather than panicking mid-chain — the same shape as
// the teacher's MockUtxo builder, adapted to tx3's plain Utxo struct
// instead of gouroboros's lcommon.Utxo/TransactionOutput pair.
type UtxoBuilder struct {
	ref      ir.UtxoRef
	address  []byte
	lovelace uint64
	assets   []ir.AssetAmount
	datum    []byte
	script   []byte
	txIDErr  error
}

// NewUtxoBuilder starts a builder for the utxo at (txID, index).
func NewUtxoBuilder(txID []byte, index uint32) *UtxoBuilder {
	b := &UtxoBuilder{ref: ir.UtxoRef{TxID: txID, Index: index}}
	if len(txID) != 32 {
		b.txIDErr = errors.New("mock: utxo transaction id must be 32 bytes")
	}
	return b
}

// WithAddress sets the owning address.
func (b *UtxoBuilder) WithAddress(addr []byte) *UtxoBuilder {
	b.address = addr
	return b
}

// WithLovelace sets the native-coin balance.
func (b *UtxoBuilder) WithLovelace(amount uint64) *UtxoBuilder {
	b.lovelace = amount
	return b
}

// WithAsset adds one native-asset balance line.
func (b *UtxoBuilder) WithAsset(policy, assetName []byte, amount uint64) *UtxoBuilder {
	b.assets = append(b.assets, ir.AssetAmount{
		Policy:    policy,
		AssetName: assetName,
		Amount:    new(big.Int).SetUint64(amount),
	})
	return b
}

// WithDatum attaches a raw inline-datum payload.
func (b *UtxoBuilder) WithDatum(datum []byte) *UtxoBuilder {
	b.datum = datum
	return b
}

// WithScript attaches a raw reference-script payload.
func (b *UtxoBuilder) WithScript(script []byte) *UtxoBuilder {
	b.script = script
	return b
}

// Build validates the accumulated state and returns the finished utxo.
func (b *UtxoBuilder) Build() (ir.Utxo, error) {
	if b.txIDErr != nil {
		return ir.Utxo{}, b.txIDErr
	}
	if len(b.address) == 0 {
		return ir.Utxo{}, errors.New("mock: utxo address is required")
	}

	assets := append([]ir.AssetAmount{}, b.assets...)
	if b.lovelace > 0 {
		assets = append([]ir.AssetAmount{{
			Amount: new(big.Int).SetUint64(b.lovelace),
		}}, assets...)
	}

	return ir.Utxo{
		Ref:     b.ref,
		Address: b.address,
		Assets:  assets,
		Datum:   b.datum,
		Script:  b.script,
	}, nil
}
