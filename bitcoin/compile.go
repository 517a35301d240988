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

package bitcoin

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/txpipe/tx3-go/ir"
)

// ErrUnsupported is returned for anything Compile can't express with a
// plain P2WPKH-style input: a redeemer attached to an input, a mint, a
// certificate, or an inline datum, none of which Bitcoin's UTXO model
// has an equivalent for (spec.md §1/§9 — Bitcoin back end is a skeleton,
// "exact compile rules for scripts and fees are undefined" upstream).
var ErrUnsupported = errors.New("bitcoin: unsupported tx3 construct")

// txVersion matches the version other Bitcoin tx builders in the
// retrieval pack default new transactions to.
const txVersion int32 = 2

// Compile builds an unsigned wire.MsgTx from a reduced, fully-constant
// IR Tx (spec §4.6's compilation contract generalized to Bitcoin). The
// resulting transaction carries empty SignatureScript/Witness fields on
// every input — signing is left to the wallet that owns the keys, tx3
// only assembles the skeleton.
func Compile(tx ir.Tx, params *chaincfg.Params) (*wire.MsgTx, error) {
	if !ir.TxIsConstant(tx) {
		return nil, fmt.Errorf("cannot compile a tx with unresolved expressions")
	}
	if len(tx.Mints) > 0 || len(tx.AdHoc) > 0 || tx.Collateral != nil {
		return nil, fmt.Errorf("%w: minting, ad-hoc directives, and collateral have no Bitcoin equivalent", ErrUnsupported)
	}

	msgTx := wire.NewMsgTx(txVersion)

	for _, in := range tx.Inputs {
		if in.Redeemer != nil {
			return nil, fmt.Errorf("%w: input %q carries a redeemer, not a plain P2WPKH spend", ErrUnsupported, in.Name)
		}
		for _, ref := range in.Refs {
			hash, err := chainhash.NewHash(ref.TxID)
			if err != nil {
				return nil, fmt.Errorf("input %q: %w", in.Name, err)
			}
			msgTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(hash, ref.Index), nil, nil))
		}
	}

	for _, o := range tx.Outputs {
		if o.Datum != nil {
			return nil, fmt.Errorf("%w: output datum has no Bitcoin equivalent", ErrUnsupported)
		}
		if o.Address == nil || o.Amount == nil {
			return nil, fmt.Errorf("output missing address or amount")
		}
		addr, err := CoerceAddress(*o.Address, params)
		if err != nil {
			return nil, fmt.Errorf("coercing output address: %w", err)
		}
		script, err := txscript.PayToAddrScript(addr)
		if err != nil {
			return nil, fmt.Errorf("building output script: %w", err)
		}
		amount, err := CoerceAmount(*o.Amount)
		if err != nil {
			return nil, fmt.Errorf("coercing output amount: %w", err)
		}
		msgTx.AddTxOut(wire.NewTxOut(amount, script))
	}

	if tx.Validity != nil && tx.Validity.Until != nil {
		until, err := CoerceAmount(*tx.Validity.Until)
		if err != nil {
			return nil, fmt.Errorf("coercing validity until as locktime: %w", err)
		}
		msgTx.LockTime = uint32(until)
	}

	return msgTx, nil
}
