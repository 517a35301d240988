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

// Package bitcoin is a skeleton compile back end: exact script and fee
// rules for Bitcoin are undefined upstream (spec.md §1 Non-goals), so this
// package only builds a wire.MsgTx from IR inputs/outputs/fees and leaves
// anything beyond plain P2WPKH-style spending as ErrUnsupported.
package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/txpipe/tx3-go/ir"
)

// CoerceError reports an IR expression whose shape can't be coerced to
// the chain-level form a compile step needs (mirrors cardano.CoerceError).
type CoerceError struct {
	Form   string
	Target string
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("cannot coerce %s to %s", e.Form, e.Target)
}

// CoerceAddress accepts Address(bytes), raw Bytes, or String, all
// carrying base58/bech32 address text, and decodes them via
// btcutil.DecodeAddress the same way leanlp-BTC-coinjoin's client does
// (internal/bitcoin/client.go).
func CoerceAddress(e ir.Expression, params *chaincfg.Params) (btcutil.Address, error) {
	switch e.Kind {
	case ir.KindAddress, ir.KindBytes:
		addr, err := btcutil.DecodeAddress(string(e.Bytes), params)
		if err != nil {
			return nil, fmt.Errorf("decoding address bytes: %w", err)
		}
		return addr, nil
	case ir.KindString:
		addr, err := btcutil.DecodeAddress(e.String, params)
		if err != nil {
			return nil, fmt.Errorf("decoding address string: %w", err)
		}
		return addr, nil
	default:
		return nil, &CoerceError{Form: e.Kind.String(), Target: "Address"}
	}
}

// CoerceAmount accepts a scalar Number or a singleton Assets list and
// returns the amount in satoshis.
func CoerceAmount(e ir.Expression) (int64, error) {
	switch e.Kind {
	case ir.KindNumber:
		return e.Number.Int64(), nil
	case ir.KindAssets:
		if len(e.Assets) != 1 {
			return 0, &CoerceError{Form: "Assets(n>1)", Target: "Amount"}
		}
		return CoerceAmount(e.Assets[0].Amount)
	default:
		return 0, &CoerceError{Form: e.Kind.String(), Target: "Amount"}
	}
}
