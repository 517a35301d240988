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

// Package mock provides an in-memory resolve.Ledger, letting a tx3
// protocol be driven end to end without a live node — the same role the
// teacher's MockLedgerState plays for gouroboros's chain-sync machinery.
package mock

import (
	"context"
	"errors"
	"math/big"

	"github.com/txpipe/tx3-go/cardano"
	"github.com/txpipe/tx3-go/ir"
)

// ErrNotFound is returned when a query matches no utxo in the set.
var ErrNotFound = errors.New("mock: not found")

// ErrInsufficientFunds is returned when the utxos matching a query's
// address never reach its min_amount.
var ErrInsufficientFunds = errors.New("mock: insufficient funds")

// Ledger answers resolve.Ledger[cardano.PParams] queries against a
// static, caller-loaded in-memory utxo set, selecting greedily in the
// order utxos were added until a query's MinAmount is met.
type Ledger struct {
	pp    cardano.PParams
	utxos []ir.Utxo
}

// NewLedger builds a Ledger around a fixed protocol-parameter snapshot.
// Utxos are added afterward with AddUtxo or Seed.
func NewLedger(pp cardano.PParams) *Ledger {
	return &Ledger{pp: pp}
}

// AddUtxo appends one utxo to the set available for resolution.
func (l *Ledger) AddUtxo(u ir.Utxo) {
	l.utxos = append(l.utxos, u)
}

// Seed replaces the whole utxo set in one call.
func (l *Ledger) Seed(utxos []ir.Utxo) {
	l.utxos = utxos
}

// GetPParams implements resolve.Ledger[cardano.PParams].
func (l *Ledger) GetPParams(context.Context) (cardano.PParams, error) {
	return l.pp, nil
}

// ResolveInput implements resolve.Ledger[cardano.PParams]: it walks the
// held utxo set in insertion order, collecting every utxo whose address
// matches the query (when the query names one), stopping once the
// collected native-coin total satisfies MinAmount. A query with no
// MinAmount is satisfied by the first matching utxo alone.
func (l *Ledger) ResolveInput(_ context.Context, query ir.InputQuery) ([]ir.Utxo, error) {
	var wantAddr []byte
	if query.Address != nil {
		wantAddr = query.Address.Bytes
	}

	var minLovelace *big.Int
	if query.MinAmount != nil {
		amt, err := lovelaceOf(*query.MinAmount)
		if err != nil {
			return nil, err
		}
		minLovelace = amt
	}

	var picked []ir.Utxo
	total := big.NewInt(0)
	for _, u := range l.utxos {
		if wantAddr != nil && string(u.Address) != string(wantAddr) {
			continue
		}
		picked = append(picked, u)
		total.Add(total, lovelaceIn(u))
		if minLovelace == nil {
			break
		}
		if total.Cmp(minLovelace) >= 0 {
			break
		}
	}

	if len(picked) == 0 {
		return nil, ErrNotFound
	}
	if minLovelace != nil && total.Cmp(minLovelace) < 0 {
		return nil, ErrInsufficientFunds
	}
	return picked, nil
}

// lovelaceOf extracts the native-coin quantity a constant amount
// expression denotes, whether expressed as a bare Number or as an
// Assets literal carrying an empty-policy entry.
func lovelaceOf(e ir.Expression) (*big.Int, error) {
	switch e.Kind {
	case ir.KindNumber:
		return e.Number, nil
	case ir.KindAssets:
		total := big.NewInt(0)
		for _, a := range e.Assets {
			if len(a.Policy.Bytes) != 0 {
				continue
			}
			total.Add(total, a.Amount.Number)
		}
		return total, nil
	default:
		return nil, errors.New("mock: min_amount did not reduce to a constant quantity")
	}
}

// lovelaceIn sums a resolved utxo's native-coin (empty-policy) balance.
func lovelaceIn(u ir.Utxo) *big.Int {
	total := big.NewInt(0)
	for _, a := range u.Assets {
		if len(a.Policy) != 0 {
			continue
		}
		total.Add(total, a.Amount)
	}
	return total
}
