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

package mock_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/txpipe/tx3-go/cardano"
	"github.com/txpipe/tx3-go/ir"
	"github.com/txpipe/tx3-go/mock"
)

func TestUtxoBuilderBuildsAddressAndLovelace(t *testing.T) {
	u, err := mock.NewUtxoBuilder(make([]byte, 32), 0).
		WithAddress([]byte("addr_test")).
		WithLovelace(5_000_000).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.Equal(u.Address, []byte("addr_test")) {
		t.Fatalf("unexpected address: %v", u.Address)
	}
	if len(u.Assets) != 1 || u.Assets[0].Amount.Int64() != 5_000_000 {
		t.Fatalf("unexpected assets: %#v", u.Assets)
	}
}

func TestUtxoBuilderRejectsMissingAddress(t *testing.T) {
	_, err := mock.NewUtxoBuilder(make([]byte, 32), 0).WithLovelace(1).Build()
	if err == nil {
		t.Fatalf("expected an error for a missing address")
	}
}

func TestLedgerResolveInputFiltersByAddressAndAccumulates(t *testing.T) {
	ledger := mock.NewLedger(cardano.NewMainnetPParams())

	u1, err := mock.NewUtxoBuilder(bytes.Repeat([]byte{0x01}, 32), 0).
		WithAddress([]byte("addr_sender")).WithLovelace(3_000_000).Build()
	if err != nil {
		t.Fatalf("Build u1: %v", err)
	}
	u2, err := mock.NewUtxoBuilder(bytes.Repeat([]byte{0x02}, 32), 0).
		WithAddress([]byte("addr_sender")).WithLovelace(4_000_000).Build()
	if err != nil {
		t.Fatalf("Build u2: %v", err)
	}
	other, err := mock.NewUtxoBuilder(bytes.Repeat([]byte{0x03}, 32), 0).
		WithAddress([]byte("addr_other")).WithLovelace(100_000_000).Build()
	if err != nil {
		t.Fatalf("Build other: %v", err)
	}
	ledger.Seed([]ir.Utxo{u1, u2, other})

	addr := ir.Address([]byte("addr_sender"))
	minAmount := ir.NumberOf(5_000_000)
	picked, err := ledger.ResolveInput(context.Background(), ir.InputQuery{
		Address:   &addr,
		MinAmount: &minAmount,
	})
	if err != nil {
		t.Fatalf("ResolveInput: %v", err)
	}
	if len(picked) != 2 {
		t.Fatalf("expected both sender utxos to satisfy min_amount, got %d", len(picked))
	}
}

func TestLedgerResolveInputReportsInsufficientFunds(t *testing.T) {
	ledger := mock.NewLedger(cardano.NewMainnetPParams())
	u, err := mock.NewUtxoBuilder(bytes.Repeat([]byte{0x01}, 32), 0).
		WithAddress([]byte("addr_sender")).WithLovelace(1_000).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ledger.Seed([]ir.Utxo{u})

	addr := ir.Address([]byte("addr_sender"))
	minAmount := ir.NumberOf(5_000_000)
	_, err = ledger.ResolveInput(context.Background(), ir.InputQuery{
		Address:   &addr,
		MinAmount: &minAmount,
	})
	if !errors.Is(err, mock.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestLedgerResolveInputReportsNotFound(t *testing.T) {
	ledger := mock.NewLedger(cardano.NewMainnetPParams())
	addr := ir.Address([]byte("addr_nobody"))
	_, err := ledger.ResolveInput(context.Background(), ir.InputQuery{Address: &addr})
	if !errors.Is(err, mock.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
