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

// Package resolve drives a ProtoTx to a fully-resolved, chain-specific
// transaction by repeatedly querying a ledger port for input utxos and
// re-estimating fees until the estimate stops moving (spec §4.7). The
// loop itself is chain-agnostic: it is parameterized over whichever
// protocol-parameter type and compiled-payload shape a particular chain
// back end (cardano, bitcoin, ...) needs.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/txpipe/tx3-go/ir"
	"github.com/txpipe/tx3-go/proto"
)

// Ledger is the port a chain node or indexer implements to answer the
// two questions the resolver needs: the protocol parameters current fee
// and script-data math depends on, and the utxo set satisfying a given
// input query. P is whatever parameter type the paired CompileFunc
// expects (cardano.PParams, a Bitcoin equivalent, ...).
type Ledger[P any] interface {
	GetPParams(ctx context.Context) (P, error)
	ResolveInput(ctx context.Context, query ir.InputQuery) ([]ir.Utxo, error)
}

// CompileFunc turns a fully-constant IR tx into its chain-native
// serialized payload, the last step of spec §4.6 generalized across
// chain back ends.
type CompileFunc[P any] func(tx ir.Tx, pp P) ([]byte, error)

// FeeModel estimates the fee a payload of the given size will need,
// e.g. spec §4.7's `size*min_fee_coefficient + min_fee_constant +
// safety_margin` for Cardano.
type FeeModel[P any] func(pp P, payloadSize int) uint64

// TxEval is the result of a converged resolve_tx call (spec §4.7):
// the compiled payload, the fee it was built with, and the execution
// units spent by any Plutus scripts it runs. ExUnits is always zero in
// this implementation — estimating script execution cost requires a
// Plutus evaluator, which is outside what a ledger port exposes here.
type TxEval struct {
	Payload []byte
	Fee     uint64
	ExUnits uint64
}

// ErrMaxOptimizeRoundsReached is returned when the fee estimate hasn't
// converged after maxRounds iterations (spec §4.7 "MaxOptimizeRounds").
var ErrMaxOptimizeRoundsReached = errors.New("resolve: max optimize rounds reached")

// ResolveTx implements spec §4.7's fixed-point loop: apply already-bound
// args once, then repeatedly set the fee estimate, resolve every
// outstanding input query against ledger (issued in the tx's declared
// input order, per spec §5's ordering guarantee), and recompile, until
// the recomputed fee stops changing or maxRounds is exhausted.
func ResolveTx[P any](
	ctx context.Context,
	protoTx *proto.ProtoTx,
	ledger Ledger[P],
	compile CompileFunc[P],
	feeModel FeeModel[P],
	maxRounds int,
) (TxEval, error) {
	base, err := protoTx.Apply()
	if err != nil {
		return TxEval{}, fmt.Errorf("applying bound args: %w", err)
	}
	baseBytes, err := base.IRBytes()
	if err != nil {
		return TxEval{}, fmt.Errorf("serializing base ir: %w", err)
	}

	pp, err := ledger.GetPParams(ctx)
	if err != nil {
		return TxEval{}, fmt.Errorf("fetching protocol parameters: %w", err)
	}

	var bestFee uint64
	for round := 0; round < maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return TxEval{}, err
		}

		working, err := proto.FromIRBytes(protoTx.Name(), baseBytes)
		if err != nil {
			return TxEval{}, fmt.Errorf("round %d: rebuilding base: %w", round, err)
		}
		working.SetFees(bestFee)

		applied, err := working.Apply()
		if err != nil {
			return TxEval{}, fmt.Errorf("round %d: applying fees: %w", round, err)
		}

		for _, name := range declaredInputNames(applied.IR()) {
			query, ok := applied.Queries()[name]
			if !ok {
				continue
			}
			utxos, err := ledger.ResolveInput(ctx, query)
			if err != nil {
				return TxEval{}, fmt.Errorf("round %d: resolving input %q: %w", round, name, err)
			}
			applied.SetInput(name, utxos)
		}

		resolved, err := applied.Apply()
		if err != nil {
			return TxEval{}, fmt.Errorf("round %d: applying resolved inputs: %w", round, err)
		}
		if !resolved.IsFullyReduced() {
			return TxEval{}, fmt.Errorf("round %d: tx did not fully reduce after resolving inputs", round)
		}

		payload, err := compile(resolved.IR(), pp)
		if err != nil {
			return TxEval{}, fmt.Errorf("round %d: compiling: %w", round, err)
		}

		fee := feeModel(pp, len(payload))
		if fee == bestFee {
			return TxEval{Payload: payload, Fee: fee, ExUnits: 0}, nil
		}
		bestFee = fee
	}

	return TxEval{}, fmt.Errorf("%w: tried %d rounds", ErrMaxOptimizeRoundsReached, maxRounds)
}

// declaredInputNames lists input names in the order the tx declares
// them, followed by "collateral" if the tx has a collateral query — the
// order spec §5 requires queries(ir) to be issued in, which ir.Queries'
// plain map return can't preserve on its own.
func declaredInputNames(tx ir.Tx) []string {
	names := make([]string, 0, len(tx.Inputs)+1)
	for _, in := range tx.Inputs {
		names = append(names, in.Name)
	}
	if tx.Collateral != nil && tx.Collateral.Query != nil {
		names = append(names, "collateral")
	}
	return names
}
