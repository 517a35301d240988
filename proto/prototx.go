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

package proto

import (
	"fmt"

	"github.com/txpipe/tx3-go/ir"
)

// ApplyError reports a problem found while reducing a ProtoTx — an
// invalid binary operation or property access over already-constant
// operands (spec §4.5 "Fails with ApplyError").
type ApplyError struct {
	Message string
}

func (e *ApplyError) Error() string { return "apply: " + e.Message }

// ProtoTx bundles a named IR template with two builders — an args map
// and a resolved-inputs map — plus the fee estimate currently recorded
// for it (spec §3.4). It is single-owner-mutated in the builder style:
// every With* call returns the same handle, and Apply returns a
// new ProtoTx carrying the reduced IR rather than mutating this one in
// place, so a caller can keep retrying from the same unapplied state.
type ProtoTx struct {
	name   string
	ir     ir.Tx
	args   map[string]ir.ArgValue
	inputs map[string][]ir.Utxo
	fees   uint64
}

// Name returns the tx template's declared name.
func (p *ProtoTx) Name() string { return p.name }

// WithArg records a single named argument, returning the same handle
// for chaining.
func (p *ProtoTx) WithArg(name string, v ir.ArgValue) *ProtoTx {
	p.args[name] = v
	return p
}

// SetArg is WithArg without the chaining return, for callers that
// already hold a *ProtoTx reference (mirrors the source's with_arg /
// set_arg pair, spec §4.5).
func (p *ProtoTx) SetArg(name string, v ir.ArgValue) { p.args[name] = v }

// SetInput records the set of utxos resolved for a named input slot
// (or the reserved "collateral" key).
func (p *ProtoTx) SetInput(name string, utxos []ir.Utxo) {
	p.inputs[name] = utxos
}

// SetFees records the current fee estimate, used by the next Apply.
func (p *ProtoTx) SetFees(fee uint64) { p.fees = fee }

// Fees returns the currently recorded fee estimate.
func (p *ProtoTx) Fees() uint64 { return p.fees }

// Params returns the parameters still free in the current IR — i.e.
// computed against the not-yet-applied template (spec §4.5).
func (p *ProtoTx) Params() map[string]string { return ir.Params(p.ir) }

// Queries returns the input-selection queries still outstanding against
// the current IR.
func (p *ProtoTx) Queries() map[string]ir.InputQuery { return ir.Queries(p.ir) }

// IR exposes the current (possibly partially-applied) IR tree.
func (p *ProtoTx) IR() ir.Tx { return p.ir }

// Apply runs apply_args, then apply_inputs, then apply_fees (using the
// recorded fee), then reduce, and returns a new ProtoTx carrying the
// result — the maps are copied forward unchanged (spec §4.5).
func (p *ProtoTx) Apply() (*ProtoTx, error) {
	next := p.ir
	next = ir.ApplyArgs(next, p.args)
	next = ir.ApplyInputs(next, p.inputs)
	next = ir.ApplyFees(next, p.fees)
	next = ir.Reduce(next)

	out := &ProtoTx{
		name:   p.name,
		ir:     next,
		args:   copyArgs(p.args),
		inputs: copyInputs(p.inputs),
		fees:   p.fees,
	}
	return out, nil
}

// IsFullyReduced reports whether every field of the current IR has
// folded down to a constant — the precondition a chain back end's
// Compile expects (spec §4.6).
func (p *ProtoTx) IsFullyReduced() bool {
	return ir.TxIsConstant(p.ir)
}

// IRBytes serializes the current IR to the stable wire format (spec §6).
func (p *ProtoTx) IRBytes() ([]byte, error) {
	return ir.ToBytes(p.ir)
}

// FromIRBytes rebuilds a ProtoTx from previously-serialized IR bytes,
// the inverse of IRBytes (spec §4.5 "from_ir_bytes").
func FromIRBytes(name string, b []byte) (*ProtoTx, error) {
	tx, err := ir.FromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("decoding ir bytes: %w", err)
	}
	return &ProtoTx{
		name:   name,
		ir:     tx,
		args:   map[string]ir.ArgValue{},
		inputs: map[string][]ir.Utxo{},
	}, nil
}

func copyArgs(m map[string]ir.ArgValue) map[string]ir.ArgValue {
	out := make(map[string]ir.ArgValue, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyInputs(m map[string][]ir.Utxo) map[string][]ir.Utxo {
	out := make(map[string][]ir.Utxo, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
