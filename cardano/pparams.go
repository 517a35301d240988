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

// Package cardano compiles a reduced, fully-constant IR Tx into a
// Conway-era transaction ready for CBOR serialization (spec §4.6).
package cardano

// PlutusVersion names a supported Plutus ledger language.
type PlutusVersion int

const (
	PlutusV1 PlutusVersion = iota + 1
	PlutusV2
	PlutusV3
)

// PParams carries the subset of protocol parameters Compile needs (spec
// §4.6): fee coefficients, the per-byte UTxO deposit rate, and a cost
// model per Plutus language version (used for the script-data hash's
// LanguageView).
type PParams struct {
	Network           byte
	MinFeeCoefficient uint64
	MinFeeConstant    uint64
	CoinsPerUtxoByte  uint64
	CostModels        map[PlutusVersion][]int64
}

// NewMainnetPParams returns representative mainnet-era parameter values,
// following the same "typed struct with documented defaults" shape as
// the teacher's NewMockShelleyProtocolParams and friends.
func NewMainnetPParams() PParams {
	return PParams{
		Network:           1, // mainnet
		MinFeeCoefficient: 44,
		MinFeeConstant:    155381,
		CoinsPerUtxoByte:  4310,
		CostModels: map[PlutusVersion][]int64{
			PlutusV1: defaultCostModel,
			PlutusV2: defaultCostModel,
		},
	}
}

// defaultCostModel is a placeholder cost-model vector of the length the
// Conway-era ledger expects for a v1/v2 language view. Real values are an
// operational concern (supplied by the node, not derivable from the IR);
// inferring the exact vector is outside what a tx-building library needs
// to do (spec §4.6 step 4 only requires *some* LanguageView per present
// version).
var defaultCostModel = make([]int64, 166)

// PlutusVersionPolicy decides which Plutus language version a compiled
// witness set's redeemers target, a choice the IR itself carries no
// information about (spec.md §9 Open Question — "implementations should
// expose it as a pluggable policy").
type PlutusVersionPolicy interface {
	Infer(pp PParams) PlutusVersion
}

// FixedPlutusVersion always returns the configured version, matching the
// original implementation's stubbed-to-v1 behavior except defaulted to
// v2 here (plutigo's data package targets the v2/v3 builtin set).
type FixedPlutusVersion struct {
	Version PlutusVersion
}

func (f FixedPlutusVersion) Infer(PParams) PlutusVersion { return f.Version }

// DefaultPlutusVersionPolicy is the policy Compile uses unless a caller
// supplies its own.
var DefaultPlutusVersionPolicy PlutusVersionPolicy = FixedPlutusVersion{Version: PlutusV2}
