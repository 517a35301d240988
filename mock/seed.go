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
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/txpipe/tx3-go/ir"
)

// seedFile is the on-disk shape of a utxo set a tx3-trpd operator hands
// the mock ledger to stand in for a live node, the same
// decode-a-fixture-into-domain-objects role
// internal/conversation.Conversation plays for ouroboros-mock.
type seedFile struct {
	Utxos []seedUtxo `yaml:"utxos"`
}

type seedUtxo struct {
	TxID     string      `yaml:"tx_id"`
	Index    uint32      `yaml:"index"`
	Address  string      `yaml:"address"`
	Lovelace uint64      `yaml:"lovelace"`
	Assets   []seedAsset `yaml:"assets"`
	Datum    string      `yaml:"datum"`
}

type seedAsset struct {
	Policy    string `yaml:"policy"`
	AssetName string `yaml:"asset_name"`
	Amount    uint64 `yaml:"amount"`
}

// LoadSeedFile reads a YAML utxo set from path and returns the
// corresponding ir.Utxo slice, ready for Ledger.Seed.
func LoadSeedFile(path string) ([]ir.Utxo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSeed(f)
}

// LoadSeed is the io.Reader-based counterpart of LoadSeedFile.
func LoadSeed(r io.Reader) ([]ir.Utxo, error) {
	var sf seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("mock: decoding seed file: %w", err)
	}

	utxos := make([]ir.Utxo, 0, len(sf.Utxos))
	for _, su := range sf.Utxos {
		txID, err := hex.DecodeString(su.TxID)
		if err != nil {
			return nil, fmt.Errorf("mock: seed utxo %s#%d: malformed tx_id: %w", su.TxID, su.Index, err)
		}
		builder := NewUtxoBuilder(txID, su.Index).
			WithAddress([]byte(su.Address)).
			WithLovelace(su.Lovelace)
		for _, a := range su.Assets {
			policy, err := hex.DecodeString(a.Policy)
			if err != nil {
				return nil, fmt.Errorf("mock: seed utxo %s#%d: malformed asset policy: %w", su.TxID, su.Index, err)
			}
			builder = builder.WithAsset(policy, []byte(a.AssetName), a.Amount)
		}
		if su.Datum != "" {
			datum, err := hex.DecodeString(su.Datum)
			if err != nil {
				return nil, fmt.Errorf("mock: seed utxo %s#%d: malformed datum: %w", su.TxID, su.Index, err)
			}
			builder = builder.WithDatum(datum)
		}
		utxo, err := builder.Build()
		if err != nil {
			return nil, fmt.Errorf("mock: seed utxo %s#%d: %w", su.TxID, su.Index, err)
		}
		utxos = append(utxos, utxo)
	}
	return utxos, nil
}
