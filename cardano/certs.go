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
	"strings"

	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/txpipe/tx3-go/ir"
)

// CertificateKind enumerates the ad-hoc directive names Compile
// recognizes as Conway-era certificates (spec §4.6 step 1 "translate
// ad-hoc directives whose name matches known certificate kinds").
type CertificateKind uint8

const (
	CertVoteDelegation CertificateKind = 9 // matches the conway VoteDeleg cert tag
)

// Certificate is the wire shape emitted for a recognized ad-hoc
// directive. It embeds cbor.StructAsArray for the same compact,
// positional encoding the teacher uses throughout ledger/*.go.
type Certificate struct {
	cbor.StructAsArray

	Kind           CertificateKind
	StakeCredType  uint8
	StakeCredBytes []byte
	DrepIsKey      bool
	DrepBytes      []byte
}

// CompileCertificate translates a single ad-hoc directive into a
// Certificate, recognizing "vote_delegation_certificate" (with or without
// the "cardano::" namespace the parser keeps) and producing
// `VoteDeleg(stake_cred, DRep::Key)` (spec §4.6 step 1). Any other
// directive name is reported as an error, which Compile treats as "not a
// certificate" and skips, so such directives do not appear in the body —
// tx3's ad-hoc mechanism is deliberately open-ended (spec §3 glossary
// "AdHocDirective").
func CompileCertificate(ah ir.AdHocExpr, network byte) (*Certificate, error) {
	if strings.TrimPrefix(ah.Name, "cardano::") != "vote_delegation_certificate" {
		return nil, fmt.Errorf("unrecognized certificate directive %q", ah.Name)
	}
	stake, ok := ah.Fields["stake"]
	if !ok {
		return nil, fmt.Errorf("vote_delegation_certificate missing 'stake' field")
	}
	drep, ok := ah.Fields["drep"]
	if !ok {
		return nil, fmt.Errorf("vote_delegation_certificate missing 'drep' field")
	}
	stakeHash, err := CoerceKeyHash(stake, network)
	if err != nil {
		return nil, fmt.Errorf("coercing stake credential: %w", err)
	}
	drepHash, err := CoerceKeyHash(drep, network)
	if err != nil {
		return nil, fmt.Errorf("coercing drep credential: %w", err)
	}
	return &Certificate{
		Kind:           CertVoteDelegation,
		StakeCredType:  uint8(lcommon.CredentialTypeAddrKeyHash),
		StakeCredBytes: stakeHash.Bytes(),
		DrepIsKey:      true,
		DrepBytes:      drepHash.Bytes(),
	}, nil
}
