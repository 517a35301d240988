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

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/txpipe/tx3-go/cardano"
	"github.com/txpipe/tx3-go/internal/version"
	"github.com/txpipe/tx3-go/ir"
	"github.com/txpipe/tx3-go/mock"
	"github.com/txpipe/tx3-go/rpc"

	"github.com/spf13/cobra"
)

const programName = "tx3-trpd"

var cmdlineFlags = struct {
	debug      bool
	listenPort int
	listenAddr string
	seedFile   string
}{}

func main() {
	cmd := &cobra.Command{
		Use:  fmt.Sprintf("%s [flags]", programName),
		Args: cobra.NoArgs,
		Run:  cmdRun,
	}

	cmd.Flags().BoolVarP(&cmdlineFlags.debug, "debug", "D", false, "enable debug logging")
	cmd.Flags().IntVarP(&cmdlineFlags.listenPort, "listen-port", "p", 8164, "port to listen on")
	cmd.Flags().StringVarP(&cmdlineFlags.listenAddr, "listen-address", "a", "", "address to listen on (defaults to all addresses)")
	cmd.Flags().StringVarP(&cmdlineFlags.seedFile, "seed-file", "s", "", "YAML utxo set to seed the built-in mock ledger with")

	if err := cmd.Execute(); err != nil {
		// NOTE: we purposely don't display the error, since cobra will have already displayed it
		os.Exit(1)
	}
}

func cmdRun(cmd *cobra.Command, args []string) {
	configureLogger()
	slog.Info(fmt.Sprintf("starting %s %s", programName, version.GetVersionString()))

	pp := cardano.NewMainnetPParams()
	ledger := mock.NewLedger(pp)
	if cmdlineFlags.seedFile != "" {
		utxos, err := mock.LoadSeedFile(cmdlineFlags.seedFile)
		if err != nil {
			fmt.Printf("ERROR: failed to load seed file: %s\n", err)
			os.Exit(1)
		}
		ledger.Seed(utxos)
		slog.Info(fmt.Sprintf("seeded mock ledger with %d utxos from %s", len(utxos), cmdlineFlags.seedFile))
	}

	srv := rpc.NewServer[cardano.PParams](ledger, compileToBytes, feeModel)

	addr := net.JoinHostPort(cmdlineFlags.listenAddr, fmt.Sprintf("%d", cmdlineFlags.listenPort))
	slog.Info(fmt.Sprintf("listening for trp.resolve requests on %s", addr))
	if err := http.ListenAndServe(addr, srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Printf("ERROR: server failed: %s\n", err)
		os.Exit(1)
	}
}

// compileToBytes adapts cardano.Compile's *CompiledTx result to the
// plain []byte payload resolve.CompileFunc expects.
func compileToBytes(tx ir.Tx, pp cardano.PParams) ([]byte, error) {
	compiled, err := cardano.Compile(tx, pp)
	if err != nil {
		return nil, err
	}
	return compiled.ToBytes()
}

// feeModel is the linear fee formula the Cardano ledger itself uses:
// coefficient * size + constant (spec §4.7).
func feeModel(pp cardano.PParams, size int) uint64 {
	return pp.MinFeeCoefficient*uint64(size) + pp.MinFeeConstant
}

func configureLogger() {
	var logger *slog.Logger
	if cmdlineFlags.debug {
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	} else {
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
	slog.SetDefault(logger)
}
