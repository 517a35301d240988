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
	"os"

	"github.com/txpipe/tx3-go/bindgen"
	"github.com/txpipe/tx3-go/internal/version"
	"github.com/txpipe/tx3-go/proto"

	"github.com/spf13/cobra"
)

const programName = "tx3-bindgen"

var cmdlineFlags = struct {
	debug  bool
	target string
	outDir string
	name   string
}{}

func main() {
	cmd := &cobra.Command{
		Use: fmt.Sprintf("%s [flags] <protocol file>", programName),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("you must specify a protocol file")
			}
			if len(args) > 1 {
				return errors.New("you cannot specify more than one protocol file")
			}
			return nil
		},
		Run: cmdRun,
	}

	cmd.Flags().BoolVarP(&cmdlineFlags.debug, "debug", "D", false, "enable debug logging")
	cmd.Flags().StringVarP(&cmdlineFlags.target, "target", "t", "go", "binding target: go, typescript, python, or rust")
	cmd.Flags().StringVarP(&cmdlineFlags.outDir, "out-dir", "o", ".", "directory to write generated bindings to")
	cmd.Flags().StringVarP(&cmdlineFlags.name, "name", "n", "protocol", "base name for the generated binding file")

	if err := cmd.Execute(); err != nil {
		// NOTE: we purposely don't display the error, since cobra will have already displayed it
		os.Exit(1)
	}
}

func cmdRun(cmd *cobra.Command, args []string) {
	configureLogger()
	slog.Info(fmt.Sprintf("starting %s %s", programName, version.GetVersionString()))

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("ERROR: failed to read protocol file: %s\n", err)
		os.Exit(1)
	}

	protocol, err := proto.Load(string(src))
	if err != nil {
		fmt.Printf("ERROR: failed to load protocol: %s\n", err)
		os.Exit(1)
	}

	target := bindgen.Target(cmdlineFlags.target)
	if err := bindgen.Generate(protocol, target, cmdlineFlags.outDir, cmdlineFlags.name); err != nil {
		fmt.Printf("ERROR: failed to generate bindings: %s\n", err)
		os.Exit(1)
	}
	slog.Info(fmt.Sprintf("wrote %s bindings to %s", target, cmdlineFlags.outDir))
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
