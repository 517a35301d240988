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

// Package version carries the build-time version string for the tx3-go
// binaries.
package version

import "fmt"

// Version is the semantic version of this build. Overridden at build time
// via -ldflags.
var Version = "0.0.0-dev"

// CommitHash is the git commit this build was produced from. Overridden at
// build time via -ldflags.
var CommitHash = ""

// GetVersionString returns a human-readable version string suitable for
// startup log lines and --version output.
func GetVersionString() string {
	if CommitHash == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, CommitHash)
}
