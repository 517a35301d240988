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

// Package testdata embeds the .tx3 fixture corpus used by the core
// packages' tests and by the end-to-end scenarios in spec §8, the same way
// conformance/embed.go embeds the teacher's governance test vectors.
package testdata

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed fixtures
var embedded embed.FS

// Fixtures returns the embedded fixture filesystem.
func Fixtures() embed.FS {
	return embedded
}

// Read returns the raw contents of a named fixture (e.g. "transfer.tx3").
func Read(name string) ([]byte, error) {
	return embedded.ReadFile(filepath.Join("fixtures", name))
}

// Extract writes the embedded fixture corpus under destDir and returns the
// path to the extracted "fixtures" directory.
func Extract(destDir string) (string, error) {
	root := filepath.Join(destDir, "fixtures")
	err := fs.WalkDir(embedded, "fixtures", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		destPath := filepath.Join(destDir, path)
		if d.IsDir() {
			return os.MkdirAll(destPath, 0o755)
		}
		data, err := embedded.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(destPath, data, 0o600)
	})
	if err != nil {
		return "", err
	}
	return root, nil
}
