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

// Package scope builds the scope chain for a parsed tx3 Program and
// resolves every identifier in it to a Symbol (spec §3.2, §4.2).
package scope

import "github.com/txpipe/tx3-go/ast"

// Scope is a name->Symbol map with an optional parent. Lookups walk up the
// parent chain. This mirrors the teacher's parent-pointer style of
// building up accumulated state incrementally (conformance/state_parser.go)
// rather than a shared arena — tx3 programs are small enough that a plain
// pointer chain is simpler and the Design Notes in spec §9 call an arena
// out only as an option for languages without shared ownership.
type Scope struct {
	parent  *Scope
	entries map[string]*ast.Symbol
}

// New creates a root scope with no parent.
func New() *Scope {
	return &Scope{entries: map[string]*ast.Symbol{}}
}

// Child creates a new scope whose lookups fall back to s.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, entries: map[string]*ast.Symbol{}}
}

// Define binds name to sym in this scope. It reports whether name was
// already bound in this (not a parent) scope — a duplicate definition,
// per spec §4.2 "last wins but must be surfaced as DuplicateDefinition".
// The new binding always overwrites, regardless of the return value.
func (s *Scope) Define(name string, sym *ast.Symbol) (duplicate bool) {
	_, duplicate = s.entries[name]
	s.entries[name] = sym
	return duplicate
}

// Lookup resolves name against this scope, then its ancestors.
func (s *Scope) Lookup(name string) (*ast.Symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.entries[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
