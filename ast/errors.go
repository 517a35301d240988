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

package ast

import "fmt"

// ParseErrorKind tags the design-level parse error taxonomy from spec §4.1.
type ParseErrorKind int

const (
	InvalidType ParseErrorKind = iota
	MissingRequiredField
	InvalidBinaryOperator
	UnexpectedRule
	Io
)

func (k ParseErrorKind) String() string {
	switch k {
	case InvalidType:
		return "InvalidType"
	case MissingRequiredField:
		return "MissingRequiredField"
	case InvalidBinaryOperator:
		return "InvalidBinaryOperator"
	case UnexpectedRule:
		return "UnexpectedRule"
	case Io:
		return "Io"
	default:
		return "Unknown"
	}
}

// ParseError is returned by Parse/ParseString. It carries the offending
// span so editors and CLIs can point at the exact source location.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
	Span    Span
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Span.Start, e.Span.End, e.Message)
}

func newParseError(kind ParseErrorKind, span Span, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}
