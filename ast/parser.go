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

import (
	"math/big"
	"strconv"
)

// Parser is a hand-written recursive-descent parser over a flat token
// stream. Operator precedence for DataExpr/AssetExpr is a single
// left-associative level for `+`/`-`; parentheses are not part of the
// grammar, so grouping is determined purely by associativity (spec §4.1).
type Parser struct {
	toks []token
	pos  int
}

// ParseString parses a .tx3 source string into a Program. Spans are
// populated on every node. On failure it returns a *ParseError.
func ParseString(src string) (*Program, error) {
	lx := newLexer(src)
	var toks []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			break
		}
	}
	p := &Parser{toks: toks}
	return p.parseProgram()
}

func (p *Parser) cur() token  { return p.toks[p.pos] }
func (p *Parser) at(i int) token {
	if p.pos+i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+i]
}
func (p *Parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) isIdent(text string) bool {
	t := p.cur()
	return t.kind == tokIdent && t.text == text
}

func (p *Parser) isPunct(text string) bool {
	t := p.cur()
	return t.kind == tokPunct && t.text == text
}

func (p *Parser) expectPunct(text string) (token, error) {
	if !p.isPunct(text) {
		return token{}, newParseError(
			UnexpectedRule, p.cur().span,
			"expected %q, got %q", text, p.cur().text,
		)
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent() (token, error) {
	if p.cur().kind != tokIdent {
		return token{}, newParseError(
			UnexpectedRule, p.cur().span,
			"expected identifier, got %q", p.cur().text,
		)
	}
	return p.advance(), nil
}

func (p *Parser) expectString() (token, error) {
	if p.cur().kind != tokString {
		return token{}, newParseError(
			InvalidType, p.cur().span,
			"expected string literal, got %q", p.cur().text,
		)
	}
	return p.advance(), nil
}

func (p *Parser) expectHex() (token, error) {
	if p.cur().kind != tokHex {
		return token{}, newParseError(
			InvalidType, p.cur().span,
			"expected hex literal, got %q", p.cur().text,
		)
	}
	return p.advance(), nil
}

// ---- top level ----

func (p *Parser) parseProgram() (*Program, error) {
	prog := &Program{Span: Span{Start: 0}}
	for p.cur().kind != tokEOF {
		switch {
		case p.isIdent("party"):
			d, err := p.parsePartyDef()
			if err != nil {
				return nil, err
			}
			prog.Parties = append(prog.Parties, d)
		case p.isIdent("policy"):
			d, err := p.parsePolicyDef()
			if err != nil {
				return nil, err
			}
			prog.Policies = append(prog.Policies, d)
		case p.isIdent("asset"):
			d, err := p.parseAssetDef()
			if err != nil {
				return nil, err
			}
			prog.Assets = append(prog.Assets, d)
		case p.isIdent("type"):
			d, err := p.parseTypeDef()
			if err != nil {
				return nil, err
			}
			prog.Types = append(prog.Types, d)
		case p.isIdent("tx"):
			d, err := p.parseTxDef()
			if err != nil {
				return nil, err
			}
			prog.Txs = append(prog.Txs, d)
		default:
			return nil, newParseError(
				UnexpectedRule, p.cur().span,
				"expected a top-level declaration, got %q", p.cur().text,
			)
		}
	}
	prog.Span.End = p.cur().span.End
	return prog, nil
}

func (p *Parser) parsePartyDef() (*PartyDef, error) {
	start := p.advance().span // 'party'
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	end, err := p.expectPunct(";")
	if err != nil {
		return nil, err
	}
	return &PartyDef{Name: name.text, Span: Span{start.Start, end.span.End}}, nil
}

func (p *Parser) parsePolicyDef() (*PolicyDef, error) {
	start := p.advance().span // 'policy'
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("="); err != nil {
		return nil, err
	}
	def := &PolicyDef{Name: name.text}
	if p.isIdent("import") {
		p.advance()
		if _, err := p.expectPunct("("); err != nil {
			return nil, err
		}
		str, err := p.expectString()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		def.Kind = PolicyImport
		def.Import = str.text
	} else {
		hex, err := p.expectHex()
		if err != nil {
			return nil, err
		}
		def.Kind = PolicyHex
		def.Hex = hex.text
	}
	end, err := p.expectPunct(";")
	if err != nil {
		return nil, err
	}
	def.Span = Span{start.Start, end.span.End}
	return def, nil
}

func (p *Parser) parseAssetDef() (*AssetDef, error) {
	start := p.advance().span // 'asset'
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("="); err != nil {
		return nil, err
	}
	hex, err := p.expectHex()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("."); err != nil {
		return nil, err
	}
	assetName, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	end, err := p.expectPunct(";")
	if err != nil {
		return nil, err
	}
	return &AssetDef{
		Name:      name.text,
		PolicyHex: hex.text,
		AssetName: assetName.text,
		Span:      Span{start.Start, end.span.End},
	}, nil
}

func (p *Parser) parseTypeRef() (TypeRef, error) {
	tok, err := p.expectIdent()
	if err != nil {
		return TypeRef{}, err
	}
	return TypeRef{Name: tok.text, Span: tok.span}, nil
}

func (p *Parser) parseRecordFields() ([]*RecordField, error) {
	var fields []*RecordField
	for !p.isPunct("}") {
		fname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		ty, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}
		fields = append(fields, &RecordField{
			Name: fname.text,
			Type: ty,
			Span: Span{fname.span.Start, ty.Span.End},
		})
		if p.isPunct(",") {
			p.advance()
		}
	}
	return fields, nil
}

func (p *Parser) parseTypeDef() (*TypeDef, error) {
	start := p.advance().span // 'type'
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	def := &TypeDef{Name: name.text}
	// Disambiguate record vs explicit variant: a record's body starts
	// directly with `field: Type`, a variant's body starts with
	// `CaseName { ... }`.
	if p.cur().kind == tokIdent && p.at(1).kind == tokPunct && p.at(1).text == ":" {
		def.Record = true
		fields, err := p.parseRecordFields()
		if err != nil {
			return nil, err
		}
		def.Cases = []*VariantCase{{Name: "Default", Fields: fields}}
	} else {
		for !p.isPunct("}") {
			caseName, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct("{"); err != nil {
				return nil, err
			}
			fields, err := p.parseRecordFields()
			if err != nil {
				return nil, err
			}
			closeTok, err := p.expectPunct("}")
			if err != nil {
				return nil, err
			}
			def.Cases = append(def.Cases, &VariantCase{
				Name:   caseName.text,
				Fields: fields,
				Span:   Span{caseName.span.Start, closeTok.span.End},
			})
			if p.isPunct(",") {
				p.advance()
			}
		}
	}
	end, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	def.Span = Span{start.Start, end.span.End}
	return def, nil
}

// ---- tx declaration ----

func (p *Parser) parseTxDef() (*TxDef, error) {
	start := p.advance().span // 'tx'
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	tx := &TxDef{Name: name.text}
	for !p.isPunct(")") {
		pname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		ty, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}
		tx.Params = append(tx.Params, &ParamDef{
			Name: pname.text,
			Type: ty,
			Span: Span{pname.span.Start, ty.Span.End},
		})
		if p.isPunct(",") {
			p.advance()
		}
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		if err := p.parseTxBlock(tx); err != nil {
			return nil, err
		}
	}
	end, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	tx.Span = Span{start.Start, end.span.End}
	return tx, nil
}

func (p *Parser) parseTxBlock(tx *TxDef) error {
	switch {
	case p.isIdent("input"):
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		block, err := p.parseInputBlock(name.text)
		if err != nil {
			return err
		}
		tx.Inputs = append(tx.Inputs, block)
	case p.isIdent("output"):
		p.advance()
		var name string
		if p.cur().kind == tokIdent {
			name = p.advance().text
		}
		block, err := p.parseOutputBlock(name)
		if err != nil {
			return err
		}
		tx.Outputs = append(tx.Outputs, block)
	case p.isIdent("mint"):
		p.advance()
		block, err := p.parseMintBlock()
		if err != nil {
			return err
		}
		tx.Mint = block
	case p.isIdent("burn"):
		p.advance()
		block, err := p.parseMintBlock()
		if err != nil {
			return err
		}
		tx.Burn = block
	case p.isIdent("validity"):
		p.advance()
		block, err := p.parseValidityBlock()
		if err != nil {
			return err
		}
		tx.Validity = block
	case p.isIdent("signers"):
		p.advance()
		if _, err := p.expectPunct("["); err != nil {
			return err
		}
		for !p.isPunct("]") {
			addr, err := p.parseAddressExpr()
			if err != nil {
				return err
			}
			tx.Signers = append(tx.Signers, addr)
			if p.isPunct(",") {
				p.advance()
			}
		}
		if _, err := p.expectPunct("]"); err != nil {
			return err
		}
		if _, err := p.expectPunct(";"); err != nil {
			return err
		}
	case p.isIdent("metadata"):
		p.advance()
		if _, err := p.expectPunct("{"); err != nil {
			return err
		}
		for !p.isPunct("}") {
			keyTok, err := p.expectNumber()
			if err != nil {
				return err
			}
			if _, err := p.expectPunct(":"); err != nil {
				return err
			}
			val, err := p.parseDataExpr()
			if err != nil {
				return err
			}
			key, _ := strconv.ParseInt(keyTok.text, 10, 64)
			tx.Metadata = append(tx.Metadata, &MetadataEntry{
				Key: key, Value: val,
				Span: Span{keyTok.span.Start, val.SpanOf().End},
			})
			if p.isPunct(",") {
				p.advance()
			}
		}
		if _, err := p.expectPunct("}"); err != nil {
			return err
		}
	case p.isIdent("reference"):
		p.advance()
		block, err := p.parseReferenceBlock()
		if err != nil {
			return err
		}
		tx.References = append(tx.References, block)
	case p.isIdent("collateral"):
		p.advance()
		block, err := p.parseCollateralBlock()
		if err != nil {
			return err
		}
		tx.Collateral = block
	case p.cur().kind == tokIdent && p.at(1).kind == tokPunct && p.at(1).text == "::":
		ns := p.advance().text
		p.advance() // '::'
		kind, err := p.expectIdent()
		if err != nil {
			return err
		}
		name := ns + "::" + kind.text
		block, err := p.parseAdHocBlock(name)
		if err != nil {
			return err
		}
		tx.AdHoc = append(tx.AdHoc, block)
	default:
		return newParseError(
			UnexpectedRule, p.cur().span,
			"expected a tx block, got %q", p.cur().text,
		)
	}
	return nil
}

func (p *Parser) expectNumber() (token, error) {
	if p.cur().kind != tokNumber {
		return token{}, newParseError(
			InvalidType, p.cur().span,
			"expected numeric literal, got %q", p.cur().text,
		)
	}
	return p.advance(), nil
}

func (p *Parser) parseInputBlock(name string) (*InputBlock, error) {
	start := p.cur().span
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	block := &InputBlock{Name: name}
	for !p.isPunct("}") {
		key, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		switch key.text {
		case "from":
			block.From, err = p.parseAddressExpr()
		case "min_amount":
			block.MinAmount, err = p.parseAssetExpr()
		case "datum_is":
			var ty TypeRef
			ty, err = p.parseTypeRef()
			block.DatumIs = &ty
		case "redeemer":
			block.Redeemer, err = p.parseDataExpr()
		case "ref":
			block.Ref, err = p.parseDataExpr()
		default:
			return nil, newParseError(
				MissingRequiredField, key.span,
				"unknown input field %q", key.text,
			)
		}
		if err != nil {
			return nil, err
		}
		if p.isPunct(",") {
			p.advance()
		}
	}
	end, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	block.Span = Span{start.Start, end.span.End}
	return block, nil
}

func (p *Parser) parseOutputBlock(name string) (*OutputBlock, error) {
	start := p.cur().span
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	block := &OutputBlock{Name: name}
	for !p.isPunct("}") {
		key, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		switch key.text {
		case "to":
			block.To, err = p.parseAddressExpr()
		case "amount":
			block.Amount, err = p.parseAssetExpr()
		case "datum":
			block.Datum, err = p.parseDataExpr()
		default:
			return nil, newParseError(
				MissingRequiredField, key.span,
				"unknown output field %q", key.text,
			)
		}
		if err != nil {
			return nil, err
		}
		if p.isPunct(",") {
			p.advance()
		}
	}
	end, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	block.Span = Span{start.Start, end.span.End}
	return block, nil
}

func (p *Parser) parseMintBlock() (*MintBlock, error) {
	start := p.cur().span
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	block := &MintBlock{}
	for !p.isPunct("}") {
		key, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		switch key.text {
		case "amount":
			block.Amount, err = p.parseAssetExpr()
		case "redeemer":
			block.Redeemer, err = p.parseDataExpr()
		default:
			return nil, newParseError(
				MissingRequiredField, key.span,
				"unknown mint field %q", key.text,
			)
		}
		if err != nil {
			return nil, err
		}
		if p.isPunct(",") {
			p.advance()
		}
	}
	end, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	block.Span = Span{start.Start, end.span.End}
	return block, nil
}

func (p *Parser) parseValidityBlock() (*ValidityBlock, error) {
	start := p.cur().span
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	block := &ValidityBlock{}
	for !p.isPunct("}") {
		key, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		switch key.text {
		case "since":
			block.Since, err = p.parseDataExpr()
		case "until":
			block.Until, err = p.parseDataExpr()
		default:
			return nil, newParseError(
				MissingRequiredField, key.span,
				"unknown validity field %q", key.text,
			)
		}
		if err != nil {
			return nil, err
		}
		if p.isPunct(",") {
			p.advance()
		}
	}
	end, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	block.Span = Span{start.Start, end.span.End}
	return block, nil
}

func (p *Parser) parseReferenceBlock() (*ReferenceBlock, error) {
	start := p.cur().span
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	block := &ReferenceBlock{}
	for !p.isPunct("}") {
		key, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		if key.text != "ref" {
			return nil, newParseError(
				MissingRequiredField, key.span,
				"unknown reference field %q", key.text,
			)
		}
		block.Ref, err = p.parseDataExpr()
		if err != nil {
			return nil, err
		}
		if p.isPunct(",") {
			p.advance()
		}
	}
	end, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	block.Span = Span{start.Start, end.span.End}
	return block, nil
}

func (p *Parser) parseCollateralBlock() (*CollateralBlock, error) {
	start := p.cur().span
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	block := &CollateralBlock{}
	for !p.isPunct("}") {
		key, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		switch key.text {
		case "from":
			block.From, err = p.parseAddressExpr()
		case "min_amount":
			block.MinAmount, err = p.parseAssetExpr()
		case "ref":
			block.Ref, err = p.parseDataExpr()
		default:
			return nil, newParseError(
				MissingRequiredField, key.span,
				"unknown collateral field %q", key.text,
			)
		}
		if err != nil {
			return nil, err
		}
		if p.isPunct(",") {
			p.advance()
		}
	}
	end, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	block.Span = Span{start.Start, end.span.End}
	return block, nil
}

func (p *Parser) parseAdHocBlock(name string) (*AdHocBlock, error) {
	start := p.cur().span
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	block := &AdHocBlock{Name: name, Fields: map[string]DataExpr{}}
	for !p.isPunct("}") {
		key, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		val, err := p.parseDataExpr()
		if err != nil {
			return nil, err
		}
		block.Fields[key.text] = val
		block.Order = append(block.Order, key.text)
		if p.isPunct(",") {
			p.advance()
		}
	}
	end, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	block.Span = Span{start.Start, end.span.End}
	return block, nil
}

// ---- expressions ----

func (p *Parser) parseDataExpr() (DataExpr, error) {
	left, err := p.parseDataPrimary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("+") || p.isPunct("-") {
		opTok := p.advance()
		op := OpAdd
		if opTok.text == "-" {
			op = OpSub
		}
		right, err := p.parseDataPrimary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left: left, Right: right, Op: op,
			Span: Span{left.SpanOf().Start, right.SpanOf().End},
		}
	}
	return left, nil
}

func (p *Parser) parseDataPrimary() (DataExpr, error) {
	tok := p.cur()
	switch {
	case tok.kind == tokNumber:
		p.advance()
		n := new(big.Int)
		n.SetString(tok.text, 10)
		return &NumberExpr{Value: n, Span: tok.span}, nil
	case tok.kind == tokString:
		p.advance()
		return &StringExpr{Value: tok.text, Span: tok.span}, nil
	case tok.kind == tokHex:
		p.advance()
		b, err := hexDecode(tok.text)
		if err != nil {
			return nil, newParseError(InvalidType, tok.span, "%s", err)
		}
		return &HexBytesExpr{Value: b, Span: tok.span}, nil
	case tok.kind == tokIdent && tok.text == "None":
		p.advance()
		return &NoneExpr{Span: tok.span}, nil
	case tok.kind == tokIdent && tok.text == "Unit":
		p.advance()
		return &UnitExpr{Span: tok.span}, nil
	case tok.kind == tokIdent && (tok.text == "true" || tok.text == "false"):
		p.advance()
		return &BoolExpr{Value: tok.text == "true", Span: tok.span}, nil
	case tok.kind == tokIdent:
		return p.parseIdentOrConstructor()
	default:
		return nil, newParseError(
			UnexpectedRule, tok.span,
			"unexpected token %q in expression", tok.text,
		)
	}
}

// parseIdentOrConstructor disambiguates `Type{...}`, `Type.Case{...}`,
// `object.path.segments`, and a bare identifier.
func (p *Parser) parseIdentOrConstructor() (DataExpr, error) {
	nameTok := p.advance()
	if p.isPunct("{") {
		return p.parseDatumConstructorBody(nameTok.text, "", nameTok.span)
	}
	if p.isPunct(".") {
		// lookahead: Type.Case{...} vs object.path...
		if p.at(1).kind == tokIdent && p.at(2).kind == tokPunct && p.at(2).text == "{" {
			p.advance() // '.'
			caseTok := p.advance()
			return p.parseDatumConstructorBody(nameTok.text, caseTok.text, nameTok.span)
		}
		var path []string
		end := nameTok.span.End
		for p.isPunct(".") {
			p.advance()
			seg, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			path = append(path, seg.text)
			end = seg.span.End
		}
		return &PropertyExpr{
			Object: &IdentifierExpr{Name: nameTok.text, Span: nameTok.span},
			Path:   path,
			Span:   Span{nameTok.span.Start, end},
		}, nil
	}
	return &IdentifierExpr{Name: nameTok.text, Span: nameTok.span}, nil
}

func (p *Parser) parseDatumConstructorBody(typeName, caseName string, start Span) (DataExpr, error) {
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	ctor := &DatumConstructorExpr{Type: typeName, Case: caseName}
	for !p.isPunct("}") {
		if p.isSpreadAhead() {
			p.advance()
			p.advance()
			p.advance()
			spread, err := p.parseDataExpr()
			if err != nil {
				return nil, err
			}
			ctor.Spread = spread
		} else {
			fname, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(":"); err != nil {
				return nil, err
			}
			val, err := p.parseDataExpr()
			if err != nil {
				return nil, err
			}
			ctor.Fields = append(ctor.Fields, &FieldAssign{
				Name: fname.text, Value: val,
				Span: Span{fname.span.Start, val.SpanOf().End},
			})
		}
		if p.isPunct(",") {
			p.advance()
		}
	}
	end, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	ctor.Span = Span{start.Start, end.span.End}
	return ctor, nil
}

// isSpreadAhead reports whether the next three tokens are `.` `.` `.`
// (the spread operator `...`).
func (p *Parser) isSpreadAhead() bool {
	return p.cur().kind == tokPunct && p.cur().text == "." &&
		p.at(1).kind == tokPunct && p.at(1).text == "." &&
		p.at(2).kind == tokPunct && p.at(2).text == "."
}

func (p *Parser) parseAssetExpr() (AssetExpr, error) {
	left, err := p.parseAssetPrimary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("+") || p.isPunct("-") {
		opTok := p.advance()
		op := OpAdd
		if opTok.text == "-" {
			op = OpSub
		}
		right, err := p.parseAssetPrimary()
		if err != nil {
			return nil, err
		}
		left = &AssetBinaryExpr{
			Left: left, Right: right, Op: op,
			Span: Span{left.SpanOf().Start, right.SpanOf().End},
		}
	}
	return left, nil
}

func (p *Parser) parseAssetPrimary() (AssetExpr, error) {
	tok := p.cur()
	if tok.kind != tokIdent {
		return nil, newParseError(
			UnexpectedRule, tok.span,
			"expected an asset expression, got %q", tok.text,
		)
	}
	p.advance()
	if p.isPunct("(") {
		p.advance()
		amount, err := p.parseDataExpr()
		if err != nil {
			return nil, err
		}
		ctor := &AssetConstructorExpr{Type: tok.text, Amount: amount}
		if p.isPunct(",") {
			p.advance()
			name, err := p.parseDataExpr()
			if err != nil {
				return nil, err
			}
			ctor.AssetName = name
		}
		end, err := p.expectPunct(")")
		if err != nil {
			return nil, err
		}
		ctor.Span = Span{tok.span.Start, end.span.End}
		return ctor, nil
	}
	if p.isPunct(".") {
		var path []string
		end := tok.span.End
		for p.isPunct(".") {
			p.advance()
			seg, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			path = append(path, seg.text)
			end = seg.span.End
		}
		return &AssetPropertyExpr{
			Object: &IdentifierExpr{Name: tok.text, Span: tok.span},
			Path:   path,
			Span:   Span{tok.span.Start, end},
		}, nil
	}
	return &AssetIdentifierExpr{Name: tok.text, Span: tok.span}, nil
}

func (p *Parser) parseAddressExpr() (AddressExpr, error) {
	tok := p.cur()
	switch tok.kind {
	case tokString:
		p.advance()
		return &AddressStringExpr{Value: tok.text, Span: tok.span}, nil
	case tokIdent:
		p.advance()
		return &AddressIdentifierExpr{Name: tok.text, Span: tok.span}, nil
	default:
		return nil, newParseError(
			UnexpectedRule, tok.span,
			"expected an address expression, got %q", tok.text,
		)
	}
}

func hexDecode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		s = "0" + s
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, err := hexNibble(s[2*i])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(s[2*i+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(b byte) (byte, error) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', nil
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, nil
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, nil
	default:
		return 0, newParseError(InvalidType, Span{}, "invalid hex digit %q", b)
	}
}
