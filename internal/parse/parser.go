// Copyright 2022 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parse

import (
	"fmt"

	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/intern"
)

// tokenStream is a cursor over one line's tokens.
type tokenStream struct {
	toks []token
	pos  int
	line int
}

func (s *tokenStream) peek() token  { return s.toks[s.pos] }
func (s *tokenStream) advance() token {
	t := s.toks[s.pos]
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return t
}

func (s *tokenStream) expect(k tokenKind, what string) (token, error) {
	if s.peek().kind != k {
		return token{}, fmt.Errorf("line %d: expected %s at column %d", s.line, what, s.peek().col+1)
	}
	return s.advance(), nil
}

func startsType(t token) bool {
	switch t.kind {
	case tInt, tHash, tLBrack:
		return true
	case tIdent:
		return isUpperIdent(t.text)
	}
	return false
}

func isUpperIdent(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

func isLowerIdent(s string) bool {
	return len(s) > 0 && s[0] >= 'a' && s[0] <= 'z'
}

// Parser turns lexed lines into declarations and expressions, interning
// identifiers through pool and assigning fresh expression ids through ids.
type Parser struct {
	pool *intern.Pool
	ids  *ast.ExprIDSource
}

// New constructs a Parser sharing pool (for identifier interning) and ids
// (for expression node identity) with the rest of a resolver run.
func New(pool *intern.Pool, ids *ast.ExprIDSource) *Parser {
	return &Parser{pool: pool, ids: ids}
}

func (p *Parser) parseType(s *tokenStream) (ast.Type, error) {
	t := s.peek()
	switch {
	case t.kind == tInt:
		s.advance()
		return ast.Conc{ID: t.ival}, nil

	case t.kind == tHash:
		s.advance()
		name, err := s.expect(tIdent, "named-type identifier")
		if err != nil {
			return nil, err
		}
		var params []ast.Type
		if s.peek().kind == tLAngle {
			s.advance()
			for {
				pt, err := p.parseType(s)
				if err != nil {
					return nil, err
				}
				params = append(params, pt)
				if s.peek().kind == tComma {
					s.advance()
					continue
				}
				break
			}
			if _, err := s.expect(tRAngle, "'>'"); err != nil {
				return nil, err
			}
		}
		return ast.Named{Name: p.pool.Intern(name.text), Params: params}, nil

	case t.kind == tIdent && isUpperIdent(t.text):
		s.advance()
		return ast.Poly{Name: p.pool.Intern(t.text), ID: 0}, nil

	case t.kind == tLBrack:
		s.advance()
		var rets []ast.Type
		for startsType(s.peek()) {
			rt, err := p.parseType(s)
			if err != nil {
				return nil, err
			}
			rets = append(rets, rt)
		}
		if _, err := s.expect(tColon, "':'"); err != nil {
			return nil, err
		}
		var params []ast.Type
		for startsType(s.peek()) {
			pt, err := p.parseType(s)
			if err != nil {
				return nil, err
			}
			params = append(params, pt)
		}
		if _, err := s.expect(tRBrack, "']'"); err != nil {
			return nil, err
		}
		return ast.Func{Params: params, Returns: ast.FromList(rets)}, nil

	default:
		return nil, fmt.Errorf("line %d: expected a type at column %d", s.line, t.col+1)
	}
}

// rawDecl is a parsed declaration before Forall variables have been
// collected across it and its assertions.
type rawDecl struct {
	returns ast.Type
	name    intern.Symbol
	tag     intern.Symbol
	params  []ast.Type
}

func (p *Parser) parseRawDecl(s *tokenStream) (rawDecl, error) {
	var rets []ast.Type
	for startsType(s.peek()) {
		rt, err := p.parseType(s)
		if err != nil {
			return rawDecl{}, err
		}
		rets = append(rets, rt)
	}
	nameTok, err := s.expect(tIdent, "declaration name")
	if err != nil {
		return rawDecl{}, err
	}
	if !isLowerIdent(nameTok.text) {
		return rawDecl{}, fmt.Errorf("line %d: declaration name %q must start lowercase", s.line, nameTok.text)
	}
	var tag intern.Symbol
	if s.peek().kind == tDash {
		s.advance()
		tagTok, err := s.expect(tIdent, "tag")
		if err != nil {
			return rawDecl{}, err
		}
		tag = p.pool.Intern(tagTok.text)
	}
	var params []ast.Type
	for startsType(s.peek()) {
		pt, err := p.parseType(s)
		if err != nil {
			return rawDecl{}, err
		}
		params = append(params, pt)
	}
	return rawDecl{returns: ast.FromList(rets), name: p.pool.Intern(nameTok.text), tag: tag, params: params}, nil
}

// ParseDecl parses one full declaration line, including any "| assertion"
// suffixes, and collects the implicit Forall (every distinct Poly name
// appearing anywhere in it).
func (p *Parser) ParseDecl(line string, lineNo int) (*ast.FuncDecl, *ast.VarDecl, error) {
	lex := newLineLexer(line, lineNo)
	toks, err := lex.tokens()
	if err != nil {
		return nil, nil, err
	}
	s := &tokenStream{toks: toks, line: lineNo}

	main, err := p.parseRawDecl(s)
	if err != nil {
		return nil, nil, err
	}

	var assertions []*ast.FuncDecl
	for s.peek().kind == tPipe {
		s.advance()
		a, err := p.parseRawDecl(s)
		if err != nil {
			return nil, nil, err
		}
		assertions = append(assertions, &ast.FuncDecl{Name: a.name, Tag: a.tag, Params: a.params, Returns: a.returns})
	}
	if s.peek().kind != tEOF {
		return nil, nil, fmt.Errorf("line %d: unexpected trailing input at column %d", lineNo, s.peek().col+1)
	}

	if len(main.params) == 0 && len(assertions) == 0 {
		return nil, &ast.VarDecl{Name: main.name, Tag: main.tag, Type: main.returns}, nil
	}

	decl := &ast.FuncDecl{Name: main.name, Tag: main.tag, Params: main.params, Returns: main.returns}
	vars := collectPolyVars(decl, assertions)
	if len(vars) > 0 {
		decl.Forall = &ast.Forall{Vars: vars, Assertions: assertions}
	}
	return decl, nil, nil
}

// ParseExpr parses one expression line.
func (p *Parser) ParseExpr(line string, lineNo int) (ast.Expr, error) {
	lex := newLineLexer(line, lineNo)
	toks, err := lex.tokens()
	if err != nil {
		return nil, err
	}
	s := &tokenStream{toks: toks, line: lineNo}
	e, err := p.parseExpr(s)
	if err != nil {
		return nil, err
	}
	if s.peek().kind != tEOF {
		return nil, fmt.Errorf("line %d: unexpected trailing input at column %d", lineNo, s.peek().col+1)
	}
	return e, nil
}

func (p *Parser) parseExpr(s *tokenStream) (ast.Expr, error) {
	t := s.peek()
	switch {
	case t.kind == tAmp:
		s.advance()
		name, err := s.expect(tIdent, "variable name")
		if err != nil {
			return nil, err
		}
		return ast.NameExpr{Name: p.pool.Intern(name.text), ID: p.ids.Fresh()}, nil

	case t.kind == tIdent && isLowerIdent(t.text):
		s.advance()
		if _, err := s.expect(tLParen, "'('"); err != nil {
			return nil, err
		}
		var args []ast.Expr
		for s.peek().kind != tRParen {
			arg, err := p.parseExpr(s)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		s.advance() // ')'
		return ast.FuncExpr{Name: p.pool.Intern(t.text), Args: args, ID: p.ids.Fresh()}, nil

	case startsType(t):
		ty, err := p.parseType(s)
		if err != nil {
			return nil, err
		}
		return ast.ValExpr{Type: ty}, nil

	default:
		return nil, fmt.Errorf("line %d: expected an expression at column %d", s.line, t.col+1)
	}
}

// collectPolyVars walks decl and its assertions, returning every distinct
// Poly it mentions (by name) in first-occurrence order, each normalised to
// the declaration-time ID 0.
func collectPolyVars(decl *ast.FuncDecl, assertions []*ast.FuncDecl) []ast.Poly {
	seen := make(map[intern.Symbol]bool)
	var out []ast.Poly
	visit := func(t ast.Type) {
		ast.Walk(t, func(p ast.Poly) {
			if !seen[p.Name] {
				seen[p.Name] = true
				out = append(out, ast.Poly{Name: p.Name, ID: 0})
			}
		})
	}
	visit(decl.Returns)
	for _, pt := range decl.Params {
		visit(pt)
	}
	for _, a := range assertions {
		visit(a.Returns)
		for _, pt := range a.Params {
			visit(pt)
		}
	}
	return out
}
