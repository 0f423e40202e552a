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
	"bufio"
	"fmt"
	"io"

	"github.com/cforall/resolv-proto/ast"
)

// Program is the result of parsing a whole input file: every declaration
// (split into functions and variables, mirroring functable's two maps) and
// every expression from the second section, in source order.
type Program struct {
	Funcs []*ast.FuncDecl
	Vars  []*ast.VarDecl
	Exprs []ast.Expr

	// ExprLines holds the original source text of each entry in Exprs, in
	// the same order, for diagnostics that need to echo the input form
	// (e.g. the CLI's --filter output) rather than re-print a parsed tree.
	ExprLines []string
}

// File reads r, splitting it at the "%%" line into a declaration section
// and an expression section, and parses each line of each section in turn.
// It stops at the first malformed line, returning an error with the line
// number (the collaborator's "parse failure: reported to stderr with line
// number" contract — the CLI is responsible for the stderr/exit-code part).
func (p *Parser) File(r io.Reader) (*Program, error) {
	scanner := bufio.NewScanner(r)
	prog := &Program{}
	inExprs := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "%%" {
			inExprs = true
			continue
		}
		if isCommentOrBlank(line) {
			continue
		}
		if !inExprs {
			fd, vd, err := p.ParseDecl(line, lineNo)
			if err != nil {
				return nil, err
			}
			if fd != nil {
				prog.Funcs = append(prog.Funcs, fd)
			} else {
				prog.Vars = append(prog.Vars, vd)
			}
			continue
		}
		e, err := p.ParseExpr(line, lineNo)
		if err != nil {
			return nil, err
		}
		prog.Exprs = append(prog.Exprs, e)
		prog.ExprLines = append(prog.ExprLines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return prog, nil
}
