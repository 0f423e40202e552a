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

package main

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"
	log "github.com/golang/glog"

	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/functable"
	"github.com/cforall/resolv-proto/internal/intern"
	"github.com/cforall/resolv-proto/internal/parse"
	"github.com/cforall/resolv-proto/resolve"
)

// runInteractive loads declarations from in (a declaration section, no
// "%%" required — the whole input is treated as declarations) and then
// prompts for one expression per line, printing its resolution
// immediately, until EOF or an interrupt.
func runInteractive(in io.Reader, out io.Writer) error {
	pool := intern.NewPool()
	ids := ast.NewExprIDSource()
	p := parse.New(pool, ids)

	prog, err := p.File(in)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	funcs := functable.New()
	for _, d := range prog.Funcs {
		funcs.InsertFunc(d)
	}
	for _, d := range prog.Vars {
		funcs.InsertVar(d)
	}
	convs := collectConversionGraph(prog.Funcs)
	vsrc := ast.NewVarSource()
	resolver := resolve.New(funcs, convs, vsrc)

	rl, err := readline.New("resolv> ")
	if err != nil {
		return fmt.Errorf("starting interactive prompt: %w", err)
	}
	defer rl.Close()

	mode := resolve.ExpandConversions | resolve.CheckAssertions
	lineNo := 0
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return nil
		}
		if line == "" {
			continue
		}
		readline.AddHistory(line)
		lineNo++

		expr, err := p.ParseExpr(line, lineNo)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		env := newDefaultEnv(resolver)
		result := resolver.Operator(expr, env, mode)
		switch result.Effect {
		case resolve.EffectNone:
			printInterp(out, result.Interp, pool)
		default:
			log.V(1).Infof("expression %q: %s", line, result.Effect)
			fmt.Fprintln(out, result.Effect)
		}
	}
}
