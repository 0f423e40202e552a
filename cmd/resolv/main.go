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

// Binary resolv reads a set of declarations and a list of expressions and
// prints, for each expression, its resolved interpretation(s).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/golang/glog"
	"go.uber.org/multierr"

	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/conversion"
	"github.com/cforall/resolv-proto/internal/functable"
	"github.com/cforall/resolv-proto/internal/intern"
	"github.com/cforall/resolv-proto/internal/parse"
	"github.com/cforall/resolv-proto/internal/tyenv"
	"github.com/cforall/resolv-proto/resolve"
)

var (
	verbose     = flag.Bool("v", false, "verbose: log each resolved expression's cost (at log verbosity 1)")
	verboseLong = flag.Bool("verbose", false, "long form of -v")
	quiet       = flag.Bool("q", false, "quiet: suppress per-expression output, report only failures")
	quietLong   = flag.Bool("quiet", false, "long form of -q")
	test        = flag.Bool("test", false, "test mode: exit non-zero if any expression fails to resolve uniquely")
	filter      = flag.String("filter", "", "print only input-form expressions matching a predicate: invalid, unambiguous, resolvable")
	bench       = flag.Bool("bench", false, "benchmark mode: time resolution and print a final n_decls,n_exprs,runtime_ms line")
	interactive = flag.Bool("i", false, "interactive: read declarations then drop into a REPL of expressions")
	truncate    = flag.Bool("truncate", false, "allow truncating conversions (tuple and void) during resolution")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: resolv [flags] [input] [output]\n\n")
		fmt.Fprintf(os.Stderr, "Resolves overloaded expressions against a set of declarations.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	in := os.Stdin
	out := io.Writer(os.Stdout)
	args := flag.Args()
	if len(args) >= 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			log.Exitf("opening input: %v", err)
		}
		defer f.Close()
		in = f
	}
	if len(args) >= 2 {
		f, err := os.Create(args[1])
		if err != nil {
			log.Exitf("opening output: %v", err)
		}
		defer f.Close()
		out = f
	}

	var err error
	if *interactive {
		err = runInteractive(in, out)
	} else {
		err = run(in, out)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newDefaultEnv(r *resolve.Resolver) tyenv.Env {
	return tyenv.NewGenerational(r.Unify)
}

func run(in io.Reader, out io.Writer) error {
	start := time.Now()

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

	mode := resolve.ExpandConversions | resolve.CheckAssertions
	if *truncate {
		mode |= resolve.Truncate
	}

	var errs error
	verb := *verbose || *verboseLong
	quietMode := *quiet || *quietLong

	for i, expr := range prog.Exprs {
		env := newDefaultEnv(resolver)
		result := resolver.Operator(expr, env, mode)

		if matchesFilter(*filter, result) {
			fmt.Fprintln(out, exprSource(prog, i))
			continue
		}
		if *filter != "" {
			continue
		}

		switch result.Effect {
		case resolve.EffectNone:
			if !quietMode {
				printInterp(out, result.Interp, pool)
			}
			if verb {
				log.V(1).Infof("resolved expression %d with cost %s", i, result.Interp.Cost)
			}
		case resolve.EffectAmbiguous:
			errs = multierr.Append(errs, fmt.Errorf("expression %d: ambiguous, %d candidates", i, len(result.Alternatives)))
			fmt.Fprintf(out, "ambiguous\n")
		case resolve.EffectUnbound:
			errs = multierr.Append(errs, fmt.Errorf("expression %d: unbound type variables", i))
			fmt.Fprintf(out, "unbound\n")
		default:
			errs = multierr.Append(errs, fmt.Errorf("expression %d: invalid", i))
			fmt.Fprintf(out, "invalid\n")
		}
	}

	if *bench {
		elapsed := time.Since(start)
		fmt.Fprintf(out, "%d,%d,%d\n", len(prog.Funcs)+len(prog.Vars), len(prog.Exprs), elapsed.Milliseconds())
	}

	if *test && errs != nil {
		return errs
	}
	return nil
}

func printInterp(out io.Writer, interp resolve.Interpretation, pool *intern.Pool) {
	fmt.Fprintf(out, "%s as %s\n\t%s\n", interp.Cost, ast.TypeString(interp.Expr.ResultType(), pool), describeExpr(interp.Expr, pool))
}

func describeExpr(e ast.TypedExpr, pool *intern.Pool) string {
	switch v := e.(type) {
	case ast.CallExpr:
		return pool.String(v.Decl.Name)
	case ast.VarExpr:
		return pool.String(v.Decl.Name)
	default:
		return ast.TypeString(e.ResultType(), pool)
	}
}

func exprSource(prog *parse.Program, idx int) string {
	if idx < len(prog.ExprLines) {
		return prog.ExprLines[idx]
	}
	return fmt.Sprintf("expr[%d]", idx)
}

func matchesFilter(f string, r resolve.Result) bool {
	switch f {
	case "invalid":
		return r.Effect == resolve.EffectInvalid
	case "unambiguous":
		return r.Effect == resolve.EffectNone
	case "resolvable":
		return r.Effect == resolve.EffectNone || r.Effect == resolve.EffectAmbiguous
	default:
		return false
	}
}

func collectConversionGraph(decls []*ast.FuncDecl) *conversion.Graph {
	seen := make(map[int]ast.Conc)
	for _, d := range decls {
		collectConc(d.Returns, seen)
		for _, p := range d.Params {
			collectConc(p, seen)
		}
	}
	concs := make([]ast.Conc, 0, len(seen))
	for _, c := range seen {
		concs = append(concs, c)
	}
	return conversion.MakeConversions(concs)
}

func collectConc(t ast.Type, seen map[int]ast.Conc) {
	switch v := t.(type) {
	case ast.Conc:
		seen[v.ID] = v
	case ast.Named:
		for _, p := range v.Params {
			collectConc(p, seen)
		}
	case ast.Func:
		for _, p := range v.Params {
			collectConc(p, seen)
		}
		collectConc(v.Returns, seen)
	case ast.Tuple:
		for _, e := range v.Types {
			collectConc(e, seen)
		}
	}
}
