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

package resolve

import (
	"errors"

	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/tyenv"
	"github.com/cforall/resolv-proto/internal/unify"
)

// ErrNoMatch is the NoMatch condition: a resolution step produced no
// interpretation. Callers that are speculating (trying one candidate among
// several) treat it as "this candidate doesn't work"; it only becomes
// visible at the top level as the "invalid" effect (see Operator).
var ErrNoMatch = errors.New("resolve: no matching interpretation")

// Resolve is the top-down entry point: resolve expr against target (nil
// meaning "no required type", i.e. the bottom-up case) in env, under mode.
// It returns every surviving interpretation; ErrNoMatch if none survive.
func (r *Resolver) Resolve(expr ast.Expr, target ast.Type, env tyenv.Env, mode Mode) ([]Interpretation, error) {
	if cached, ok := r.cache.lookup(expr, target, env, mode); ok {
		return cached, nil
	}
	results, err := r.resolve(expr, target, env, mode)
	if err == nil {
		r.cache.store(expr, target, env, mode, results)
	}
	return results, err
}

func (r *Resolver) resolve(expr ast.Expr, target ast.Type, env tyenv.Env, mode Mode) ([]Interpretation, error) {
	switch e := expr.(type) {
	case ast.ValExpr:
		return r.finish([]Interpretation{{Expr: e, Cost: ast.ZeroCost, Env: env}}, target, env, mode)

	case ast.NameExpr:
		decls := r.Funcs.FindVars(e.Name)
		if len(decls) == 0 {
			return nil, ErrNoMatch
		}
		var out []Interpretation
		for _, d := range decls {
			out = append(out, Interpretation{Expr: ast.VarExpr{Decl: d}, Cost: ast.ZeroCost, Env: env})
		}
		return r.finish(out, target, env, mode)

	case ast.FuncExpr:
		return r.resolveFunc(e, target, env, mode)

	default:
		return nil, ErrNoMatch
	}
}

// finish applies conversion expansion and target narrowing uniformly to
// every leaf/name resolution, so ValExpr and NameExpr participate in the
// same C10 machinery as a FuncExpr's result.
func (r *Resolver) finish(interps []Interpretation, target ast.Type, env tyenv.Env, mode Mode) ([]Interpretation, error) {
	if len(interps) == 0 {
		return nil, ErrNoMatch
	}
	if mode.Has(ExpandConversions) {
		interps = Expand(interps, r.Convs)
	}
	if target == nil {
		return interps, nil
	}
	var out []Interpretation
	for _, i := range interps {
		cost := i.Cost
		if conv, ok := ConvertTo(target, i, env, r.Convs, &cost); ok {
			conv.Cost = cost
			out = append(out, conv)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMatch
	}
	return minimalCost(out), nil
}

// minimalCost keeps only the interpretations tied for the lowest cost.
func minimalCost(interps []Interpretation) []Interpretation {
	best := interps[0].Cost
	for _, i := range interps[1:] {
		if ast.Compare(i.Cost, best) < 0 {
			best = i.Cost
		}
	}
	var out []Interpretation
	for _, i := range interps {
		if ast.Compare(i.Cost, best) == 0 {
			out = append(out, i)
		}
	}
	return out
}

func (r *Resolver) resolveFunc(e ast.FuncExpr, target ast.Type, env tyenv.Env, mode Mode) ([]Interpretation, error) {
	var decls []*ast.FuncDecl
	if target != nil {
		if _, isPoly := target.(ast.Poly); !isPoly {
			decls = r.Funcs.FindByReturn(e.Name, target)
			if len(decls) == 0 {
				decls = r.Funcs.FindByReturnMatch(e.Name, target)
			}
		}
	}
	if len(decls) == 0 {
		decls = r.Funcs.AllByName(e.Name)
	}

	var out []Interpretation
	for _, decl := range decls {
		inst := decl.Instantiate(r.VarSrc)
		if len(inst.Params) != len(e.Args) {
			if !trySplice(inst, e.Args) {
				continue
			}
		}
		interp, ok := tryCandidate(env, func(candEnv tyenv.Env) (Interpretation, bool) {
			return r.resolveCall(e, inst, candEnv, mode)
		})
		if ok {
			out = append(out, interp)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMatch
	}
	return r.finish(out, target, env, mode)
}

// checkpointer is implemented by Env backends that can roll back bindings
// made since a mark, so one candidate's failed (or superseded) attempt never
// leaks into the next candidate's starting state.
type checkpointer interface {
	Mark() int
	Reset(int)
}

// cloner is implemented by Env backends that can snapshot their current
// bindings into an independent copy, so a successful candidate keeps its own
// environment after the shared one rolls back for the next attempt.
type cloner interface {
	Clone() *tyenv.Generational
}

// tryCandidate runs fn against env, isolating whatever bindings fn makes
// from every other candidate tried against the same env: on a backend that
// supports Mark/Reset (Generational, the only one resolveFunc drives in
// practice — see newDefaultEnv in cmd/resolv), env is rolled back to its
// pre-call state once fn returns, win or lose. A successful result's Env
// (which fn may have rebound to some other Env value entirely, e.g. by
// resolving a nested argument expression) is replaced with an independent
// Clone of whatever it ended up as, taken before the rollback, so the
// winning candidate's real bindings survive env's reset. Backends without
// Mark/Reset run fn directly, unchanged.
func tryCandidate(env tyenv.Env, fn func(tyenv.Env) (Interpretation, bool)) (Interpretation, bool) {
	ck, isCk := env.(checkpointer)
	if !isCk {
		return fn(env)
	}
	token := ck.Mark()
	interp, ok := fn(env)
	if ok {
		if cl, isCl := interp.Env.(cloner); isCl {
			interp.Env = cl.Clone()
		}
	}
	ck.Reset(token)
	return interp, ok
}

// trySplice reports whether inst's last parameter(s), or args' last
// argument when it resolves to a multi-element tuple, could plausibly be
// spliced to match arity — a conservative arity precheck; the real splice
// happens once argument types are known, inside resolveCall.
func trySplice(inst *ast.FuncDecl, args []ast.Expr) bool {
	return len(args) > 0 && len(args) < len(inst.Params)
}

func (r *Resolver) resolveCall(e ast.FuncExpr, inst *ast.FuncDecl, env tyenv.Env, mode Mode) (Interpretation, bool) {
	cost := ast.ZeroCost
	var argExprs []ast.TypedExpr

	paramIdx := 0
	for argIdx, argExpr := range e.Args {
		if paramIdx >= len(inst.Params) {
			return Interpretation{}, false
		}
		paramType := inst.Params[paramIdx]
		remainingParams := len(inst.Params) - paramIdx
		isLastArg := argIdx == len(e.Args)-1

		// The last argument may need to span more than one remaining
		// parameter (the ArgPack mechanism), so resolve it untargeted first
		// and inspect its type before deciding whether to unify it
		// wholesale against paramType or splice it element-wise.
		var resolveTarget ast.Type = paramType
		if isLastArg && remainingParams > 1 {
			resolveTarget = nil
		}
		argInterps, err := r.Resolve(argExpr, resolveTarget, env, mode&^CheckAssertions|ExpandConversions)
		if err != nil {
			return Interpretation{}, false
		}
		best := argInterps[0]
		argType := best.Expr.ResultType()
		env = best.Env
		cost = cost.Add(best.Cost)

		if tup, ok := argType.(ast.Tuple); ok && isLastArg && remainingParams > 1 && len(tup.Types) == remainingParams {
			for k := 0; k < remainingParams; k++ {
				pt := inst.Params[paramIdx+k]
				el := ast.TupleElementExpr{Of: best.Expr, Index: k}
				if err := unifyArg(pt, tup.Types[k], &cost, env); err != nil {
					return Interpretation{}, false
				}
				argExprs = append(argExprs, el)
			}
			paramIdx += remainingParams
			continue
		}

		if err := unifyArg(paramType, argType, &cost, env); err != nil {
			return Interpretation{}, false
		}
		argExprs = append(argExprs, best.Expr)
		paramIdx++
	}
	if paramIdx != len(inst.Params) {
		return Interpretation{}, false
	}

	callExpr := ast.CallExpr{Decl: inst, Args: argExprs, Forall: inst.Forall, RetType: env.Replace(inst.Returns)}
	result := Interpretation{Expr: callExpr, Cost: cost.Add(specializationCost(inst)), Env: env}

	if mode.Has(CheckAssertions) && inst.Forall != nil && len(inst.Forall.Assertions) > 0 {
		resolved, ok := r.resolveAssertions(result, env, mode)
		if !ok {
			return Interpretation{}, false
		}
		result = resolved
	}
	return result, true
}

func unifyArg(paramType, argType ast.Type, cost *ast.Cost, env tyenv.Env) error {
	_, err := unify.Do(paramType, argType, cost, env)
	return err
}

func specializationCost(d *ast.FuncDecl) ast.Cost {
	vars, assns := d.PolymorphismCost()
	c := ast.CostFromVars(vars + assns)
	c = c.Add(ast.CostFromSpec(d.SpecializationCount()))
	return c
}
