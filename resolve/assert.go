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
	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/tyenv"
	"github.com/cforall/resolv-proto/internal/unify"
)

// assertionCandidate is one declaration that could satisfy a given
// assertion, together with the cost and environment its unification
// produced.
type assertionCandidate struct {
	decl *ast.FuncDecl
	expr ast.TypedExpr
	cost ast.Cost
	env  tyenv.Env
}

// inFlight guards against unbounded recursion when an assertion's search
// calls back into resolution of a call whose own Forall assertions lead
// back to the same (declaration, target-type) pair — see the reentrancy
// rule in the concurrency section: the same (decl, target type,
// environment identity) triple appearing twice on the stack truncates to
// "no candidates" rather than recursing forever.
type inFlightKey struct {
	decl   *ast.FuncDecl
	target uint64
	env    any
}

// deferredAssertion is one assertion whose candidates tied on cost and so
// couldn't be committed in isolation; it is retried once every assertion on
// the call has been seen, against the full Cartesian product of every other
// deferred assertion's tied candidates.
type deferredAssertion struct {
	assn       *ast.FuncDecl
	candidates []assertionCandidate
}

// resolveAssertions runs C12 over call's Forall assertions, binding each to
// its unique satisfier. An assertion with zero candidates fails the whole
// call outright; one whose candidates tie on cost is deferred rather than
// failed immediately, and resolved against the other deferred assertions'
// ties once the full set is known (spec.md §4.12's cross-assertion
// disambiguation).
func (r *Resolver) resolveAssertions(result Interpretation, env tyenv.Env, mode Mode) (Interpretation, bool) {
	call, ok := result.Expr.(ast.CallExpr)
	if !ok || call.Forall == nil {
		return result, true
	}
	cost := result.Cost
	var deferred []deferredAssertion
	for _, assn := range call.Forall.Assertions {
		candidates := r.findAssertionCandidates(assn, env, nil)
		switch len(candidates) {
		case 0:
			return Interpretation{}, false
		case 1:
			c := candidates[0]
			c.env.BindAssertion(assn, c.expr)
			cost = cost.Add(c.cost)
			env = c.env
		default:
			best := minimalAssertionCost(candidates)
			if len(best) == 1 {
				c := best[0]
				c.env.BindAssertion(assn, c.expr)
				cost = cost.Add(c.cost)
				env = c.env
				continue
			}
			deferred = append(deferred, deferredAssertion{assn: assn, candidates: best})
		}
	}
	if len(deferred) > 0 {
		resolvedEnv, resolvedCost, ok := resolveDeferredAssertions(env, deferred)
		if !ok {
			return Interpretation{}, false
		}
		env = resolvedEnv
		cost = cost.Add(resolvedCost)
	}
	call.RetType = env.Replace(call.RetType)
	if ok := narrowAmbiguousArgs(&call, env); !ok {
		return Interpretation{}, false
	}
	return Interpretation{Expr: call, Cost: cost, Env: env}, true
}

// resolveDeferredAssertions tries every combination of the deferred groups'
// tied candidates against base, each combination isolated via tryCandidate
// so a failed or non-winning combination never leaves partial bindings
// behind. It commits the unique combination that binds every deferred
// assertion without a unification conflict; zero or more than one surviving
// combination both fail the call, matching an unresolved or genuinely
// ambiguous assertion.
func resolveDeferredAssertions(base tyenv.Env, deferred []deferredAssertion) (tyenv.Env, ast.Cost, bool) {
	var winnerEnv tyenv.Env
	var winnerCost ast.Cost
	found := 0
	for _, combo := range cartesianCandidates(deferred) {
		interp, ok := tryCandidate(base, func(candEnv tyenv.Env) (Interpretation, bool) {
			cost := ast.ZeroCost
			for i, cand := range combo {
				assn := deferred[i].assn
				for p := range cand.decl.Params {
					want := candEnv.Replace(assn.Params[p])
					if _, err := unify.Do(want, cand.decl.Params[p], &cost, candEnv); err != nil {
						return Interpretation{}, false
					}
				}
				want := candEnv.Replace(assn.Returns)
				if _, err := unify.Do(want, cand.decl.Returns, &cost, candEnv); err != nil {
					return Interpretation{}, false
				}
				candEnv.BindAssertion(assn, cand.expr)
			}
			return Interpretation{Env: candEnv, Cost: cost}, true
		})
		if !ok {
			continue
		}
		found++
		if found > 1 {
			return nil, ast.ZeroCost, false
		}
		winnerEnv, winnerCost = interp.Env, interp.Cost
	}
	if found != 1 {
		return nil, ast.ZeroCost, false
	}
	return winnerEnv, winnerCost, true
}

// cartesianCandidates expands each deferred assertion's tied candidate list
// into every combination that picks exactly one candidate per assertion.
func cartesianCandidates(deferred []deferredAssertion) [][]assertionCandidate {
	combos := [][]assertionCandidate{{}}
	for _, d := range deferred {
		var next [][]assertionCandidate
		for _, combo := range combos {
			for _, c := range d.candidates {
				grown := make([]assertionCandidate, len(combo)+1)
				copy(grown, combo)
				grown[len(combo)] = c
				next = append(next, grown)
			}
		}
		combos = next
	}
	return combos
}

// narrowAmbiguousArgs resolves any of call's arguments that resolved to an
// AmbiguousExpr (C10's equal-cost-tie merge) down to a single alternative,
// now that env holds every binding the call's assertions produced: an
// alternative survives only if its result type is still consistent with the
// parameter env expects it to fill. Fails the call if no alternative
// survives; leaves a remaining tie as an AmbiguousExpr if more than one does.
func narrowAmbiguousArgs(call *ast.CallExpr, env tyenv.Env) bool {
	for i, arg := range call.Args {
		amb, ok := arg.(ast.AmbiguousExpr)
		if !ok {
			continue
		}
		want := env.Replace(call.Decl.Params[i])
		narrowed, ok := NarrowAmbiguous(amb, func(alt ast.TypedExpr) bool {
			cost := ast.ZeroCost
			_, err := unify.Do(want, env.Replace(alt.ResultType()), &cost, env)
			return err == nil
		})
		if !ok {
			return false
		}
		call.Args[i] = narrowed
	}
	return true
}

func minimalAssertionCost(cs []assertionCandidate) []assertionCandidate {
	best := cs[0].cost
	for _, c := range cs[1:] {
		if ast.Compare(c.cost, best) < 0 {
			best = c.cost
		}
	}
	var out []assertionCandidate
	for _, c := range cs {
		if ast.Compare(c.cost, best) == 0 {
			out = append(out, c)
		}
	}
	return out
}

func (r *Resolver) findAssertionCandidates(assn *ast.FuncDecl, env tyenv.Env, guard map[inFlightKey]bool) []assertionCandidate {
	if guard == nil {
		guard = make(map[inFlightKey]bool)
	}
	key := inFlightKey{decl: assn, target: env.Replace(assn.Returns).Hash(), env: env}
	if guard[key] {
		return nil
	}
	guard[key] = true
	defer delete(guard, key)

	var out []assertionCandidate
	for _, d := range r.Funcs.AllByName(assn.Name) {
		if len(d.Params) != len(assn.Params) {
			continue
		}
		inst := d.Instantiate(r.VarSrc)
		interp, ok := tryCandidate(env, func(candEnv tyenv.Env) (Interpretation, bool) {
			cost := ast.ZeroCost
			for i := range inst.Params {
				want := candEnv.Replace(assn.Params[i])
				if _, err := unify.Do(want, inst.Params[i], &cost, candEnv); err != nil {
					return Interpretation{}, false
				}
			}
			want := candEnv.Replace(assn.Returns)
			if _, err := unify.Do(want, inst.Returns, &cost, candEnv); err != nil {
				return Interpretation{}, false
			}
			return Interpretation{Env: candEnv, Cost: cost}, true
		})
		if !ok {
			continue
		}
		out = append(out, assertionCandidate{
			decl: inst,
			expr: ast.DeclExpr{Decl: inst},
			cost: interp.Cost,
			env:  interp.Env,
		})
	}
	return out
}

// NarrowAmbiguous narrows an AmbiguousExpr to whichever alternatives pass
// assertion checking, used when a subexpression resolved ambiguously but a
// surrounding assertion can discriminate between the alternatives. Returns
// the single survivor if exactly one remains.
func NarrowAmbiguous(amb ast.AmbiguousExpr, passes func(ast.TypedExpr) bool) (ast.TypedExpr, bool) {
	var survivors []ast.TypedExpr
	for _, alt := range amb.Alternatives {
		if passes(alt) {
			survivors = append(survivors, alt)
		}
	}
	if len(survivors) == 1 {
		return survivors[0], true
	}
	if len(survivors) == 0 {
		return nil, false
	}
	return ast.AmbiguousExpr{SourceExpr: amb.SourceExpr, Type: amb.Type, Alternatives: survivors}, true
}
