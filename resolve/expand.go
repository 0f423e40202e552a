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
	"github.com/cforall/resolv-proto/internal/conversion"
	"github.com/cforall/resolv-proto/internal/tyenv"
	"github.com/cforall/resolv-proto/internal/typemap"
)

// Expand performs conversion expansion (C10): given the full set of
// candidate interpretations of a subexpression, returns, for each distinct
// result type reached, the single cheapest interpretation producing it (or
// an AmbiguousExpr merging every equal-cost tie).
func Expand(interps []Interpretation, convs *conversion.Graph) []Interpretation {
	byType := typemap.New[Interpretation]()
	for _, i := range interps {
		setOrUpdate(byType, i)
	}

	// Direct conversions from each result already reached.
	var base []Interpretation
	byType.All(func(e typemap.Entry[Interpretation]) bool {
		base = append(base, e.Value)
		return true
	})
	for _, i := range base {
		switch i.Expr.ResultType().(type) {
		case ast.Conc, ast.Named:
			for _, edge := range convs.FindFrom(i.Expr.ResultType()) {
				setOrUpdate(byType, Interpretation{
					Expr: ast.CastExpr{Arg: i.Expr, Target: edge.To},
					Cost: i.Cost.Add(edge.Cost),
					Env:  i.Env,
				})
			}
		case ast.Tuple:
			expandTupleConversions(byType, i, convs)
		}
	}

	var out []Interpretation
	byType.All(func(e typemap.Entry[Interpretation]) bool {
		out = append(out, e.Value)
		return true
	})
	return out
}

// expandTupleConversions enumerates every combination of element-wise
// conversions (including leaving an element as-is) for a tuple-typed
// interpretation, building a TupleExpr per combination.
func expandTupleConversions(byType *typemap.TypeMap[Interpretation], i Interpretation, convs *conversion.Graph) {
	tup, ok := i.Expr.(ast.TupleExpr)
	if !ok {
		// The tuple came from elsewhere (e.g. a CallExpr); treat each
		// element as a TupleElementExpr projection so the same combinatorics
		// still apply.
		rt := i.Expr.ResultType().(ast.Tuple)
		els := make([]ast.TypedExpr, len(rt.Types))
		for idx := range rt.Types {
			els[idx] = ast.TupleElementExpr{Of: i.Expr, Index: idx}
		}
		tup = ast.TupleExpr{Els: els}
	}

	type choice struct {
		expr ast.TypedExpr
		cost ast.Cost
	}
	choices := make([][]choice, len(tup.Els))
	for idx, el := range tup.Els {
		opts := []choice{{expr: el, cost: ast.ZeroCost}}
		switch el.ResultType().(type) {
		case ast.Conc, ast.Named:
			for _, edge := range convs.FindFrom(el.ResultType()) {
				opts = append(opts, choice{
					expr: ast.CastExpr{Arg: el, Target: edge.To},
					cost: edge.Cost,
				})
			}
		}
		choices[idx] = opts
	}

	var combos func(idx int, els []ast.TypedExpr, cost ast.Cost)
	combos = func(idx int, els []ast.TypedExpr, cost ast.Cost) {
		if idx == len(choices) {
			result := make([]ast.TypedExpr, len(els))
			copy(result, els)
			setOrUpdate(byType, Interpretation{
				Expr: ast.TupleExpr{Els: result},
				Cost: i.Cost.Add(cost),
				Env:  i.Env,
			})
			return
		}
		for _, c := range choices[idx] {
			combos(idx+1, append(els, c.expr), cost.Add(c.cost))
		}
	}
	combos(0, nil, ast.ZeroCost)
}

// setOrUpdate inserts i into byType, keyed by its result type: strictly
// cheaper replaces, equal cost merges into (or extends) an AmbiguousExpr,
// strictly worse is dropped.
func setOrUpdate(byType *typemap.TypeMap[Interpretation], i Interpretation) {
	t := i.Expr.ResultType()
	existing, ok := byType.GetType(t)
	if !ok {
		byType.InsertType(t, i)
		return
	}
	switch ast.Compare(i.Cost, existing.Cost) {
	case -1:
		byType.InsertType(t, i)
	case 0:
		byType.InsertType(t, Interpretation{
			Expr: mergeAmbiguous(t, existing.Expr, i.Expr),
			Cost: existing.Cost,
			Env:  existing.Env,
		})
	default:
		// strictly worse; dropped
	}
}

func mergeAmbiguous(t ast.Type, a, b ast.TypedExpr) ast.TypedExpr {
	var alts []ast.TypedExpr
	if am, ok := a.(ast.AmbiguousExpr); ok {
		alts = append(alts, am.Alternatives...)
	} else {
		alts = append(alts, a)
	}
	if bm, ok := b.(ast.AmbiguousExpr); ok {
		alts = append(alts, bm.Alternatives...)
	} else {
		alts = append(alts, b)
	}
	return ast.AmbiguousExpr{Type: t, Alternatives: alts}
}

// ConvertTo performs a targeted conversion of i to target, trying in order:
// exact match, a direct conversion-graph edge, binding target (if it is an
// unbound Poly) to i's result type, tuple truncation, and element-wise
// tuple conversion for a matched-length tuple target.
func ConvertTo(target ast.Type, i Interpretation, env tyenv.Env, convs *conversion.Graph, cost *ast.Cost) (Interpretation, bool) {
	rt := i.Expr.ResultType()
	if rt.Equal(target) {
		return i, true
	}

	if edge, ok := convs.FindBetween(rt, target); ok {
		*cost = cost.Add(edge.Cost)
		return Interpretation{Expr: ast.CastExpr{Arg: i.Expr, Target: target}, Cost: i.Cost.Add(edge.Cost), Env: i.Env}, true
	}

	if p, ok := target.(ast.Poly); ok {
		class := env.GetClass(p)
		if err := env.BindType(class, rt, cost); err != nil {
			return Interpretation{}, false
		}
		return i, true
	}

	if srcTup, ok := rt.(ast.Tuple); ok {
		if targetTup, ok := target.(ast.Tuple); ok {
			if len(targetTup.Types) <= len(srcTup.Types) {
				n := len(targetTup.Types)
				if n == 0 {
					return Interpretation{Expr: ast.TruncateExpr{Arg: i.Expr, Target: ast.Void{}}, Cost: i.Cost, Env: i.Env}, true
				}
				els := make([]ast.TypedExpr, n)
				totalCost := i.Cost
				for idx := 0; idx < n; idx++ {
					proj := ast.TupleElementExpr{Of: i.Expr, Index: idx}
					conv, ok := ConvertTo(targetTup.Types[idx], Interpretation{Expr: proj, Cost: ast.ZeroCost, Env: i.Env}, env, convs, cost)
					if !ok {
						return Interpretation{}, false
					}
					els[idx] = conv.Expr
					totalCost = totalCost.Add(conv.Cost)
				}
				if n == len(srcTup.Types) {
					return Interpretation{Expr: ast.TupleExpr{Els: els}, Cost: totalCost, Env: i.Env}, true
				}
				trunc := ast.TruncateExpr{Arg: ast.TupleExpr{Els: els}, Target: target}
				return Interpretation{Expr: trunc, Cost: totalCost, Env: i.Env}, true
			}
		}
		if _, isVoid := target.(ast.Void); isVoid {
			return Interpretation{Expr: ast.TruncateExpr{Arg: i.Expr, Target: ast.Void{}}, Cost: i.Cost, Env: i.Env}, true
		}
	}

	return Interpretation{}, false
}
