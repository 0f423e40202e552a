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
)

// Effect is the reason a top-level resolution failed to produce a single,
// fully-bound interpretation.
type Effect int

const (
	// EffectNone means resolution succeeded with a single interpretation.
	EffectNone Effect = iota
	// EffectInvalid: the expression yielded no interpretation at all.
	EffectInvalid
	// EffectAmbiguous: multiple equal-cost best interpretations survived.
	EffectAmbiguous
	// EffectUnbound: the best interpretation still has unbound type-class
	// variables.
	EffectUnbound
)

func (e Effect) String() string {
	switch e {
	case EffectInvalid:
		return "invalid"
	case EffectAmbiguous:
		return "ambiguous"
	case EffectUnbound:
		return "unbound"
	default:
		return "none"
	}
}

// Result is what Operator returns: on EffectNone, Interp is the unique best
// interpretation; on EffectAmbiguous, Alternatives holds every tied
// candidate; on EffectUnbound, Unbound holds the offending classes.
type Result struct {
	Effect       Effect
	Interp       Interpretation
	Alternatives []Interpretation
	Unbound      []interface{}
}

// Operator is the top-level entry point (C11's operator(expr)): resolve
// expr with no required type, under the given mode, and reduce the
// candidate list to a single best interpretation or one of the three
// top-level effects.
func (r *Resolver) Operator(expr ast.Expr, env tyenv.Env, mode Mode) Result {
	interps, err := r.Resolve(expr, nil, env, mode)
	if err != nil || len(interps) == 0 {
		return Result{Effect: EffectInvalid}
	}
	best := minimalCost(interps)
	if len(best) > 1 {
		return Result{Effect: EffectAmbiguous, Alternatives: best}
	}
	chosen := best[0]
	if amb, ok := chosen.Expr.(ast.AmbiguousExpr); ok {
		alts := make([]Interpretation, len(amb.Alternatives))
		for i, alt := range amb.Alternatives {
			alts[i] = Interpretation{Expr: alt, Cost: chosen.Cost, Env: chosen.Env}
		}
		return Result{Effect: EffectAmbiguous, Alternatives: alts}
	}
	if unbound := chosen.Env.GetUnbound(); len(unbound) > 0 {
		ifaces := make([]interface{}, len(unbound))
		for i, u := range unbound {
			ifaces[i] = u
		}
		return Result{Effect: EffectUnbound, Interp: chosen, Unbound: ifaces}
	}
	return Result{Effect: EffectNone, Interp: chosen}
}
