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

// Package unify implements the unifier (C6): given two types, finds their
// most specific common type, binding type variables in an Environment as it
// goes and accumulating Cost.Poly for each variable newly bound to a type
// and Cost.Vars for each pair of variables unioned. It satisfies
// tyenv.Unifier, so an Environment can call back into it when a bind has to
// reconcile two already-bound classes without this package importing tyenv
// in the other direction.
package unify

import (
	"errors"

	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/tyenv"
)

// ErrNoUnification is returned when two types have no common specialization
// under the given environment.
var ErrNoUnification = errors.New("unify: no common type")

// Unifier implements tyenv.Unifier.
type Unifier struct{}

// New constructs a Unifier. It holds no state; a single instance can be
// shared by every environment in a resolver run.
func New() *Unifier { return &Unifier{} }

// Unify is the tyenv.Unifier entry point.
func (Unifier) Unify(a, b ast.Type, cost *ast.Cost, env tyenv.Env) (ast.Type, error) {
	return unify(a, b, cost, env)
}

// Do is the direct entry point for callers (the resolver) that already hold
// an Environment and don't need the tyenv.Unifier indirection.
func Do(a, b ast.Type, cost *ast.Cost, env tyenv.Env) (ast.Type, error) {
	return unify(a, b, cost, env)
}

func unify(a, b ast.Type, cost *ast.Cost, env tyenv.Env) (ast.Type, error) {
	if ap, ok := a.(ast.Poly); ok {
		return unifyVar(ap, b, cost, env)
	}
	if bp, ok := b.(ast.Poly); ok {
		return unifyVar(bp, a, cost, env)
	}

	switch av := a.(type) {
	case ast.Conc:
		if bv, ok := b.(ast.Conc); ok && av.Equal(bv) {
			return av, nil
		}
		return nil, ErrNoUnification

	case ast.Void:
		if _, ok := b.(ast.Void); ok {
			return av, nil
		}
		return nil, ErrNoUnification

	case ast.Named:
		bv, ok := b.(ast.Named)
		if !ok || bv.Name != av.Name || len(bv.Params) != len(av.Params) {
			return nil, ErrNoUnification
		}
		params := make([]ast.Type, len(av.Params))
		for i := range av.Params {
			u, err := unify(av.Params[i], bv.Params[i], cost, env)
			if err != nil {
				return nil, err
			}
			params[i] = u
		}
		return ast.Named{Name: av.Name, Params: params}, nil

	case ast.Func:
		bv, ok := b.(ast.Func)
		if !ok || len(bv.Params) != len(av.Params) {
			return nil, ErrNoUnification
		}
		params := make([]ast.Type, len(av.Params))
		for i := range av.Params {
			u, err := unify(av.Params[i], bv.Params[i], cost, env)
			if err != nil {
				return nil, err
			}
			params[i] = u
		}
		ret, err := unify(av.Returns, bv.Returns, cost, env)
		if err != nil {
			return nil, err
		}
		return ast.Func{Params: params, Returns: ret}, nil

	case ast.Tuple:
		bv, ok := b.(ast.Tuple)
		if !ok || len(bv.Types) != len(av.Types) {
			return nil, ErrNoUnification
		}
		els := make([]ast.Type, len(av.Types))
		for i := range av.Types {
			u, err := unify(av.Types[i], bv.Types[i], cost, env)
			if err != nil {
				return nil, err
			}
			els[i] = u
		}
		return ast.FromList(els), nil

	default:
		return nil, ErrNoUnification
	}
}

func unifyVar(p ast.Poly, other ast.Type, cost *ast.Cost, env tyenv.Env) (ast.Type, error) {
	class := env.GetClass(p)

	if op, ok := other.(ast.Poly); ok {
		if err := env.BindVar(class, op, cost); err != nil {
			return nil, err
		}
		*cost = cost.Add(ast.CostFromVars(1))
		if bound := env.Replace(p); !bound.Equal(p) {
			return bound, nil
		}
		return p, nil
	}

	// An already-bound variable unifies through its bound; only a new
	// binding is charged.
	if bound := env.Replace(p); !bound.Equal(p) {
		return unify(bound, other, cost, env)
	}
	if err := env.BindType(class, other, cost); err != nil {
		return nil, err
	}
	*cost = cost.Add(ast.CostFromPoly(1))
	return env.Replace(p), nil
}
