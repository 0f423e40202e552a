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

package tyenv

import "github.com/cforall/resolv-proto/ast"

// Generational wraps a Flat environment with a mark/reset checkpoint stack,
// for the resolver's backtracking assertion search: try a candidate
// binding, and if it doesn't pan out, roll the whole environment back to
// how it looked before trying. Unlike Persistent, there is exactly one live
// environment at a time — only its history is kept, and only as far back
// as the oldest open mark.
type Generational struct {
	flat  *Flat
	marks []snapshot
}

type snapshot struct {
	classes   []class
	byVar     map[ast.Poly]int
	assertion map[*ast.FuncDecl]ast.TypedExpr
}

// NewGenerational constructs an empty Generational environment.
func NewGenerational(unifier Unifier) *Generational {
	return &Generational{flat: NewFlat(unifier)}
}

func (g *Generational) snapshot() snapshot {
	classes := make([]class, len(g.flat.classes))
	for i, c := range g.flat.classes {
		vars := make([]ast.Poly, len(c.vars))
		copy(vars, c.vars)
		classes[i] = class{parent: c.parent, bound: c.bound, vars: vars}
	}
	byVar := make(map[ast.Poly]int, len(g.flat.byVar))
	for k, v := range g.flat.byVar {
		byVar[k] = v
	}
	assertion := make(map[*ast.FuncDecl]ast.TypedExpr, len(g.flat.assertion))
	for k, v := range g.flat.assertion {
		assertion[k] = v
	}
	return snapshot{classes: classes, byVar: byVar, assertion: assertion}
}

// Mark returns a token identifying the environment's current state, to be
// passed to Reset later.
func (g *Generational) Mark() int {
	g.marks = append(g.marks, g.snapshot())
	return len(g.marks) - 1
}

// Reset restores the environment to the state it had when Mark returned
// token, discarding every mark taken since.
func (g *Generational) Reset(token int) {
	s := g.marks[token]
	g.flat.classes = s.classes
	g.flat.byVar = s.byVar
	g.flat.assertion = s.assertion
	g.marks = g.marks[:token]
}

// Clone returns an independent copy of g's current bindings: mutating the
// clone, or rolling g back via Reset, never affects the other. Used by the
// resolver to keep a successful candidate's environment once g itself rolls
// back to try the next one (see resolve.resolveFunc).
func (g *Generational) Clone() *Generational {
	s := g.snapshot()
	clone := NewGenerational(g.flat.unifier)
	clone.flat.classes = s.classes
	clone.flat.byVar = s.byVar
	clone.flat.assertion = s.assertion
	return clone
}

func (g *Generational) FindRef(p ast.Poly) (ClassRef, bool) { return g.flat.FindRef(p) }
func (g *Generational) GetClass(p ast.Poly) ClassRef        { return g.flat.GetClass(p) }
func (g *Generational) BindType(c ClassRef, t ast.Type, cost *ast.Cost) error {
	return g.flat.BindType(c, t, cost)
}
func (g *Generational) BindVar(c ClassRef, p ast.Poly, cost *ast.Cost) error {
	return g.flat.BindVar(c, p, cost)
}
func (g *Generational) Merge(other Env, cost *ast.Cost) (Env, error) {
	o, ok := other.(*Generational)
	if !ok {
		return nil, ErrIncompatible
	}
	if _, err := g.flat.Merge(o.flat, cost); err != nil {
		return nil, err
	}
	return g, nil
}
func (g *Generational) FindAssertion(decl *ast.FuncDecl) (ast.TypedExpr, bool) {
	return g.flat.FindAssertion(decl)
}
func (g *Generational) BindAssertion(decl *ast.FuncDecl, expr ast.TypedExpr) {
	g.flat.BindAssertion(decl, expr)
}
func (g *Generational) Replace(t ast.Type) ast.Type   { return g.flat.Replace(t) }
func (g *Generational) GetUnbound() []ClassRef        { return g.flat.GetUnbound() }
func (g *Generational) OccursIn(vars []ClassRef, t ast.Type) bool {
	return g.flat.OccursIn(vars, t)
}
