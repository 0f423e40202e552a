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

type class struct {
	parent int
	bound  ast.Type
	vars   []ast.Poly
}

// Flat is a plain mutable union-find over type classes, path-compressed on
// every find the same way the teacher's union-find collapses a variable
// chain to its root as it walks it.
type Flat struct {
	classes   []class
	byVar     map[ast.Poly]int
	unifier   Unifier
	assertion map[*ast.FuncDecl]ast.TypedExpr
}

// NewFlat constructs an empty Flat environment. unifier is consulted
// whenever a bind would have to reconcile two already-bound classes; it may
// be nil if the caller is certain that will never happen (e.g. in tests
// that only ever bind each class once).
func NewFlat(unifier Unifier) *Flat {
	return &Flat{
		byVar:     make(map[ast.Poly]int),
		unifier:   unifier,
		assertion: make(map[*ast.FuncDecl]ast.TypedExpr),
	}
}

func (f *Flat) find(idx int) int {
	for f.classes[idx].parent != idx {
		f.classes[idx].parent = f.classes[f.classes[idx].parent].parent
		idx = f.classes[idx].parent
	}
	return idx
}

func (f *Flat) FindRef(p ast.Poly) (ClassRef, bool) {
	idx, ok := f.byVar[p]
	if !ok {
		return ClassRef{}, false
	}
	return ClassRef{id: f.find(idx)}, true
}

func (f *Flat) GetClass(p ast.Poly) ClassRef {
	if idx, ok := f.byVar[p]; ok {
		return ClassRef{id: f.find(idx)}
	}
	idx := len(f.classes)
	f.classes = append(f.classes, class{parent: idx, vars: []ast.Poly{p}})
	f.byVar[p] = idx
	return ClassRef{id: idx}
}

func (f *Flat) BindType(c ClassRef, t ast.Type, cost *ast.Cost) error {
	root := f.find(c.id)
	existing := f.classes[root].bound
	if existing == nil {
		if occursCheck(f, root, t) {
			return ErrOccursCheck
		}
		f.classes[root].bound = t
		return nil
	}
	if existing.Equal(t) {
		return nil
	}
	if f.unifier == nil {
		return ErrIncompatible
	}
	merged, err := f.unifier.Unify(existing, t, cost, f)
	if err != nil {
		return err
	}
	if occursCheck(f, root, merged) {
		return ErrOccursCheck
	}
	f.classes[root].bound = merged
	return nil
}

func (f *Flat) BindVar(c ClassRef, p ast.Poly, cost *ast.Cost) error {
	other := f.GetClass(p)
	return f.union(c, other, cost)
}

func (f *Flat) union(a, b ClassRef, cost *ast.Cost) error {
	ra, rb := f.find(a.id), f.find(b.id)
	if ra == rb {
		return nil
	}
	ca, cb := &f.classes[ra], &f.classes[rb]
	switch {
	case ca.bound == nil && cb.bound == nil:
		cb.parent = ra
		ca.vars = append(ca.vars, cb.vars...)
	case ca.bound != nil && cb.bound == nil:
		if occursCheck(f, rb, ca.bound) {
			return ErrOccursCheck
		}
		cb.parent = ra
		ca.vars = append(ca.vars, cb.vars...)
	case ca.bound == nil && cb.bound != nil:
		if occursCheck(f, ra, cb.bound) {
			return ErrOccursCheck
		}
		ra, rb = rb, ra
		ca, cb = cb, ca
		cb.parent = ra
		ca.vars = append(ca.vars, cb.vars...)
	default:
		if ca.bound.Equal(cb.bound) {
			cb.parent = ra
			ca.vars = append(ca.vars, cb.vars...)
			return nil
		}
		if f.unifier == nil {
			return ErrIncompatible
		}
		merged, err := f.unifier.Unify(ca.bound, cb.bound, cost, f)
		if err != nil {
			return err
		}
		if occursCheck(f, ra, merged) || occursCheck(f, rb, merged) {
			return ErrOccursCheck
		}
		cb.parent = ra
		ca.vars = append(ca.vars, cb.vars...)
		ca.bound = merged
	}
	return nil
}

func (f *Flat) Merge(other Env, cost *ast.Cost) (Env, error) {
	o, ok := other.(*Flat)
	if !ok {
		return nil, ErrIncompatible
	}
	for p, idx := range o.byVar {
		root := o.find(idx)
		oc := o.classes[root]
		mine := f.GetClass(p)
		if oc.bound != nil {
			if err := f.BindType(mine, oc.bound, cost); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func (f *Flat) FindAssertion(decl *ast.FuncDecl) (ast.TypedExpr, bool) {
	e, ok := f.assertion[decl]
	return e, ok
}

func (f *Flat) BindAssertion(decl *ast.FuncDecl, expr ast.TypedExpr) {
	f.assertion[decl] = expr
}

func (f *Flat) Replace(t ast.Type) ast.Type {
	return ast.SubstitutePoly(t, func(p ast.Poly) (ast.Type, bool) {
		idx, ok := f.byVar[p]
		if !ok {
			return p, false
		}
		bound := f.classes[f.find(idx)].bound
		if bound == nil {
			return p, false
		}
		return f.Replace(bound), true
	})
}

func (f *Flat) GetUnbound() []ClassRef {
	var out []ClassRef
	seen := make(map[int]bool)
	for _, idx := range f.byVar {
		root := f.find(idx)
		if seen[root] {
			continue
		}
		seen[root] = true
		if f.classes[root].bound == nil {
			out = append(out, ClassRef{id: root})
		}
	}
	return out
}

func (f *Flat) OccursIn(vars []ClassRef, t ast.Type) bool {
	replaced := f.Replace(t)
	for _, v := range vars {
		if occursCheck(f, v.id, replaced) {
			return true
		}
	}
	return false
}

// occursCheck reports whether t contains, directly or through the bound
// chain of any class it mentions, a Poly belonging to class root.
func occursCheck(f *Flat, root int, t ast.Type) bool {
	switch v := t.(type) {
	case ast.Poly:
		idx, ok := f.byVar[v]
		if !ok {
			return false
		}
		r := f.find(idx)
		if r == root {
			return true
		}
		if b := f.classes[r].bound; b != nil {
			return occursCheck(f, root, b)
		}
		return false
	case ast.Named:
		for _, p := range v.Params {
			if occursCheck(f, root, p) {
				return true
			}
		}
		return false
	case ast.Func:
		for _, p := range v.Params {
			if occursCheck(f, root, p) {
				return true
			}
		}
		return occursCheck(f, root, v.Returns)
	case ast.Tuple:
		for _, e := range v.Types {
			if occursCheck(f, root, e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
