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

// pnode is one immutable link in a persistent environment's history chain:
// it stores only the class/variable/assertion entries that differ from its
// parent, so cloning an environment (to try a candidate branch, then
// discard or keep it) is just copying a pointer.
type pnode struct {
	parent     *pnode
	classes    map[int]class
	byVar      map[ast.Poly]int
	assertion  map[*ast.FuncDecl]ast.TypedExpr
	numClasses int
	unifier    Unifier
}

func newPnode(parent *pnode) *pnode {
	n := &pnode{
		parent:    parent,
		classes:   make(map[int]class),
		byVar:     make(map[ast.Poly]int),
		assertion: make(map[*ast.FuncDecl]ast.TypedExpr),
	}
	if parent != nil {
		n.numClasses = parent.numClasses
		n.unifier = parent.unifier
	}
	return n
}

func (n *pnode) getClass(idx int) class {
	for cur := n; cur != nil; cur = cur.parent {
		if c, ok := cur.classes[idx]; ok {
			return c
		}
	}
	return class{parent: idx}
}

func (n *pnode) getVar(p ast.Poly) (int, bool) {
	for cur := n; cur != nil; cur = cur.parent {
		if idx, ok := cur.byVar[p]; ok {
			return idx, true
		}
	}
	return 0, false
}

func (n *pnode) getAssertion(decl *ast.FuncDecl) (ast.TypedExpr, bool) {
	for cur := n; cur != nil; cur = cur.parent {
		if e, ok := cur.assertion[decl]; ok {
			return e, true
		}
	}
	return nil, false
}

func (n *pnode) find(idx int) int {
	for {
		c := n.getClass(idx)
		if c.parent == idx {
			return idx
		}
		idx = c.parent
	}
}

func (n *pnode) allVars() map[ast.Poly]int {
	out := make(map[ast.Poly]int)
	var chain []*pnode
	for cur := n; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for p, idx := range chain[i].byVar {
			out[p] = idx
		}
	}
	return out
}

// Persistent is a handle into a persistent environment's history chain.
// Mutating methods advance the handle to point at a freshly path-copied
// node; Clone copies the handle (cheaply — it shares the same chain) so the
// caller can explore one branch and fall back to the other.
type Persistent struct {
	node *pnode
}

// NewPersistent constructs an empty Persistent environment.
func NewPersistent(unifier Unifier) *Persistent {
	n := newPnode(nil)
	n.unifier = unifier
	return &Persistent{node: n}
}

// Clone returns an independent handle sharing the current history chain:
// mutating the clone never affects p, and vice versa.
func (p *Persistent) Clone() *Persistent {
	return &Persistent{node: p.node}
}

// Reroot collapses the entire history chain into a single flat node and
// repoints p at it, so that subsequent reads on p (and anything cloned from
// it afterwards) no longer pay for walking the chain. Other handles cloned
// before Reroot keep seeing the pre-reroot chain; they are unaffected.
func (p *Persistent) Reroot() {
	flat := newPnode(nil)
	flat.unifier = p.node.unifier
	flat.numClasses = p.node.numClasses
	for i := 0; i < p.node.numClasses; i++ {
		flat.classes[i] = p.node.getClass(i)
	}
	for poly, idx := range p.node.allVars() {
		flat.byVar[poly] = idx
	}
	for cur := p.node; cur != nil; cur = cur.parent {
		for decl, expr := range cur.assertion {
			if _, ok := flat.assertion[decl]; !ok {
				flat.assertion[decl] = expr
			}
		}
	}
	p.node = flat
}

func (p *Persistent) FindRef(poly ast.Poly) (ClassRef, bool) {
	idx, ok := p.node.getVar(poly)
	if !ok {
		return ClassRef{}, false
	}
	return ClassRef{id: p.node.find(idx)}, true
}

func (p *Persistent) GetClass(poly ast.Poly) ClassRef {
	if idx, ok := p.node.getVar(poly); ok {
		return ClassRef{id: p.node.find(idx)}
	}
	idx := p.node.numClasses
	next := newPnode(p.node)
	next.numClasses = idx + 1
	next.classes[idx] = class{parent: idx, vars: []ast.Poly{poly}}
	next.byVar[poly] = idx
	p.node = next
	return ClassRef{id: idx}
}

func (p *Persistent) BindType(c ClassRef, t ast.Type, cost *ast.Cost) error {
	root := p.node.find(c.id)
	existing := p.node.getClass(root)
	if existing.bound == nil {
		if persistentOccursCheck(p.node, root, t) {
			return ErrOccursCheck
		}
		next := newPnode(p.node)
		nc := existing
		nc.bound = t
		next.classes[root] = nc
		p.node = next
		return nil
	}
	if existing.bound.Equal(t) {
		return nil
	}
	if p.node.unifier == nil {
		return ErrIncompatible
	}
	merged, err := p.node.unifier.Unify(existing.bound, t, cost, p)
	if err != nil {
		return err
	}
	if persistentOccursCheck(p.node, root, merged) {
		return ErrOccursCheck
	}
	next := newPnode(p.node)
	nc := p.node.getClass(root)
	nc.bound = merged
	next.classes[root] = nc
	p.node = next
	return nil
}

func (p *Persistent) BindVar(c ClassRef, poly ast.Poly, cost *ast.Cost) error {
	other := p.GetClass(poly)
	return p.union(c, other, cost)
}

func (p *Persistent) union(a, b ClassRef, cost *ast.Cost) error {
	ra, rb := p.node.find(a.id), p.node.find(b.id)
	if ra == rb {
		return nil
	}
	ca, cb := p.node.getClass(ra), p.node.getClass(rb)
	switch {
	case ca.bound == nil && cb.bound == nil:
		// keep ra as root
	case ca.bound != nil && cb.bound == nil:
		// keep ra as root
	case ca.bound == nil && cb.bound != nil:
		ra, rb = rb, ra
		ca, cb = cb, ca
	default:
		if !ca.bound.Equal(cb.bound) {
			if p.node.unifier == nil {
				return ErrIncompatible
			}
			merged, err := p.node.unifier.Unify(ca.bound, cb.bound, cost, p)
			if err != nil {
				return err
			}
			ca.bound = merged
		}
	}
	if ca.bound != nil && (persistentOccursCheck(p.node, ra, ca.bound) || persistentOccursCheck(p.node, rb, ca.bound)) {
		return ErrOccursCheck
	}
	next := newPnode(p.node)
	cb.parent = ra
	ca.vars = append(append([]ast.Poly(nil), ca.vars...), cb.vars...)
	next.classes[ra] = ca
	next.classes[rb] = cb
	p.node = next
	return nil
}

func (p *Persistent) Merge(other Env, cost *ast.Cost) (Env, error) {
	o, ok := other.(*Persistent)
	if !ok {
		return nil, ErrIncompatible
	}
	result := p.Clone()
	for poly, idx := range o.node.allVars() {
		root := o.node.find(idx)
		oc := o.node.getClass(root)
		mine := result.GetClass(poly)
		if oc.bound != nil {
			if err := result.BindType(mine, oc.bound, cost); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

func (p *Persistent) FindAssertion(decl *ast.FuncDecl) (ast.TypedExpr, bool) {
	return p.node.getAssertion(decl)
}

func (p *Persistent) BindAssertion(decl *ast.FuncDecl, expr ast.TypedExpr) {
	next := newPnode(p.node)
	next.assertion[decl] = expr
	p.node = next
}

func (p *Persistent) Replace(t ast.Type) ast.Type {
	return ast.SubstitutePoly(t, func(poly ast.Poly) (ast.Type, bool) {
		idx, ok := p.node.getVar(poly)
		if !ok {
			return poly, false
		}
		bound := p.node.getClass(p.node.find(idx)).bound
		if bound == nil {
			return poly, false
		}
		return p.Replace(bound), true
	})
}

func (p *Persistent) GetUnbound() []ClassRef {
	var out []ClassRef
	seen := make(map[int]bool)
	for _, idx := range p.node.allVars() {
		root := p.node.find(idx)
		if seen[root] {
			continue
		}
		seen[root] = true
		if p.node.getClass(root).bound == nil {
			out = append(out, ClassRef{id: root})
		}
	}
	return out
}

func (p *Persistent) OccursIn(vars []ClassRef, t ast.Type) bool {
	replaced := p.Replace(t)
	for _, v := range vars {
		if persistentOccursCheck(p.node, v.id, replaced) {
			return true
		}
	}
	return false
}

func persistentOccursCheck(n *pnode, root int, t ast.Type) bool {
	switch v := t.(type) {
	case ast.Poly:
		idx, ok := n.getVar(v)
		if !ok {
			return false
		}
		r := n.find(idx)
		if r == root {
			return true
		}
		if b := n.getClass(r).bound; b != nil {
			return persistentOccursCheck(n, root, b)
		}
		return false
	case ast.Named:
		for _, c := range v.Params {
			if persistentOccursCheck(n, root, c) {
				return true
			}
		}
		return false
	case ast.Func:
		for _, c := range v.Params {
			if persistentOccursCheck(n, root, c) {
				return true
			}
		}
		return persistentOccursCheck(n, root, v.Returns)
	case ast.Tuple:
		for _, e := range v.Types {
			if persistentOccursCheck(n, root, e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
