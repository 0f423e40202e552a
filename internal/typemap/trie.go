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

// Package typemap implements the type-indexed lookup structure (TypeMap): a
// trie keyed by a type's flattened atom sequence (ast.Flatten), supporting
// exact lookup, prefix-subtree lookup, polymorphism-aware iteration (a
// stored key may have Poly where the query has a concrete subtree), and
// general pattern matching (either side may have Poly).
//
// The same trie serves two shapes of key: a single type (conversion graph
// nodes, the function table's return-type index, conversion-expansion's
// per-result-type map) and an ordered list of types (a function's parameter
// list, used by bottom-up resolution and argument-pack matching) — both
// reduce to an atom sequence via ast.Flatten/ast.FlattenList, and a Tuple
// splicing seamlessly into a parameter list is what lets a single tuple
// argument satisfy several scalar parameters (the "ArgPack" mechanism).
package typemap

import "github.com/cforall/resolv-proto/ast"

// node is one trie node: an optional stored leaf plus a labelled edge to a
// child node per distinct next atom.
type node[V any] struct {
	leaf     *leafEntry[V]
	children map[ast.Key]*node[V]
	polyKeys []ast.Key // subset of children's keys that are AtomPoly, for fast iteration
	arity    int       // Arity of the atom whose edge leads to this node
}

type leafEntry[V any] struct {
	key  []ast.Atom // the exact flattened key this leaf was stored under
	orig []ast.Type // the original (unflattened) type list, for display/rebuild
	val  V
}

func newNode[V any]() *node[V] { return &node[V]{} }

// TypeMap maps a type (or ordered list of types) to a value of type V.
type TypeMap[V any] struct {
	root *node[V]
}

// New constructs an empty TypeMap.
func New[V any]() *TypeMap[V] {
	return &TypeMap[V]{root: newNode[V]()}
}

func descend[V any](n *node[V], a ast.Atom, create bool) *node[V] {
	k := a.Key()
	if n.children == nil {
		if !create {
			return nil
		}
		n.children = make(map[ast.Key]*node[V])
	}
	child, ok := n.children[k]
	if !ok {
		if !create {
			return nil
		}
		child = newNode[V]()
		child.arity = a.Arity
		n.children[k] = child
		if k.IsPolyKey() {
			n.polyKeys = append(n.polyKeys, k)
		}
	}
	return child
}

// Insert stores val under the key formed by flattening ts in order,
// overwriting any previous value at that exact key.
func (m *TypeMap[V]) Insert(ts []ast.Type, val V) {
	atoms := ast.FlattenList(ts)
	cur := m.root
	for _, a := range atoms {
		cur = descend(cur, a, true)
	}
	cur.leaf = &leafEntry[V]{key: atoms, orig: ts, val: val}
}

// InsertType is a convenience wrapper for single-type keys.
func (m *TypeMap[V]) InsertType(t ast.Type, val V) { m.Insert([]ast.Type{t}, val) }

// Get performs an exact lookup of ts's flattened key.
func (m *TypeMap[V]) Get(ts []ast.Type) (V, bool) {
	atoms := ast.FlattenList(ts)
	cur := m.root
	for _, a := range atoms {
		cur = descend(cur, a, false)
		if cur == nil {
			var zero V
			return zero, false
		}
	}
	if cur.leaf == nil {
		var zero V
		return zero, false
	}
	return cur.leaf.val, true
}

// GetType is a convenience wrapper for single-type keys.
func (m *TypeMap[V]) GetType(t ast.Type) (V, bool) { return m.Get([]ast.Type{t}) }

// Subtree returns the TypeMap rooted at the node reached by ts's flattened
// key prefix (the "prefix lookup" operation), or nil if no inserted key
// starts with that prefix.
func (m *TypeMap[V]) Subtree(ts []ast.Type) *TypeMap[V] {
	atoms := ast.FlattenList(ts)
	cur := m.root
	for _, a := range atoms {
		cur = descend(cur, a, false)
		if cur == nil {
			return nil
		}
	}
	return &TypeMap[V]{root: cur}
}

// Entry pairs a stored key (in its original, unflattened form) with its
// value, as produced by the iteration methods.
type Entry[V any] struct {
	Types []ast.Type
	Value V
}

// All visits every leaf exactly once.
func (m *TypeMap[V]) All(yield func(Entry[V]) bool) {
	m.root.all(yield)
}

func (n *node[V]) all(yield func(Entry[V]) bool) bool {
	if n.leaf != nil {
		if !yield(Entry[V]{Types: n.leaf.orig, Value: n.leaf.val}) {
			return false
		}
	}
	for _, child := range n.children {
		if !child.all(yield) {
			return false
		}
	}
	return true
}

// skipSubtree walks down from n, which owns `remaining` more child subtrees
// before its own subtree is complete (n.arity for a node reached fresh),
// calling visit once for each node exactly at the far edge of that subtree —
// the point a query atom standing in for the whole thing would resume
// matching from. Mirrors subtreeAtomLen's counting, but over trie structure
// instead of a flattened atom slice, since the stored side's arities aren't
// recoverable from the query alone.
func (n *node[V]) skipSubtree(remaining int, visit func(*node[V]) bool) bool {
	if remaining == 0 {
		return visit(n)
	}
	for _, child := range n.children {
		if !child.skipSubtree(remaining-1+child.arity, visit) {
			return false
		}
	}
	return true
}

// subtreeAtomLen returns the number of atoms, starting at pos, that belong
// to the subtree rooted at atoms[pos] (1 plus its Arity children, each
// recursively counted).
func subtreeAtomLen(atoms []ast.Atom, pos int) int {
	n := atoms[pos].Arity
	end := pos + 1
	for i := 0; i < n; i++ {
		end += subtreeAtomLen(atoms, end)
	}
	return end - pos
}

// PolyIter iterates every stored key whose atom sequence is identical to
// target's except that, at zero or more positions, the stored key has a
// Poly atom where target has a (possibly multi-atom) concrete subtree. This
// is the bottom-up "from a concrete argument type, find polymorphic
// declarations that could bind it" query.
func (m *TypeMap[V]) PolyIter(target []ast.Type, yield func(Entry[V]) bool) {
	atoms := ast.FlattenList(target)
	m.root.polyIter(atoms, 0, yield)
}

func (n *node[V]) polyIter(atoms []ast.Atom, pos int, yield func(Entry[V]) bool) bool {
	if pos == len(atoms) {
		if n.leaf != nil {
			return yield(Entry[V]{Types: n.leaf.orig, Value: n.leaf.val})
		}
		return true
	}
	// Exact-kind continuation.
	if child := n.children[atoms[pos].Key()]; child != nil {
		if !child.polyIter(atoms, pos+1, yield) {
			return false
		}
	}
	// Poly-wildcard continuation: the whole subtree at pos is consumed by
	// one stored Poly atom.
	if len(n.polyKeys) > 0 {
		skip := pos + subtreeAtomLen(atoms, pos)
		for _, pk := range n.polyKeys {
			child := n.children[pk]
			if child == nil {
				continue
			}
			if !child.polyIter(atoms, skip, yield) {
				return false
			}
		}
	}
	return true
}

// MatchIter iterates every stored key that is pattern-compatible with
// target: at each position, either side may carry a Poly atom standing in
// for whatever subtree the other side has there, respecting atom arity (a
// Named atom of arity k consumes the next k child type-trees).
func (m *TypeMap[V]) MatchIter(target []ast.Type, yield func(Entry[V]) bool) {
	atoms := ast.FlattenList(target)
	m.root.matchIter(atoms, 0, yield)
}

func (n *node[V]) matchIter(atoms []ast.Atom, pos int, yield func(Entry[V]) bool) bool {
	if pos == len(atoms) {
		if n.leaf != nil {
			return yield(Entry[V]{Types: n.leaf.orig, Value: n.leaf.val})
		}
		return true
	}
	queryIsPoly := atoms[pos].Key().IsPolyKey()

	if queryIsPoly {
		// The query's Poly atom can match any single stored subtree,
		// consuming that whole subtree (arity-driven, on the stored side)
		// and advancing one position (the Poly itself has no children) on
		// the query side.
		for _, child := range n.children {
			if !child.skipSubtree(child.arity, func(after *node[V]) bool {
				return after.matchIter(atoms, pos+1, yield)
			}) {
				return false
			}
		}
		return true
	}

	if child := n.children[atoms[pos].Key()]; child != nil {
		if !child.matchIter(atoms, pos+1, yield) {
			return false
		}
	}
	if len(n.polyKeys) > 0 {
		skip := pos + subtreeAtomLen(atoms, pos)
		for _, pk := range n.polyKeys {
			child := n.children[pk]
			if child == nil {
				continue
			}
			if !child.matchIter(atoms, skip, yield) {
				return false
			}
		}
	}
	return true
}
