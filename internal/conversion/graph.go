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

// Package conversion implements the conversion graph (C4): a directed,
// weighted graph over concrete types, used by the resolver to find implicit
// casts between a result type and a target type. Nodes are types, indexed
// through a typemap.TypeMap so polymorphic and pattern-based lookups share
// the same trie machinery as every other type-keyed structure in this
// module.
package conversion

import (
	"sort"

	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/typemap"
)

// Edge is one directed conversion: From -(Cost)-> To.
type Edge struct {
	From ast.Type
	To   ast.Type
	Cost ast.Cost
}

type node struct {
	typ tp
	out []Edge // sorted ascending by Cost
	in  []Edge // sorted ascending by Cost
}

type tp = ast.Type

// Graph is the conversion graph. The zero value is not usable; use New.
type Graph struct {
	nodes *typemap.TypeMap[*node]
}

// New builds an empty conversion graph.
func New() *Graph {
	return &Graph{nodes: typemap.New[*node]()}
}

func (g *Graph) nodeFor(t ast.Type, create bool) *node {
	if n, ok := g.nodes.GetType(t); ok {
		return n
	}
	if !create {
		return nil
	}
	n := &node{typ: t}
	g.nodes.InsertType(t, n)
	return n
}

// AddType registers t as a node if it is not already present. It creates no
// edges; edges come only from MakeConversions and AddEdge.
func (g *Graph) AddType(t ast.Type) {
	g.nodeFor(t, true)
}

func sortEdges(es []Edge) {
	sort.SliceStable(es, func(i, j int) bool { return ast.Compare(es[i].Cost, es[j].Cost) < 0 })
}

// addEdge inserts a single directed edge, keeping both endpoint adjacency
// lists sorted by ascending cost. It does not check for an existing edge
// between the same pair; callers (MakeConversions, AddEdge) are responsible
// for not double-inserting.
func (g *Graph) addEdge(e Edge) {
	from := g.nodeFor(e.From, true)
	to := g.nodeFor(e.To, true)
	from.out = append(from.out, e)
	sortEdges(from.out)
	to.in = append(to.in, e)
	sortEdges(to.in)
}

// AddEdge records one directed conversion edge, extending the graph
// incrementally: either endpoint is added as a node if absent, and the edge
// is sorted into from's outgoing and to's incoming lists. No other edges are
// created.
func (g *Graph) AddEdge(from, to ast.Type, cost ast.Cost) {
	g.addEdge(Edge{From: from, To: to, Cost: cost})
}

// MakeConversions builds the standard safe/unsafe conversion edges between
// every pair of distinct Conc types in concTypes: for Conc IDs a and b,
// an edge a->b is inserted with cost derived from (b.ID - a.ID) via
// ast.CostFromDiff (negative diff is unsafe/narrowing, non-negative diff is
// safe/widening), mirroring the builtin-arithmetic conversion lattice.
func MakeConversions(concTypes []ast.Conc) *Graph {
	g := New()
	for _, t := range concTypes {
		g.AddType(t)
	}
	for _, from := range concTypes {
		for _, to := range concTypes {
			if from.ID == to.ID {
				continue
			}
			cost := ast.CostFromDiff(to.ID - from.ID)
			g.addEdge(Edge{From: from, To: to, Cost: cost})
		}
	}
	return g
}

// FindFrom returns the sorted (cheapest-first) outgoing edges from t.
func (g *Graph) FindFrom(t ast.Type) []Edge {
	n := g.nodeFor(t, false)
	if n == nil {
		return nil
	}
	return n.out
}

// FindTo returns the sorted (cheapest-first) incoming edges to t.
func (g *Graph) FindTo(t ast.Type) []Edge {
	n := g.nodeFor(t, false)
	if n == nil {
		return nil
	}
	return n.in
}

// FindBetween returns the direct edge from -> to, if one exists.
func (g *Graph) FindBetween(from, to ast.Type) (Edge, bool) {
	n := g.nodeFor(from, false)
	if n == nil {
		return Edge{}, false
	}
	for _, e := range n.out {
		if e.To.Equal(to) {
			return e, true
		}
	}
	return Edge{}, false
}

// FindMatching returns every node whose type is pattern-compatible with
// pattern (which may itself contain Poly placeholders), via the typemap's
// match iteration.
func (g *Graph) FindMatching(pattern ast.Type) []ast.Type {
	var out []ast.Type
	g.nodes.MatchIter([]ast.Type{pattern}, func(e typemap.Entry[*node]) bool {
		if len(e.Types) == 1 {
			out = append(out, e.Types[0])
		}
		return true
	})
	return out
}
