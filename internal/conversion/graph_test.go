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

package conversion

import (
	"testing"

	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/intern"
)

func TestMakeConversionsOrdersBySignedDiff(t *testing.T) {
	c1, c2, c3 := ast.Conc{ID: 1}, ast.Conc{ID: 2}, ast.Conc{ID: 3}
	g := MakeConversions([]ast.Conc{c1, c2, c3})

	e, ok := g.FindBetween(c1, c3)
	if !ok {
		t.Fatal("expected an edge 1 -> 3")
	}
	if e.Cost.Unsafe != 0 || e.Cost.Safe != 2 {
		t.Errorf("widening 1->3 should be safe cost 2, got %+v", e.Cost)
	}

	e, ok = g.FindBetween(c3, c1)
	if !ok {
		t.Fatal("expected an edge 3 -> 1")
	}
	if e.Cost.Safe != 0 || e.Cost.Unsafe != 2 {
		t.Errorf("narrowing 3->1 should be unsafe cost 2, got %+v", e.Cost)
	}
}

func TestFindFromSortedCheapestFirst(t *testing.T) {
	c1, c2, c3 := ast.Conc{ID: 1}, ast.Conc{ID: 2}, ast.Conc{ID: 3}
	g := MakeConversions([]ast.Conc{c1, c2, c3})

	out := g.FindFrom(c1)
	if len(out) != 2 {
		t.Fatalf("expected 2 outgoing edges from c1, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if ast.Compare(out[i-1].Cost, out[i].Cost) > 0 {
			t.Errorf("FindFrom results not sorted ascending by cost: %+v", out)
		}
	}
}

func TestFindBetweenMissingPairIsFalse(t *testing.T) {
	g := New()
	g.AddType(ast.Conc{ID: 1})
	g.AddType(ast.Conc{ID: 2})
	if _, ok := g.FindBetween(ast.Conc{ID: 1}, ast.Conc{ID: 2}); ok {
		t.Error("no edge was added between 1 and 2; FindBetween should report false")
	}
}

func TestAddEdgeIncremental(t *testing.T) {
	g := New()
	from, to := ast.Conc{ID: 10}, ast.Conc{ID: 20}
	g.AddEdge(from, to, ast.CostFromSafe(1))

	e, ok := g.FindBetween(from, to)
	if !ok || e.Cost.Safe != 1 {
		t.Fatalf("AddEdge did not record the expected edge: %+v, %v", e, ok)
	}
	in := g.FindTo(to)
	if len(in) != 1 || !in[0].From.Equal(from) {
		t.Errorf("FindTo(to) = %+v, want one edge from %v", in, from)
	}
}

func TestFindMatchingUsesPolyPattern(t *testing.T) {
	g := New()
	g.AddType(ast.Conc{ID: 1})
	g.AddType(ast.Conc{ID: 2})

	pool := intern.NewPool()
	tSym := pool.Intern("T")
	matches := g.FindMatching(ast.Poly{Name: tSym, ID: 0})
	if len(matches) != 2 {
		t.Errorf("FindMatching(Poly) should match every node, got %d: %v", len(matches), matches)
	}
}
