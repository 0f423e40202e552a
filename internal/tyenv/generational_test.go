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

import (
	"testing"

	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/intern"
)

func TestGenerationalMarkResetUndoesBindings(t *testing.T) {
	pool := intern.NewPool()
	tSym := pool.Intern("T")
	p := ast.Poly{Name: tSym, ID: 1}

	g := NewGenerational(nil)
	c := g.GetClass(p)
	mark := g.Mark()

	cost := ast.ZeroCost
	if err := g.BindType(c, ast.Conc{ID: 1}, &cost); err != nil {
		t.Fatalf("BindType = %v", err)
	}
	if got := g.Replace(p); !got.Equal(ast.Conc{ID: 1}) {
		t.Fatalf("Replace(p) before reset = %v, want Conc{1}", got)
	}

	g.Reset(mark)
	if got := g.Replace(p); !got.Equal(p) {
		t.Errorf("Replace(p) after reset = %v, want unchanged p", got)
	}
	unbound := g.GetUnbound()
	if len(unbound) != 1 {
		t.Errorf("after reset, p's class should be unbound again, got %v", unbound)
	}
}

func TestGenerationalNestedMarks(t *testing.T) {
	pool := intern.NewPool()
	tSym, uSym := pool.Intern("T"), pool.Intern("U")
	p, q := ast.Poly{Name: tSym, ID: 1}, ast.Poly{Name: uSym, ID: 2}

	g := NewGenerational(nil)
	cp := g.GetClass(p)
	cost := ast.ZeroCost
	if err := g.BindType(cp, ast.Conc{ID: 1}, &cost); err != nil {
		t.Fatalf("BindType(p) = %v", err)
	}

	outer := g.Mark()
	cq := g.GetClass(q)
	if err := g.BindType(cq, ast.Conc{ID: 2}, &cost); err != nil {
		t.Fatalf("BindType(q) = %v", err)
	}

	inner := g.Mark()
	cost2 := ast.ZeroCost
	if err := g.BindType(cq, ast.Conc{ID: 3}, &cost2); err == nil {
		t.Fatal("rebinding q to a conflicting concrete type with no unifier should fail")
	}

	g.Reset(inner)
	if got := g.Replace(q); !got.Equal(ast.Conc{ID: 2}) {
		t.Errorf("after inner reset, q should still be bound to 2, got %v", got)
	}

	g.Reset(outer)
	if got := g.Replace(q); !got.Equal(q) {
		t.Errorf("after outer reset, q should be unbound again, got %v", got)
	}
	if got := g.Replace(p); !got.Equal(ast.Conc{ID: 1}) {
		t.Errorf("outer reset should not undo bindings made before the outer mark, got %v", got)
	}
}
