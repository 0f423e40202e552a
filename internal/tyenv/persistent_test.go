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

func TestPersistentCloneIsolatesBranches(t *testing.T) {
	pool := intern.NewPool()
	tSym := pool.Intern("T")
	p := ast.Poly{Name: tSym, ID: 1}

	base := NewPersistent(nil)
	c := base.GetClass(p)

	branchA := base.Clone()
	branchB := base.Clone()

	cost := ast.ZeroCost
	if err := branchA.BindType(c, ast.Conc{ID: 1}, &cost); err != nil {
		t.Fatalf("branchA.BindType = %v", err)
	}
	if err := branchB.BindType(c, ast.Conc{ID: 2}, &cost); err != nil {
		t.Fatalf("branchB.BindType = %v", err)
	}

	if got := branchA.Replace(p); !got.Equal(ast.Conc{ID: 1}) {
		t.Errorf("branchA Replace(p) = %v, want Conc{1}", got)
	}
	if got := branchB.Replace(p); !got.Equal(ast.Conc{ID: 2}) {
		t.Errorf("branchB Replace(p) = %v, want Conc{2}", got)
	}
	if got := base.Replace(p); !got.Equal(p) {
		t.Errorf("base should be untouched by either branch, Replace(p) = %v, want unchanged p", got)
	}
}

func TestPersistentRerootPreservesObservableState(t *testing.T) {
	pool := intern.NewPool()
	tSym, uSym := pool.Intern("T"), pool.Intern("U")
	p, q := ast.Poly{Name: tSym, ID: 1}, ast.Poly{Name: uSym, ID: 2}

	env := NewPersistent(nil)
	cp := env.GetClass(p)
	env.GetClass(q)
	cost := ast.ZeroCost
	if err := env.BindType(cp, ast.Conc{ID: 9}, &cost); err != nil {
		t.Fatalf("BindType = %v", err)
	}

	beforeP := env.Replace(p)
	beforeUnbound := len(env.GetUnbound())

	env.Reroot()

	if got := env.Replace(p); !got.Equal(beforeP) {
		t.Errorf("Replace(p) after Reroot = %v, want %v", got, beforeP)
	}
	if got := len(env.GetUnbound()); got != beforeUnbound {
		t.Errorf("GetUnbound length after Reroot = %d, want %d", got, beforeUnbound)
	}
}

func TestPersistentMergeDoesNotMutateOperands(t *testing.T) {
	pool := intern.NewPool()
	tSym := pool.Intern("T")
	p := ast.Poly{Name: tSym, ID: 1}

	a := NewPersistent(nil)
	ca := a.GetClass(p)
	cost := ast.ZeroCost
	if err := a.BindType(ca, ast.Conc{ID: 4}, &cost); err != nil {
		t.Fatalf("a.BindType = %v", err)
	}

	b := NewPersistent(nil)
	b.GetClass(p)

	merged, err := b.Merge(a, &cost)
	if err != nil {
		t.Fatalf("Merge = %v", err)
	}
	if got := merged.Replace(p); !got.Equal(ast.Conc{ID: 4}) {
		t.Errorf("merged.Replace(p) = %v, want Conc{4}", got)
	}
	if got := b.Replace(p); !got.Equal(p) {
		t.Errorf("Merge should not mutate the receiver in place, b.Replace(p) = %v, want unchanged p", got)
	}
}

func TestPersistentOccursCheckRejectsSelfBinding(t *testing.T) {
	pool := intern.NewPool()
	tSym := pool.Intern("T")
	listSym := pool.Intern("List")
	p := ast.Poly{Name: tSym, ID: 1}

	env := NewPersistent(nil)
	c := env.GetClass(p)
	cost := ast.ZeroCost
	self := ast.Named{Name: listSym, Params: []ast.Type{p}}
	if err := env.BindType(c, self, &cost); err != ErrOccursCheck {
		t.Errorf("BindType(p, List<p>) = %v, want ErrOccursCheck", err)
	}
}
