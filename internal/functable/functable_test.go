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

package functable

import (
	"testing"

	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/intern"
)

func TestInsertFuncIndexesByArityAndReturn(t *testing.T) {
	pool := intern.NewPool()
	name := pool.Intern("f")

	one := &ast.FuncDecl{Name: name, Params: []ast.Type{ast.Conc{ID: 1}}, Returns: ast.Conc{ID: 9}}
	two := &ast.FuncDecl{Name: name, Params: []ast.Type{ast.Conc{ID: 1}, ast.Conc{ID: 2}}, Returns: ast.Conc{ID: 9}}

	table := New()
	table.InsertFunc(one)
	table.InsertFunc(two)

	if got := table.FindByArity(name, 1); len(got) != 1 || got[0] != one {
		t.Errorf("FindByArity(name, 1) = %v, want [one]", got)
	}
	if got := table.FindByArity(name, 2); len(got) != 1 || got[0] != two {
		t.Errorf("FindByArity(name, 2) = %v, want [two]", got)
	}
	if got := table.FindByReturn(name, ast.Conc{ID: 9}); len(got) != 2 {
		t.Errorf("FindByReturn(name, 9) = %v, want both declarations", got)
	}
}

func TestFindByReturnMatchUsesPolyPattern(t *testing.T) {
	pool := intern.NewPool()
	name := pool.Intern("id")
	tSym := pool.Intern("T")

	decl := &ast.FuncDecl{
		Name:    name,
		Params:  []ast.Type{ast.Poly{Name: tSym}},
		Returns: ast.Poly{Name: tSym},
		Forall:  &ast.Forall{Vars: []ast.Poly{{Name: tSym}}},
	}
	table := New()
	table.InsertFunc(decl)

	got := table.FindByReturnMatch(name, ast.Conc{ID: 5})
	if len(got) != 1 || got[0] != decl {
		t.Errorf("FindByReturnMatch(name, Conc{5}) = %v, want [decl]", got)
	}
}

func TestFindVarsAndAllByName(t *testing.T) {
	pool := intern.NewPool()
	name := pool.Intern("x")
	varDecl := &ast.VarDecl{Name: name, Type: ast.Conc{ID: 1}}

	fname := pool.Intern("g")
	f0 := &ast.FuncDecl{Name: fname, Returns: ast.Conc{ID: 1}}
	f1 := &ast.FuncDecl{Name: fname, Params: []ast.Type{ast.Conc{ID: 1}}, Returns: ast.Conc{ID: 1}}

	table := New()
	table.InsertVar(varDecl)
	table.InsertFunc(f0)
	table.InsertFunc(f1)

	if got := table.FindVars(name); len(got) != 1 || got[0] != varDecl {
		t.Errorf("FindVars(x) = %v, want [varDecl]", got)
	}
	if got := table.AllByName(fname); len(got) != 2 {
		t.Errorf("AllByName(g) = %v, want 2 declarations across both arities", got)
	}
}

func TestUnknownNameReturnsNil(t *testing.T) {
	pool := intern.NewPool()
	table := New()
	unknown := pool.Intern("nope")
	if got := table.FindVars(unknown); got != nil {
		t.Errorf("FindVars(unknown) = %v, want nil", got)
	}
	if got := table.FindByArity(unknown, 0); got != nil {
		t.Errorf("FindByArity(unknown, 0) = %v, want nil", got)
	}
	if got := table.AllByName(unknown); got != nil {
		t.Errorf("AllByName(unknown) = %v, want nil", got)
	}
}
