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

// Package functable implements the function table (C9): declarations
// indexed by name, then by arity (for bottom-up resolution, which starts
// from known argument types) or by return type via a typemap.TypeMap (for
// top-down resolution, which starts from a known target type). Both
// indices are maintained for every insert so a resolver can pick whichever
// search direction the expression in hand calls for.
package functable

import (
	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/intern"
	"github.com/cforall/resolv-proto/internal/typemap"
)

type funcBucket struct {
	byArity map[int][]*ast.FuncDecl // insertion order preserved within each bucket
	byRet   *typemap.TypeMap[[]*ast.FuncDecl]
}

func newFuncBucket() *funcBucket {
	return &funcBucket{
		byArity: make(map[int][]*ast.FuncDecl),
		byRet:   typemap.New[[]*ast.FuncDecl](),
	}
}

// Table holds every function and variable declaration visible to the
// resolver, keyed by name.
type Table struct {
	funcs map[intern.Symbol]*funcBucket
	vars  map[intern.Symbol][]*ast.VarDecl
}

// New constructs an empty Table.
func New() *Table {
	return &Table{
		funcs: make(map[intern.Symbol]*funcBucket),
		vars:  make(map[intern.Symbol][]*ast.VarDecl),
	}
}

// InsertFunc adds a function declaration, indexing it by both its arity and
// its return type.
func (t *Table) InsertFunc(d *ast.FuncDecl) {
	b, ok := t.funcs[d.Name]
	if !ok {
		b = newFuncBucket()
		t.funcs[d.Name] = b
	}
	arity := len(d.Params)
	b.byArity[arity] = append(b.byArity[arity], d)

	existing, _ := b.byRet.GetType(d.Returns)
	b.byRet.InsertType(d.Returns, append(existing, d))
}

// InsertVar adds a variable declaration. Variables are kept in their own
// map, apart from function overloads: FindByArity never returns them, not
// even for arity 0 — use FindVars.
func (t *Table) InsertVar(d *ast.VarDecl) {
	t.vars[d.Name] = append(t.vars[d.Name], d)
}

// FindVars returns every variable declaration sharing name, in declaration
// order.
func (t *Table) FindVars(name intern.Symbol) []*ast.VarDecl {
	return t.vars[name]
}

// FindByArity returns every function declaration named name with exactly
// arity parameters, in declaration order (the bottom-up index).
func (t *Table) FindByArity(name intern.Symbol, arity int) []*ast.FuncDecl {
	b, ok := t.funcs[name]
	if !ok {
		return nil
	}
	return b.byArity[arity]
}

// FindByReturn returns every function declaration named name whose return
// type exactly matches ret (the top-down index's exact case).
func (t *Table) FindByReturn(name intern.Symbol, ret ast.Type) []*ast.FuncDecl {
	b, ok := t.funcs[name]
	if !ok {
		return nil
	}
	decls, _ := b.byRet.GetType(ret)
	return decls
}

// FindByReturnMatch returns every function declaration named name whose
// return type is pattern-compatible with target (target or the
// declaration's return type may carry Poly placeholders) — the top-down
// index's general case, used when target itself mentions unbound
// variables.
func (t *Table) FindByReturnMatch(name intern.Symbol, target ast.Type) []*ast.FuncDecl {
	b, ok := t.funcs[name]
	if !ok {
		return nil
	}
	var out []*ast.FuncDecl
	b.byRet.MatchIter([]ast.Type{target}, func(e typemap.Entry[[]*ast.FuncDecl]) bool {
		out = append(out, e.Value...)
		return true
	})
	return out
}

// AllByName returns every function declaration sharing name, across every
// arity bucket, in no particular cross-bucket order (callers that need a
// stable order should sort or iterate by arity themselves).
func (t *Table) AllByName(name intern.Symbol) []*ast.FuncDecl {
	b, ok := t.funcs[name]
	if !ok {
		return nil
	}
	var out []*ast.FuncDecl
	for _, ds := range b.byArity {
		out = append(out, ds...)
	}
	return out
}
