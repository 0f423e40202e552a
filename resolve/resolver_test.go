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

package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/conversion"
	"github.com/cforall/resolv-proto/internal/functable"
	"github.com/cforall/resolv-proto/internal/intern"
	"github.com/cforall/resolv-proto/internal/tyenv"
	"github.com/cforall/resolv-proto/internal/unify"
)

func newTestResolver() (*Resolver, *intern.Pool, *functable.Table) {
	pool := intern.NewPool()
	funcs := functable.New()
	convs := conversion.New()
	vsrc := ast.NewVarSource()
	return New(funcs, convs, vsrc), pool, funcs
}

func newEnv() tyenv.Env { return tyenv.NewGenerational(unify.New()) }

func TestOperatorValExprResolvesToItself(t *testing.T) {
	r, _, _ := newTestResolver()
	expr := ast.ValExpr{Type: ast.Conc{ID: 1}}
	res := r.Operator(expr, newEnv(), 0)
	if res.Effect != EffectNone {
		t.Fatalf("Operator(ValExpr) effect = %v, want EffectNone", res.Effect)
	}
	if !res.Interp.Expr.ResultType().Equal(ast.Conc{ID: 1}) {
		t.Errorf("ResultType = %v, want Conc{1}", res.Interp.Expr.ResultType())
	}
}

func TestOperatorNameExprUnknownIsInvalid(t *testing.T) {
	r, pool, _ := newTestResolver()
	ids := ast.NewExprIDSource()
	expr := ast.NameExpr{Name: pool.Intern("x"), ID: ids.Fresh()}
	res := r.Operator(expr, newEnv(), 0)
	if res.Effect != EffectInvalid {
		t.Fatalf("Operator(unknown name) effect = %v, want EffectInvalid", res.Effect)
	}
}

func TestOperatorNameExprResolvesDeclaredVar(t *testing.T) {
	r, pool, funcs := newTestResolver()
	ids := ast.NewExprIDSource()
	name := pool.Intern("x")
	funcs.InsertVar(&ast.VarDecl{Name: name, Type: ast.Conc{ID: 1}})

	expr := ast.NameExpr{Name: name, ID: ids.Fresh()}
	res := r.Operator(expr, newEnv(), 0)
	if res.Effect != EffectNone {
		t.Fatalf("effect = %v, want EffectNone", res.Effect)
	}
	if !res.Interp.Expr.ResultType().Equal(ast.Conc{ID: 1}) {
		t.Errorf("ResultType = %v, want Conc{1}", res.Interp.Expr.ResultType())
	}
}

func TestOperatorNameExprAmbiguousWhenTwoVarsShareName(t *testing.T) {
	r, pool, funcs := newTestResolver()
	ids := ast.NewExprIDSource()
	name := pool.Intern("x")
	tagA, tagB := pool.Intern("a"), pool.Intern("b")
	funcs.InsertVar(&ast.VarDecl{Name: name, Tag: tagA, Type: ast.Conc{ID: 1}})
	funcs.InsertVar(&ast.VarDecl{Name: name, Tag: tagB, Type: ast.Conc{ID: 2}})

	expr := ast.NameExpr{Name: name, ID: ids.Fresh()}
	res := r.Operator(expr, newEnv(), 0)
	if res.Effect != EffectAmbiguous {
		t.Fatalf("effect = %v, want EffectAmbiguous (two equal-cost vars)", res.Effect)
	}
	if len(res.Alternatives) != 2 {
		t.Errorf("Alternatives = %v, want 2", res.Alternatives)
	}
}

func TestOperatorSimpleFuncCallResolves(t *testing.T) {
	r, pool, funcs := newTestResolver()
	ids := ast.NewExprIDSource()
	name := pool.Intern("f")
	funcs.InsertFunc(&ast.FuncDecl{Name: name, Params: []ast.Type{ast.Conc{ID: 1}}, Returns: ast.Conc{ID: 2}})

	expr := ast.FuncExpr{Name: name, Args: []ast.Expr{ast.ValExpr{Type: ast.Conc{ID: 1}}}, ID: ids.Fresh()}
	res := r.Operator(expr, newEnv(), CheckAssertions)
	if res.Effect != EffectNone {
		t.Fatalf("effect = %v, want EffectNone", res.Effect)
	}
	if !res.Interp.Expr.ResultType().Equal(ast.Conc{ID: 2}) {
		t.Errorf("ResultType = %v, want Conc{2}", res.Interp.Expr.ResultType())
	}
	call, ok := res.Interp.Expr.(ast.CallExpr)
	if !ok {
		t.Fatalf("Expr = %T, want ast.CallExpr", res.Interp.Expr)
	}
	wantArgs := []ast.TypedExpr{ast.ValExpr{Type: ast.Conc{ID: 1}}}
	if diff := cmp.Diff(wantArgs, call.Args); diff != "" {
		t.Errorf("CallExpr.Args mismatch (-want +got):\n%s", diff)
	}
}

func TestOperatorFuncCallWrongArgTypeIsInvalid(t *testing.T) {
	r, pool, funcs := newTestResolver()
	ids := ast.NewExprIDSource()
	name := pool.Intern("f")
	funcs.InsertFunc(&ast.FuncDecl{Name: name, Params: []ast.Type{ast.Conc{ID: 1}}, Returns: ast.Conc{ID: 2}})

	expr := ast.FuncExpr{Name: name, Args: []ast.Expr{ast.ValExpr{Type: ast.Conc{ID: 99}}}, ID: ids.Fresh()}
	res := r.Operator(expr, newEnv(), 0)
	if res.Effect != EffectInvalid {
		t.Fatalf("effect = %v, want EffectInvalid: no declaration accepts Conc{99}", res.Effect)
	}
}

// TestArgPackNoMatch reproduces the worked example with a declaration h
// taking two Ts and returning a tuple of two Ts. Calling
// h(1 2) first binds T to the type of 1, then must unify T against the type
// of 2; since 1 and 2 have distinct concrete types here, that second
// unification fails and the whole call has no interpretation.
func TestArgPackNoMatch(t *testing.T) {
	r, pool, funcs := newTestResolver()
	ids := ast.NewExprIDSource()
	tSym := pool.Intern("T")
	name := pool.Intern("h")

	tVar := ast.Poly{Name: tSym, ID: 1}
	decl := &ast.FuncDecl{
		Name:    name,
		Params:  []ast.Type{tVar, tVar},
		Returns: ast.Tuple{Types: []ast.Type{tVar, tVar}},
		Forall:  &ast.Forall{Vars: []ast.Poly{tVar}},
	}
	funcs.InsertFunc(decl)

	expr := ast.FuncExpr{
		Name: name,
		Args: []ast.Expr{
			ast.ValExpr{Type: ast.Conc{ID: 1}},
			ast.ValExpr{Type: ast.Conc{ID: 2}},
		},
		ID: ids.Fresh(),
	}
	res := r.Operator(expr, newEnv(), CheckAssertions)
	if res.Effect != EffectInvalid {
		t.Fatalf("h(1 2) effect = %v, want EffectInvalid (NoMatch): T can't bind to both Conc{1} and Conc{2}", res.Effect)
	}
}

func TestExpandConversionsReachesWiderType(t *testing.T) {
	r, pool, funcs := newTestResolver()
	ids := ast.NewExprIDSource()
	name := pool.Intern("f")
	funcs.InsertFunc(&ast.FuncDecl{Name: name, Params: []ast.Type{ast.Conc{ID: 2}}, Returns: ast.Conc{ID: 9}})

	r.Convs.AddEdge(ast.Conc{ID: 1}, ast.Conc{ID: 2}, ast.CostFromDiff(1))

	expr := ast.FuncExpr{Name: name, Args: []ast.Expr{ast.ValExpr{Type: ast.Conc{ID: 1}}}, ID: ids.Fresh()}
	res := r.Operator(expr, newEnv(), ExpandConversions|CheckAssertions)
	if res.Effect != EffectNone {
		t.Fatalf("effect = %v, want EffectNone (widening Conc{1}->Conc{2} should let f match)", res.Effect)
	}
}

func TestResolverCachesRepeatedLookup(t *testing.T) {
	r, pool, funcs := newTestResolver()
	ids := ast.NewExprIDSource()
	name := pool.Intern("x")
	funcs.InsertVar(&ast.VarDecl{Name: name, Type: ast.Conc{ID: 1}})

	expr := ast.NameExpr{Name: name, ID: ids.Fresh()}
	env := newEnv()
	first, err := r.Resolve(expr, nil, env, 0)
	if err != nil {
		t.Fatalf("Resolve = %v", err)
	}
	second, err := r.Resolve(expr, nil, env, 0)
	if err != nil {
		t.Fatalf("Resolve (cached) = %v", err)
	}
	if len(first) != len(second) {
		t.Errorf("cached Resolve returned a different result set: %v vs %v", first, second)
	}
}
