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

package ast

import "testing"

func TestExprIDSourceFreshIsUniqueAndNonzero(t *testing.T) {
	src := NewExprIDSource()
	a := src.Fresh()
	b := src.Fresh()
	if a == 0 || b == 0 {
		t.Errorf("Fresh ids should never be zero, got %d and %d", a, b)
	}
	if a == b {
		t.Errorf("two Fresh calls returned the same id: %d", a)
	}
}

func TestTupleElementExprProjects(t *testing.T) {
	a, b := Conc{ID: 1}, Conc{ID: 2}
	tup := ValExpr{Type: Tuple{Types: []Type{a, b}}}
	el := TupleElementExpr{Of: tup, Index: 1}
	if !el.ResultType().Equal(b) {
		t.Errorf("TupleElementExpr{Index:1}.ResultType() = %v, want %v", el.ResultType(), b)
	}
}

func TestCallExprResultTypeIsRetType(t *testing.T) {
	c := CallExpr{Decl: &FuncDecl{}, RetType: Conc{ID: 7}}
	if !c.ResultType().Equal(Conc{ID: 7}) {
		t.Errorf("CallExpr.ResultType() = %v, want Conc{7}", c.ResultType())
	}
}

func TestDeclExprResultTypeIsFuncShape(t *testing.T) {
	decl := &FuncDecl{Params: []Type{Conc{ID: 1}}, Returns: Conc{ID: 2}}
	de := DeclExpr{Decl: decl}
	want := Func{Params: decl.Params, Returns: decl.Returns}
	if !de.ResultType().Equal(want) {
		t.Errorf("DeclExpr.ResultType() = %v, want %v", de.ResultType(), want)
	}
}
