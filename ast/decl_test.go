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

import (
	"testing"

	"github.com/cforall/resolv-proto/internal/intern"
)

func TestInstantiateRebindsForallFresh(t *testing.T) {
	pool := intern.NewPool()
	tSym := pool.Intern("T")
	name := pool.Intern("id")

	decl := &FuncDecl{
		Name:    name,
		Params:  []Type{Poly{Name: tSym}},
		Returns: Poly{Name: tSym},
		Forall:  &Forall{Vars: []Poly{{Name: tSym}}},
	}

	src := NewVarSource()
	inst1 := decl.Instantiate(src)
	inst2 := decl.Instantiate(src)

	p1, ok := inst1.Params[0].(Poly)
	if !ok {
		t.Fatalf("expected Poly param, got %T", inst1.Params[0])
	}
	p2, ok := inst2.Params[0].(Poly)
	if !ok {
		t.Fatalf("expected Poly param, got %T", inst2.Params[0])
	}
	if p1.Equal(p2) {
		t.Error("two independent instantiations should get distinct fresh Poly IDs")
	}
	if !inst1.Params[0].Equal(inst1.Returns) {
		t.Error("within one instantiation, the same declared variable must stay identified")
	}
	if p1.IsDecl() || p2.IsDecl() {
		t.Error("instantiated Poly variables should not be declaration (ID 0) variables")
	}

	if decl.Params[0].(Poly).ID != 0 {
		t.Error("Instantiate must not mutate the original declaration")
	}
}

func TestInstantiateMonomorphicIsIdentity(t *testing.T) {
	decl := &FuncDecl{Params: []Type{Conc{ID: 1}}, Returns: Conc{ID: 1}}
	src := NewVarSource()
	if got := decl.Instantiate(src); got != decl {
		t.Error("Instantiate on a monomorphic decl should return the same pointer")
	}
}

func TestSpecializationCountRewardsConcreteWrapping(t *testing.T) {
	pool := intern.NewPool()
	tSym := pool.Intern("T")
	boxSym := pool.Intern("Box")

	generic := &FuncDecl{Params: []Type{Poly{Name: tSym}}, Returns: Poly{Name: tSym}}
	wrapped := &FuncDecl{
		Params:  []Type{Named{Name: boxSym, Params: []Type{Poly{Name: tSym}}}},
		Returns: Poly{Name: tSym},
	}

	if wrapped.SpecializationCount() <= generic.SpecializationCount() {
		t.Errorf("wrapped count %d should exceed generic count %d",
			wrapped.SpecializationCount(), generic.SpecializationCount())
	}
}

func TestPolymorphismCost(t *testing.T) {
	mono := &FuncDecl{}
	if vars, assns := mono.PolymorphismCost(); vars != 0 || assns != 0 {
		t.Errorf("monomorphic decl should have zero cost, got (%d,%d)", vars, assns)
	}

	pool := intern.NewPool()
	tSym := pool.Intern("T")
	poly := &FuncDecl{Forall: &Forall{
		Vars:       []Poly{{Name: tSym}},
		Assertions: []*FuncDecl{{}, {}},
	}}
	if vars, assns := poly.PolymorphismCost(); vars != 1 || assns != 2 {
		t.Errorf("PolymorphismCost = (%d,%d), want (1,2)", vars, assns)
	}
}
