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

import "github.com/cforall/resolv-proto/internal/intern"

// VarSource is the monotonically increasing fresh-variable counter used to
// mint new Poly instance IDs. It is explicit, per-resolver-run context
// rather than global state: a single VarSource threads through one top-level
// resolve call so that every Forall instantiation within that call gets a
// disjoint range of IDs.
type VarSource struct {
	next uint32
}

// NewVarSource returns a counter starting after zero (zero is reserved for
// Poly declarations).
func NewVarSource() *VarSource { return &VarSource{} }

// Fresh returns a new, never-before-issued instance ID.
func (s *VarSource) Fresh() uint32 {
	s.next++
	return s.next
}

// Forall owns a declaration's type variables and the assertion functions
// they must satisfy at each call site. Copying a Forall (via Instantiate)
// always rebinds its variables to fresh instance IDs.
type Forall struct {
	Vars       []Poly
	Assertions []*FuncDecl
}

// Instantiate returns a fresh copy of f: every variable gets a new instance
// ID from src, and every assertion's parameter/return types are rewritten
// consistently with the new IDs. A Forall nested inside an assertion is
// carried over with its original variables and assertions.
func (f *Forall) Instantiate(src *VarSource) *Forall {
	if f == nil {
		return nil
	}
	// Declaration-time variables all carry ID 0, so they can only be told
	// apart by Name; rebind on that basis here, then match fresh instances
	// by ID everywhere else (substitute is only ever called once per
	// Instantiate, on declaration-shaped types).
	rebind := make(map[intern.Symbol]Poly, len(f.Vars))
	newVars := make([]Poly, len(f.Vars))
	for i, v := range f.Vars {
		fresh := Poly{Name: v.Name, ID: src.Fresh()}
		rebind[v.Name] = fresh
		newVars[i] = fresh
	}
	sub := newSubstitutor(rebind)

	newAssns := make([]*FuncDecl, len(f.Assertions))
	for i, a := range f.Assertions {
		newAssns[i] = a.substitute(sub)
	}
	return &Forall{Vars: newVars, Assertions: newAssns}
}

// substitutor memoises Poly replacements for one Instantiate call so that a
// single type tree (or a whole declaration list sharing type instances) is
// rewritten consistently: every occurrence of the same source variable maps
// to the same fresh one.
type substitutor struct {
	rebind map[intern.Symbol]Poly
}

func newSubstitutor(rebind map[intern.Symbol]Poly) *substitutor {
	return &substitutor{rebind: rebind}
}

func (s *substitutor) apply(t Type) Type {
	return SubstitutePoly(t, func(p Poly) (Type, bool) {
		if !p.IsDecl() {
			return p, false
		}
		if fresh, ok := s.rebind[p.Name]; ok {
			return fresh, true
		}
		return p, false
	})
}
