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

// VarDecl is a variable declaration: a name bound to a single type.
type VarDecl struct {
	Name intern.Symbol
	Tag  intern.Symbol
	Type Type
}

// Equal compares declarations by name and tag only; tags disambiguate
// overloads sharing a name.
func (d *VarDecl) Equal(o *VarDecl) bool {
	return d.Name == o.Name && d.Tag == o.Tag
}

// FuncDecl is a function declaration, optionally polymorphic.
type FuncDecl struct {
	Name    intern.Symbol
	Tag     intern.Symbol
	Params  []Type
	Returns Type
	Forall  *Forall // nil for a monomorphic declaration
}

// Equal compares declarations by name and tag only; tags disambiguate
// overloads sharing a name.
func (d *FuncDecl) Equal(o *FuncDecl) bool {
	return d.Name == o.Name && d.Tag == o.Tag
}

// Instantiate returns a fresh call-site copy of d: its Forall (if any) is
// rebound to fresh type-variable instances via src, and Params/Returns are
// rewritten to match.
func (d *FuncDecl) Instantiate(src *VarSource) *FuncDecl {
	if d.Forall == nil {
		return d
	}
	newForall := d.Forall.Instantiate(src)
	rebind := make(map[intern.Symbol]Poly, len(d.Forall.Vars))
	for i, v := range d.Forall.Vars {
		rebind[v.Name] = newForall.Vars[i]
	}
	sub := newSubstitutor(rebind)
	return &FuncDecl{
		Name:    d.Name,
		Tag:     d.Tag,
		Params:  substituteAll(d.Params, sub),
		Returns: sub.apply(d.Returns),
		Forall:  newForall,
	}
}

// substitute rewrites d's Params/Returns according to sub, the outer
// rebinding built while instantiating an enclosing Forall's assertions.
func (d *FuncDecl) substitute(sub *substitutor) *FuncDecl {
	nd := &FuncDecl{
		Name:    d.Name,
		Tag:     d.Tag,
		Params:  substituteAll(d.Params, sub),
		Returns: sub.apply(d.Returns),
	}
	if d.Forall != nil {
		// An assertion that is itself polymorphic gets a new Forall holding
		// the same Vars and Assertions as before: its variables are not given
		// fresh IDs and its nested assertions are not rewritten.
		nd.Forall = &Forall{
			Vars:       d.Forall.Vars,
			Assertions: d.Forall.Assertions,
		}
	}
	return nd
}

func substituteAll(ts []Type, sub *substitutor) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = sub.apply(t)
	}
	return out
}

// PolymorphismCost is the "vars" and "assns" counts contributed by this
// declaration's Forall (zero for a monomorphic declaration): the number of
// distinct type variables and the number of assertions.
func (d *FuncDecl) PolymorphismCost() (vars, assns uint) {
	if d.Forall == nil {
		return 0, 0
	}
	return uint(len(d.Forall.Vars)), uint(len(d.Forall.Assertions))
}

// SpecializationCount visits Returns and each Param, summing, for every Poly
// leaf found, 1 plus the depth at which it was found (concrete wrapping via
// Named parameters or Func nesting increases depth). More specialised
// (deeper, more concrete-wrapped) declarations score higher, which rewards
// lower Cost via the inverted spec ordering.
func (d *FuncDecl) SpecializationCount() uint {
	var total uint
	total += specOf(d.Returns)
	for _, p := range d.Params {
		total += specOf(p)
	}
	return total
}

func specOf(t Type) uint {
	return specAt(t, 0)
}

func specAt(t Type, depth uint) uint {
	switch v := t.(type) {
	case Poly:
		return depth + 1
	case Named:
		var sum uint
		for _, p := range v.Params {
			sum += specAt(p, depth+1)
		}
		return sum
	case Func:
		var sum uint
		for _, p := range v.Params {
			sum += specAt(p, depth+1)
		}
		return sum + specAt(v.Returns, depth+1)
	case Tuple:
		var sum uint
		for _, e := range v.Types {
			sum += specAt(e, depth)
		}
		return sum
	default:
		return 0
	}
}
