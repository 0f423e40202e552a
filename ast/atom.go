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

// AtomKind distinguishes the four atom shapes a Type can flatten into.
// Void and Tuple never contribute an atom of their own: Void flattens to
// nothing, Tuple flattens to its elements in order.
type AtomKind int

const (
	AtomConc AtomKind = iota
	AtomNamed
	AtomPoly
	AtomFunc
)

// Atom is one element of a type's flattened key, as used by the type trie
// (internal/typemap). Arity records how many subsequent atoms, at this
// flattening level, are this atom's own children (param count for Named,
// param count plus one for the return type for Func; always 0 for Conc and
// Poly).
type Atom struct {
	Kind  AtomKind
	Conc  int           // valid when Kind == AtomConc
	Name  intern.Symbol // valid when Kind == AtomNamed or AtomPoly
	Poly  uint32        // valid when Kind == AtomPoly
	Arity int           // number of direct children following this atom
}

// Key returns the comparable part of an Atom, suitable for use as a trie
// edge label; two atoms with equal Key are considered the same edge
// regardless of Arity (Arity is reconstructed, not compared).
type Key struct {
	Kind AtomKind
	Conc int
	Name intern.Symbol
	Poly uint32
}

// Key returns a's comparable edge label.
func (a Atom) Key() Key { return Key{Kind: a.Kind, Conc: a.Conc, Name: a.Name, Poly: a.Poly} }

// IsPolyKey reports whether k identifies a Poly atom.
func (k Key) IsPolyKey() bool { return k.Kind == AtomPoly }

// Flatten walks t and appends its atom sequence to out, returning the
// extended slice. Used to build TypeMap keys for both single types and
// parameter lists (call Flatten once per element of a list, in order).
func Flatten(t Type, out []Atom) []Atom {
	switch v := t.(type) {
	case Conc:
		return append(out, Atom{Kind: AtomConc, Conc: v.ID})
	case Named:
		out = append(out, Atom{Kind: AtomNamed, Name: v.Name, Arity: len(v.Params)})
		for _, p := range v.Params {
			out = Flatten(p, out)
		}
		return out
	case Poly:
		return append(out, Atom{Kind: AtomPoly, Name: v.Name, Poly: v.ID})
	case Void:
		return out
	case Tuple:
		for _, e := range v.Types {
			out = Flatten(e, out)
		}
		return out
	case Func:
		out = append(out, Atom{Kind: AtomFunc, Arity: len(v.Params) + 1})
		for _, p := range v.Params {
			out = Flatten(p, out)
		}
		return Flatten(v.Returns, out)
	default:
		return out
	}
}

// FlattenList flattens an ordered list of types (e.g. a function's
// parameters), in order, into a single atom sequence.
func FlattenList(ts []Type) []Atom {
	var out []Atom
	for _, t := range ts {
		out = Flatten(t, out)
	}
	return out
}
