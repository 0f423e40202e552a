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
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/cforall/resolv-proto/internal/intern"
)

// Type is the common interface implemented by every kind of type in the
// resolver's data model: Conc, Named, Poly, Void, Tuple, and Func.
//
// Two types compare equal iff they are structurally identical after
// normalisation (Equal), and Hash is consistent with Equal.
type Type interface {
	// isType is a marker method restricting implementers to this package.
	isType()

	// Size returns this type's arity: 0 for Void, len(Types) for Tuple,
	// 1 for every other kind.
	Size() uint

	// Equal reports structural equality with another type.
	Equal(Type) bool

	// Hash returns a hash consistent with Equal.
	Hash() uint64
}

// Conc is a primitive numeric type, identified by a signed integer ID.
type Conc struct {
	ID int
}

func (Conc) isType()     {}
func (Conc) Size() uint  { return 1 }
func (c Conc) String() string { return strconv.Itoa(c.ID) }

func (c Conc) Equal(t Type) bool {
	o, ok := t.(Conc)
	return ok && o.ID == c.ID
}

func (c Conc) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	x := uint64(uint(c.ID))
	for i := range buf {
		buf[i] = byte(x)
		x >>= 8
	}
	h.Write(buf[:])
	return h.Sum64()
}

// Named is a nominal, possibly-generic type.
type Named struct {
	Name   intern.Symbol
	Params []Type
}

func (Named) isType()    {}
func (Named) Size() uint { return 1 }

func (n Named) Equal(t Type) bool {
	o, ok := t.(Named)
	if !ok || o.Name != n.Name || len(o.Params) != len(n.Params) {
		return false
	}
	for i, p := range n.Params {
		if !p.Equal(o.Params[i]) {
			return false
		}
	}
	return true
}

func (n Named) Hash() uint64 {
	h := uint64(n.Name)
	for _, p := range n.Params {
		h = (h << 1) ^ p.Hash()
	}
	return h
}

func (n Named) String(pool *intern.Pool) string {
	var sb strings.Builder
	sb.WriteString("#")
	sb.WriteString(pool.String(n.Name))
	if len(n.Params) > 0 {
		sb.WriteString("<")
		for i, p := range n.Params {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(typeString(p, pool))
		}
		sb.WriteString(">")
	}
	return sb.String()
}

// Poly is a polymorphic type variable. ID zero denotes a declaration (and is
// compared by Name); a nonzero ID denotes a fresh instance of a Forall and is
// compared by ID alone.
type Poly struct {
	Name intern.Symbol
	ID   uint32
}

func (Poly) isType()    {}
func (Poly) Size() uint { return 1 }

func (p Poly) Equal(t Type) bool {
	o, ok := t.(Poly)
	if !ok {
		return false
	}
	if p.ID == 0 || o.ID == 0 {
		return p.ID == o.ID && p.Name == o.Name
	}
	return p.ID == o.ID
}

func (p Poly) Hash() uint64 {
	if p.ID == 0 {
		return (uint64(p.Name) << 1)
	}
	return uint64(p.ID)
}

func (p Poly) String(pool *intern.Pool) string {
	if p.ID == 0 {
		return pool.String(p.Name)
	}
	return pool.String(p.Name)
}

// IsDecl reports whether this Poly is a declaration (unbound, id 0) rather
// than a fresh per-call instance.
func (p Poly) IsDecl() bool { return p.ID == 0 }

// Void is the empty tuple: zero arity, the type of calls with no returns.
type Void struct{}

func (Void) isType()       {}
func (Void) Size() uint    { return 0 }
func (Void) Equal(t Type) bool { _, ok := t.(Void); return ok }
func (Void) Hash() uint64  { return 0 }
func (Void) String() string { return "Void" }

// Tuple represents two or more return types together. Tuples are never
// singleton or empty (FromList collapses those to the element type or Void) and
// never directly contain another Tuple (FromList splices nested tuples).
type Tuple struct {
	Types []Type
}

func (Tuple) isType()    {}
func (t Tuple) Size() uint { return uint(len(t.Types)) }

func (t Tuple) Equal(o Type) bool {
	ot, ok := o.(Tuple)
	if !ok || len(ot.Types) != len(t.Types) {
		return false
	}
	for i, ty := range t.Types {
		if !ty.Equal(ot.Types[i]) {
			return false
		}
	}
	return true
}

func (t Tuple) Hash() uint64 {
	h := uint64(len(t.Types))
	for _, ty := range t.Types {
		h = (h << 1) ^ ty.Hash()
	}
	return h
}

func (t Tuple) String(pool *intern.Pool) string {
	parts := make([]string, len(t.Types))
	for i, ty := range t.Types {
		parts[i] = typeString(ty, pool)
	}
	return strings.Join(parts, " ")
}

// Func is a first-class function type.
type Func struct {
	Params  []Type
	Returns Type
}

func (Func) isType()    {}
func (Func) Size() uint { return 1 }

func (f Func) Equal(o Type) bool {
	of, ok := o.(Func)
	if !ok || len(of.Params) != len(f.Params) || !f.Returns.Equal(of.Returns) {
		return false
	}
	for i, p := range f.Params {
		if !p.Equal(of.Params[i]) {
			return false
		}
	}
	return true
}

func (f Func) Hash() uint64 {
	h := uint64(len(f.Params))
	for _, p := range f.Params {
		h = (h << 1) ^ p.Hash()
	}
	h = (h << 1) ^ f.Returns.Hash()
	return h
}

func (f Func) String(pool *intern.Pool) string {
	var sb strings.Builder
	sb.WriteString("[ ")
	if f.Returns.Size() > 0 {
		sb.WriteString(typeString(f.Returns, pool))
		sb.WriteString(" ")
	}
	sb.WriteString(":")
	for _, p := range f.Params {
		sb.WriteString(" ")
		sb.WriteString(typeString(p, pool))
	}
	sb.WriteString(" ]")
	return sb.String()
}

// FromList builds a type of the appropriate arity from a flattened sequence
// of types: Void for no elements, the element itself for one, a Tuple
// otherwise. Nested Tuples in ts are spliced so the invariant "a Tuple never
// directly contains a Tuple" always holds.
func FromList(ts []Type) Type {
	var flat []Type
	for _, t := range ts {
		if tt, ok := t.(Tuple); ok {
			flat = append(flat, tt.Types...)
		} else if _, ok := t.(Void); ok {
			continue
		} else {
			flat = append(flat, t)
		}
	}
	switch len(flat) {
	case 0:
		return Void{}
	case 1:
		return flat[0]
	default:
		return Tuple{Types: flat}
	}
}

// typeString renders t using pool for any interned names; Poly/Named/Tuple/
// Func hold a *intern.Pool-parameterized String, so this helper dispatches to
// the right overload uniformly for callers that only have a Type.
func typeString(t Type, pool *intern.Pool) string {
	switch v := t.(type) {
	case Conc:
		return v.String()
	case Named:
		return v.String(pool)
	case Poly:
		return v.String(pool)
	case Void:
		return v.String()
	case Tuple:
		return v.String(pool)
	case Func:
		return v.String(pool)
	default:
		return "?"
	}
}

// TypeString renders t for display, resolving interned names through pool.
func TypeString(t Type, pool *intern.Pool) string { return typeString(t, pool) }
