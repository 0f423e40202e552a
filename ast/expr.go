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

// Expr is an untyped input expression, as produced by the declaration/
// expression parser (internal/parse) and consumed by the resolver.
type Expr interface {
	isExpr()
}

// ValExpr is a type literal: it yields itself with the given type and zero
// cost, used mostly in tests and to seed already-typed leaves. It is both an
// untyped input Expr and, simultaneously, a TypedExpr — a literal needs no
// resolution to acquire a type.
type ValExpr struct {
	Type Type
}

func (ValExpr) isExpr()                 {}
func (ValExpr) isTypedExpr()            {}
func (v ValExpr) ResultType() Type      { return v.Type }

// NameExpr names a variable by identifier; the resolver looks it up among
// the declared VarDecls sharing that name. ID is a stable per-node identity
// assigned by the parser (via ExprIDSource), used only to key the
// interpretation cache — never compared for equality of meaning.
type NameExpr struct {
	Name intern.Symbol
	ID   uint32
}

func (NameExpr) isExpr() {}

// FuncExpr applies a named function to a sequence of argument expressions.
// ID is a stable per-node identity assigned by the parser (via
// ExprIDSource), used only to key the interpretation cache.
type FuncExpr struct {
	Name intern.Symbol
	Args []Expr
	ID   uint32
}

func (FuncExpr) isExpr() {}

// ExprIDSource hands out the stable per-node identities FuncExpr and
// NameExpr carry, the same way VarSource hands out fresh type-variable ids.
type ExprIDSource struct {
	next uint32
}

func NewExprIDSource() *ExprIDSource { return &ExprIDSource{} }

func (s *ExprIDSource) Fresh() uint32 {
	s.next++
	return s.next
}
