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

// Package tyenv implements the polymorphic Environment (C5): the set of
// type-variable equivalence classes and their bindings built up while
// resolving an expression. Three backends share one contract — Flat (a
// plain mutable union-find, grounded on the same path-compressed find used
// by the teacher's unionfind package), Generational (adds mark/reset for
// the resolver's backtracking search, each Mark taking a full copy of the
// bindings), and Persistent
// (returns a logically new Env per mutation while sharing unchanged
// substructure, for callers that need to keep many candidate environments
// alive at once).
package tyenv

import (
	"errors"

	"github.com/cforall/resolv-proto/ast"
)

// ErrOccursCheck is returned by BindType when binding would make a class's
// type contain itself, directly or through another bound class.
var ErrOccursCheck = errors.New("tyenv: occurs check failed")

// ErrIncompatible is returned when two bound classes cannot be reconciled by
// the unifier, or when merging two environments finds a conflicting pair.
var ErrIncompatible = errors.New("tyenv: incompatible bindings")

// ClassRef identifies one type-variable equivalence class within a
// particular Env value (or, for Persistent, within the lineage it was
// produced from). It is an opaque handle — compare with ==.
type ClassRef struct {
	id int
}

// Unifier is the callback an Env invokes when a bind would have to
// reconcile two already-bound classes. It lives outside this package (the
// unify package implements it) to avoid a tyenv<->unify import cycle, since
// unifying two types may itself need to bind fresh classes in env.
type Unifier interface {
	Unify(a, b ast.Type, cost *ast.Cost, env Env) (ast.Type, error)
}

// Env is the contract every backend satisfies.
type Env interface {
	// FindRef reports the class currently holding p, if any.
	FindRef(p ast.Poly) (ClassRef, bool)
	// GetClass returns p's class, inserting a fresh singleton class if p has
	// never been seen before.
	GetClass(p ast.Poly) ClassRef
	// BindType sets class's bound to t. If class already has an
	// incompatible bound, the Unifier is invoked to reconcile them.
	BindType(class ClassRef, t ast.Type, cost *ast.Cost) error
	// BindVar unions p's class with class.
	BindVar(class ClassRef, p ast.Poly, cost *ast.Cost) error
	// Merge unions this environment with other, failing if any pair of
	// corresponding classes has incompatible bounds. Returns the merged Env
	// (for Persistent backends, a new value; for Flat/Generational, itself,
	// mutated in place).
	Merge(other Env, cost *ast.Cost) (Env, error)
	// FindAssertion looks up a previously bound assertion satisfier.
	FindAssertion(decl *ast.FuncDecl) (ast.TypedExpr, bool)
	// BindAssertion records decl's chosen satisfier.
	BindAssertion(decl *ast.FuncDecl, expr ast.TypedExpr)
	// Replace rewrites t by following bound Poly variables to their bound
	// type, recursively; an unbound or non-Poly (sub)term is returned
	// unchanged (and shared).
	Replace(t ast.Type) ast.Type
	// GetUnbound lists every class with no bound.
	GetUnbound() []ClassRef
	// OccursIn reports whether any of vars appears in t once every bound
	// Poly in t is expanded via Replace.
	OccursIn(vars []ClassRef, t ast.Type) bool
}
