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

// Package resolve implements the resolver proper: conversion expansion
// (C10), the top-down/bottom-up search (C11), the assertion resolver (C12),
// and the interpretation cache (C13). It is the component that ties
// together ast, internal/typemap, internal/conversion, internal/tyenv,
// internal/unify, and internal/functable into a working overload resolver.
package resolve

import (
	"github.com/cforall/resolv-proto/ast"
	"github.com/cforall/resolv-proto/internal/conversion"
	"github.com/cforall/resolv-proto/internal/functable"
	"github.com/cforall/resolv-proto/internal/tyenv"
	"github.com/cforall/resolv-proto/internal/unify"
)

// Interpretation is one fully-typed reading of an expression: the
// typed-expression tree it produced, the cost it accrued getting there, and
// the environment carrying whatever type-variable bindings it made.
type Interpretation struct {
	Expr ast.TypedExpr
	Cost ast.Cost
	Env  tyenv.Env
}

// Mode is the resolver's behaviour bitset.
type Mode uint8

const (
	// ExpandConversions runs conversion expansion (C10) over a node's
	// candidate interpretations before returning them.
	ExpandConversions Mode = 1 << iota
	// AllowVoid is carried in the mode (and so in cache keys) but no
	// resolution step consults it: a Void result is accepted whether or not
	// it is set.
	AllowVoid
	// CheckAssertions runs the assertion resolver (C12) over any CallExpr
	// whose declaration carries a Forall with assertions.
	CheckAssertions
	// Truncate is carried in the mode (and so in cache keys) but no
	// resolution step consults it: ConvertTo narrows a tuple-typed result to
	// a shorter target tuple prefix (or Void) via TruncateExpr whether or not
	// it is set.
	Truncate
)

// Has reports whether m includes flag.
func (m Mode) Has(flag Mode) bool { return m&flag != 0 }

// Resolver bundles everything a resolve() call needs: the declaration
// table, the conversion graph, the unifier, and fresh-variable/expression-id
// sources shared across one run.
type Resolver struct {
	Funcs  *functable.Table
	Convs  *conversion.Graph
	Unify  *unify.Unifier
	VarSrc *ast.VarSource
	cache  *cache
}

// New constructs a Resolver over the given declaration table and conversion
// graph, sharing vsrc for fresh type-variable allocation across the whole
// run (declarations are instantiated lazily, once per call site).
func New(funcs *functable.Table, convs *conversion.Graph, vsrc *ast.VarSource) *Resolver {
	return &Resolver{
		Funcs:  funcs,
		Convs:  convs,
		Unify:  unify.New(),
		VarSrc: vsrc,
		cache:  newCache(),
	}
}
