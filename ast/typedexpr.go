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

// TypedExpr is a resolved, typed rewrite of an input Expr. Every node knows
// its own ResultType so that callers building further interpretations never
// need an auxiliary type-of table.
type TypedExpr interface {
	isTypedExpr()
	ResultType() Type
}

// VarExpr refers to a resolved variable declaration.
type VarExpr struct {
	Decl *VarDecl
}

func (VarExpr) isTypedExpr()        {}
func (e VarExpr) ResultType() Type  { return e.Decl.Type }

// CastExpr applies a conversion (safe or unsafe) to its argument, changing
// its type to Target.
type CastExpr struct {
	Arg    TypedExpr
	Target Type
}

func (CastExpr) isTypedExpr()       {}
func (e CastExpr) ResultType() Type { return e.Target }

// TruncateExpr discards trailing tuple elements (or all elements, for a Void
// target), producing Target from Arg's tuple prefix.
type TruncateExpr struct {
	Arg    TypedExpr
	Target Type
}

func (TruncateExpr) isTypedExpr()       {}
func (e TruncateExpr) ResultType() Type { return e.Target }

// CallExpr is a resolved function call: Decl has already been instantiated
// (Forall rebound to fresh variables) for this call site if it was
// polymorphic.
type CallExpr struct {
	Decl    *FuncDecl
	Args    []TypedExpr
	Forall  *Forall // the instantiated Forall carried by Decl, or nil
	RetType Type
}

func (CallExpr) isTypedExpr()       {}
func (e CallExpr) ResultType() Type { return e.RetType }

// TupleElementExpr projects the element at Index out of Of's tuple type.
type TupleElementExpr struct {
	Of    TypedExpr
	Index int
}

func (e TupleElementExpr) isTypedExpr() {}
func (e TupleElementExpr) ResultType() Type {
	if t, ok := e.Of.ResultType().(Tuple); ok {
		return t.Types[e.Index]
	}
	return e.Of.ResultType()
}

// TupleExpr combines several typed expressions into one tuple-typed result.
type TupleExpr struct {
	Els []TypedExpr
}

func (TupleExpr) isTypedExpr() {}
func (e TupleExpr) ResultType() Type {
	ts := make([]Type, len(e.Els))
	for i, el := range e.Els {
		ts[i] = el.ResultType()
	}
	return FromList(ts)
}

// DeclExpr names a function declaration directly, with no call — the value
// an assertion binds to once the assertion resolver has picked which
// overload satisfies it.
type DeclExpr struct {
	Decl *FuncDecl
}

func (DeclExpr) isTypedExpr() {}
func (e DeclExpr) ResultType() Type {
	return Func{Params: e.Decl.Params, Returns: e.Decl.Returns}
}

// AmbiguousExpr records that SourceExpr resolved to several equal-cost
// Alternatives of type Type; the resolver reports this at the top level, and
// downstream assertion resolution may narrow it to a unique survivor.
type AmbiguousExpr struct {
	SourceExpr   Expr
	Type         Type
	Alternatives []TypedExpr
}

func (AmbiguousExpr) isTypedExpr()       {}
func (e AmbiguousExpr) ResultType() Type { return e.Type }
