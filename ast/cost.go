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

// Package ast contains the type, declaration, and expression representations
// shared by every resolver component.
package ast

import (
	"fmt"
	"math"
)

// Cost is the lexicographic five-tuple attached to every interpretation:
// unsafe conversions, polymorphic bindings, type-variable count,
// specialization depth (cheaper the higher it is), and safe conversions.
type Cost struct {
	Unsafe uint
	Poly   uint
	Vars   uint
	Spec   uint
	Safe   uint
}

// ZeroCost is the identity element for Cost addition.
var ZeroCost = Cost{}

// MinCost sorts before every other cost produced by resolution; it is used
// as the starting point of a running minimum.
func MinCost() Cost {
	return Cost{Spec: math.MaxUint32}
}

// MaxCost sorts after every cost resolution can produce; it seeds a running
// "nothing found yet" minimum search.
func MaxCost() Cost {
	return Cost{Unsafe: math.MaxUint32, Poly: math.MaxUint32, Vars: math.MaxUint32, Safe: math.MaxUint32}
}

// CostFromDiff builds a Cost from an integer difference between two concrete
// type IDs: a negative difference is unsafe, a non-negative one is safe, in
// both cases with magnitude equal to the absolute difference.
func CostFromDiff(diff int) Cost {
	if diff < 0 {
		return Cost{Unsafe: uint(-diff)}
	}
	return Cost{Safe: uint(diff)}
}

// CostFromUnsafe builds a Cost with only the unsafe component set.
func CostFromUnsafe(n uint) Cost { return Cost{Unsafe: n} }

// CostFromPoly builds a Cost with only the poly component set.
func CostFromPoly(n uint) Cost { return Cost{Poly: n} }

// CostFromVars builds a Cost with only the vars component set.
func CostFromVars(n uint) Cost { return Cost{Vars: n} }

// CostFromSpec builds a Cost with only the spec component set.
func CostFromSpec(n uint) Cost { return Cost{Spec: n} }

// CostFromSafe builds a Cost with only the safe component set.
func CostFromSafe(n uint) Cost { return Cost{Safe: n} }

// Add returns the componentwise sum of a and b.
func (a Cost) Add(b Cost) Cost {
	return Cost{
		Unsafe: a.Unsafe + b.Unsafe,
		Poly:   a.Poly + b.Poly,
		Vars:   a.Vars + b.Vars,
		Spec:   a.Spec + b.Spec,
		Safe:   a.Safe + b.Safe,
	}
}

// Sub returns the componentwise difference of a and b.
func (a Cost) Sub(b Cost) Cost {
	return Cost{
		Unsafe: a.Unsafe - b.Unsafe,
		Poly:   a.Poly - b.Poly,
		Vars:   a.Vars - b.Vars,
		Spec:   a.Spec - b.Spec,
		Safe:   a.Safe - b.Safe,
	}
}

// Compare orders two costs lexicographically by unsafe, poly, vars, spec
// (inverted: a higher spec count is cheaper), then safe. It returns a
// negative number if a < b, zero if equal, a positive number if a > b.
func Compare(a, b Cost) int {
	if c := compareUint(a.Unsafe, b.Unsafe); c != 0 {
		return c
	}
	if c := compareUint(a.Poly, b.Poly); c != 0 {
		return c
	}
	if c := compareUint(a.Vars, b.Vars); c != 0 {
		return c
	}
	if c := compareUint(a.Spec, b.Spec); c != 0 {
		return -c // higher specialization count sorts as cheaper
	}
	return compareUint(a.Safe, b.Safe)
}

func compareUint(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether a sorts strictly before b.
func (a Cost) Less(b Cost) bool { return Compare(a, b) < 0 }

// Equal reports whether a and b compare equal.
func (a Cost) Equal(b Cost) bool { return Compare(a, b) == 0 }

func (c Cost) String() string {
	if c.Spec > 0 {
		return fmt.Sprintf("(%d,%d,%d,-%d,%d)", c.Unsafe, c.Poly, c.Vars, c.Spec, c.Safe)
	}
	return fmt.Sprintf("(%d,%d,%d,%d,%d)", c.Unsafe, c.Poly, c.Vars, c.Spec, c.Safe)
}
