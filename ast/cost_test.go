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

import "testing"

func TestCostCompareLexicographic(t *testing.T) {
	tests := []struct {
		name string
		a, b Cost
		want int
	}{
		{"unsafe dominates", Cost{Unsafe: 1}, Cost{Poly: 100, Vars: 100, Safe: 100}, 1},
		{"poly dominates vars", Cost{Poly: 1}, Cost{Vars: 100, Safe: 100}, 1},
		{"vars dominates spec", Cost{Vars: 1}, Cost{Spec: 100, Safe: 100}, 1},
		{"higher spec is cheaper", Cost{Spec: 2}, Cost{Spec: 1}, -1},
		{"safe is last tiebreak", Cost{Safe: 1}, Cost{Safe: 2}, -1},
		{"equal", Cost{1, 2, 3, 4, 5}, Cost{1, 2, 3, 4, 5}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Compare(tc.a, tc.b)
			if sign(got) != sign(tc.want) {
				t.Errorf("Compare(%v, %v) = %d, want sign %d", tc.a, tc.b, got, tc.want)
			}
			if sign(got) == 0 && !tc.a.Equal(tc.b) {
				t.Errorf("Compare(%v, %v) == 0 but Equal is false", tc.a, tc.b)
			}
		})
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestCostAddSub(t *testing.T) {
	a := Cost{Unsafe: 1, Poly: 2, Vars: 3, Spec: 4, Safe: 5}
	b := Cost{Unsafe: 1, Poly: 1, Vars: 1, Spec: 1, Safe: 1}
	sum := a.Add(b)
	want := Cost{Unsafe: 2, Poly: 3, Vars: 4, Spec: 5, Safe: 6}
	if sum != want {
		t.Fatalf("Add = %v, want %v", sum, want)
	}
	if diff := sum.Sub(b); diff != a {
		t.Fatalf("Sub = %v, want %v", diff, a)
	}
}

func TestCostFromDiff(t *testing.T) {
	if c := CostFromDiff(-3); c != (Cost{Unsafe: 3}) {
		t.Errorf("CostFromDiff(-3) = %v, want Unsafe:3", c)
	}
	if c := CostFromDiff(3); c != (Cost{Safe: 3}) {
		t.Errorf("CostFromDiff(3) = %v, want Safe:3", c)
	}
	if c := CostFromDiff(0); c != (Cost{Safe: 0}) {
		t.Errorf("CostFromDiff(0) = %v, want zero", c)
	}
}

func TestMinMaxCostBoundResolution(t *testing.T) {
	costs := []Cost{
		{Unsafe: 1},
		{Poly: 1},
		ZeroCost,
	}
	min := MaxCost()
	for _, c := range costs {
		if c.Less(min) {
			min = c
		}
	}
	if !min.Equal(ZeroCost) {
		t.Errorf("running minimum = %v, want ZeroCost", min)
	}
	if !MinCost().Less(ZeroCost) {
		t.Errorf("MinCost should sort before ZeroCost (more specialized wins)")
	}
}
