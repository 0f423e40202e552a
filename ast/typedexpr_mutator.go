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

// MutateArgs walks args once, applying f to each element. f reports, besides
// the (possibly rewritten) result, whether it actually changed that element
// and whether mutation succeeded at all. While every call reports no change,
// the original slice is returned unmodified (shared, not copied); on the
// first real change MutateArgs switches to copy mode so the input slice is
// never mutated in place. If f reports failure for any element, MutateArgs
// returns (nil, false) immediately, dropping the whole result per the
// assertion resolver's "trim expressions that lose any args" rule.
func MutateArgs(args []TypedExpr, f func(TypedExpr) (result TypedExpr, changed bool, ok bool)) ([]TypedExpr, bool) {
	var out []TypedExpr
	copying := false
	for i, a := range args {
		na, changed, ok := f(a)
		if !ok {
			return nil, false
		}
		if !copying {
			if !changed {
				continue
			}
			out = append(append([]TypedExpr(nil), args[:i]...), na)
			copying = true
			continue
		}
		out = append(out, na)
	}
	if !copying {
		return args, true
	}
	return out, true
}
