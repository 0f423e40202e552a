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

// Walk visits every Poly leaf in t, in preorder, calling f once per
// occurrence (including repeats).
func Walk(t Type, f func(Poly)) {
	switch v := t.(type) {
	case Poly:
		f(v)
	case Named:
		for _, p := range v.Params {
			Walk(p, f)
		}
	case Func:
		for _, p := range v.Params {
			Walk(p, f)
		}
		Walk(v.Returns, f)
	case Tuple:
		for _, e := range v.Types {
			Walk(e, f)
		}
	}
}
