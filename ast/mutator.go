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

// SubstitutePoly rewrites t by replacing every Poly leaf with whatever sub
// returns for it, sharing every subtree that contains no replaced variable
// rather than copying it. This is the generic "map a sum type while sharing
// unchanged subtrees" helper used by the forall substitutor (rebinding Poly
// variables to fresh instances) and by the environment's bound-type
// replacement.
//
// sub returns the replacement type and whether a replacement actually
// occurred; returning (p, false) declines to rewrite that variable.
func SubstitutePoly(t Type, sub func(Poly) (Type, bool)) Type {
	out, _ := substitutePoly(t, sub)
	return out
}

func substitutePoly(t Type, sub func(Poly) (Type, bool)) (Type, bool) {
	switch v := t.(type) {
	case Poly:
		if nt, ok := sub(v); ok {
			return nt, true
		}
		return v, false
	case Named:
		changed := false
		params := v.Params
		for i, p := range v.Params {
			np, ch := substitutePoly(p, sub)
			if ch {
				if !changed {
					params = append([]Type(nil), v.Params...)
					changed = true
				}
				params[i] = np
			}
		}
		if !changed {
			return v, false
		}
		return Named{Name: v.Name, Params: params}, true
	case Tuple:
		changed := false
		types := v.Types
		for i, e := range v.Types {
			ne, ch := substitutePoly(e, sub)
			if ch {
				if !changed {
					types = append([]Type(nil), v.Types...)
					changed = true
				}
				types[i] = ne
			}
		}
		if !changed {
			return v, false
		}
		return Tuple{Types: types}, true
	case Func:
		changed := false
		params := v.Params
		for i, p := range v.Params {
			np, ch := substitutePoly(p, sub)
			if ch {
				if !changed {
					params = append([]Type(nil), v.Params...)
					changed = true
				}
				params[i] = np
			}
		}
		newRet, retChanged := substitutePoly(v.Returns, sub)
		if !changed && !retChanged {
			return v, false
		}
		return Func{Params: params, Returns: newRet}, true
	default:
		// Conc and Void have no children and are never substituted.
		return t, false
	}
}
