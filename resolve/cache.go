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

package resolve

import "github.com/cforall/resolv-proto/ast"

// cacheKey composes the four things that determine a memoised resolution:
// which expression node, under what target type, in which environment
// (identified by the live Env handle itself — a pointer, hence comparable,
// for every backend), and under which mode flags. Keying on the pointer
// rather than a content hash only works because exprID is globally unique
// per expression node: two lookups can never collide on the same key while
// meaning different things, even though a mutable Generational env's
// contents can change after it was used as a key.
type cacheKey struct {
	exprID  uint32
	hasType bool
	target  uint64 // ast.Type.Hash() of the target, when hasType
	env     any
	mode    Mode
}

type cache struct {
	entries map[cacheKey][]Interpretation
}

func newCache() *cache {
	return &cache{entries: make(map[cacheKey][]Interpretation)}
}

func exprID(e ast.Expr) (uint32, bool) {
	switch v := e.(type) {
	case ast.NameExpr:
		return v.ID, true
	case ast.FuncExpr:
		return v.ID, true
	default:
		return 0, false
	}
}

func (c *cache) lookup(e ast.Expr, target ast.Type, env any, mode Mode) ([]Interpretation, bool) {
	id, ok := exprID(e)
	if !ok {
		return nil, false
	}
	key := cacheKey{exprID: id, env: env, mode: mode}
	if target != nil {
		key.hasType = true
		key.target = target.Hash()
	}
	v, ok := c.entries[key]
	return v, ok
}

func (c *cache) store(e ast.Expr, target ast.Type, env any, mode Mode, results []Interpretation) {
	id, ok := exprID(e)
	if !ok {
		return
	}
	key := cacheKey{exprID: id, env: env, mode: mode}
	if target != nil {
		key.hasType = true
		key.target = target.Hash()
	}
	c.entries[key] = results
}
