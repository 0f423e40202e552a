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

// Package intern provides a process-local, append-only string interning
// pool. Names of named types, polymorphic type variables, and function and
// variable declarations all flow through a Pool rather than raw strings, so
// that equality of a Symbol is a pointer-cheap integer comparison.
//
// A Pool is explicit context rather than global state: callers (in practice,
// only the declaration/expression parser) create one Pool per resolver run
// and thread it through construction of the declarations it builds. Once a
// Symbol exists, comparing, hashing, or printing it never touches the Pool
// again except to look up its text for output.
package intern

import (
	"sync"
)

// Symbol is an interned string handle. The zero Symbol is reserved and never
// returned by Intern; it is safe to use as a "no name" sentinel.
type Symbol int32

// Pool interns strings to Symbols. It never removes an entry once added.
// The zero value is not usable; construct with NewPool.
type Pool struct {
	mu      sync.Mutex
	strings []string // index i+1 -> strings[i]
	byName  map[string]Symbol
}

// NewPool constructs an empty, ready-to-use Pool.
func NewPool() *Pool {
	return &Pool{
		byName: make(map[string]Symbol),
	}
}

// Intern returns the Symbol for s, assigning it a fresh one on first sight.
func (p *Pool) Intern(s string) Symbol {
	p.mu.Lock()
	defer p.mu.Unlock()
	if sym, ok := p.byName[s]; ok {
		return sym
	}
	p.strings = append(p.strings, s)
	sym := Symbol(len(p.strings))
	p.byName[s] = sym
	return sym
}

// String returns the text a Symbol was interned from.
func (p *Pool) String(sym Symbol) string {
	if sym <= 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(sym) > len(p.strings) {
		return ""
	}
	return p.strings[sym-1]
}

// Len returns the number of distinct strings interned so far.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.strings)
}
