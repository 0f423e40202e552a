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

package parse

import "testing"

func TestLexerSquareBracketsWithOrWithoutInternalSpaces(t *testing.T) {
	spaced, err := newLineLexer("[ T T : T T ]", 1).tokens()
	if err != nil {
		t.Fatalf("tokens(spaced) = %v", err)
	}
	tight, err := newLineLexer("[T T : T T]", 1).tokens()
	if err != nil {
		t.Fatalf("tokens(tight) = %v", err)
	}
	if len(spaced) != len(tight) {
		t.Fatalf("token counts differ: spaced=%d tight=%d", len(spaced), len(tight))
	}
	for i := range spaced {
		if spaced[i].kind != tight[i].kind || spaced[i].text != tight[i].text {
			t.Errorf("token %d differs: %+v vs %+v", i, spaced[i], tight[i])
		}
	}
}

func TestLexerNegativeInteger(t *testing.T) {
	toks, err := newLineLexer("-5", 1).tokens()
	if err != nil {
		t.Fatalf("tokens(-5) = %v", err)
	}
	if len(toks) != 2 || toks[0].kind != tInt || toks[0].ival != -5 {
		t.Fatalf("tokens(-5) = %+v, want a single tInt(-5)", toks)
	}
}

func TestLexerDashAsTagSeparatorNotNegative(t *testing.T) {
	toks, err := newLineLexer("f-tag", 1).tokens()
	if err != nil {
		t.Fatalf("tokens(f-tag) = %v", err)
	}
	// ident "f", dash, ident "tag", EOF
	if len(toks) != 4 || toks[0].kind != tIdent || toks[1].kind != tDash || toks[2].kind != tIdent {
		t.Fatalf("tokens(f-tag) = %+v, want ident, dash, ident, EOF", toks)
	}
}

func TestLexerRejectsUnknownCharacter(t *testing.T) {
	if _, err := newLineLexer("f(@)", 1).tokens(); err == nil {
		t.Error("tokens(f(@)) should fail: '@' is not in the grammar")
	}
}

func TestIsCommentOrBlank(t *testing.T) {
	cases := map[string]bool{
		"":            true,
		"   ":         true,
		"// a comment": true,
		"  // indented": true,
		"f(1)":        false,
		"1 f":         false,
	}
	for line, want := range cases {
		if got := isCommentOrBlank(line); got != want {
			t.Errorf("isCommentOrBlank(%q) = %v, want %v", line, got, want)
		}
	}
}
