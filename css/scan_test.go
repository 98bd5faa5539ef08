package css

import (
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		Input  string
		Tokens []Token
	}{
		{
			Input: "div",
			Tokens: []Token{
				{Literal: "div", Type: Ident},
			},
		},
		{
			Input: "ul > li.item",
			Tokens: []Token{
				{Literal: "ul", Type: Ident},
				{Literal: " ", Type: Space},
				{Literal: ">", Type: Other},
				{Literal: " ", Type: Space},
				{Literal: "li", Type: Ident},
				{Literal: ".", Type: Other},
				{Literal: "item", Type: Ident},
			},
		},
		{
			Input: "a[href^='http']",
			Tokens: []Token{
				{Literal: "a", Type: Ident},
				{Literal: "[", Type: Other},
				{Literal: "href", Type: Ident},
				{Literal: "^=", Type: Other},
				{Literal: "'http'", Type: Literal},
				{Literal: "]", Type: Other},
			},
		},
		{
			Input: "li:nth-child(2n+1)",
			Tokens: []Token{
				{Literal: "li", Type: Ident},
				{Literal: ":", Type: Other},
				{Literal: "nth-child", Type: Ident},
				{Literal: "(", Type: Other},
				{Literal: "2n+1", Type: ComplexNumber},
				{Literal: ")", Type: Other},
			},
		},
		{
			Input: "li:nth-child(-3N - 2)",
			Tokens: []Token{
				{Literal: "li", Type: Ident},
				{Literal: ":", Type: Other},
				{Literal: "nth-child", Type: Ident},
				{Literal: "(", Type: Other},
				{Literal: "-3N - 2", Type: ComplexNumber},
				{Literal: ")", Type: Other},
			},
		},
		{
			Input: "child::p",
			Tokens: []Token{
				{Literal: "child", Type: Ident},
				{Literal: "::", Type: Other},
				{Literal: "p", Type: Ident},
			},
		},
		{
			Input: "a /* comment */  \t b",
			Tokens: []Token{
				{Literal: "a", Type: Ident},
				{Literal: " /* comment */  \t ", Type: Space},
				{Literal: "b", Type: Ident},
			},
		},
		{
			Input: `#a\:b`,
			Tokens: []Token{
				{Literal: "#", Type: Other},
				{Literal: `a\:b`, Type: Ident},
			},
		},
		{
			Input: `"unterminated`,
			Tokens: []Token{
				{Literal: `"`, Type: Other},
				{Literal: "unterminated", Type: Ident},
			},
		},
		{
			Input: "été",
			Tokens: []Token{
				{Literal: "été", Type: Ident},
			},
		},
		{
			Input: "[x!=1]",
			Tokens: []Token{
				{Literal: "[", Type: Other},
				{Literal: "x", Type: Ident},
				{Literal: "!=", Type: Other},
				{Literal: "1", Type: Ident},
				{Literal: "]", Type: Other},
			},
		},
	}
	for _, c := range tests {
		got := Tokenize(c.Input)
		if len(got) != len(c.Tokens) {
			t.Errorf("%s: number of tokens mismatched! want %d, got %d (%v)", c.Input, len(c.Tokens), len(got), got)
			continue
		}
		for i := range got {
			if got[i].Literal != c.Tokens[i].Literal || got[i].Type != c.Tokens[i].Type {
				t.Errorf("%s: token mismatched at %d! want %s, got %s", c.Input, i, c.Tokens[i], got[i])
			}
		}
	}
}

func TestTokenizeOffset(t *testing.T) {
	toks := Tokenize("ul > li")
	offsets := []int{0, 2, 3, 4, 5}
	for i, tok := range toks {
		if tok.Offset != offsets[i] {
			t.Errorf("token %s: offset mismatched! want %d, got %d", tok, offsets[i], tok.Offset)
		}
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		Input string
		Want  string
	}{
		{Input: "plain", Want: "plain"},
		{Input: `a\:b`, Want: "a:b"},
		{Input: `\31 23`, Want: "1 23"},
		{Input: `\e9t\e9`, Want: "été"},
		{Input: `\0`, Want: "�"},
		{Input: `\110000`, Want: "�"},
		{Input: `a\"b`, Want: `a"b`},
	}
	for _, c := range tests {
		got := unescape(c.Input)
		if got != c.Want {
			t.Errorf("%s: unescaped string mismatched! want %q, got %q", c.Input, c.Want, got)
		}
	}
}
