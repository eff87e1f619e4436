package semtok

import (
	"cmp"
	"slices"

	"github.com/matkrin/shtokd/internal/lsp"
)

// Token asserts that a single-line range has a type and a set of modifiers.
// Type indexes Legend.TokenTypes; bit i of Modifiers selects
// Legend.TokenModifiers[i].
type Token struct {
	Range     lsp.Range
	Type      uint32
	Modifiers uint32
}

func NewToken(line, startChar, length uint, typ, modifiers uint32) Token {
	return Token{
		Range:     lsp.NewRange(line, startChar, line, startChar+length),
		Type:      typ,
		Modifiers: modifiers,
	}
}

func (t Token) Line() uint {
	return t.Range.Start.Line
}

func (t Token) Start() uint {
	return t.Range.Start.Character
}

func (t Token) Length() uint {
	return t.Range.End.Character - t.Range.Start.Character
}

// Stream is a sequence of tokens ordered by start position.
type Stream []Token

// SortStream orders s by start position, keeping reporting order for ties.
func SortStream(s Stream) {
	slices.SortStableFunc(s, func(a, b Token) int {
		if c := cmp.Compare(a.Range.Start.Line, b.Range.Start.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Range.Start.Character, b.Range.Start.Character)
	})
}

// Within returns the tokens of s that overlap rng, in order.
func (s Stream) Within(rng lsp.Range) Stream {
	var out Stream
	for _, tok := range s {
		if tok.Range.Overlaps(rng) {
			out = append(out, tok)
		}
	}
	return out
}
