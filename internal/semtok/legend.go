package semtok

import (
	"fmt"
	"slices"

	"github.com/matkrin/shtokd/internal/lsp"
)

// Standard token type names.
const (
	TypeComment   = "comment"
	TypeKeyword   = "keyword"
	TypeString    = "string"
	TypeNumber    = "number"
	TypeVariable  = "variable"
	TypeFunction  = "function"
	TypeParameter = "parameter"
	TypeOperator  = "operator"
)

// Standard token modifier names.
const (
	ModDeclaration    = "declaration"
	ModReadonly       = "readonly"
	ModDefaultLibrary = "defaultLibrary"
	ModModification   = "modification"
)

// Legend fixes the integer encoding of token types and modifiers for a
// session. It must not change after it has been advertised.
type Legend struct {
	TokenTypes     []string
	TokenModifiers []string
}

func DefaultLegend() Legend {
	return Legend{
		TokenTypes: []string{
			TypeComment,
			TypeKeyword,
			TypeString,
			TypeNumber,
			TypeVariable,
			TypeFunction,
			TypeParameter,
			TypeOperator,
		},
		TokenModifiers: []string{
			ModDeclaration,
			ModReadonly,
			ModDefaultLibrary,
			ModModification,
		},
	}
}

func (l Legend) TypeIndex(name string) (uint32, bool) {
	i := slices.Index(l.TokenTypes, name)
	if i < 0 {
		return 0, false
	}
	return uint32(i), true
}

// ModifierMask returns the bitset for names. Names outside the legend are ignored.
func (l Legend) ModifierMask(names ...string) uint32 {
	var mask uint32
	for _, name := range names {
		if i := slices.Index(l.TokenModifiers, name); i >= 0 {
			mask |= 1 << i
		}
	}
	return mask
}

// Validate checks that the legend can express tok.
func (l Legend) Validate(tok Token) error {
	if int(tok.Type) >= len(l.TokenTypes) {
		return fmt.Errorf("%w: type index %d outside legend of %d types", ErrInvalidToken, tok.Type, len(l.TokenTypes))
	}
	if len(l.TokenModifiers) < 32 && tok.Modifiers>>len(l.TokenModifiers) != 0 {
		return fmt.Errorf("%w: modifier bits %b outside legend of %d modifiers", ErrInvalidToken, tok.Modifiers, len(l.TokenModifiers))
	}
	return nil
}

func (l Legend) Wire() lsp.SemanticTokensLegend {
	return lsp.SemanticTokensLegend{
		TokenTypes:     slices.Clone(l.TokenTypes),
		TokenModifiers: slices.Clone(l.TokenModifiers),
	}
}

// Capabilities are the semantic token features the client declared.
type Capabilities struct {
	OverlappingTokens bool
	MultilineTokens   bool
	Delta             bool
	Range             bool
}

func CapabilitiesFrom(c *lsp.SemanticTokensClientCapabilities) Capabilities {
	if c == nil {
		return Capabilities{}
	}
	return Capabilities{
		OverlappingTokens: c.OverlappingTokenSupport,
		MultilineTokens:   c.MultilineTokenSupport,
		Delta:             c.Requests.Full.Delta,
		Range:             c.Requests.Range,
	}
}
