package document

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Encoding is the code unit a Position's character field is counted in.
// It is negotiated once per session.
type Encoding string

const (
	UTF8  Encoding = "utf-8"
	UTF16 Encoding = "utf-16"
	UTF32 Encoding = "utf-32"
)

var supportedEncodings = []Encoding{UTF8, UTF16, UTF32}

func ParseEncoding(s string) (Encoding, error) {
	enc := Encoding(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(supportedEncodings, enc) {
		return "", fmt.Errorf("unsupported position encoding %q", s)
	}
	return enc, nil
}

// NegotiateEncoding picks the session encoding from the client's offer.
// The preferred encoding wins if offered, otherwise the first supported
// offer. UTF-16 is mandatory for clients, so it is the fallback.
func NegotiateEncoding(offered []string, preferred Encoding) Encoding {
	var first Encoding
	for _, o := range offered {
		enc, err := ParseEncoding(o)
		if err != nil {
			continue
		}
		if enc == preferred {
			return enc
		}
		if first == "" {
			first = enc
		}
	}
	if first != "" {
		return first
	}
	return UTF16
}

// runeUnits is how many code units r occupies under enc.
func (enc Encoding) runeUnits(r rune, size int) int {
	switch enc {
	case UTF8:
		return size
	case UTF32:
		return 1
	default:
		if r >= 0x10000 {
			return 2
		}
		return 1
	}
}

// UnitLen returns the length of s in code units.
func (enc Encoding) UnitLen(s string) int {
	switch enc {
	case UTF8:
		return len(s)
	case UTF32:
		return utf8.RuneCountInString(s)
	}
	n := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		n += enc.runeUnits(r, size)
		i += size
	}
	return n
}

// byteOffset converts a code unit offset within line to a byte offset.
// Offsets past the end clamp to len(line); an offset inside a character
// rounds up to the next character boundary.
func (enc Encoding) byteOffset(line string, units int) int {
	count := 0
	for i := 0; i < len(line); {
		if count >= units {
			return i
		}
		r, size := utf8.DecodeRuneInString(line[i:])
		count += enc.runeUnits(r, size)
		i += size
	}
	return len(line)
}
