package semtok

import (
	"fmt"

	"github.com/matkrin/shtokd/internal/lsp"
)

// GroupSize is the number of integers encoding one token:
// deltaLine, deltaStartChar, length, tokenType, tokenModifiers.
const GroupSize = 5

// Encoder turns token streams into the relative integer format for one
// session's legend and client capabilities.
type Encoder struct {
	legend Legend
	caps   Capabilities
}

func NewEncoder(legend Legend, caps Capabilities) *Encoder {
	return &Encoder{
		legend: legend,
		caps:   caps,
	}
}

// Encode rejects streams that are not ascending, contain multi-line tokens,
// or overlap while the client cannot render overlapping tokens. It never
// reorders; call SortStream first if the producer reports out of order.
func (e *Encoder) Encode(stream Stream) ([]uint32, error) {
	data := make([]uint32, 0, len(stream)*GroupSize)

	var prevLine, prevStart uint
	var prevEnd lsp.Position
	for i, tok := range stream {
		if tok.Range.Start.Line != tok.Range.End.Line {
			return nil, fmt.Errorf("%w: token %d spans lines %d-%d", ErrMultilineToken, i, tok.Range.Start.Line, tok.Range.End.Line)
		}
		if tok.Range.End.Character < tok.Range.Start.Character {
			return nil, fmt.Errorf("%w: token %d ends before it starts", ErrInvalidToken, i)
		}
		if err := e.legend.Validate(tok); err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}

		line, start := tok.Line(), tok.Start()
		if i > 0 {
			if line < prevLine || (line == prevLine && start < prevStart) {
				return nil, fmt.Errorf("%w: token %d at %d:%d follows %d:%d", ErrUnsortedTokens, i, line, start, prevLine, prevStart)
			}
			if !e.caps.OverlappingTokens && tok.Range.Start.Before(prevEnd) {
				return nil, fmt.Errorf("%w: token %d at %d:%d", ErrOverlappingTokens, i, line, start)
			}
		}

		deltaLine := line - prevLine
		deltaStart := start
		if deltaLine == 0 {
			deltaStart = start - prevStart
		}

		data = append(data,
			uint32(deltaLine),
			uint32(deltaStart),
			uint32(tok.Length()),
			tok.Type,
			tok.Modifiers,
		)

		prevLine, prevStart = line, start
		if !prevEnd.Before(tok.Range.End) {
			continue
		}
		prevEnd = tok.Range.End
	}

	return data, nil
}

// Decode is the inverse of Encode.
func Decode(data []uint32) (Stream, error) {
	if len(data)%GroupSize != 0 {
		return nil, fmt.Errorf("%w: %d integers", ErrMalformedTokenPayload, len(data))
	}

	stream := make(Stream, 0, len(data)/GroupSize)
	var line, start uint
	for i := 0; i < len(data); i += GroupSize {
		deltaLine, deltaStart := uint(data[i]), uint(data[i+1])
		if deltaLine == 0 {
			start += deltaStart
		} else {
			line += deltaLine
			start = deltaStart
		}
		stream = append(stream, NewToken(line, start, uint(data[i+2]), data[i+3], data[i+4]))
	}

	return stream, nil
}
