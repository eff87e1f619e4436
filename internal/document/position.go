package document

import (
	"fmt"

	"github.com/matkrin/shtokd/internal/lsp"
)

// PositionIndex converts between (line, character) positions and byte
// offsets in one fixed text. It must be rebuilt whenever the text changes.
type PositionIndex struct {
	text     string
	encoding Encoding
	lines    []lineInfo
}

type lineInfo struct {
	start int // byte offset of the first character
	end   int // byte offset of the line terminator, or len(text)
}

func NewPositionIndex(text string, enc Encoding) *PositionIndex {
	pi := &PositionIndex{
		text:     text,
		encoding: enc,
	}
	pi.buildLineIndex()
	return pi
}

// Lines end at "\n", "\r\n" or a lone "\r".
func (pi *PositionIndex) buildLineIndex() {
	lineStart := 0
	for i := 0; i < len(pi.text); i++ {
		switch pi.text[i] {
		case '\n':
			pi.lines = append(pi.lines, lineInfo{start: lineStart, end: i})
			lineStart = i + 1
		case '\r':
			pi.lines = append(pi.lines, lineInfo{start: lineStart, end: i})
			if i+1 < len(pi.text) && pi.text[i+1] == '\n' {
				i++
			}
			lineStart = i + 1
		}
	}
	pi.lines = append(pi.lines, lineInfo{start: lineStart, end: len(pi.text)})
}

func (pi *PositionIndex) Encoding() Encoding {
	return pi.encoding
}

func (pi *PositionIndex) Text() string {
	return pi.text
}

// LineCount is at least 1; the empty text has one empty line.
func (pi *PositionIndex) LineCount() int {
	return len(pi.lines)
}

// LineBounds returns the byte span of a line without its terminator.
func (pi *PositionIndex) LineBounds(line int) (start, end int, err error) {
	if line < 0 || line >= len(pi.lines) {
		return 0, 0, fmt.Errorf("%w: line %d of %d", ErrRangeOutOfBounds, line, len(pi.lines))
	}
	return pi.lines[line].start, pi.lines[line].end, nil
}

// Offset resolves pos to a byte offset. A character past the end of the
// line clamps to the line length; a line past the last line is an error.
func (pi *PositionIndex) Offset(pos lsp.Position) (int, error) {
	if pos.Line >= uint(len(pi.lines)) {
		return 0, fmt.Errorf("%w: line %d of %d", ErrRangeOutOfBounds, pos.Line, len(pi.lines))
	}
	line := pi.lines[pos.Line]
	return line.start + pi.encoding.byteOffset(pi.text[line.start:line.end], int(pos.Character)), nil
}

// Span resolves a range to a byte span.
func (pi *PositionIndex) Span(rng lsp.Range) (start, end int, err error) {
	if rng.End.Before(rng.Start) {
		return 0, 0, fmt.Errorf("%w: range start %+v after end %+v", ErrRangeOutOfBounds, rng.Start, rng.End)
	}
	start, err = pi.Offset(rng.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err = pi.Offset(rng.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Position converts a byte offset to a position. An offset pointing at a
// line terminator maps to the end of that line.
func (pi *PositionIndex) Position(offset int) (lsp.Position, error) {
	if offset < 0 || offset > len(pi.text) {
		return lsp.Position{}, fmt.Errorf("%w: offset %d of %d", ErrRangeOutOfBounds, offset, len(pi.text))
	}

	lo, hi := 0, len(pi.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if pi.lines[mid].start <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	line := pi.lines[lo]
	offset = min(offset, line.end)
	return lsp.Position{
		Line:      uint(lo),
		Character: uint(pi.encoding.UnitLen(pi.text[line.start:offset])),
	}, nil
}
