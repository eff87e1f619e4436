package semtok

import (
	"fmt"
	"slices"

	"github.com/matkrin/shtokd/internal/lsp"
)

// Edit replaces DeleteCount token groups of a previous result, starting at
// group Start, with Data. Data holds whole groups of the new result.
type Edit struct {
	Start       int
	DeleteCount int
	Data        []uint32
}

// Wire converts the edit to integer offsets into the flat array.
func (e Edit) Wire() lsp.SemanticTokensEdit {
	return lsp.SemanticTokensEdit{
		Start:       uint32(e.Start * GroupSize),
		DeleteCount: uint32(e.DeleteCount * GroupSize),
		Data:        e.Data,
	}
}

// ComputeDelta returns edits turning previous into current. It emits at
// most one edit covering everything between the longest common prefix and
// the longest common suffix of groups. Equal inputs produce no edits.
func ComputeDelta(previous, current []uint32) ([]Edit, error) {
	if len(previous)%GroupSize != 0 {
		return nil, fmt.Errorf("%w: previous result has %d integers", ErrMalformedTokenPayload, len(previous))
	}
	if len(current)%GroupSize != 0 {
		return nil, fmt.Errorf("%w: current result has %d integers", ErrMalformedTokenPayload, len(current))
	}

	prevGroups := len(previous) / GroupSize
	curGroups := len(current) / GroupSize
	common := min(prevGroups, curGroups)

	prefix := 0
	for prefix < common && groupEqual(previous, prefix, current, prefix) {
		prefix++
	}
	if prefix == prevGroups && prefix == curGroups {
		return nil, nil
	}

	suffix := 0
	for suffix < common-prefix && groupEqual(previous, prevGroups-1-suffix, current, curGroups-1-suffix) {
		suffix++
	}

	edit := Edit{
		Start:       prefix,
		DeleteCount: prevGroups - prefix - suffix,
	}
	if middle := current[prefix*GroupSize : (curGroups-suffix)*GroupSize]; len(middle) > 0 {
		edit.Data = slices.Clone(middle)
	}
	return []Edit{edit}, nil
}

func groupEqual(a []uint32, i int, b []uint32, j int) bool {
	return slices.Equal(a[i*GroupSize:(i+1)*GroupSize], b[j*GroupSize:(j+1)*GroupSize])
}

// ApplyEdits applies edits to data the way a client does. Edits refer to
// positions in the original data and must be sorted and disjoint.
func ApplyEdits(data []uint32, edits []Edit) ([]uint32, error) {
	if len(data)%GroupSize != 0 {
		return nil, fmt.Errorf("%w: %d integers", ErrMalformedTokenPayload, len(data))
	}

	groups := len(data) / GroupSize
	out := make([]uint32, 0, len(data))
	next := 0
	for i, edit := range edits {
		if edit.Start < next || edit.DeleteCount < 0 || edit.Start+edit.DeleteCount > groups {
			return nil, fmt.Errorf("%w: edit %d replaces groups [%d,%d) of %d", ErrMalformedTokenPayload, i, edit.Start, edit.Start+edit.DeleteCount, groups)
		}
		if len(edit.Data)%GroupSize != 0 {
			return nil, fmt.Errorf("%w: edit %d inserts %d integers", ErrMalformedTokenPayload, i, len(edit.Data))
		}
		out = append(out, data[next*GroupSize:edit.Start*GroupSize]...)
		out = append(out, edit.Data...)
		next = edit.Start + edit.DeleteCount
	}
	out = append(out, data[next*GroupSize:]...)
	return out, nil
}
