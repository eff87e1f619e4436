package semtok

import (
	"errors"
	"slices"
	"testing"
)

func TestEncode(t *testing.T) {
	encoder := NewEncoder(DefaultLegend(), Capabilities{})

	stream := Stream{
		NewToken(0, 0, 3, 2, 0),
		NewToken(0, 5, 2, 4, 1),
	}
	data, err := encoder.Encode(stream)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	expected := []uint32{0, 0, 3, 2, 0, 0, 5, 2, 4, 1}
	if !slices.Equal(data, expected) {
		t.Errorf("Encode() = %v, expected %v", data, expected)
	}
}

func TestEncodeRelativeToPreviousLine(t *testing.T) {
	encoder := NewEncoder(DefaultLegend(), Capabilities{})

	stream := Stream{
		NewToken(1, 4, 3, 1, 0),
		NewToken(1, 10, 2, 4, 0),
		NewToken(3, 2, 5, 5, 4),
	}
	data, err := encoder.Encode(stream)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	expected := []uint32{
		1, 4, 3, 1, 0,
		0, 6, 2, 4, 0,
		2, 2, 5, 5, 4,
	}
	if !slices.Equal(data, expected) {
		t.Errorf("Encode() = %v, expected %v", data, expected)
	}
}

func TestEncodeEmpty(t *testing.T) {
	encoder := NewEncoder(DefaultLegend(), Capabilities{})

	data, err := encoder.Encode(nil)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Encode(nil) = %v, expected empty", data)
	}
}

func TestEncodeRejects(t *testing.T) {
	multiline := NewToken(0, 0, 3, 2, 0)
	multiline.Range.End.Line = 1

	tests := []struct {
		name     string
		caps     Capabilities
		stream   Stream
		expected error
	}{
		{
			name: "unsorted lines",
			stream: Stream{
				NewToken(2, 0, 1, 0, 0),
				NewToken(1, 0, 1, 0, 0),
			},
			expected: ErrUnsortedTokens,
		},
		{
			name: "unsorted characters",
			stream: Stream{
				NewToken(0, 5, 1, 0, 0),
				NewToken(0, 2, 1, 0, 0),
			},
			expected: ErrUnsortedTokens,
		},
		{
			name: "overlap",
			stream: Stream{
				NewToken(0, 0, 4, 0, 0),
				NewToken(0, 2, 4, 0, 0),
			},
			expected: ErrOverlappingTokens,
		},
		{
			name:     "multi-line token",
			stream:   Stream{multiline},
			expected: ErrMultilineToken,
		},
		{
			name:     "multi-line token with client support",
			caps:     Capabilities{MultilineTokens: true},
			stream:   Stream{multiline},
			expected: ErrMultilineToken,
		},
		{
			name:     "type outside legend",
			stream:   Stream{NewToken(0, 0, 1, 42, 0)},
			expected: ErrInvalidToken,
		},
		{
			name:     "modifier outside legend",
			stream:   Stream{NewToken(0, 0, 1, 0, 1<<10)},
			expected: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder := NewEncoder(DefaultLegend(), tt.caps)
			_, err := encoder.Encode(tt.stream)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Encode() error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestEncodeOverlapAllowed(t *testing.T) {
	encoder := NewEncoder(DefaultLegend(), Capabilities{OverlappingTokens: true})

	stream := Stream{
		NewToken(0, 0, 4, 0, 0),
		NewToken(0, 2, 4, 1, 0),
	}
	if _, err := encoder.Encode(stream); err != nil {
		t.Errorf("Encode() error = %v, expected overlap to be accepted", err)
	}
}

func TestEncodeAdjacentTokens(t *testing.T) {
	encoder := NewEncoder(DefaultLegend(), Capabilities{})

	stream := Stream{
		NewToken(0, 0, 2, 0, 0),
		NewToken(0, 2, 2, 1, 0),
	}
	if _, err := encoder.Encode(stream); err != nil {
		t.Errorf("Encode() error = %v, touching tokens do not overlap", err)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	encoder := NewEncoder(DefaultLegend(), Capabilities{})

	streams := []Stream{
		{},
		{NewToken(0, 0, 3, 2, 0), NewToken(0, 5, 2, 4, 1)},
		{NewToken(4, 1, 1, 7, 0), NewToken(9, 0, 12, 0, 0), NewToken(9, 20, 3, 5, 5)},
	}

	for _, stream := range streams {
		data, err := encoder.Encode(stream)
		if err != nil {
			t.Fatalf("Encode(%v) error = %v", stream, err)
		}
		decoded, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode(%v) error = %v", data, err)
		}
		if !slices.Equal(decoded, stream) {
			t.Errorf("Decode(Encode(s)) = %v, expected %v", decoded, stream)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]uint32{0, 0, 3, 2})
	if !errors.Is(err, ErrMalformedTokenPayload) {
		t.Errorf("Decode() error = %v, expected %v", err, ErrMalformedTokenPayload)
	}
}
