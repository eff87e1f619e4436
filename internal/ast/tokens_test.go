package ast

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/matkrin/shtokd/internal/document"
	"github.com/matkrin/shtokd/internal/semtok"
)

type expectedToken struct {
	line, start, length uint
	typ                 string
	mods                []string
}

func tokenize(t *testing.T, input string, enc document.Encoding) semtok.Stream {
	t.Helper()
	tokenizer := NewTokenizer(semtok.DefaultLegend())
	stream, err := tokenizer.Tokenize(context.Background(), "test.sh", document.NewPositionIndex(input, enc))
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	return stream
}

func toToken(expected expectedToken) semtok.Token {
	legend := semtok.DefaultLegend()
	typ, _ := legend.TypeIndex(expected.typ)
	return semtok.NewToken(expected.line, expected.start, expected.length, typ, legend.ModifierMask(expected.mods...))
}

func assertContains(t *testing.T, stream semtok.Stream, expected ...expectedToken) {
	t.Helper()
	for _, e := range expected {
		if !slices.Contains(stream, toToken(e)) {
			t.Errorf("expected token %+v in %v", e, stream)
		}
	}
}

func TestTokenize_SimpleScript(t *testing.T) {
	input := "# greet\nname=\"world\"\necho \"hi $name\" > out.txt\n"
	stream := tokenize(t, input, document.UTF16)

	expected := []expectedToken{
		{0, 0, 7, semtok.TypeComment, nil},
		{1, 0, 4, semtok.TypeVariable, []string{semtok.ModDeclaration}},
		{1, 5, 7, semtok.TypeString, nil},
		{2, 0, 4, semtok.TypeFunction, []string{semtok.ModDefaultLibrary}},
		{2, 5, 4, semtok.TypeString, nil},
		{2, 9, 5, semtok.TypeVariable, nil},
		{2, 14, 1, semtok.TypeString, nil},
		{2, 16, 1, semtok.TypeOperator, nil},
	}
	if len(stream) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(stream), stream)
	}
	for i, e := range expected {
		if stream[i] != toToken(e) {
			t.Errorf("token %d = %v, expected %+v", i, stream[i], e)
		}
	}
}

func TestTokenize_Keywords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []expectedToken
	}{
		{
			name:  "if clause",
			input: "if true; then\n  x=1\nfi\n",
			expected: []expectedToken{
				{0, 0, 2, semtok.TypeKeyword, nil},
				{0, 3, 4, semtok.TypeFunction, []string{semtok.ModDefaultLibrary}},
				{0, 9, 4, semtok.TypeKeyword, nil},
				{1, 2, 1, semtok.TypeVariable, []string{semtok.ModDeclaration}},
				{2, 0, 2, semtok.TypeKeyword, nil},
			},
		},
		{
			name:  "for loop",
			input: "for f in a b; do\n  echo $f\ndone\n",
			expected: []expectedToken{
				{0, 0, 3, semtok.TypeKeyword, nil},
				{0, 4, 1, semtok.TypeVariable, []string{semtok.ModDeclaration}},
				{0, 6, 2, semtok.TypeKeyword, nil},
				{0, 14, 2, semtok.TypeKeyword, nil},
				{1, 7, 2, semtok.TypeVariable, nil},
				{2, 0, 4, semtok.TypeKeyword, nil},
			},
		},
		{
			name:  "while loop",
			input: "while read line; do\n  :\ndone\n",
			expected: []expectedToken{
				{0, 0, 5, semtok.TypeKeyword, nil},
				{0, 6, 4, semtok.TypeFunction, []string{semtok.ModDefaultLibrary}},
				{0, 17, 2, semtok.TypeKeyword, nil},
				{2, 0, 4, semtok.TypeKeyword, nil},
			},
		},
		{
			name:  "function declaration",
			input: "function greet() {\n  deploy now\n}\n",
			expected: []expectedToken{
				{0, 0, 8, semtok.TypeKeyword, nil},
				{0, 9, 5, semtok.TypeFunction, []string{semtok.ModDeclaration}},
				{1, 2, 6, semtok.TypeFunction, nil},
			},
		},
		{
			name:  "readonly declaration",
			input: "readonly LIMIT=10\n",
			expected: []expectedToken{
				{0, 0, 8, semtok.TypeKeyword, nil},
				{0, 9, 5, semtok.TypeVariable, []string{semtok.ModDeclaration, semtok.ModReadonly}},
			},
		},
		{
			name:  "append assignment",
			input: "PATH+=:/opt/bin\n",
			expected: []expectedToken{
				{0, 0, 4, semtok.TypeVariable, []string{semtok.ModModification}},
			},
		},
		{
			name:  "numbers and redirects",
			input: "exit 3 2>/dev/null\n",
			expected: []expectedToken{
				{0, 0, 4, semtok.TypeFunction, []string{semtok.ModDefaultLibrary}},
				{0, 5, 1, semtok.TypeNumber, nil},
				{0, 7, 1, semtok.TypeNumber, nil},
				{0, 8, 1, semtok.TypeOperator, nil},
			},
		},
		{
			name:  "positional parameter and binary command",
			input: "test -n $1 && echo ok\n",
			expected: []expectedToken{
				{0, 8, 2, semtok.TypeParameter, nil},
				{0, 11, 2, semtok.TypeOperator, nil},
				{0, 14, 4, semtok.TypeFunction, []string{semtok.ModDefaultLibrary}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := tokenize(t, tt.input, document.UTF16)
			assertContains(t, stream, tt.expected...)
		})
	}
}

func TestTokenize_HeredocSplitsPerLine(t *testing.T) {
	input := "cat <<EOF\nhello\nworld $USER\nEOF\n"
	stream := tokenize(t, input, document.UTF16)

	assertContains(t, stream,
		expectedToken{0, 4, 2, semtok.TypeOperator, nil},
		expectedToken{1, 0, 5, semtok.TypeString, nil},
		expectedToken{2, 0, 6, semtok.TypeString, nil},
		expectedToken{2, 6, 5, semtok.TypeVariable, nil},
	)
	for _, tok := range stream {
		if tok.Range.Start.Line != tok.Range.End.Line {
			t.Errorf("token %v spans lines", tok)
		}
	}
}

func TestTokenize_PositionEncoding(t *testing.T) {
	input := "# \U0001F600\necho \"\U0001F600\" $x\n"

	tests := []struct {
		enc      document.Encoding
		expected []expectedToken
	}{
		{
			enc: document.UTF16,
			expected: []expectedToken{
				{0, 0, 4, semtok.TypeComment, nil},
				{1, 5, 4, semtok.TypeString, nil},
				{1, 10, 2, semtok.TypeVariable, nil},
			},
		},
		{
			enc: document.UTF32,
			expected: []expectedToken{
				{0, 0, 3, semtok.TypeComment, nil},
				{1, 5, 3, semtok.TypeString, nil},
				{1, 9, 2, semtok.TypeVariable, nil},
			},
		},
		{
			enc: document.UTF8,
			expected: []expectedToken{
				{0, 0, 6, semtok.TypeComment, nil},
				{1, 5, 6, semtok.TypeString, nil},
				{1, 12, 2, semtok.TypeVariable, nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.enc), func(t *testing.T) {
			stream := tokenize(t, input, tt.enc)
			assertContains(t, stream, tt.expected...)
		})
	}
}

func TestTokenize_StreamEncodes(t *testing.T) {
	input := `#!/usr/bin/env bash
set -euo pipefail

readonly ROOT="$(cd "$(dirname "$0")" && pwd)"

usage() {
  cat <<EOF
usage: $0 [-v] target
EOF
}

case "$1" in
  -h|--help) usage; exit 0 ;;
  *) target="$1" ;;
esac

for f in "$ROOT"/*.sh; do
  if [[ -x $f ]]; then
    "$f" "$target" 2>&1 | tee -a log.txt
  fi
done
`
	stream := tokenize(t, input, document.UTF16)
	if len(stream) == 0 {
		t.Fatal("expected tokens")
	}

	encoder := semtok.NewEncoder(semtok.DefaultLegend(), semtok.Capabilities{})
	if _, err := encoder.Encode(stream); err != nil {
		t.Errorf("Encode() error = %v", err)
	}

	assertContains(t, stream,
		expectedToken{0, 0, 19, semtok.TypeComment, nil},
		expectedToken{11, 0, 4, semtok.TypeKeyword, nil},
		expectedToken{14, 0, 4, semtok.TypeKeyword, nil},
		expectedToken{16, 0, 3, semtok.TypeKeyword, nil},
	)
}

func TestTokenize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tokenizer := NewTokenizer(semtok.DefaultLegend())
	_, err := tokenizer.Tokenize(ctx, "test.sh", document.NewPositionIndex("echo hi\n", document.UTF16))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Tokenize() error = %v, expected %v", err, context.Canceled)
	}
}

func TestTokenize_LegendWithoutType(t *testing.T) {
	legend := semtok.Legend{TokenTypes: []string{semtok.TypeComment}}
	tokenizer := NewTokenizer(legend)

	stream, err := tokenizer.Tokenize(context.Background(), "test.sh", document.NewPositionIndex("# note\necho hi\n", document.UTF16))
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if len(stream) != 1 || stream[0].Type != 0 {
		t.Errorf("Tokenize() = %v, expected only the comment", stream)
	}
}
