package ast

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/matkrin/shtokd/internal/document"
	"github.com/matkrin/shtokd/internal/semtok"
	"mvdan.cc/sh/v3/syntax"
)

var bashBuiltins = map[string]bool{
	".": true, ":": true, "[": true, "alias": true, "bg": true, "bind": true,
	"break": true, "builtin": true, "caller": true, "cd": true, "command": true,
	"compgen": true, "complete": true, "compopt": true, "continue": true,
	"dirs": true, "disown": true, "echo": true, "enable": true, "eval": true,
	"exec": true, "exit": true, "export": true, "false": true, "fc": true,
	"fg": true, "getopts": true, "hash": true, "help": true, "history": true,
	"jobs": true, "kill": true, "let": true, "logout": true, "mapfile": true,
	"popd": true, "printf": true, "pushd": true, "pwd": true, "read": true,
	"readarray": true, "return": true, "set": true, "shift": true,
	"shopt": true, "source": true, "suspend": true, "test": true, "times": true,
	"trap": true, "true": true, "type": true, "ulimit": true, "umask": true,
	"unalias": true, "unset": true, "wait": true,
}

// Parameters that are positional or special rather than named variables.
const specialParams = "@*#?$!-0123456789"

// span is a classified byte range of the source. Deeper spans win where
// spans overlap, so "$x" inside a string is reported as a variable.
type span struct {
	start, end int
	typ        string
	mods       []string
	depth      int
}

// Tokenizer classifies shell source into semantic tokens for one legend.
type Tokenizer struct {
	legend semtok.Legend
}

func NewTokenizer(legend semtok.Legend) *Tokenizer {
	return &Tokenizer{legend: legend}
}

// Tokenize parses the indexed text and returns a sorted, non-overlapping
// stream of single-line tokens. Text that cannot be parsed even with error
// recovery yields an empty stream.
func (t *Tokenizer) Tokenize(ctx context.Context, name string, index *document.PositionIndex) (semtok.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := index.Text()
	fileAst, err := ParseDocument(text, name, true)
	if err != nil {
		slog.Debug("Could not parse document for tokens", "name", name, "err", err)
		return semtok.Stream{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spans := fileAst.spans(text)
	return t.layout(ctx, spans, index)
}

func (a *Ast) spans(text string) []span {
	var spans []span
	depth := 0
	readonly := make(map[*syntax.Assign]bool)

	add := func(start, end int, typ string, mods ...string) {
		if start < 0 || end > len(text) || start >= end {
			return
		}
		spans = append(spans, span{start: start, end: end, typ: typ, mods: mods, depth: depth})
	}
	addNode := func(node syntax.Node, typ string, mods ...string) {
		start, end := nodeSpan(node)
		add(start, end, typ, mods...)
	}
	keyword := func(pos syntax.Pos) {
		if !pos.IsValid() {
			return
		}
		start := int(pos.Offset())
		end := start
		for end < len(text) && isWordByte(text[end]) {
			end++
		}
		add(start, end, semtok.TypeKeyword)
	}
	operator := func(pos syntax.Pos, op string) {
		if !pos.IsValid() {
			return
		}
		start := int(pos.Offset())
		add(start, start+len(op), semtok.TypeOperator)
	}

	syntax.Walk(a.File, func(node syntax.Node) bool {
		if node == nil {
			depth--
			return true
		}
		depth++

		switch n := node.(type) {
		case *syntax.Comment:
			addNode(n, semtok.TypeComment)

		case *syntax.SglQuoted:
			addNode(n, semtok.TypeString)

		case *syntax.DblQuoted:
			addNode(n, semtok.TypeString)

		case *syntax.ParamExp:
			if n.Param != nil && n.Param.Value != "" && strings.Contains(specialParams, n.Param.Value[:1]) {
				addNode(n, semtok.TypeParameter)
			} else {
				addNode(n, semtok.TypeVariable)
			}

		case *syntax.DeclClause:
			if n.Variant != nil {
				addNode(n.Variant, semtok.TypeKeyword)
			}
			if isReadonlyDecl(n) {
				for _, assign := range n.Args {
					readonly[assign] = true
				}
			}

		case *syntax.Assign:
			if n.Name == nil {
				break
			}
			mods := []string{semtok.ModDeclaration}
			if n.Append {
				mods = []string{semtok.ModModification}
			}
			if readonly[n] {
				mods = append(mods, semtok.ModReadonly)
			}
			addNode(n.Name, semtok.TypeVariable, mods...)

		case *syntax.CallExpr:
			for i, word := range n.Args {
				lit, ok := extractLiteral(word)
				if !ok {
					continue
				}
				switch {
				case i == 0 && bashBuiltins[lit]:
					addNode(word, semtok.TypeFunction, semtok.ModDefaultLibrary)
				case i == 0:
					addNode(word, semtok.TypeFunction)
				case isNumber(lit):
					addNode(word, semtok.TypeNumber)
				}
			}

		case *syntax.FuncDecl:
			if n.RsrvWord {
				keyword(n.Position)
			}
			if n.Name != nil {
				addNode(n.Name, semtok.TypeFunction, semtok.ModDeclaration)
			}

		case *syntax.IfClause:
			keyword(n.Position)
			keyword(n.ThenPos)
			keyword(n.FiPos)

		case *syntax.WhileClause:
			keyword(n.WhilePos)
			keyword(n.DoPos)
			keyword(n.DonePos)

		case *syntax.ForClause:
			keyword(n.ForPos)
			keyword(n.DoPos)
			keyword(n.DonePos)

		case *syntax.WordIter:
			if n.Name != nil {
				addNode(n.Name, semtok.TypeVariable, semtok.ModDeclaration)
			}
			keyword(n.InPos)

		case *syntax.CaseClause:
			keyword(n.Case)
			keyword(n.In)
			keyword(n.Esac)

		case *syntax.Redirect:
			if n.N != nil {
				addNode(n.N, semtok.TypeNumber)
			}
			operator(n.OpPos, n.Op.String())
			if n.Hdoc != nil {
				addNode(n.Hdoc, semtok.TypeString)
			}

		case *syntax.BinaryCmd:
			operator(n.OpPos, n.Op.String())
		}
		return true
	})

	return spans
}

// layout resolves overlapping spans and splits the result into
// single-line tokens in document order.
func (t *Tokenizer) layout(ctx context.Context, spans []span, index *document.PositionIndex) (semtok.Stream, error) {
	text := index.Text()
	owner := make([]int, len(text))
	for i := range owner {
		owner[i] = -1
	}

	order := make([]int, len(spans))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return spans[a].depth - spans[b].depth
	})
	for _, i := range order {
		for b := spans[i].start; b < spans[i].end; b++ {
			owner[b] = i
		}
	}

	stream := semtok.Stream{}
	for start := 0; start < len(text); {
		if owner[start] < 0 {
			start++
			continue
		}
		end := start + 1
		for end < len(text) && owner[end] == owner[start] {
			end++
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := spans[owner[start]]
		typ, ok := t.legend.TypeIndex(s.typ)
		if ok {
			tokens, err := splitLines(index, start, end, typ, t.legend.ModifierMask(s.mods...))
			if err != nil {
				return nil, err
			}
			stream = append(stream, tokens...)
		}
		start = end
	}

	return stream, nil
}

func splitLines(index *document.PositionIndex, start, end int, typ, mods uint32) (semtok.Stream, error) {
	first, err := index.Position(start)
	if err != nil {
		return nil, err
	}

	var tokens semtok.Stream
	for line := int(first.Line); line < index.LineCount(); line++ {
		lineStart, lineEnd, err := index.LineBounds(line)
		if err != nil {
			return nil, err
		}
		if lineStart >= end {
			break
		}
		segStart, segEnd := max(start, lineStart), min(end, lineEnd)
		if segEnd <= segStart {
			continue
		}
		from, err := index.Position(segStart)
		if err != nil {
			return nil, err
		}
		to, err := index.Position(segEnd)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, semtok.NewToken(from.Line, from.Character, to.Character-from.Character, typ, mods))
	}
	return tokens, nil
}

// `readonly x=1` and `declare -r x=1` both make x read-only.
func isReadonlyDecl(decl *syntax.DeclClause) bool {
	if decl.Variant == nil {
		return false
	}
	if decl.Variant.Value == "readonly" {
		return true
	}
	for _, arg := range decl.Args {
		if !arg.Naked || arg.Name != nil {
			continue
		}
		flag, ok := extractLiteral(arg.Value)
		if ok && strings.HasPrefix(flag, "-") && strings.Contains(flag, "r") {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
