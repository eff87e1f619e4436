package ast

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

type Ast struct {
	File *syntax.File
}

// ParseDocument parses shell source. A fallible parse recovers from syntax
// errors so that half-typed documents still produce a tree.
func ParseDocument(documentText, documentName string, fallible bool) (*Ast, error) {
	reader := strings.NewReader(documentText)
	var parser *syntax.Parser
	if fallible {
		parser = syntax.NewParser(syntax.KeepComments(true), syntax.RecoverErrors(9999))
	} else {
		parser = syntax.NewParser(syntax.KeepComments(true))
	}
	file, err := parser.Parse(reader, documentName)
	if err != nil {
		return nil, err
	}
	return &Ast{File: file}, nil
}

// Offset range of a node in the parsed source.
func nodeSpan(node syntax.Node) (start, end int) {
	return int(node.Pos().Offset()), int(node.End().Offset())
}

func extractLiteral(word *syntax.Word) (string, bool) {
	if word == nil || len(word.Parts) != 1 {
		return "", false
	}
	lit, ok := word.Parts[0].(*syntax.Lit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}
