package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matkrin/shtokd/internal/ast"
	"github.com/matkrin/shtokd/internal/document"
	"github.com/matkrin/shtokd/internal/semtok"
	"github.com/spf13/pflag"
)

// shtok prints the semantic tokens of a shell script read from a file
// argument or stdin.
func main() {
	encodingFlag := pflag.StringP("encoding", "e", "utf-16", "position encoding: utf-8, utf-16 or utf-32")
	raw := pflag.BoolP("raw", "r", false, "print only the encoded integer array")
	pflag.Parse()

	enc, err := document.ParseEncoding(*encodingFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}

	name := "stdin"
	var data []byte
	if pflag.NArg() == 0 {
		data, err = io.ReadAll(os.Stdin)
	} else {
		name = pflag.Arg(0)
		data, err = os.ReadFile(name)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR: Cannot read script:", err)
		os.Exit(1)
	}

	legend := semtok.DefaultLegend()
	index := document.NewPositionIndex(string(data), enc)
	stream, err := ast.NewTokenizer(legend).Tokenize(context.Background(), name, index)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR: Cannot tokenize script:", err)
		os.Exit(1)
	}

	encoded, err := semtok.NewEncoder(legend, semtok.Capabilities{}).Encode(stream)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR: Cannot encode tokens:", err)
		os.Exit(1)
	}

	if !*raw {
		for _, tok := range stream {
			fmt.Printf("%d:%d\t%d\t%s\t%s\n",
				tok.Line(), tok.Start(), tok.Length(),
				legend.TokenTypes[tok.Type], modifierNames(legend, tok.Modifiers),
			)
		}
	}
	fmt.Println(encoded)
}

func modifierNames(legend semtok.Legend, mask uint32) []string {
	names := []string{}
	for i, name := range legend.TokenModifiers {
		if mask&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return names
}
