package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/midbel/cli"
	"github.com/midbel/joy/css"
)

var tokensCmd = cli.Command{
	Name:    "tokens",
	Summary: "print the tokens of a selector",
	Handler: &TokensCmd{},
}

type TokensCmd struct {
	Offset bool
}

func (t *TokensCmd) Run(args []string) error {
	set := flag.NewFlagSet("tokens", flag.ContinueOnError)
	set.BoolVar(&t.Offset, "offset", false, "print offset of tokens")
	if err := set.Parse(args); err != nil {
		return err
	}
	str := strings.Join(set.Args(), " ")
	for _, tok := range css.Tokenize(str) {
		if t.Offset {
			fmt.Fprintf(os.Stdout, "%3d: ", tok.Offset)
		}
		fmt.Fprintln(os.Stdout, tok)
	}
	return nil
}
