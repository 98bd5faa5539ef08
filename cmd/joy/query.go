package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/midbel/cli"
	"github.com/midbel/joy/css"
)

var queryCmd = cli.Command{
	Name:    "query",
	Alias:   []string{"exec"},
	Summary: "print the nodes of a document matching a selector",
	Handler: &QueryCmd{},
}

var debugCmd = cli.Command{
	Name:    "debug",
	Summary: "trace the compilation and the evaluation of a selector",
	Handler: &DebugCmd{},
}

type QueryCmd struct {
	Skip  int
	Count int
	Noout bool
	Text  bool
	ParserOptions
}

const queryInfo = "query took %s - %d nodes matching %q"

func (q *QueryCmd) Run(args []string) error {
	set := flag.NewFlagSet("query", flag.ContinueOnError)
	set.IntVar(&q.Skip, "skip", 0, "skip the first nodes matching")
	set.IntVar(&q.Count, "count", -1, "maximum number of nodes returned")
	set.BoolVar(&q.Noout, "quiet", false, "suppress output - default is to print the result nodes")
	set.BoolVar(&q.Text, "text", false, "print only the text of nodes")
	set.BoolVar(&q.HTML, "html", false, "parse input as html document")
	set.BoolVar(&q.Etree, "etree", false, "parse input as xml document with etree")
	set.BoolVar(&q.XML, "xml", false, "parse input as xml document")
	set.BoolVar(&q.StrictNS, "strict-ns", false, "strict namespace checking")
	set.BoolVar(&q.OmitProlog, "omit-prolog", false, "omit xml prolog")
	if err := set.Parse(args); err != nil {
		return err
	}
	doc, err := parseDocument(set.Arg(1), q.ParserOptions)
	if err != nil {
		return err
	}
	now := time.Now()
	seq, err := css.Query(set.Arg(0), doc.Document, nil)
	if err != nil {
		return err
	}
	results, err := seq.Get(q.Skip, q.Count)
	if err != nil {
		return err
	}
	elapsed := time.Since(now)
	if !q.Noout {
		printNodes(doc, results, q.Text)
	}
	fmt.Fprintf(os.Stdout, queryInfo, elapsed, len(results), set.Arg(0))
	fmt.Fprintln(os.Stdout)
	if len(results) == 0 {
		return errFail
	}
	return nil
}

func printNodes(doc *Document, results []css.Node, text bool) {
	for _, n := range results {
		if text {
			fmt.Fprintln(os.Stdout, css.TextContent(n))
			continue
		}
		if err := doc.Write(os.Stdout, n); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Fprintln(os.Stdout)
	}
}

type DebugCmd struct {
	XML bool
	ParserOptions
}

func (d *DebugCmd) Run(args []string) error {
	set := flag.NewFlagSet("debug", flag.ContinueOnError)
	set.BoolVar(&d.XML, "xml", false, "compile selector in xml mode")
	set.BoolVar(&d.HTML, "html", false, "parse input as html document")
	set.BoolVar(&d.Etree, "etree", false, "parse input as xml document with etree")
	if err := set.Parse(args); err != nil {
		return err
	}
	var mode css.Mode
	if d.XML {
		mode |= css.ModeXML
	}
	tracer := css.TraceStderr()
	sel, err := css.Parse(set.Arg(0), mode, css.WithTracer(tracer))
	if err != nil {
		return err
	}
	for i, p := range sel.Paths {
		fmt.Fprintf(os.Stdout, "%d: %s", i+1, p)
		fmt.Fprintln(os.Stdout)
	}
	if set.NArg() < 2 {
		return nil
	}
	d.ParserOptions.XML = d.XML
	doc, err := parseDocument(set.Arg(1), d.ParserOptions)
	if err != nil {
		return err
	}
	sel, err = css.Parse(set.Arg(0), mode|css.ModeNoContext|docMode(doc))
	if err != nil {
		return err
	}
	seq := css.Evaluate(sel, doc.Document, nil)
	seq.SetTracer(tracer)

	var count int
	for _, err := range seq.All() {
		if err != nil {
			return err
		}
		count++
	}
	fmt.Fprintf(os.Stdout, "%d node(s) matching", count)
	fmt.Fprintln(os.Stdout)
	return nil
}

func docMode(doc *Document) css.Mode {
	if doc.XML() {
		return css.ModeXML
	}
	return css.ModeDefault
}
