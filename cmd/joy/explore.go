package main

import (
	"flag"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/midbel/cli"
	"github.com/midbel/joy/css"
)

var exploreCmd = cli.Command{
	Name:    "explore",
	Summary: "try selectors interactively against a document",
	Handler: &ExploreCmd{},
}

type ExploreCmd struct {
	Max int
	ParserOptions
}

func (e *ExploreCmd) Run(args []string) error {
	set := flag.NewFlagSet("explore", flag.ContinueOnError)
	set.IntVar(&e.Max, "max", 20, "maximum number of nodes displayed")
	set.BoolVar(&e.HTML, "html", false, "parse input as html document")
	set.BoolVar(&e.Etree, "etree", false, "parse input as xml document with etree")
	set.BoolVar(&e.XML, "xml", false, "parse input as xml document")
	if err := set.Parse(args); err != nil {
		return err
	}
	doc, err := parseDocument(set.Arg(0), e.ParserOptions)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(createExplorer(doc, e.Max)).Run()
	return err
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	attrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Faint(true)
)

const snippetLength = 48

type explorer struct {
	doc   *Document
	input textinput.Model
	max   int

	query string
	nodes []css.Node
	count int
	err   error
}

func createExplorer(doc *Document, max int) explorer {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "selector"
	in.Focus()
	return explorer{
		doc:   doc,
		input: in,
		max:   max,
	}
}

func (e explorer) Init() tea.Cmd {
	return nil
}

func (e explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return e, tea.Quit
		}
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	if query := strings.TrimSpace(e.input.Value()); query != e.query {
		e.query = query
		e.run()
	}
	return e, cmd
}

func (e *explorer) run() {
	e.nodes, e.count, e.err = nil, 0, nil
	if e.query == "" {
		return
	}
	seq, err := css.Query(e.query, e.doc.Document, nil)
	if err != nil {
		e.err = err
		return
	}
	list, err := seq.Get(0, -1)
	e.err = err
	e.count = len(list)
	if e.max > 0 && len(list) > e.max {
		list = list[:e.max]
	}
	e.nodes = list
}

func (e explorer) View() tea.View {
	var str strings.Builder
	str.WriteString(e.input.View())
	str.WriteString("\n\n")
	switch {
	case e.err != nil:
		str.WriteString(errorStyle.Render(e.err.Error()))
		str.WriteString("\n")
	case e.query != "":
		str.WriteString(statusStyle.Render(fmt.Sprintf("%d node(s) matching", e.count)))
		str.WriteString("\n")
	}
	for _, n := range e.nodes {
		str.WriteString(describe(n))
		str.WriteString("\n")
	}
	str.WriteString("\n")
	str.WriteString(statusStyle.Render("esc to quit"))
	return tea.NewView(str.String())
}

func describe(n css.Node) string {
	var parts []string
	parts = append(parts, nameStyle.Render(n.Name()))
	for _, a := range []string{"id", "class", "name"} {
		if v, ok := n.Attr(a); ok {
			parts = append(parts, attrStyle.Render(fmt.Sprintf("%s=%q", a, v)))
		}
	}
	text := strings.Join(strings.Fields(css.TextContent(n)), " ")
	if rs := []rune(text); len(rs) > snippetLength {
		text = string(rs[:snippetLength]) + "..."
	}
	if text != "" {
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}
