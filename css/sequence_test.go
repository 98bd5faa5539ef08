package css_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/midbel/joy/css"
	"github.com/midbel/joy/dom"
	"github.com/midbel/joy/xml"
)

const prolog = `<?xml version="1.0" encoding="UTF-8"?>`

const sample = `
<root id="r">
	<div id="d1">
		<ul id="u1">
			<li id="l1" class="item"/>
			<li id="l2" class="item skip"/>
			<li id="l3" class="item"/>
			<li id="l4"/>
			<li id="l5" class="item"/>
		</ul>
		<p id="p1">text</p>
	</div>
	<div id="d2">
		<div id="d3"><p id="p2"/></div>
		<h1 id="h1"/>
		<p id="p3"/>
		<span id="s1"/>
		<p id="p4"/>
	</div>
	<a id="a1" href="x"/>
	<a id="a2" href=""/>
	<a id="a3"/>
</root>
`

func parseSample(t *testing.T, location string) css.Node {
	t.Helper()
	doc, err := xml.ParseString(prolog + sample)
	if err != nil {
		t.Fatalf("fail to parse sample document: %s", err)
	}
	doc.Location = location
	return xml.Wrap(doc)
}

func identifiers(list []css.Node) []string {
	var ids []string
	for _, n := range list {
		id, _ := n.Attr("id")
		ids = append(ids, id)
	}
	return ids
}

func TestQuery(t *testing.T) {
	tests := []struct {
		Query string
		Want  []string
		// Sorted compares the nodes regardless of their order
		Sorted bool
	}{
		{Query: "div", Want: []string{"d1", "d2", "d3"}},
		{Query: "root", Want: []string{"r"}},
		{Query: ":root", Want: []string{"r"}},
		{Query: "LI"},
		{Query: "li:nth-child(2n+1)", Want: []string{"l1", "l3", "l5"}},
		{Query: "li:nth-child(odd)", Want: []string{"l1", "l3", "l5"}},
		{Query: "li:nth-child(even)", Want: []string{"l2", "l4"}},
		{Query: "li:nth-child(-n+3)", Want: []string{"l1", "l2", "l3"}},
		{Query: "li:nth-last-child(1)", Want: []string{"l5"}},
		{Query: "li:nth-of-type(2)", Want: []string{"l2"}},
		{Query: "li:nth-last-of-type(2)", Want: []string{"l4"}},
		{Query: "li:first-child", Want: []string{"l1"}},
		{Query: "li:last-child", Want: []string{"l5"}},
		{Query: "p:only-child", Want: []string{"p2"}},
		{Query: "p:first-of-type", Want: []string{"p1", "p2", "p3"}},
		{Query: "p:last-of-type", Want: []string{"p1", "p2", "p4"}},
		{Query: "root > :first-child", Want: []string{"d1"}},
		{Query: ".item:not(.skip)", Want: []string{"l1", "l3", "l5"}},
		{Query: "li.item.skip", Want: []string{"l2"}},
		{Query: "li:limit(2):from(2)", Want: []string{"l2", "l3"}},
		{Query: "ul li:from(4)", Want: []string{"l4", "l5"}},
		{Query: "descendant::p:limit(1)", Want: []string{"p1"}},
		{Query: "a[href]:not([href=''])", Want: []string{"a1"}},
		{Query: "a:any([href='x'], [href=''])", Want: []string{"a1", "a2"}},
		{Query: "[class~=skip]", Want: []string{"l2"}},
		{Query: "[class^=it]", Want: []string{"l1", "l2", "l3", "l5"}},
		{Query: "[class$=skip]", Want: []string{"l2"}},
		{Query: "[class*='m s']", Want: []string{"l2"}},
		{Query: "[class^='']"},
		{Query: "[id|=l1]", Want: []string{"l1"}},
		{Query: "li[class!=item]", Want: []string{"l2", "l4"}},
		{Query: "*:not(li, p, div, a, ul, span, h1)", Want: []string{"r"}},
		{Query: "div p", Want: []string{"p1", "p2", "p3", "p4"}},
		{Query: "div > p", Want: []string{"p1", "p2", "p3", "p4"}, Sorted: true},
		{Query: "div div p", Want: []string{"p2"}},
		{Query: "h1 + p", Want: []string{"p3"}},
		{Query: "h1 + span"},
		{Query: "h1 ~ p", Want: []string{"p3", "p4"}},
		{Query: "p ~ span", Want: []string{"s1"}},
		{Query: "div:has(> ul)", Want: []string{"d1"}},
		{Query: "div:has(> h1)", Want: []string{"d2"}},
		{Query: "div:has(h1)"},
		{Query: "li:has(.skip)", Want: []string{"l2"}},
		{Query: "div:has(+ div)", Want: []string{"d1"}},
		{Query: "p:empty", Want: []string{"p2", "p3", "p4"}},
		{Query: "p, h1", Want: []string{"p1", "p2", "p3", "p4", "h1"}, Sorted: true},
		{Query: "p, div p", Want: []string{"p1", "p2", "p3", "p4"}, Sorted: true},
	}
	doc := parseSample(t, "")
	for _, c := range tests {
		seq, err := css.Query(c.Query, doc, nil)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.Query, err)
			continue
		}
		list, err := seq.Get(0, -1)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.Query, err)
			continue
		}
		got := identifiers(list)
		if c.Sorted {
			slices.Sort(got)
			slices.Sort(c.Want)
		}
		if !slices.Equal(got, c.Want) {
			t.Errorf("%s: nodes mismatched! want %v, got %v", c.Query, c.Want, got)
		}
	}
}

func TestQueryFromElement(t *testing.T) {
	tests := []struct {
		Query string
		Want  []string
	}{
		{Query: "ancestor::div", Want: []string{"d1"}},
		{Query: "ancestor-or-self::*:limit(2)", Want: []string{"l3", "u1"}},
		{Query: "parent::ul", Want: []string{"u1"}},
		{Query: "parent::div"},
		{Query: "self::li", Want: []string{"l3"}},
		{Query: "following-sibling::li", Want: []string{"l4", "l5"}},
		{Query: "preceding-sibling::li", Want: []string{"l2", "l1"}},
		{Query: "first-preceding-sibling::*", Want: []string{"l2"}},
		{Query: "first-following-sibling::*", Want: []string{"l4"}},
		{Query: "preceding-sibling::li:first-child", Want: []string{"l1"}},
		{Query: "following-sibling::li:last-child", Want: []string{"l5"}},
		{Query: "following-sibling::*:nth-child(4)", Want: []string{"l4"}},
		{Query: "li"},
	}
	doc := parseSample(t, "")
	start, err := css.Select("#l3", doc)
	if err != nil || len(start) != 1 {
		t.Fatalf("fail to select start node: %v", err)
	}
	for _, c := range tests {
		seq, err := css.Query(c.Query, start[0], nil)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.Query, err)
			continue
		}
		list, err := seq.Get(0, -1)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.Query, err)
			continue
		}
		if got := identifiers(list); !slices.Equal(got, c.Want) {
			t.Errorf("%s: nodes mismatched! want %v, got %v", c.Query, c.Want, got)
		}
	}
}

func TestSequenceGet(t *testing.T) {
	doc := parseSample(t, "")
	seq, err := css.Query("li", doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	list, err := seq.Get(0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got := identifiers(list); !slices.Equal(got, []string{"l1", "l2"}) {
		t.Errorf("first nodes mismatched! got %v", got)
	}
	node, err := seq.At(1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if id, _ := node.Attr("id"); id != "l4" {
		t.Errorf("node after first nodes mismatched! want l4, got %s", id)
	}

	seq.Rewind()
	node, _ = seq.At(2)
	if id, _ := node.Attr("id"); id != "l3" {
		t.Errorf("node after rewind mismatched! want l3, got %s", id)
	}
	if node, _ = seq.At(10); node != nil {
		t.Errorf("expected no node past the end of the sequence")
	}

	seq.Rewind()
	list, _ = seq.Get(3, 10)
	if got := identifiers(list); !slices.Equal(got, []string{"l4", "l5"}) {
		t.Errorf("skipped nodes mismatched! got %v", got)
	}
}

func TestSequenceCurrent(t *testing.T) {
	doc := parseSample(t, "")
	seq, err := css.Query("h1, span", doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	first, _ := seq.Current()
	again, _ := seq.Current()
	if first == nil || first != again {
		t.Fatalf("current node changed without advancing")
	}
	seq.Advance()
	next, _ := seq.Current()
	if id, _ := next.Attr("id"); id != "s1" {
		t.Errorf("node after advance mismatched! want s1, got %s", id)
	}
	seq.Advance()
	if ok, _ := seq.Exists(); ok {
		t.Errorf("sequence should be exhausted")
	}
}

func TestSequenceAll(t *testing.T) {
	doc := parseSample(t, "")
	seq, err := css.Query("li", doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var ids []string
	for n, err := range seq.All() {
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		id, _ := n.Attr("id")
		ids = append(ids, id)
		if len(ids) == 2 {
			break
		}
	}
	if !slices.Equal(ids, []string{"l1", "l2"}) {
		t.Errorf("nodes mismatched! got %v", ids)
	}
	n, _ := seq.Next()
	if id, _ := n.Attr("id"); id != "l3" {
		t.Errorf("sequence should resume after break! got %s", id)
	}
}

func TestUnknownFunction(t *testing.T) {
	doc := parseSample(t, "")
	seq, err := css.Query("li:foo()", doc, nil)
	if err != nil {
		t.Fatalf("unknown function should be reported lazily: %s", err)
	}
	_, err = seq.Get(0, -1)
	if !errors.Is(err, css.ErrUnknownFunction) {
		t.Fatalf("expected unknown function error, got %v", err)
	}
	var ferr css.UnknownFunctionError
	if !errors.As(err, &ferr) || ferr.Name != "foo" {
		t.Errorf("unknown function name mismatched! got %v", err)
	}
	seq, _ = css.Query("div:foo()", doc, nil)
	if ok, err := seq.Exists(); ok || err == nil {
		t.Errorf("expected error when testing existence")
	}
}

func TestFunctionError(t *testing.T) {
	errBoom := errors.New("boom")
	funcs := css.Funcs{
		"boom": func(_ css.Node, _ []any) (any, error) {
			return nil, errBoom
		},
	}
	doc := parseSample(t, "")
	seq, err := css.Query("li:boom()", doc, funcs)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := seq.Next(); !errors.Is(err, errBoom) {
		t.Fatalf("expected function error, got %v", err)
	}
	if _, err := seq.Next(); !errors.Is(err, errBoom) {
		t.Errorf("error should persist, got %v", err)
	}
	list, err := seq.Get(0, -1)
	if len(list) != 0 || !errors.Is(err, errBoom) {
		t.Errorf("error should persist in get, got %v", err)
	}
}

func TestFunctions(t *testing.T) {
	css.Register("is-item", func(node css.Node, _ []any) (any, error) {
		v, _ := node.Attr("class")
		return strings.Contains(v, "item"), nil
	})
	defer css.Unregister("is-item")

	funcs := css.Funcs{
		"children": func(_ css.Node, args []any) (any, error) {
			seq, ok := args[0].(*css.Sequence)
			if !ok {
				return nil, errors.New("sequence expected")
			}
			list, err := seq.Get(0, -1)
			if err != nil {
				return nil, err
			}
			return float64(len(list)) == args[1].(float64), nil
		},
		"id-is": func(node css.Node, args []any) (any, error) {
			id, _ := node.Attr("id")
			return id == args[0].(string), nil
		},
	}

	tests := []struct {
		Query string
		Want  []string
		Funcs css.Funcs
	}{
		{Query: "li:is-item()", Want: []string{"l1", "l2", "l3", "l5"}},
		{Query: "li:is_item():not(.skip)", Want: []string{"l1", "l3", "l5"}},
		{Query: "ul:children(> li, 5)", Want: []string{"u1"}, Funcs: funcs},
		{Query: "*:children(> p, 2)", Want: []string{"d2"}, Funcs: funcs},
		{Query: "li:id-is('l4')", Want: []string{"l4"}, Funcs: funcs},
		{
			Query: "li:is-item()",
			Want:  []string{"l4"},
			Funcs: css.Funcs{
				"is-item": func(node css.Node, _ []any) (any, error) {
					_, ok := node.Attr("class")
					return !ok, nil
				},
			},
		},
	}
	doc := parseSample(t, "")
	for _, c := range tests {
		seq, err := css.Query(c.Query, doc, c.Funcs)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.Query, err)
			continue
		}
		list, err := seq.Get(0, -1)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.Query, err)
			continue
		}
		if got := identifiers(list); !slices.Equal(got, c.Want) {
			t.Errorf("%s: nodes mismatched! want %v, got %v", c.Query, c.Want, got)
		}
	}
}

func TestTarget(t *testing.T) {
	doc := parseSample(t, "sample.xml#l3")
	list, err := css.Select(":target", doc)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got := identifiers(list); !slices.Equal(got, []string{"l3"}) {
		t.Errorf("target mismatched! got %v", got)
	}
	doc = parseSample(t, "sample.xml")
	if list, _ = css.Select(":target", doc); len(list) != 0 {
		t.Errorf("no node expected without fragment")
	}
}

func TestEvaluateTracer(t *testing.T) {
	doc := parseSample(t, "")
	sel, err := css.Compile("ul > li", css.ModeNoContext|css.ModeXML)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var tracer matchTracer
	seq := css.Evaluate(sel, doc, nil)
	seq.SetTracer(&tracer)
	if _, err := seq.Get(0, -1); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if tracer.count != 6 {
		t.Errorf("number of matches mismatched! want 6, got %d", tracer.count)
	}
}

type matchTracer struct {
	count int
}

func (_ *matchTracer) Enter(_ string)                {}
func (_ *matchTracer) Leave(_ string)                {}
func (m *matchTracer) Match(_ css.Step, _ css.Node) { m.count++ }
func (_ *matchTracer) Error(_ string, _ error)       {}

const page = `<!DOCTYPE html>
<html>
<head><title>page</title></head>
<body>
<DIV id="a" CLASS="x">text</DIV>
<div id="b"></div>
<form id="f">
<input id="i1" disabled>
<input id="i2" type="checkbox" checked>
<fieldset id="fs" disabled><button id="btn">ok</button></fieldset>
<a id="k" href="/">link</a>
<a id="n">anchor</a>
</form>
</body>
</html>`

func TestQueryHTML(t *testing.T) {
	tests := []struct {
		Query string
		Want  []string
	}{
		{Query: "DIV", Want: []string{"a", "b"}},
		{Query: "div[ID=a]", Want: []string{"a"}},
		{Query: "[Class~=X]"},
		{Query: "div.x", Want: []string{"a"}},
		{Query: ":root", Want: []string{""}},
		{Query: "div:empty", Want: []string{"b"}},
		{Query: "input:disabled", Want: []string{"i1"}},
		{Query: "button:disabled", Want: []string{"btn"}},
		{Query: "input:enabled", Want: []string{"i2"}},
		{Query: ":checked", Want: []string{"i2"}},
		{Query: ":link", Want: []string{"k"}},
		{Query: "form :input", Want: []string{"i1", "i2", "btn"}},
		{Query: "form > a:last-of-type", Want: []string{"n"}},
		{Query: "body > *:nth-child(2)", Want: []string{"b"}},
		{Query: "div + form", Want: []string{"f"}},
	}
	doc, err := dom.ParseHTML(strings.NewReader(page), "page.html")
	if err != nil {
		t.Fatalf("fail to parse page: %s", err)
	}
	for _, c := range tests {
		list, err := css.Select(c.Query, doc)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.Query, err)
			continue
		}
		if got := identifiers(list); !slices.Equal(got, c.Want) {
			t.Errorf("%s: nodes mismatched! want %v, got %v", c.Query, c.Want, got)
		}
	}
}
