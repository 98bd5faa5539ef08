package xml_test

import (
	"errors"
	"testing"

	"github.com/midbel/joy/css"
	"github.com/midbel/joy/xml"
)

func TestSelect(t *testing.T) {
	const str = prolog + `
<feed xmlns:m="urn:media">
	<entry id="1"><title>first</title><m:thumbnail url="a.png"/></entry>
	<entry id="2"><Title>second</Title></entry>
	<entry id="3"><title>third</title><m:thumbnail url="c.png"/></entry>
</feed>`

	doc, err := xml.ParseString(str)
	if err != nil {
		t.Fatalf("fail to parse document: %s", err)
	}
	tests := []struct {
		Query string
		Want  []string
	}{
		{Query: "entry > title", Want: []string{"first", "third"}},
		{Query: "Title", Want: []string{"second"}},
		{Query: "entry:has(> m\\:thumbnail) > title", Want: []string{"first", "third"}},
		{Query: "entry[id='2'] > *", Want: []string{"second"}},
		{Query: "entry:nth-child(2n+1) title:only-child"},
	}
	for _, c := range tests {
		nodes, err := xml.Select(doc, c.Query)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.Query, err)
			continue
		}
		var got []string
		for _, n := range nodes {
			got = append(got, n.Value())
		}
		if len(got) != len(c.Want) {
			t.Errorf("%s: number of nodes mismatched! want %v, got %v", c.Query, c.Want, got)
			continue
		}
		for i := range got {
			if got[i] != c.Want[i] {
				t.Errorf("%s: node mismatched at %d! want %s, got %s", c.Query, i, c.Want[i], got[i])
			}
		}
	}
}

func TestSelectInvalid(t *testing.T) {
	doc, err := xml.ParseString(prolog + `<root/>`)
	if err != nil {
		t.Fatalf("fail to parse document: %s", err)
	}
	if _, err := xml.Select(doc, "root >"); !errors.Is(err, css.ErrSyntax) {
		t.Errorf("expected syntax error, got %v", err)
	}
}

func TestWrap(t *testing.T) {
	doc, err := xml.ParseString(prolog + `<root><a>x</a></root>`)
	if err != nil {
		t.Fatalf("fail to parse document: %s", err)
	}
	node := xml.Wrap(doc)
	if node.Kind() != css.DocumentNode {
		t.Fatalf("document expected, got %s", node.Kind())
	}
	if xml.Unwrap(node) != doc {
		t.Errorf("unwrapped document mismatched")
	}
	root := node.FirstChild()
	if root == nil || root.Kind() != css.ElementNode || root.Name() != "root" {
		t.Fatalf("root element expected")
	}
	if root.Parent() != node {
		t.Errorf("parent of root should be the document")
	}
	if css.OwnerDocument(root) == nil {
		t.Errorf("owner document not found")
	}
	a := root.FirstChild()
	if text := a.FirstChild(); text == nil || text.Kind() != css.TextNode || text.Text() != "x" {
		t.Errorf("text node expected")
	}
	if css.TextContent(node) != "x" {
		t.Errorf("text content mismatched! got %s", css.TextContent(node))
	}
	if xml.Wrap(nil) != nil {
		t.Errorf("wrapping nil should give nil")
	}
}
