package xml_test

import (
	"strings"
	"testing"

	"github.com/midbel/joy/xml"
)

const prolog = `<?xml version="1.0" encoding="UTF-8"?>`

func TestParseValidDocument(t *testing.T) {
	const str = prolog + `
<!-- catalog -->
<catalog xmlns:b="urn:book">
	<b:book id='bk101' title="XML &amp; Go">
		<author>Gambardella, Matthew</author>
		<![CDATA[<raw>]]>
	</b:book>
	<?render mode="full"?>
	<book id="bk102"/>
</catalog>
`
	doc, err := xml.ParseString(str)
	if err != nil {
		t.Fatalf("fail to parse document: %s", err)
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("top level nodes mismatched! want 2, got %d", len(doc.Nodes))
	}
	root, ok := doc.Root().(*xml.Element)
	if !ok || root.QualifiedName() != "catalog" {
		t.Fatalf("root element mismatched! got %v", doc.Root())
	}
	if root.Parent() != doc {
		t.Errorf("root element should be attached to document")
	}
	book, ok := xml.FirstChild(root).(*xml.Element)
	if !ok || book.QualifiedName() != "b:book" || book.LocalName() != "book" {
		t.Fatalf("first child mismatched! got %v", xml.FirstChild(root))
	}
	if book.Uri != "urn:book" {
		t.Errorf("namespace uri mismatched! got %s", book.Uri)
	}
	if a, _ := book.GetAttribute("title"); a.Value() != "XML & Go" {
		t.Errorf("attribute value mismatched! got %q", a.Value())
	}
	if a, _ := book.GetAttribute("id"); a.Value() != "bk101" {
		t.Errorf("single quoted attribute mismatched! got %q", a.Value())
	}
	if got := book.Value(); got != "Gambardella, Matthew" {
		t.Errorf("element value mismatched! got %q", got)
	}
	pi := xml.NextSibling(book)
	if pi == nil || pi.Type() != xml.TypeInstruction {
		t.Fatalf("processing instruction expected after book")
	}
	last := xml.LastChild(root)
	if xml.PrevSibling(last) != pi || xml.NextSibling(last) != nil {
		t.Errorf("siblings of last child mismatched")
	}
}

func TestParseInvalidDocument(t *testing.T) {
	data := []struct {
		Xml        string
		Cause      string
		OmitProlog bool
	}{
		{
			Xml:   ``,
			Cause: "document without root element",
		},
		{
			Xml:        `<root></root>`,
			Cause:      "document without prolog",
			OmitProlog: true,
		},
		{
			Xml:   `<root empty-attr></root>`,
			Cause: "attribute without value",
		},
		{
			Xml:   `<root id="id-1" id="id-2"></root>`,
			Cause: "duplicate attribute",
		},
		{
			Xml:   `<root></root><root></root>`,
			Cause: "multiple root elements",
		},
		{
			Xml:   `text<root></root>`,
			Cause: "text outside root element",
		},
		{
			Xml:   `<root><a></b></root>`,
			Cause: "mismatched closing element",
		},
	}
	for _, d := range data {
		if !d.OmitProlog {
			d.Xml = prolog + d.Xml
		}
		str := strings.NewReader(d.Xml)
		_, err := xml.NewParser(str).Parse()
		if err == nil {
			t.Errorf("%s: invalid document parsed properly!", d.Cause)
		}
	}
}

func TestParseOmitProlog(t *testing.T) {
	p := xml.NewParser(strings.NewReader(`<root><item/></root>`))
	p.OmitProlog = true
	doc, err := p.Parse()
	if err != nil {
		t.Fatalf("fail to parse document without prolog: %s", err)
	}
	if doc.Root() == nil {
		t.Errorf("root element missing")
	}
}
