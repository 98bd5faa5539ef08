package dom

import (
	"io"
	"os"
	"strings"

	"github.com/midbel/joy/css"
	"golang.org/x/net/html"
)

// htmlNode exposes a node of a tree built by golang.org/x/net/html. Names and
// attributes keys are lower case in these trees.
type htmlNode struct {
	node *html.Node
	doc  *htmlDocument
}

type htmlDocument struct {
	node     *html.Node
	location string
}

// HTML wraps the document node of a parsed tree. location is the address
// the document was loaded from.
func HTML(doc *html.Node, location string) css.Document {
	d := htmlDocument{
		node:     doc,
		location: location,
	}
	return htmlNode{
		node: doc,
		doc:  &d,
	}
}

func ParseHTML(r io.Reader, location string) (css.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return HTML(doc, location), nil
}

func ParseHTMLFile(file string) (css.Document, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ParseHTML(r, file)
}

// HTMLNode returns the underlying node of n or nil when n does not come from
// an HTML document.
func HTMLNode(n css.Node) *html.Node {
	h, ok := n.(htmlNode)
	if !ok {
		return nil
	}
	return h.node
}

func RenderHTML(w io.Writer, n css.Node) error {
	node := HTMLNode(n)
	if node == nil {
		return nil
	}
	return html.Render(w, node)
}

func (n htmlNode) wrap(node *html.Node) css.Node {
	if node == nil {
		return nil
	}
	return htmlNode{
		node: node,
		doc:  n.doc,
	}
}

func (n htmlNode) Kind() css.NodeKind {
	switch n.node.Type {
	case html.ElementNode:
		return css.ElementNode
	case html.TextNode:
		return css.TextNode
	case html.DocumentNode:
		return css.DocumentNode
	default:
		return css.OtherNode
	}
}

func (n htmlNode) Name() string {
	if n.node.Type != html.ElementNode {
		return ""
	}
	return n.node.Data
}

func (n htmlNode) Attr(name string) (string, bool) {
	space, key, ok := strings.Cut(name, ":")
	if !ok {
		space, key = "", name
	}
	for _, a := range n.node.Attr {
		if a.Key == key && a.Namespace == space {
			return a.Val, true
		}
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (n htmlNode) Text() string {
	if n.node.Type != html.TextNode {
		return ""
	}
	return n.node.Data
}

func (n htmlNode) Parent() css.Node {
	return n.wrap(n.node.Parent)
}

func (n htmlNode) FirstChild() css.Node {
	return n.wrap(n.node.FirstChild)
}

func (n htmlNode) NextSibling() css.Node {
	return n.wrap(n.node.NextSibling)
}

func (n htmlNode) PrevSibling() css.Node {
	return n.wrap(n.node.PrevSibling)
}

func (n htmlNode) Root() css.Node {
	for c := n.doc.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return n.wrap(c)
		}
	}
	return nil
}

func (n htmlNode) Location() string {
	return n.doc.location
}

func (_ htmlNode) XML() bool {
	return false
}
