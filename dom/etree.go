package dom

import (
	"io"

	"github.com/beevik/etree"
	"github.com/midbel/joy/css"
)

// etreeNode exposes a token of a tree built by github.com/beevik/etree. The
// element embedded in the etree.Document is seen as the document node.
type etreeNode struct {
	token etree.Token
	doc   *etreeDocument
}

type etreeDocument struct {
	doc      *etree.Document
	location string
}

func Etree(doc *etree.Document, location string) css.Document {
	d := etreeDocument{
		doc:      doc,
		location: location,
	}
	return etreeNode{
		token: &doc.Element,
		doc:   &d,
	}
}

func ParseEtree(r io.Reader, location string) (css.Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}
	return Etree(doc, location), nil
}

func ParseEtreeFile(file string) (css.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(file); err != nil {
		return nil, err
	}
	return Etree(doc, file), nil
}

// EtreeElement returns the element behind n or nil when n is not an element
// of an etree document.
func EtreeElement(n css.Node) *etree.Element {
	e, ok := n.(etreeNode)
	if !ok {
		return nil
	}
	el, _ := e.token.(*etree.Element)
	return el
}

func WriteEtree(w io.Writer, n css.Node) error {
	el := EtreeElement(n)
	if el == nil {
		return nil
	}
	doc := etree.NewDocumentWithRoot(el.Copy())
	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func (n etreeNode) wrap(token etree.Token) css.Node {
	switch t := token.(type) {
	case nil:
		return nil
	case *etree.Element:
		if t == nil {
			return nil
		}
	}
	return etreeNode{
		token: token,
		doc:   n.doc,
	}
}

func (n etreeNode) document() bool {
	return n.token == etree.Token(&n.doc.doc.Element)
}

func (n etreeNode) Kind() css.NodeKind {
	switch n.token.(type) {
	case *etree.Element:
		if n.document() {
			return css.DocumentNode
		}
		return css.ElementNode
	case *etree.CharData:
		return css.TextNode
	default:
		return css.OtherNode
	}
}

func (n etreeNode) Name() string {
	el, ok := n.token.(*etree.Element)
	if !ok || n.document() {
		return ""
	}
	return el.FullTag()
}

func (n etreeNode) Attr(name string) (string, bool) {
	el, ok := n.token.(*etree.Element)
	if !ok {
		return "", false
	}
	a := el.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

func (n etreeNode) Text() string {
	c, ok := n.token.(*etree.CharData)
	if !ok {
		return ""
	}
	return c.Data
}

func (n etreeNode) Parent() css.Node {
	if n.document() {
		return nil
	}
	return n.wrap(n.token.Parent())
}

func (n etreeNode) FirstChild() css.Node {
	el, ok := n.token.(*etree.Element)
	if !ok || len(el.Child) == 0 {
		return nil
	}
	return n.wrap(el.Child[0])
}

func (n etreeNode) NextSibling() css.Node {
	return n.sibling(1)
}

func (n etreeNode) PrevSibling() css.Node {
	return n.sibling(-1)
}

func (n etreeNode) sibling(dir int) css.Node {
	parent := n.token.Parent()
	if parent == nil || n.document() {
		return nil
	}
	ix := n.token.Index() + dir
	if ix < 0 || ix >= len(parent.Child) {
		return nil
	}
	return n.wrap(parent.Child[ix])
}

func (n etreeNode) Root() css.Node {
	return n.wrap(n.doc.doc.Root())
}

func (n etreeNode) Location() string {
	return n.doc.location
}

func (_ etreeNode) XML() bool {
	return true
}
