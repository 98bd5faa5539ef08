package xml

import (
	"github.com/midbel/joy/css"
)

// Wrap gives the view of node used by the css package. Names are the
// qualified names of the nodes and are compared as is.
func Wrap(node Node) css.Node {
	switch n := node.(type) {
	case nil:
		return nil
	case *Document:
		if n == nil {
			return nil
		}
		return queryDocument{doc: n}
	default:
		return queryNode{node: node}
	}
}

// Unwrap returns the node given to Wrap.
func Unwrap(node css.Node) Node {
	switch n := node.(type) {
	case queryNode:
		return n.node
	case queryDocument:
		return n.doc
	default:
		return nil
	}
}

// Select returns the distinct nodes under node matching selector.
func Select(node Node, selector string) ([]Node, error) {
	list, err := css.Select(selector, Wrap(node))
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(list))
	for i := range list {
		nodes = append(nodes, Unwrap(list[i]))
	}
	return nodes, nil
}

type queryNode struct {
	node Node
}

func (q queryNode) Kind() css.NodeKind {
	switch q.node.Type() {
	case TypeElement:
		return css.ElementNode
	case TypeText:
		return css.TextNode
	case TypeDocument:
		return css.DocumentNode
	default:
		return css.OtherNode
	}
}

func (q queryNode) Name() string {
	return q.node.QualifiedName()
}

func (q queryNode) Attr(name string) (string, bool) {
	el, ok := q.node.(*Element)
	if !ok {
		return "", false
	}
	a, ok := el.GetAttribute(name)
	return a.Value(), ok
}

func (q queryNode) Text() string {
	if q.node.Type() != TypeText {
		return ""
	}
	return q.node.Value()
}

func (q queryNode) Parent() css.Node {
	return Wrap(q.node.Parent())
}

func (q queryNode) FirstChild() css.Node {
	return Wrap(FirstChild(q.node))
}

func (q queryNode) NextSibling() css.Node {
	return Wrap(NextSibling(q.node))
}

func (q queryNode) PrevSibling() css.Node {
	return Wrap(PrevSibling(q.node))
}

type queryDocument struct {
	doc *Document
}

func (_ queryDocument) Kind() css.NodeKind {
	return css.DocumentNode
}

func (_ queryDocument) Name() string {
	return ""
}

func (_ queryDocument) Attr(_ string) (string, bool) {
	return "", false
}

func (_ queryDocument) Text() string {
	return ""
}

func (_ queryDocument) Parent() css.Node {
	return nil
}

func (q queryDocument) FirstChild() css.Node {
	return Wrap(FirstChild(q.doc))
}

func (_ queryDocument) NextSibling() css.Node {
	return nil
}

func (_ queryDocument) PrevSibling() css.Node {
	return nil
}

func (q queryDocument) Root() css.Node {
	return Wrap(q.doc.Root())
}

func (q queryDocument) Location() string {
	return q.doc.Location
}

func (_ queryDocument) XML() bool {
	return true
}
