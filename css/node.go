package css

import (
	"strings"
)

type NodeKind int8

const (
	OtherNode NodeKind = iota
	ElementNode
	TextNode
	DocumentNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case DocumentNode:
		return "document"
	default:
		return "other"
	}
}

// Node is the view the engine has of a tree. Implementations must return
// comparable values: two calls reaching the same tree node must give
// values that are equal with ==.
type Node interface {
	Kind() NodeKind
	Name() string
	Attr(string) (string, bool)
	Text() string

	Parent() Node
	FirstChild() Node
	NextSibling() Node
	PrevSibling() Node
}

// Document is implemented by the node at the top of a tree.
type Document interface {
	Node

	Root() Node
	Location() string
	XML() bool
}

// OwnerDocument walks up the parent links of node until it finds a document.
func OwnerDocument(node Node) Document {
	for node != nil {
		if doc, ok := node.(Document); ok && node.Kind() == DocumentNode {
			return doc
		}
		node = node.Parent()
	}
	return nil
}

type docInfo struct {
	location string
	xml      bool
}

func infoFromNode(node Node) docInfo {
	var info docInfo
	if doc := OwnerDocument(node); doc != nil {
		info.location = doc.Location()
		info.xml = doc.XML()
	}
	return info
}

func (d docInfo) fragment() string {
	_, frag, ok := strings.Cut(d.location, "#")
	if !ok {
		return ""
	}
	return frag
}

func isElement(n Node) bool {
	return n != nil && n.Kind() == ElementNode
}

func elementParent(n Node) Node {
	p := n.Parent()
	if !isElement(p) {
		return nil
	}
	return p
}

// TextContent concatenates the text of the descendants of node.
func TextContent(node Node) string {
	if node == nil {
		return ""
	}
	if node.Kind() == TextNode {
		return node.Text()
	}
	var str strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		str.WriteString(TextContent(c))
	}
	return str.String()
}
