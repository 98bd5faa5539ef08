package xml

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

type WriterOptions uint64

const (
	OptionCompact WriterOptions = 1 << iota
	OptionNoNamespace
	OptionNoComment
	OptionNoProlog
)

func (w WriterOptions) Compact() bool {
	return w&OptionCompact > 0
}

func (w WriterOptions) NoNamespace() bool {
	return w&OptionNoNamespace > 0
}

func (w WriterOptions) NoComment() bool {
	return w&OptionNoComment > 0
}

func (w WriterOptions) NoProlog() bool {
	return w&OptionNoProlog > 0
}

type Writer struct {
	writer *bufio.Writer

	Indent   string
	MaxDepth int
	WriterOptions
}

// WriteNode serializes node and its descendants without prolog.
func WriteNode(node Node, options WriterOptions) string {
	var (
		buf bytes.Buffer
		ws  = NewWriter(&buf)
	)
	ws.WriterOptions = options | OptionNoProlog
	ws.writeNode(node, -1)
	ws.writer.Flush()
	return strings.TrimLeft(buf.String(), "\n")
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		writer: bufio.NewWriter(w),
		Indent: "  ",
	}
}

func (w *Writer) Write(doc *Document) error {
	if err := w.writeProlog(); err != nil {
		return err
	}
	if !w.NoProlog() {
		w.writeNL()
	}
	for i, n := range doc.Nodes {
		if i > 0 {
			w.writeNL()
		}
		if err := w.writeNode(n, -1); err != nil {
			return err
		}
	}
	return w.writer.Flush()
}

func (w *Writer) writeNode(node Node, depth int) error {
	switch node := node.(type) {
	case *Document:
		return w.writeNode(node.Root(), depth)
	case *Element:
		return w.writeElement(node, depth+1)
	case *CharData:
		return w.writeCharData(node, depth+1)
	case *Text:
		return w.writeLiteral(node, depth+1)
	case *Instruction:
		return w.writeInstruction(node, depth+1)
	case *Comment:
		return w.writeComment(node, depth+1)
	case *Attribute:
		return w.writeAttributes([]Attribute{*node}, 0)
	default:
		return fmt.Errorf("node: unknown type (%T)", node)
	}
}

func (w *Writer) writeElement(node *Element, depth int) error {
	if depth > 0 {
		w.writeNL()
	}
	prefix := w.getIndent(depth)
	w.writer.WriteString(prefix)
	w.writer.WriteRune(langle)
	w.writeName(node.QName)
	if err := w.writeAttributes(node.Attrs, 0); err != nil {
		return err
	}
	if len(node.Nodes) == 0 || (w.MaxDepth > 0 && depth >= w.MaxDepth) {
		w.writer.WriteRune(slash)
		w.writer.WriteRune(rangle)
		return nil
	}
	w.writer.WriteRune(rangle)
	for _, n := range node.Nodes {
		if err := w.writeNode(n, depth); err != nil {
			return err
		}
	}
	if !node.Leaf() {
		w.writeNL()
		w.writer.WriteString(prefix)
	}
	w.writer.WriteRune(langle)
	w.writer.WriteRune(slash)
	w.writeName(node.QName)
	w.writer.WriteRune(rangle)
	return nil
}

func (w *Writer) writeName(name QName) {
	if w.NoNamespace() {
		w.writer.WriteString(name.LocalName())
	} else {
		w.writer.WriteString(name.QualifiedName())
	}
}

func (w *Writer) writeLiteral(node *Text, _ int) error {
	_, err := w.writer.WriteString(escapeText(node.Content))
	return err
}

func (w *Writer) writeCharData(node *CharData, _ int) error {
	w.writer.WriteString("<![CDATA[")
	w.writer.WriteString(node.Content)
	w.writer.WriteString("]]>")
	return nil
}

func (w *Writer) writeComment(node *Comment, depth int) error {
	if w.NoComment() {
		return nil
	}
	if depth > 0 {
		w.writeNL()
	}
	w.writer.WriteString(w.getIndent(depth))
	w.writer.WriteString("<!--")
	w.writer.WriteString(node.Content)
	w.writer.WriteString("-->")
	return nil
}

func (w *Writer) writeInstruction(node *Instruction, depth int) error {
	if depth > 0 {
		w.writeNL()
	}
	w.writer.WriteString(w.getIndent(depth))
	w.writer.WriteRune(langle)
	w.writer.WriteRune(question)
	w.writer.WriteString(node.Name)
	if err := w.writeAttributes(node.Attrs, 0); err != nil {
		return err
	}
	w.writer.WriteRune(question)
	w.writer.WriteRune(rangle)
	return nil
}

func (w *Writer) writeProlog() error {
	if w.NoProlog() {
		return nil
	}
	prolog := NewInstruction(LocalName("xml"))
	prolog.Attrs = []Attribute{
		NewAttribute(LocalName("version"), SupportedVersion),
		NewAttribute(LocalName("encoding"), SupportedEncoding),
	}
	return w.writeInstruction(prolog, 0)
}

func (w *Writer) writeAttributes(attrs []Attribute, _ int) error {
	for _, a := range attrs {
		if w.NoNamespace() && (a.Space == AttrXmlNS || a.Name == AttrXmlNS) {
			continue
		}
		w.writer.WriteRune(' ')
		w.writeName(a.QName)
		w.writer.WriteRune(equal)
		w.writer.WriteRune(quote)
		w.writer.WriteString(escapeText(a.Value()))
		w.writer.WriteRune(quote)
	}
	return nil
}

func (w *Writer) writeNL() {
	if w.Compact() {
		return
	}
	w.writer.WriteRune('\n')
}

func (w *Writer) getIndent(depth int) string {
	if w.Compact() || depth <= 0 {
		return ""
	}
	return strings.Repeat(w.Indent, depth)
}

func escapeText(str string) string {
	var buf bytes.Buffer
	for i := 0; i < len(str); {
		r, z := utf8.DecodeRuneInString(str[i:])
		i += z

		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&apos;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
