package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/joy/css"
	"github.com/midbel/joy/dom"
	"github.com/midbel/joy/xml"
)

var ErrDocument = errors.New("bad document")

const (
	formatXML   = "xml"
	formatHTML  = "html"
	formatEtree = "etree"
)

type ParserOptions struct {
	HTML       bool
	Etree      bool
	XML        bool
	OmitProlog bool
	StrictNS   bool
}

func (o ParserOptions) format(file string) string {
	switch {
	case o.HTML:
		return formatHTML
	case o.Etree:
		return formatEtree
	case o.XML:
		return formatXML
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".html", ".htm", ".xhtml":
		return formatHTML
	default:
		return formatXML
	}
}

// Document is a parsed input file with the function able to print the nodes
// selected in it.
type Document struct {
	File   string
	Format string
	css.Document
}

func parseDocument(file string, options ParserOptions) (*Document, error) {
	r, err := openFile(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc := Document{
		File:   file,
		Format: options.format(file),
	}
	switch doc.Format {
	case formatHTML:
		doc.Document, err = dom.ParseHTML(r, file)
	case formatEtree:
		doc.Document, err = dom.ParseEtree(r, file)
	default:
		p := xml.NewParser(r)
		p.OmitProlog = options.OmitProlog
		p.StrictNS = options.StrictNS
		var x *xml.Document
		if x, err = p.Parse(); err == nil {
			x.Location = file
			doc.Document = xml.Wrap(x).(css.Document)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", file, ErrDocument, err)
	}
	return &doc, nil
}

func (d *Document) Write(w io.Writer, node css.Node) error {
	switch d.Format {
	case formatHTML:
		return dom.RenderHTML(w, node)
	case formatEtree:
		return dom.WriteEtree(w, node)
	default:
		_, err := io.WriteString(w, xml.WriteNode(xml.Unwrap(node), 0))
		return err
	}
}

func openFile(file string) (io.ReadCloser, error) {
	u, err := url.Parse(file)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https":
		req, err := http.NewRequest(http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("accept", "text/html, text/xml")
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		if res.StatusCode != http.StatusOK {
			res.Body.Close()
			return nil, fmt.Errorf("fail to retrieve remote file")
		}
		return res.Body, nil
	default:
		return os.Open(file)
	}
}
