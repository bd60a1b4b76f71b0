package loader

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/reportview/internal/dom"
)

// MarkdownLoader renders Markdown reports with goldmark. Headings get
// generated ids so outline links can target them.
type MarkdownLoader struct{}

func (l *MarkdownLoader) Load(r io.Reader, filename string) (*html.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	doc, main := newDocument(baseTitle(filename))
	body := dom.NewElement(atom.Body)
	nodes, err := html.ParseFragment(&buf, body)
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}
	for _, n := range nodes {
		main.AppendChild(n)
	}

	// The first h1 doubles as the document title.
	if h1 := dom.Find(main, dom.Tag(atom.H1)); h1 != nil {
		if t := dom.Find(doc, dom.Tag(atom.Title)); t != nil {
			dom.SetText(t, dom.Text(h1))
		}
	}
	return doc, nil
}
