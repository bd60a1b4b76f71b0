// Package loader turns report sources into the live content tree the page
// components operate on. Every loader yields a full HTML document whose
// narrative content sits inside <main>.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/reportview/internal/dom"
)

// ErrUnsupported is returned for file extensions no loader handles.
var ErrUnsupported = errors.New("unsupported report format")

// Loader converts raw report bytes into a document tree.
type Loader interface {
	Load(r io.Reader, filename string) (*html.Node, error)
}

// SupportedExtensions lists file extensions that can be served as reports.
var SupportedExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".docx":     true,
	".pdf":      true,
	".txt":      true,
	".csv":      true,
}

// Options tunes loaders that need external tools.
type Options struct {
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate loader for a filename.
func ForFile(filename string, opts Options) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".md", ".markdown":
		return &MarkdownLoader{}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	case ".pdf":
		return &PDFLoader{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".txt":
		return &TextLoader{}, nil
	case ".csv":
		return &CSVLoader{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// LoadFile opens path and loads it with the loader matching its extension.
func LoadFile(path string, opts Options) (*html.Node, error) {
	l, err := ForFile(path, opts)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	doc, err := l.Load(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Title returns the text of the document's <title>, if any.
func Title(doc *html.Node) string {
	if t := dom.Find(doc, dom.Tag(atom.Title)); t != nil {
		return strings.TrimSpace(dom.Text(t))
	}
	return ""
}

const skeleton = `<!DOCTYPE html><html><head><meta charset="utf-8"><title></title></head><body><main></main></body></html>`

// newDocument returns an empty report document and its <main> element.
func newDocument(title string) (*html.Node, *html.Node) {
	doc, err := html.Parse(strings.NewReader(skeleton))
	if err != nil {
		// The skeleton is a constant; the tokenizer cannot fail on it.
		panic(err)
	}
	if t := dom.Find(doc, dom.Tag(atom.Title)); t != nil {
		dom.SetText(t, title)
	}
	return doc, dom.Find(doc, dom.Tag(atom.Main))
}

func textElement(a atom.Atom, text string) *html.Node {
	n := dom.NewElement(a)
	dom.SetText(n, text)
	return n
}

func baseTitle(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
