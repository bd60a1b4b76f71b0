package loader

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// HTMLLoader handles pre-rendered report pages.
type HTMLLoader struct{}

func (l *HTMLLoader) Load(r io.Reader, filename string) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
