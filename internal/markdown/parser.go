package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

// Document is a rendered markdown source and its front matter.
type Document struct {
	HTML []byte
	Meta map[string]any
}

// String returns a front matter value as a string, or "" when it is missing or not a string.
func (d *Document) String(key string) string {
	s, _ := d.Meta[key].(string)
	return s
}

// Parser renders markdown with an optional YAML front matter block.
// Raw HTML in the source is escaped, so user text interpolated into a template cannot inject markup.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{md: md}
}

// Render converts source to HTML and decodes its front matter.
// Malformed front matter is an error since templates rely on it for required fields.
func (p *Parser) Render(source []byte) (*Document, error) {
	ctx := parser.NewContext()

	var buf bytes.Buffer
	err := p.md.Convert(source, &buf, parser.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	doc := &Document{
		HTML: buf.Bytes(),
		Meta: make(map[string]any),
	}

	data := frontmatter.Get(ctx)
	if data != nil {
		err = data.Decode(&doc.Meta)
		if err != nil {
			return nil, fmt.Errorf("failed to decode front matter: %w", err)
		}
	}

	return doc, nil
}
