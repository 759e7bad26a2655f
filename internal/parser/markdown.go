package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docsearch/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Extraction, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	title := trimExt(filename, ".md", ".markdown")
	headings := 0
	var blocks []string

	// Headings and blocks are emitted in document order, one per paragraph.
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		var t string
		if h, ok := n.(*ast.Heading); ok {
			t = strings.TrimSpace(extractText(h, src))
			if t != "" && headings == 0 && h.Level == 1 {
				title = t
			}
			headings++
		} else {
			t = extractText(n, src)
		}
		if t != "" {
			blocks = append(blocks, t)
		}
	}

	return &document.Extraction{
		Text:      strings.Join(blocks, "\n\n"),
		PageCount: 1,
		Info:      map[string]any{"Title": title},
		Metadata: map[string]any{
			"format":   "markdown",
			"headings": headings,
		},
	}, nil
}

// extractText gets the text content of a goldmark AST node. Leaf blocks such as
// code blocks carry raw lines; everything else is rebuilt from inline children.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		s := extractText(c, src)
		if c.Type() == ast.TypeBlock && buf.Len() > 0 && s != "" {
			buf.WriteByte('\n')
		}
		buf.WriteString(s)
	}
	return strings.TrimSpace(buf.String())
}
