package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docsearch/internal/document"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextParser handles plain text files.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Extraction, error) {
	br := bufio.NewReader(r)
	// A leading byte order mark would otherwise count as a character of the text.
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, utf8BOM) {
		br.Discard(3)
	}

	var paragraphs []string
	var current strings.Builder
	lines := 0

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse txt: %w", err)
		}
		if line != "" {
			lines++
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if strings.TrimSpace(line) == "" {
				if current.Len() > 0 {
					paragraphs = append(paragraphs, current.String())
					current.Reset()
				}
			} else {
				if current.Len() > 0 {
					current.WriteString("\n")
				}
				current.WriteString(line)
			}
		}
		if err != nil {
			break
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	return &document.Extraction{
		Text:      strings.Join(paragraphs, "\n\n"),
		PageCount: 1,
		Info:      map[string]any{"Title": trimExt(filename, ".txt")},
		Metadata: map[string]any{
			"format":     "txt",
			"paragraphs": len(paragraphs),
			"lines":      lines,
		},
	}, nil
}
