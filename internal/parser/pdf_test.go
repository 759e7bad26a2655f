package parser

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// minimalPDF builds a one-page PDF with an Info dictionary and correct xref offsets.
func minimalPDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 24 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Title (Test Title) /Author (Tester) /CreationDate (D:20240101120000Z) /ModDate (D:20240102120000Z) >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 6 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestPDFParser_MinimalDocument(t *testing.T) {
	p := &PDFParser{}
	ext, err := p.Parse(bytes.NewReader(minimalPDF("Hello PDF World")), "sample.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.PageCount != 1 {
		t.Errorf("expected 1 page, got %d", ext.PageCount)
	}
	if !strings.Contains(ext.Text, "Hello PDF World") {
		t.Errorf("expected extracted text to contain %q, got %q", "Hello PDF World", ext.Text)
	}
	if ext.Info["Title"] != "Test Title" {
		t.Errorf("expected title %q, got %v", "Test Title", ext.Info["Title"])
	}
	if ext.Info["Author"] != "Tester" {
		t.Errorf("expected author %q, got %v", "Tester", ext.Info["Author"])
	}
	for _, key := range []string{"CreationDate", "ModDate"} {
		if v, _ := ext.Info[key].(string); v == "" {
			t.Errorf("expected %s in info, got %v", key, ext.Info)
		}
	}
	if ext.Metadata["format"] != "pdf" {
		t.Errorf("expected format pdf, got %v", ext.Metadata["format"])
	}
}

func TestPDFParser_MalformedInput(t *testing.T) {
	p := &PDFParser{}
	_, err := p.Parse(strings.NewReader("%PDF-1.4 this is not really a pdf"), "broken.pdf")
	if err == nil {
		t.Fatal("expected error for malformed pdf")
	}
	if !strings.Contains(err.Error(), "extract pdf text") {
		t.Errorf("expected wrapped extraction error, got %v", err)
	}
}

func TestPDFParser_EmptyInput(t *testing.T) {
	p := &PDFParser{}
	if _, err := p.Parse(strings.NewReader(""), "empty.pdf"); err == nil {
		t.Fatal("expected error for empty pdf")
	}
}

func TestJoinFormFeedPages(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantText  string
		wantPages int
	}{
		{"trailing form feed", "page one\fpage two\f", "page one\n\npage two", 2},
		{"blank middle page", "one\f  \fthree\f", "one\n\nthree", 3},
		{"no form feed", "single", "single", 1},
		{"empty", "", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, pages := joinFormFeedPages(tt.in)
			if text != tt.wantText {
				t.Errorf("expected text %q, got %q", tt.wantText, text)
			}
			if pages != tt.wantPages {
				t.Errorf("expected %d pages, got %d", tt.wantPages, pages)
			}
		})
	}
}
