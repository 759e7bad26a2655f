package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docsearch/internal/document"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFParser handles PDF files. Text comes from ledongthuc/pdf, falling back to
// pdftotext if enabled. The document info dictionary is read with pdfcpu, or
// from the trailer when pdfcpu rejects the file.
type PDFParser struct {
	FallbackPdftotext bool
}

// pageSeparator joins the text of consecutive pages.
const pageSeparator = "\n\n"

func (p *PDFParser) Parse(r io.Reader, filename string) (*document.Extraction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("parse pdf: empty input")
	}

	extractor := "ledongthuc/pdf"
	res, err := extractPDFText(data)
	if err != nil && p.FallbackPdftotext {
		extractor = "pdftotext"
		res, err = extractPdftotext(data)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	metadata := map[string]any{
		"format":    "pdf",
		"extractor": extractor,
	}
	info, props, err := readPDFInfo(data)
	if err != nil {
		info = res.trailerInfo
		metadata["info_source"] = "trailer"
	} else {
		metadata["info_source"] = "pdfcpu"
		if len(props) > 0 {
			metadata["properties"] = props
		}
	}
	if info == nil {
		info = map[string]any{}
	}
	if _, ok := info["Title"]; !ok {
		info["Title"] = trimExt(filename, ".pdf")
	}

	return &document.Extraction{
		Text:      res.text,
		PageCount: res.pages,
		Info:      info,
		Metadata:  metadata,
	}, nil
}

type pdfText struct {
	text        string
	pages       int
	trailerInfo map[string]any
}

func extractPDFText(data []byte) (res pdfText, err error) {
	// ledongthuc/pdf panics on some malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return pdfText{}, err
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return pdfText{
		text:        strings.Join(pages, pageSeparator),
		pages:       numPages,
		trailerInfo: trailerInfo(reader),
	}, nil
}

func trailerInfo(reader *pdflib.Reader) map[string]any {
	v := reader.Trailer().Key("Info")
	if v.IsNull() {
		return nil
	}
	info := make(map[string]any)
	for _, k := range v.Keys() {
		if s := strings.TrimSpace(v.Key(k).Text()); s != "" {
			info[k] = s
		}
	}
	return info
}

func extractPdftotext(data []byte) (pdfText, error) {
	// pdftotext reads from a path, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docsearch-pdf-*.pdf")
	if err != nil {
		return pdfText{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return pdfText{}, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	cmd := exec.Command("pdftotext", "-layout", tmpPath, "-")
	out, err := cmd.Output()
	if err != nil {
		return pdfText{}, fmt.Errorf("pdftotext: %w", err)
	}
	text, pages := joinFormFeedPages(string(out))
	return pdfText{text: text, pages: pages}, nil
}

// joinFormFeedPages splits pdftotext output on form feeds, which end every page.
func joinFormFeedPages(out string) (string, int) {
	raw := strings.Split(out, "\f")
	if len(raw) > 1 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}
	pages := make([]string, 0, len(raw))
	for _, page := range raw {
		if page = strings.TrimSpace(page); page != "" {
			pages = append(pages, page)
		}
	}
	return strings.Join(pages, pageSeparator), len(raw)
}

func readPDFInfo(data []byte) (info map[string]any, props map[string]string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdfcpu panic: %v", rec)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	info = make(map[string]any)
	// Configuration also has CreationDate, so read through the xref table.
	xt := ctx.XRefTable
	for k, v := range map[string]string{
		"Title":        xt.Title,
		"Author":       xt.Author,
		"Subject":      xt.Subject,
		"Creator":      xt.Creator,
		"Producer":     xt.Producer,
		"CreationDate": xt.CreationDate,
		"ModDate":      xt.ModDate,
	} {
		if v = strings.TrimSpace(v); v != "" {
			info[k] = v
		}
	}
	return info, xt.Properties, nil
}
