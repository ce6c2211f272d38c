package parser

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/dgallion1/documind/internal/document"
	pdflib "github.com/ledongthuc/pdf"
)

// PDF extracts per-page plain text from PDF files. It tries the Go
// library first, then falls back to pdftotext if available.
type PDF struct {
	FallbackPdftotext bool
}

// ExtractPages reads the PDF at path and returns one entry per page with
// extractable text. Page numbers are 1-based; pages without text are skipped.
func (p *PDF) ExtractPages(path string) ([]document.Page, error) {
	pages, err := extractPDFPages(path)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotextPages(path)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return pages, nil
}

func extractPDFPages(path string) ([]document.Page, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []document.Page
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, document.Page{Number: i, Text: text})
	}
	return pages, nil
}

// extractPdftotextPages shells out to pdftotext, which separates pages
// with form feeds, so original page numbers survive the fallback.
func extractPdftotextPages(path string) ([]document.Page, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return splitFormFeedPages(string(out)), nil
}

func splitFormFeedPages(out string) []document.Page {
	var pages []document.Page
	for i, text := range strings.Split(out, "\f") {
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, document.Page{Number: i + 1, Text: text})
	}
	return pages
}
