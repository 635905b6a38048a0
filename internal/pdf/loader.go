// Package pdf extracts page-level text from PDF documents.
package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageRecord holds one page of extracted text with its source location.
type PageRecord struct {
	Path string // Source file path
	Page int    // 1-based page number within the file
	Text string // Extracted plain text
}

// Loader extracts text from PDF files page by page.
type Loader struct{}

// NewLoader creates a PDF loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFiles extracts pages from the given files in order.
// Output preserves input file order and in-file page order. Any failure
// aborts the whole load; there is no partial-success mode.
func (l *Loader) LoadFiles(paths []string) ([]PageRecord, error) {
	var records []PageRecord
	for _, path := range paths {
		pages, err := l.loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		records = append(records, pages...)
	}
	return records, nil
}

// loadFile extracts all pages from a single PDF.
func (l *Loader) loadFile(path string) ([]PageRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	records := make([]PageRecord, 0, total)
	for n := 1; n <= total; n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", n, err)
		}
		records = append(records, PageRecord{
			Path: path,
			Page: n,
			Text: normalizeText(text),
		})
	}

	return records, nil
}

// normalizeText collapses the run-together whitespace the extractor emits.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}
