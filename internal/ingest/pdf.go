package ingest

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// readPDF extracts one Page per physical page so citations can point at the
// page the text came from. Pages that are unreadable or empty after cleaning
// are dropped.
func readPDF(path string) ([]Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var pages []Page
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		cleaned := CleanText(content)
		if cleaned == "" {
			continue
		}
		pages = append(pages, Page{Page: i, Text: cleaned})
	}
	return pages, nil
}
