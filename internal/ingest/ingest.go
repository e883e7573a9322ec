// Package ingest loads source documents (.pdf, .txt, .md) from a directory
// tree and normalizes their text for downstream chunking.
package ingest

import (
	"context"
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"askdocs/internal/contextutil"
)

// Page is one unit of extracted text. PDFs produce one Page per physical
// page; text and markdown files produce a single Page numbered 1.
type Page struct {
	Page int
	Text string
}

// Document is an ingested source file.
type Document struct {
	DocID    string
	Filename string
	Pages    []Page
}

var supportedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// DocID derives a stable document ID from a file path: the filename stem
// plus the first 8 hex chars of the SHA-1 of the absolute path. The same
// file always maps to the same ID, and same-named files in different
// directories stay distinct.
func DocID(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	sum := sha1.Sum([]byte(abs))
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fmt.Sprintf("%s_%x", stem, sum[:4]), nil
}

// Scan recursively ingests all supported files under sourceDir, in sorted
// path order. Files that yield no text after cleaning are skipped.
func Scan(ctx context.Context, sourceDir string) ([]Document, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if _, err := os.Stat(sourceDir); err != nil {
		return nil, fmt.Errorf("source directory not found: %s: %w", sourceDir, err)
	}

	var paths []string
	err := filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if info.IsDir() {
			return nil
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", sourceDir, err)
	}
	sort.Strings(paths)

	logger.InfoContext(ctx, "scanning source directory", "dir", sourceDir, "files", len(paths))

	var docs []Document
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pages, err := readFile(path)
		if err != nil {
			logger.WarnContext(ctx, "failed to read file, skipping", "path", path, "error", err)
			continue
		}
		if len(pages) == 0 {
			logger.WarnContext(ctx, "no text extracted, skipping", "path", path)
			continue
		}

		docID, err := DocID(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{
			DocID:    docID,
			Filename: filepath.Base(path),
			Pages:    pages,
		})
	}

	logger.InfoContext(ctx, "ingestion complete", "documents", len(docs))
	return docs, nil
}

// readFile extracts pages from a single source file, cleaning each page and
// dropping pages that are empty after cleaning.
func readFile(path string) ([]Page, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return readPDF(path)
	case ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return singlePage(extractMarkdownText(data)), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return singlePage(string(data)), nil
	}
}

func singlePage(text string) []Page {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil
	}
	return []Page{{Page: 1, Text: cleaned}}
}
