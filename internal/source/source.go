// Package source loads input documents as plain text for scene generation.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
)

// Document kinds.
const (
	KindPDF  = "pdf"
	KindText = "text"
)

// ErrNoText is returned when a document yields no usable text.
var ErrNoText = errors.New("no text extracted")

// Document is a loaded input.
type Document struct {
	Path  string
	Kind  string
	Pages int
	Text  string
}

// Load reads path as a PDF (by extension) or as UTF-8 text.
func Load(path string) (*Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return LoadPDF(path)
	}
	return LoadText(path)
}

// LoadText reads a UTF-8 text file.
func LoadText(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("read %s: not valid UTF-8", path)
	}
	return newDocument(path, KindText, 1, string(data))
}

// LoadPDF extracts the text of every page, in page order, joined by blank
// lines so that page breaks are also paragraph breaks.
func LoadPDF(path string) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	pages := make([]string, 0, n)
	for i := 0; i < n; i++ {
		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("pdf %s: page %d: %w", path, i+1, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return newDocument(path, KindPDF, n, strings.Join(pages, "\n\n"))
}

func newDocument(path, kind string, pages int, text string) (*Document, error) {
	text = normalizeNewlines(text)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNoText)
	}
	return &Document{Path: path, Kind: kind, Pages: pages, Text: text}, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
