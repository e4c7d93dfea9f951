package plaintext

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
	"github.com/dkoval/findoc-scanner/internal/core/ports"
)

// Extractor reads text-first formats (txt, csv) directly and falls back
// to scraping readable runs out of legacy word processor binaries (doc,
// docx) where no structured parser applies.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}

	if utf8.Valid(raw) {
		return strings.TrimSpace(string(raw)), nil
	}

	switch doc.FileFormat {
	case "doc", "docx":
		return scrapeReadableRuns(raw), nil
	default:
		return "", fmt.Errorf("binary content in text format: %s", doc.FileName)
	}
}

// scrapeReadableRuns keeps printable runs of 4+ characters, which is
// enough to recover body text from word processor containers.
func scrapeReadableRuns(raw []byte) string {
	var out strings.Builder
	var run []rune

	flush := func() {
		if len(run) >= 4 {
			if out.Len() > 0 {
				out.WriteByte(' ')
			}
			out.WriteString(string(run))
		}
		run = run[:0]
	}

	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		i += size
		if r != utf8.RuneError && (unicode.IsPrint(r) || r == '\t') {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()

	return strings.TrimSpace(out.String())
}
