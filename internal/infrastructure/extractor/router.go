package extractor

import (
	"context"
	"fmt"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
	"github.com/dkoval/findoc-scanner/internal/core/ports"
	"github.com/dkoval/findoc-scanner/internal/infrastructure/extractor/pdf"
	"github.com/dkoval/findoc-scanner/internal/infrastructure/extractor/plaintext"
	"github.com/dkoval/findoc-scanner/internal/infrastructure/extractor/spreadsheet"
)

// Router dispatches extraction to the parser matching the document's
// file format.
type Router struct {
	byFormat map[string]ports.TextExtractor
	fallback ports.TextExtractor
}

func NewRouter(storage ports.ObjectStorage) *Router {
	textual := plaintext.NewExtractor(storage)
	workbook := spreadsheet.NewExtractor(storage)
	return &Router{
		byFormat: map[string]ports.TextExtractor{
			"pdf":  pdf.NewExtractor(storage),
			"xls":  workbook,
			"xlsx": workbook,
			"txt":  textual,
			"csv":  textual,
			"doc":  textual,
			"docx": textual,
		},
		fallback: textual,
	}
}

func (r *Router) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("extract: nil document")
	}
	ext, ok := r.byFormat[doc.FileFormat]
	if !ok {
		ext = r.fallback
	}
	return ext.Extract(ctx, doc)
}
