package spreadsheet

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
)

type mapStorage struct {
	files map[string][]byte
}

func (s *mapStorage) Save(_ context.Context, key string, data io.Reader) (int64, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return 0, err
	}
	s.files[key] = raw
	return int64(len(raw)), nil
}

func (s *mapStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := s.files[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (s *mapStorage) Delete(context.Context, string) error { return nil }

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	workbook := excelize.NewFile()
	defer workbook.Close()

	if err := workbook.SetSheetRow("Sheet1", "A1", &[]any{"Metric", "Value"}); err != nil {
		t.Fatalf("SetSheetRow() error = %v", err)
	}
	if err := workbook.SetSheetRow("Sheet1", "A2", &[]any{"Revenue", "10500000"}); err != nil {
		t.Fatalf("SetSheetRow() error = %v", err)
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return buf.Bytes()
}

func TestExtractFlattensRows(t *testing.T) {
	storage := &mapStorage{files: map[string][]byte{"k": buildWorkbook(t)}}
	ext := NewExtractor(storage)

	text, err := ext.Extract(context.Background(), &domain.Document{StoragePath: "k", FileName: "report.xlsx", FileFormat: "xlsx"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(text, "Sheet1") {
		t.Fatalf("expected sheet name in output, got %q", text)
	}
	if !strings.Contains(text, "Revenue\t10500000") {
		t.Fatalf("expected tab separated row, got %q", text)
	}
}

func TestExtractRejectsCorruptWorkbook(t *testing.T) {
	storage := &mapStorage{files: map[string][]byte{"k": []byte("not a workbook")}}
	ext := NewExtractor(storage)

	if _, err := ext.Extract(context.Background(), &domain.Document{StoragePath: "k", FileName: "broken.xlsx", FileFormat: "xlsx"}); err == nil {
		t.Fatalf("expected error for corrupt workbook")
	}
}
