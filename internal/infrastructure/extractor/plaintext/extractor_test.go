package plaintext

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

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

func TestExtractReturnsTrimmedText(t *testing.T) {
	storage := &mapStorage{files: map[string][]byte{
		"k": []byte("  Revenue was $10M in Q3.  \n"),
	}}
	ext := NewExtractor(storage)

	text, err := ext.Extract(context.Background(), &domain.Document{StoragePath: "k", FileFormat: "txt"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "Revenue was $10M in Q3." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractRejectsBinaryTextFormat(t *testing.T) {
	storage := &mapStorage{files: map[string][]byte{
		"k": {0xff, 0xfe, 0x00, 0x01},
	}}
	ext := NewExtractor(storage)

	_, err := ext.Extract(context.Background(), &domain.Document{StoragePath: "k", FileName: "notes.txt", FileFormat: "txt"})
	if err == nil {
		t.Fatalf("expected error for binary txt content")
	}
}

func TestExtractScrapesWordProcessorBinaries(t *testing.T) {
	payload := append([]byte{0xd0, 0xcf, 0x11, 0xe0}, []byte("Quarterly revenue grew 12 percent")...)
	payload = append(payload, 0x00, 0x01)
	storage := &mapStorage{files: map[string][]byte{"k": payload}}
	ext := NewExtractor(storage)

	text, err := ext.Extract(context.Background(), &domain.Document{StoragePath: "k", FileName: "report.doc", FileFormat: "doc"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(text, "Quarterly revenue grew 12 percent") {
		t.Fatalf("expected readable run in output, got %q", text)
	}
}
