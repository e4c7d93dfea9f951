package domain

import "time"

type DocumentStatus string

const (
	StatusUploading  DocumentStatus = "uploading"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID                    string         `json:"id"`
	OwnerID               string         `json:"owner_id"`
	FileName              string         `json:"file_name"`
	FileFormat            string         `json:"file_format"`
	SizeBytes             int64          `json:"size_bytes"`
	Checksum              string         `json:"checksum"`
	StoragePath           string         `json:"storage_path"`
	Status                DocumentStatus `json:"status"`
	Progress              int            `json:"progress"`
	ProcessingDurationSec int            `json:"processing_duration_sec,omitempty"`
	Error                 string         `json:"error,omitempty"`
	AnalysisIDs           []string       `json:"analysis_ids"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// SizeMB reports the document size in megabytes rounded to two decimals.
func (d *Document) SizeMB() float64 {
	mb := float64(d.SizeBytes) / (1024 * 1024)
	return float64(int64(mb*100+0.5)) / 100
}
