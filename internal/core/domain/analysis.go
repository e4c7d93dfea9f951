package domain

import "time"

type ValidationStatus string

const (
	ValidationPassed  ValidationStatus = "passed"
	ValidationFailed  ValidationStatus = "failed"
	ValidationPending ValidationStatus = "pending"
)

// AnalysisOutput is the structured payload produced for one engine run.
type AnalysisOutput struct {
	Summary                string            `json:"summary"`
	Metrics                map[string]string `json:"metrics"`
	Insights               []string          `json:"insights"`
	KeyFindings            []string          `json:"key_findings"`
	FinancialHighlights    []string          `json:"financial_highlights"`
	Risks                  []string          `json:"risks"`
	Opportunities          []string          `json:"opportunities"`
	ExtractionQualityScore float64           `json:"extraction_quality_score"`
}

// AnalysisResult is immutable once created; a re-run appends a new result.
type AnalysisResult struct {
	ID                string           `json:"id"`
	DocumentID        string           `json:"document_id"`
	OwnerID           string           `json:"owner_id"`
	AnalysisType      string           `json:"analysis_type"`
	Query             string           `json:"query"`
	Output            AnalysisOutput   `json:"output"`
	ConfidenceScore   float64          `json:"confidence_score"`
	DataQualityScore  float64          `json:"data_quality_score"`
	ValidationStatus  ValidationStatus `json:"validation_status"`
	ErrorLogs         []string         `json:"error_logs"`
	ProcessingTimeSec int              `json:"processing_time_sec"`
	CreatedAt         time.Time        `json:"created_at"`
}

// EngineReport is the raw engine outcome before the coordinator applies
// validation thresholds.
type EngineReport struct {
	Output           AnalysisOutput
	ConfidenceScore  float64
	DataQualityScore float64
}

// AnalysisJob is the queue payload dispatching one analysis run.
type AnalysisJob struct {
	DocumentID  string    `json:"document_id"`
	OwnerID     string    `json:"owner_id"`
	Query       string    `json:"query"`
	RequestedAt time.Time `json:"requested_at"`
}

// ClampScore forces a quality score into [0,1].
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
