package domain

// AggregatedView is a derived summary over a set of analysis results.
// It is recomputed on demand and never stored.
type AggregatedView struct {
	TotalResults             int                      `json:"total_results"`
	CountsByValidation       map[ValidationStatus]int `json:"counts_by_validation"`
	AverageConfidence        float64                  `json:"average_confidence"`
	AverageDataQuality       float64                  `json:"average_data_quality"`
	AverageExtractionQuality float64                  `json:"average_extraction_quality"`
	Insights                 []string                 `json:"insights"`
	KeyFindings              []string                 `json:"key_findings"`
	FinancialHighlights      []string                 `json:"financial_highlights"`
	Risks                    []string                 `json:"risks"`
	Opportunities            []string                 `json:"opportunities"`
}

// AggregateResults folds a result set into an AggregatedView. An empty set
// yields zero averages and empty lists, never a division by zero. Results
// are expected newest-first; list order is preserved.
func AggregateResults(results []AnalysisResult) AggregatedView {
	view := AggregatedView{
		CountsByValidation:  map[ValidationStatus]int{},
		Insights:            []string{},
		KeyFindings:         []string{},
		FinancialHighlights: []string{},
		Risks:               []string{},
		Opportunities:       []string{},
	}
	if len(results) == 0 {
		return view
	}

	var sumConfidence, sumDataQuality, sumExtraction float64
	for _, result := range results {
		view.CountsByValidation[result.ValidationStatus]++
		sumConfidence += ClampScore(result.ConfidenceScore)
		sumDataQuality += ClampScore(result.DataQualityScore)
		sumExtraction += ClampScore(result.Output.ExtractionQualityScore)

		view.Insights = append(view.Insights, result.Output.Insights...)
		view.KeyFindings = append(view.KeyFindings, result.Output.KeyFindings...)
		view.FinancialHighlights = append(view.FinancialHighlights, result.Output.FinancialHighlights...)
		view.Risks = append(view.Risks, result.Output.Risks...)
		view.Opportunities = append(view.Opportunities, result.Output.Opportunities...)
	}

	total := float64(len(results))
	view.TotalResults = len(results)
	view.AverageConfidence = sumConfidence / total
	view.AverageDataQuality = sumDataQuality / total
	view.AverageExtractionQuality = sumExtraction / total
	return view
}

type DeleteFailure struct {
	DocumentID string `json:"document_id"`
	Reason     string `json:"reason"`
}

// BulkDeleteReport records per-document outcomes of a bulk delete.
// One failed document never blocks the others.
type BulkDeleteReport struct {
	Deleted []string        `json:"deleted"`
	Failed  []DeleteFailure `json:"failed"`
}

// OwnerStats backs the per-user dashboard.
type OwnerStats struct {
	TotalDocuments           int     `json:"total_documents"`
	TotalAnalyses            int     `json:"total_analyses"`
	CompletedAnalyses        int     `json:"completed_analyses"`
	ProcessingAnalyses       int     `json:"processing_analyses"`
	FailedAnalyses           int     `json:"failed_analyses"`
	TotalStorageMB           float64 `json:"total_storage_mb"`
	AverageConfidenceScore   float64 `json:"average_confidence_score"`
	AverageProcessingTimeSec float64 `json:"average_processing_time_sec"`
}
