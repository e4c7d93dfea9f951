package openai

import (
	"strings"
	"testing"
	"unicode/utf8"
)

const sampleReport = `KEY FINANCIAL METRICS:
- Revenue/Sales: $394.3B for fiscal 2024
- Operating Income/EBIT: $123.2B for fiscal 2024
- Net Income/Profit: $97.0B for fiscal 2024
- Cash and Cash Equivalents: $29.9B at year end

Total Insights:
- Revenue grew 2.8% year-over-year reaching $394.3B
- Services segment hit a record $85.2B in annual revenue

Key Findings:
- Gross margin expanded to 45.9% from 44.1% a year earlier

Financial Highlights:
- Operating margin held at 31.2% despite FX headwinds

Risk Factors:
- Concentration risk with 52% of revenue from a single product line

Opportunities:
- Emerging markets revenue up 14% with room for further expansion

INVESTMENT RECOMMENDATION:
- Hold with a positive bias given stable margins and services growth`

func TestParseExtractsMetrics(t *testing.T) {
	output := parseAnalysisOutput(sampleReport)

	expected := map[string]string{
		"revenue":          "$394.3B",
		"operating_income": "$123.2B",
		"net_income":       "$97.0B",
		"cash":             "$29.9B",
	}
	for metric, want := range expected {
		if got := output.Metrics[metric]; got != want {
			t.Fatalf("metric %s = %q, want %q", metric, got, want)
		}
	}
}

func TestParseExtractsAllSections(t *testing.T) {
	output := parseAnalysisOutput(sampleReport)

	if len(output.Insights) != 2 {
		t.Fatalf("expected 2 insights, got %d: %v", len(output.Insights), output.Insights)
	}
	if len(output.KeyFindings) != 1 || len(output.FinancialHighlights) != 1 ||
		len(output.Risks) != 1 || len(output.Opportunities) != 1 {
		t.Fatalf("unexpected section sizes: findings=%d highlights=%d risks=%d opportunities=%d",
			len(output.KeyFindings), len(output.FinancialHighlights), len(output.Risks), len(output.Opportunities))
	}
	if !strings.Contains(output.Risks[0], "Concentration risk") {
		t.Fatalf("unexpected risk content: %q", output.Risks[0])
	}
}

func TestParseScoresCompleteReport(t *testing.T) {
	output := parseAnalysisOutput(sampleReport)

	// Metrics plus five sections plus the completeness bonus.
	want := 0.2 + 5*0.15 + 0.05
	if diff := output.ExtractionQualityScore - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("quality = %v, want %v", output.ExtractionQualityScore, want)
	}
}

func TestParseScoresEmptyReport(t *testing.T) {
	output := parseAnalysisOutput("nothing of substance here")
	if output.ExtractionQualityScore != 0 {
		t.Fatalf("expected zero quality, got %v", output.ExtractionQualityScore)
	}
	if len(output.Metrics) != 0 {
		t.Fatalf("expected no metrics, got %v", output.Metrics)
	}
}

func TestParseTruncatesLongSummaries(t *testing.T) {
	long := strings.Repeat("word ", 300)
	output := parseAnalysisOutput(long)

	if !strings.HasSuffix(output.Summary, "... [truncated to 200 words]") {
		t.Fatalf("expected truncation marker, got suffix %q", output.Summary[len(output.Summary)-40:])
	}
	if words := strings.Fields(strings.TrimSuffix(output.Summary, "... [truncated to 200 words]")); len(words) != 200 {
		t.Fatalf("expected 200 words, got %d", len(words))
	}
}

func TestParseCapsSectionItems(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Total Insights:\n")
	for i := 0; i < 8; i++ {
		sb.WriteString("- Insight with plenty of supporting data points behind it\n")
	}
	output := parseAnalysisOutput(sb.String())

	if len(output.Insights) != 5 {
		t.Fatalf("expected 5 insights, got %d", len(output.Insights))
	}
}

func TestParseClipsLongItems(t *testing.T) {
	item := strings.Repeat("x", 400)
	output := parseAnalysisOutput("Risk Factors:\n- " + item)

	if len(output.Risks) != 1 {
		t.Fatalf("expected 1 risk, got %d", len(output.Risks))
	}
	if len(output.Risks[0]) != 150 {
		t.Fatalf("expected risk clipped to 150 chars, got %d", len(output.Risks[0]))
	}
}

func TestParseClipsOnRuneBoundary(t *testing.T) {
	// 149 ASCII bytes followed by a multi-byte euro sign straddling the cap.
	item := strings.Repeat("x", 149) + "€ exposure"
	output := parseAnalysisOutput("Risk Factors:\n- " + item)

	if len(output.Risks) != 1 {
		t.Fatalf("expected 1 risk, got %d", len(output.Risks))
	}
	if !utf8.ValidString(output.Risks[0]) {
		t.Fatalf("expected valid utf8 after clipping, got %q", output.Risks[0])
	}
	if len(output.Risks[0]) != 149 {
		t.Fatalf("expected clip to back off to the rune boundary, got %d bytes", len(output.Risks[0]))
	}
}

func TestParseFallbackHandlesNumberedItems(t *testing.T) {
	report := `Risks: the analysis surfaced several concerns.
Risk 1: heavy dependence on short-term financing arrangements
Risk 2: declining free cash flow over three consecutive quarters`
	output := parseAnalysisOutput(report)

	if len(output.Risks) != 2 {
		t.Fatalf("expected 2 risks from fallback, got %d: %v", len(output.Risks), output.Risks)
	}
}
