package openai

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
)

const (
	maxSummaryWords = 200
	maxSectionItems = 5
	maxItemLength   = 150
)

var metricPatterns = map[string][]*regexp.Regexp{
	"revenue": {
		regexp.MustCompile(`(?i)(?:revenue|sales|total revenue).*?(\$[\d,]+\.?\d*[BMK]?)`),
		regexp.MustCompile(`(?i)(?:revenue|sales).*?(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:million|billion|thousand|M|B|K)`),
	},
	"operating_income": {
		regexp.MustCompile(`(?i)(?:operating income|operating profit|ebit).*?(\$[\d,]+\.?\d*[BMK]?)`),
		regexp.MustCompile(`(?i)(?:operating income|operating profit).*?(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:million|billion|thousand|M|B|K)`),
	},
	"net_income": {
		regexp.MustCompile(`(?i)(?:net income|net profit|net earnings).*?(\$[\d,]+\.?\d*[BMK]?)`),
		regexp.MustCompile(`(?i)(?:net income|net profit).*?(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:million|billion|thousand|M|B|K)`),
	},
	"cash": {
		regexp.MustCompile(`(?i)(?:cash|cash equivalents).*?(\$[\d,]+\.?\d*[BMK]?)`),
		regexp.MustCompile(`(?i)(?:cash|cash equivalents).*?(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:million|billion|thousand|M|B|K)`),
	},
}

// parseAnalysisOutput turns the free-text analyst report into structured
// output. The summary is capped at 200 words, list sections at 5 items of
// 150 characters each, and the extraction quality score reflects how many
// sections yielded content.
func parseAnalysisOutput(summary string) domain.AnalysisOutput {
	summary = truncateWords(summary, maxSummaryWords)

	output := domain.AnalysisOutput{
		Summary: summary,
		Metrics: map[string]string{},
	}

	for metric, patterns := range metricPatterns {
		for _, pattern := range patterns {
			if match := pattern.FindStringSubmatch(summary); match != nil {
				output.Metrics[metric] = match[1]
				break
			}
		}
	}

	parseSections(summary, &output)
	if sectionsEmpty(output) {
		parseSectionsFallback(summary, &output)
	}

	output.ExtractionQualityScore = scoreExtraction(output)
	return output
}

func truncateWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return text
	}
	return strings.Join(words[:limit], " ") + "... [truncated to 200 words]"
}

func parseSections(summary string, output *domain.AnalysisOutput) {
	var current *[]string
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 5 {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "total insights:"):
			current = &output.Insights
			continue
		case strings.Contains(lower, "key findings:"):
			current = &output.KeyFindings
			continue
		case strings.Contains(lower, "financial highlights:"):
			current = &output.FinancialHighlights
			continue
		case strings.Contains(lower, "risk factors:"):
			current = &output.Risks
			continue
		case strings.Contains(lower, "opportunities:"):
			current = &output.Opportunities
			continue
		case strings.HasPrefix(line, "INVESTMENT RECOMMENDATION"),
			strings.HasPrefix(line, "KEY FINANCIAL METRICS"),
			strings.HasPrefix(line, "GROWTH & CHANGES"):
			current = nil
			continue
		}

		if current != nil && isBullet(line) && len(line) > 15 {
			content := bulletContent(line)
			if len(content) > 10 && len(*current) < maxSectionItems {
				*current = append(*current, clip(content, maxItemLength))
			}
		}
	}
}

var sectionHeaders = []struct {
	target  func(*domain.AnalysisOutput) *[]string
	headers []string
}{
	{func(o *domain.AnalysisOutput) *[]string { return &o.Insights }, []string{"Total Insights:", "Insights:"}},
	{func(o *domain.AnalysisOutput) *[]string { return &o.KeyFindings }, []string{"Key Findings:", "Findings:"}},
	{func(o *domain.AnalysisOutput) *[]string { return &o.FinancialHighlights }, []string{"Financial Highlights:", "Highlights:"}},
	{func(o *domain.AnalysisOutput) *[]string { return &o.Risks }, []string{"Risk Factors:", "Risks:"}},
	{func(o *domain.AnalysisOutput) *[]string { return &o.Opportunities }, []string{"Opportunities:"}},
}

var allHeaders = []string{
	"Total Insights:", "Key Findings:", "Financial Highlights:",
	"Risk Factors:", "Opportunities:", "Investment Recommendation:",
}

// parseSectionsFallback scans for loosely formatted sections when the
// strict line scan found nothing.
func parseSectionsFallback(summary string, output *domain.AnalysisOutput) {
	lowerSummary := strings.ToLower(summary)
	for _, section := range sectionHeaders {
		target := section.target(output)
		for _, header := range section.headers {
			start := strings.Index(lowerSummary, strings.ToLower(header))
			if start < 0 {
				continue
			}
			content := summary[start+len(header):]

			end := len(content)
			lowerContent := strings.ToLower(content)
			for _, other := range allHeaders {
				if idx := strings.Index(lowerContent, strings.ToLower(other)); idx >= 0 && idx < end {
					end = idx
				}
			}

			for _, line := range strings.Split(content[:end], "\n") {
				line = strings.TrimSpace(line)
				if len(*target) >= maxSectionItems {
					break
				}
				if isBullet(line) && len(line) > 15 {
					if body := bulletContent(line); len(body) > 10 {
						*target = append(*target, clip(body, maxItemLength))
					}
				} else if hasNumberedPrefix(line) {
					_, body, _ := strings.Cut(line, ":")
					if body = strings.TrimSpace(body); len(body) > 10 {
						*target = append(*target, clip(body, maxItemLength))
					}
				}
			}
		}
	}
}

func scoreExtraction(output domain.AnalysisOutput) float64 {
	quality := 0.0
	if len(output.Metrics) > 0 {
		quality += 0.2
	}
	sections := [][]string{
		output.Insights,
		output.KeyFindings,
		output.FinancialHighlights,
		output.Risks,
		output.Opportunities,
	}
	complete := true
	for _, section := range sections {
		if len(section) > 0 {
			quality += 0.15
		} else {
			complete = false
		}
	}
	if complete {
		quality += 0.05
	}
	if quality > 1.0 {
		quality = 1.0
	}
	return quality
}

func sectionsEmpty(output domain.AnalysisOutput) bool {
	return len(output.Insights) == 0 &&
		len(output.KeyFindings) == 0 &&
		len(output.FinancialHighlights) == 0 &&
		len(output.Risks) == 0 &&
		len(output.Opportunities) == 0
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•")
}

func bulletContent(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "-•"))
}

func hasNumberedPrefix(line string) bool {
	return (strings.HasPrefix(line, "Risk ") || strings.HasPrefix(line, "Opportunity ")) &&
		strings.Contains(line, ":")
}

// clip truncates to at most limit bytes without splitting a rune.
func clip(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
