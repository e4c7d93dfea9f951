package openai

import "fmt"

const analystPersona = `You are a senior financial analyst with 15+ years of experience in investment research and financial modeling.
You extract precise financial data from documents and provide comprehensive, structured analysis.
You always include exact numbers, percentages, currency symbols, units (M, B, K), and time periods.
Every section of your report must contain meaningful, specific information. No empty sections.`

const maxDocumentChars = 16000

func buildAnalysisPrompt(text, query string) string {
	snippet := text
	if len(snippet) > maxDocumentChars {
		snippet = snippet[:maxDocumentChars]
	}

	return fmt.Sprintf(`Analyze the financial document below and answer the query: %s

Provide a structured financial analysis report following this EXACT format. MAXIMUM 200 WORDS.

KEY FINANCIAL METRICS:
- Revenue/Sales: [exact amount with currency and period]
- Operating Income/EBIT: [exact amount with currency and period]
- Net Income/Profit: [exact amount with currency and period]
- Cash and Cash Equivalents: [exact amount with currency and period]

GROWTH & CHANGES:
- Revenue growth rate: [exact percentage year-over-year]
- Income growth/decline: [exact percentage year-over-year]

Total Insights:
- [3-5 insights with specific numbers and data points]

Key Findings:
- [3-5 findings with supporting financial data]

Financial Highlights:
- [3-5 highlights with specific metrics and context]

Risk Factors:
- [3-5 risks with supporting data and impact assessment]

Opportunities:
- [3-5 opportunities with supporting data and potential impact]

INVESTMENT RECOMMENDATION:
- [recommendation grounded in the data points above]

Document:
%s`, query, snippet)
}
