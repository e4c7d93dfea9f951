package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
	"github.com/dkoval/findoc-scanner/internal/infrastructure/resilience"
)

const (
	baseConfidenceScore  = 0.85
	baseDataQualityScore = 0.90
)

// Client runs financial analysis through an OpenAI-compatible chat
// completion endpoint and turns the free-text report into a structured
// engine report.
type Client struct {
	api      *openai.Client
	model    string
	executor *resilience.Executor
}

type Options struct {
	BaseURL            string
	ResilienceExecutor *resilience.Executor
}

func New(apiKey, model string) *Client {
	return NewWithOptions(apiKey, model, Options{})
}

func NewWithOptions(apiKey, model string, options Options) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(options.BaseURL) != "" {
		cfg.BaseURL = strings.TrimRight(options.BaseURL, "/")
	}
	return &Client{
		api:      openai.NewClientWithConfig(cfg),
		model:    model,
		executor: options.ResilienceExecutor,
	}
}

func (c *Client) Analyze(ctx context.Context, text, query string) (domain.EngineReport, error) {
	request := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analystPersona},
			{Role: openai.ChatMessageRoleUser, Content: buildAnalysisPrompt(text, query)},
		},
	}

	var summary string
	call := func(callCtx context.Context) error {
		response, err := c.api.CreateChatCompletion(callCtx, request)
		if err != nil {
			return fmt.Errorf("chat completion: %w", err)
		}
		if len(response.Choices) == 0 {
			return fmt.Errorf("chat completion returned no choices")
		}
		summary = strings.TrimSpace(response.Choices[0].Message.Content)
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "openai.chat", call, classifyEngineError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.EngineReport{}, wrapTemporaryIfNeeded("openai chat", err)
	}
	if summary == "" {
		return domain.EngineReport{}, fmt.Errorf("chat completion returned empty content")
	}

	output := parseAnalysisOutput(summary)
	confidence := domain.ClampScore(baseConfidenceScore + output.ExtractionQualityScore*0.1)
	return domain.EngineReport{
		Output:           output,
		ConfidenceScore:  confidence,
		DataQualityScore: baseDataQualityScore,
	}, nil
}
