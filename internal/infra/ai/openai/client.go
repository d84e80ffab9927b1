package openai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/infra/ai/prompt"
	"github.com/sashabaranov/go-openai"
)

const (
	maxTokens    = 2048
	DefaultModel = "gpt-4o-mini"
)

const systemPrompt = "You produce one valid JSON object only (no markdown, no commentary) matching the provided schema."

type Client struct {
	*openai.Client
	Model   string
	Timeout time.Duration
}

func NewClientWithConfig(cfg openai.ClientConfig, model string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model, Timeout: timeout}
}

func (c *Client) Generate(ctx context.Context, role string, skills []string, projects ...analysis.Project) (analysis.Result, error) {
	if c == nil || c.Client == nil {
		return analysis.Result{}, analysis.ErrConfiguration
	}
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "career_analysis",
				Schema: prompt.ResponseSchema(),
				Strict: false,
			},
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.BuildPrompt(role, skills, projects...)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(c.Model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("openai chat completion failed model=%s role=%q err=%v", c.Model, role, err)
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return analysis.Result{}, fmt.Errorf("%w: %w", analysis.ErrUpstream, analysis.ErrQuotaExceeded)
		}
		return analysis.Result{}, fmt.Errorf("%w: %v", analysis.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return analysis.Result{}, fmt.Errorf("%w: no choices", analysis.ErrMalformedResponse)
	}
	return prompt.ParseResult(resp.Choices[0].Message.Content)
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}
