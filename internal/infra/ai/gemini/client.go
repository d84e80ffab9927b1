package gemini

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/infra/ai/prompt"
	"google.golang.org/genai"
)

const (
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 60 * time.Second
)

// Options for NewClient. BaseURL is only set in tests or behind a proxy.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
	schema  *genai.Schema
}

// NewClient builds a Gemini generator. An empty key is not an error here; every Generate
// call then fails with ErrConfiguration.
func NewClient(ctx context.Context, opt Options) (*Client, error) {
	c := &Client{
		model:   opt.Model,
		timeout: opt.Timeout,
		schema:  toGenai(prompt.ResponseSchema()),
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if opt.APIKey == "" {
		return c, nil
	}
	cfg := &genai.ClientConfig{
		APIKey:  opt.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opt.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opt.BaseURL}
	}
	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrConfiguration, err)
	}
	c.genai = gc
	return c, nil
}

func (c *Client) Generate(ctx context.Context, role string, skills []string, projects ...analysis.Project) (analysis.Result, error) {
	if c == nil || c.genai == nil {
		return analysis.Result{}, analysis.ErrConfiguration
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt.BuildPrompt(role, skills, projects...)}},
	}}
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   c.schema,
	})
	if err != nil {
		log.Printf("gemini generate failed model=%s role=%q err=%v", c.model, role, err)
		return analysis.Result{}, fmt.Errorf("%w: %v", analysis.ErrUpstream, err)
	}

	text := firstText(resp)
	if text == "" {
		return analysis.Result{}, fmt.Errorf("%w: no candidate text", analysis.ErrMalformedResponse)
	}
	return prompt.ParseResult(text)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return ""
	}
	return cand.Content.Parts[0].Text
}

// toGenai converts the neutral schema into the SDK type (uppercase type names).
func toGenai(s *prompt.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Items:       toGenai(s.Items),
	}
	switch s.Type {
	case prompt.TypeObject:
		out.Type = genai.TypeObject
	case prompt.TypeArray:
		out.Type = genai.TypeArray
	case prompt.TypeInteger:
		out.Type = genai.TypeInteger
	default:
		out.Type = genai.TypeString
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = toGenai(v)
		}
	}
	return out
}
