// internal/app/integrations/gemini/client.go
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	service = "gemini"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-1.5-flash"

	// DefaultProjectType is the project type README prompts assume.
	DefaultProjectType = "web"
)

// ReadmeRequest describes the project a README is generated for.
type ReadmeRequest struct {
	ProjectName string
	Description string
	GitHubRepo  string
	ProjectType string
}

// SummaryRequest describes a batch of changes to summarize for collaborators.
type SummaryRequest struct {
	ProjectName string
	GitHubRepo  string
	Changes     string
}

// generateFunc sends one prompt and returns the concatenated text parts.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// Client generates README documents and change summaries with Gemini.
//
// A Client built without an API key is valid; each call then fails with a
// configuration error.
type Client struct {
	genai    *genai.Client
	generate generateFunc
	log      *zap.Logger
}

// NewClient connects to the Gemini API. An empty apiKey yields an
// unconfigured client and no error.
func NewClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Client, error) {
	c := &Client{log: logger}
	if apiKey == "" {
		return c, nil
	}
	if model == "" {
		model = DefaultModel
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	gm := gc.GenerativeModel(model)

	c.genai = gc
	c.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
		return responseText(resp), nil
	}
	return c, nil
}

// IsConfigured reports whether an API key was supplied.
func (c *Client) IsConfigured() bool {
	return c.generate != nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.genai == nil {
		return nil
	}
	return c.genai.Close()
}

// GenerateReadme returns a Markdown README for the project.
func (c *Client) GenerateReadme(ctx context.Context, req ReadmeRequest) (string, error) {
	if strings.TrimSpace(req.ProjectName) == "" {
		return "", apperr.Invalid("Project name is required")
	}
	if req.ProjectType == "" {
		req.ProjectType = DefaultProjectType
	}
	prompt, err := render(readmePrompt, req)
	if err != nil {
		return "", fmt.Errorf("render readme prompt: %w", err)
	}
	return c.run(ctx, "generate_readme", prompt)
}

// Summarize returns a short, collaborator-facing summary of changes.
func (c *Client) Summarize(ctx context.Context, req SummaryRequest) (string, error) {
	prompt, err := render(summaryPrompt, req)
	if err != nil {
		return "", fmt.Errorf("render summary prompt: %w", err)
	}
	return c.run(ctx, "summarize", prompt)
}

func (c *Client) run(ctx context.Context, op, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", apperr.NotConfigured(service, "AI service configuration error")
	}

	text, err := c.generate(ctx, prompt)
	if err != nil {
		c.log.Warn("gemini request failed", zap.String("op", op), zap.Error(err))
		return "", classify(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", &apperr.UpstreamError{Service: service, Message: "No content generated", Err: errors.New("empty response")}
	}
	return text, nil
}

// classify separates credential problems from transient failures.
func classify(err error) error {
	up := &apperr.UpstreamError{Service: service, Err: err}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden) {
		up.Err = fmt.Errorf("%w: %v", apperr.ErrNotConfigured, err)
	} else if strings.Contains(err.Error(), "API key") {
		up.Err = fmt.Errorf("%w: %v", apperr.ErrNotConfigured, err)
	}

	if up.IsConfig() {
		up.Message = "AI service configuration error"
	}
	return up
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		// Only the first usable candidate is returned.
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}
