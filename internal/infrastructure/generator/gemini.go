// Package generator holds the provider clients behind generation.Generator.
package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/studyforge/studyforge/internal/application/generation"
	"github.com/studyforge/studyforge/internal/shared/config"
	"github.com/studyforge/studyforge/internal/shared/logger"
	"github.com/studyforge/studyforge/internal/shared/utils/logutil"
)

// GeminiClient calls the Gemini generateContent endpoint.
type GeminiClient struct {
	client *resty.Client
	model  string
	logger logger.Interface
}

var _ generation.Generator = (*GeminiClient)(nil)

func NewGeminiClient(cfg *config.GeneratorConfig, log logger.Interface) *GeminiClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)
	if t := cfg.Timeout(); t > 0 {
		c.SetTimeout(t)
	}

	return &GeminiClient{
		client: c,
		model:  cfg.Model,
		logger: log.Named("generator.gemini"),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends one single-turn prompt and returns the first candidate's
// text. Timeouts are reported as generation.ErrProviderTimeout.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	var (
		body    generateResponse
		failure errorResponse
	)

	start := time.Now()
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(&generateRequest{
			Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		}).
		SetResult(&body).
		SetError(&failure).
		Post(fmt.Sprintf("/models/%s:generateContent", g.model))
	if err != nil {
		if isTimeout(ctx, err) {
			return "", errors.Join(generation.ErrProviderTimeout, err)
		}
		return "", fmt.Errorf("gemini request: %w", err)
	}

	g.logger.Debugw("gemini responded",
		"status", resp.StatusCode(),
		"elapsed", time.Since(start))

	if resp.StatusCode() != http.StatusOK {
		msg := failure.Error.Message
		if msg == "" {
			msg = logutil.Excerpt(resp.String(), 200)
		}
		if resp.StatusCode() == http.StatusGatewayTimeout {
			return "", fmt.Errorf("%w: gemini status %d: %s", generation.ErrProviderTimeout, resp.StatusCode(), msg)
		}
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode(), msg)
	}

	if body.PromptFeedback != nil && body.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini blocked the prompt: %s", body.PromptFeedback.BlockReason)
	}
	if len(body.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range body.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
