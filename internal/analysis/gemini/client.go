// Package gemini implements the analysis engine on the Google
// Generative Language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DevVaradPatil/resume-analyzer/internal/analysis/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/config"
	"go.uber.org/zap"
)

var ErrMissingAPIKey = errors.New("missing_api_key")

type Client struct {
	endpoint string
	model    string
	apiKey   string
	log      *zap.Logger
	http     *http.Client
}

func NewClient(cfg config.GeminiConfig, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		log:      log.Named("analysis.gemini"),
		http:     &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (c *Client) AnalyzeMatch(ctx context.Context, req domain.MatchRequest) (domain.Report, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, domain.ErrEmptyResumeText
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, domain.ErrEmptyJobDescription
	}
	return c.generate(ctx, matchPrompt(req.ResumeText, req.JobDescription))
}

func (c *Client) AnalyzeResume(ctx context.Context, resumeText string) (domain.Report, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, domain.ErrEmptyResumeText
	}
	return c.generate(ctx, overallPrompt(resumeText))
}

func (c *Client) ImproveSection(ctx context.Context, req domain.ImproveRequest) (domain.Report, error) {
	if strings.TrimSpace(req.OriginalText) == "" {
		return nil, domain.ErrEmptySectionText
	}
	return c.generate(ctx, improvePrompt(req.Section, req.OriginalText))
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string) (domain.Report, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("generate content failed",
			zap.Int("status", resp.StatusCode),
			zap.String("model", c.model),
		)
		return nil, fmt.Errorf("gemini: generate content: status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, domain.ErrMalformedResponse
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, domain.ErrMalformedResponse
	}
	return ParseReport(out.Candidates[0].Content.Parts[0].Text)
}
