package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/foodbuddy/backend/internal/domain"
	"github.com/foodbuddy/backend/internal/metrics"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// ClientConfig holds the settings for the analysis service client
type ClientConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
	MaxRetries        int
}

// Client asks an OpenAI-compatible chat completion endpoint to analyze
// ingredient lists
type Client struct {
	api         *openai.Client
	model       string
	rateLimiter *rate.Limiter
	maxRetries  int
	backoff     func(attempt int) time.Duration
	debug       bool
}

// NewClient creates a new analysis service client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}
	apiConfig.HTTPClient = &http.Client{Timeout: timeout}

	// rate.Limit is requests per second; allow short bursts of a few requests
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60), 5)

	return &Client{
		api:         openai.NewClientWithConfig(apiConfig),
		model:       cfg.Model,
		rateLimiter: limiter,
		maxRetries:  maxRetries,
		backoff:     exponentialBackoff,
	}
}

// SetDebug enables logging of prompts and raw model output
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Analyze sends the ingredient list to the model and decodes its JSON answer
func (c *Client) Analyze(ctx context.Context, ingredients string) (*domain.RawAnalysis, error) {
	log.Printf("[LLM] Analyze called with %d characters", len(ingredients))

	request := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(ingredients)},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	if c.debug {
		log.Printf("[LLM] Request model=%s input=%q", c.model, ingredients)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			log.Printf("[LLM] Rate limiter error: %v", err)
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		start := time.Now()
		resp, err := c.api.CreateChatCompletion(ctx, request)
		if err != nil {
			status := statusCode(err)
			metrics.RecordLLMRequest(statusLabel(status), time.Since(start).Seconds())

			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			lastErr = fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
			if !retryable(status) {
				log.Printf("[LLM] API error (attempt %d) - Status: %d, not retrying: %v", attempt, status, err)
				return nil, lastErr
			}

			log.Printf("[LLM] API error (attempt %d) - Status: %d: %v", attempt, status, err)
			if attempt < c.maxRetries {
				if err := sleep(ctx, c.backoff(attempt)); err != nil {
					return nil, err
				}
			}
			continue
		}
		metrics.RecordLLMRequest(statusLabel(http.StatusOK), time.Since(start).Seconds())

		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			log.Printf("[LLM] Model returned empty output")
			return nil, fmt.Errorf("%w: model returned empty output", domain.ErrMalformedResponse)
		}

		content := resp.Choices[0].Message.Content
		if c.debug {
			log.Printf("[LLM] Raw output: %s", content)
		}

		analysis, err := ParseAnalysis(content)
		if err != nil {
			log.Printf("[LLM] Decode error: %v", err)
			return nil, err
		}

		log.Printf("[LLM] Analysis intent=%q risks=%d tradeoffs=%d", analysis.Intent, len(analysis.Risks), len(analysis.Tradeoffs))
		return analysis, nil
	}

	log.Printf("[LLM] All %d attempts failed", c.maxRetries)
	return nil, lastErr
}

// statusCode extracts the HTTP status from a client error, 0 when the
// request never got a response
func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// retryable reports whether a failed request may succeed when repeated:
// transport errors, 429 and 5xx are retried; other 4xx are not
func retryable(status int) bool {
	return status == 0 || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func statusLabel(status int) string {
	if status == 0 {
		return "network_error"
	}
	return strconv.Itoa(status)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
