package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/checkfox/leadintel/internal/logger"
	"github.com/checkfox/leadintel/internal/metrics"
	"github.com/checkfox/leadintel/internal/models"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 4 << 20

// Backoff bases per failure class
const (
	errorBackoffBase   = 2
	timeoutBackoffBase = 3
)

// Reason classifies why a completion is unavailable
type Reason string

const (
	ReasonTimeout      Reason = "timeout"
	ReasonTransport    Reason = "transport"
	ReasonBadStatus    Reason = "bad_status"
	ReasonEmptyContent Reason = "empty_content"
)

// CompletionRequest is what an orchestrator asks the completion service for
type CompletionRequest struct {
	Purpose models.Purpose
	Prompt  string
	System  string
}

// Result is either Ok with the generated text or Unavailable with a reason.
// When unavailable, Text holds the static fallback for the purpose.
type Result struct {
	OK         bool
	Text       string
	Reason     Reason
	Attempts   int
	StatusCode int
}

// Unavailable reports whether the call failed
func (r Result) Unavailable() bool {
	return !r.OK
}

// Policy bounds the retry loop of a single Complete call
type Policy struct {
	RetryAttempts int
	Timeout       time.Duration

	// BackoffUnit scales the schedule unit*base^attempt
	BackoffUnit time.Duration
}

// DefaultPolicy returns 3 attempts of 30s with a one second backoff unit
func DefaultPolicy() Policy {
	return Policy{
		RetryAttempts: 3,
		Timeout:       30 * time.Second,
		BackoffUnit:   time.Second,
	}
}

// Backoff returns the pause after the zero-based attempt failed for reason
func (p Policy) Backoff(attempt int, reason Reason) time.Duration {
	base := float64(errorBackoffBase)
	if reason == ReasonTimeout {
		base = timeoutBackoffBase
	}
	return time.Duration(float64(p.BackoffUnit) * math.Pow(base, float64(attempt)))
}

func (p Policy) normalized() Policy {
	if p.RetryAttempts < 1 {
		p.RetryAttempts = 1
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultPolicy().Timeout
	}
	if p.BackoffUnit < 0 {
		p.BackoffUnit = 0
	}
	return p
}

// Completer is the narrow surface orchestrators depend on
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) Result
	TestConnection(ctx context.Context) bool
}

// Settings describe the outbound payload
type Settings struct {
	URL         string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Option configures a CompletionClient
type Option func(*CompletionClient)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *CompletionClient) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMetrics records attempts and latencies on the given manager
func WithMetrics(m *metrics.Manager) Option {
	return func(c *CompletionClient) {
		c.metrics = m
	}
}

// CompletionClient talks to an OpenAI-compatible chat completion endpoint
// with per-attempt timeouts and bounded retries
type CompletionClient struct {
	settings   Settings
	policy     Policy
	httpClient *http.Client
	metrics    *metrics.Manager
}

// NewCompletionClient creates a new completion client
func NewCompletionClient(settings Settings, policy Policy, opts ...Option) *CompletionClient {
	c := &CompletionClient{
		settings:   settings,
		policy:     policy.normalized(),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the default policy of the client
func (c *CompletionClient) Policy() Policy {
	return c.policy
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete runs req under the client's default policy
func (c *CompletionClient) Complete(ctx context.Context, req CompletionRequest) Result {
	return c.CompleteWithPolicy(ctx, req, c.policy)
}

// CompleteWithPolicy makes up to policy.RetryAttempts attempts. Non-200
// statuses, timeouts and transport errors are retried after a backoff; a 200
// without usable content is returned at once. Cancelling ctx stops the loop
// and reports a transport failure.
func (c *CompletionClient) CompleteWithPolicy(ctx context.Context, req CompletionRequest, policy Policy) Result {
	policy = policy.normalized()
	ctx = context.WithValue(ctx, logger.PurposeKey, string(req.Purpose))

	body, err := json.Marshal(c.buildPayload(req))
	if err != nil {
		logger.LogError(ctx, "Failed to marshal completion payload", err)
		return unavailable(req.Purpose, ReasonTransport, 0, 0)
	}

	var last Result
	for attempt := 0; attempt < policy.RetryAttempts; attempt++ {
		start := time.Now()
		text, status, reason := c.attempt(ctx, body, policy.Timeout)
		elapsed := time.Since(start)

		outcome := "ok"
		if reason != "" {
			outcome = string(reason)
		}
		logger.LogCompletionAttempt(ctx, attempt, outcome, elapsed)
		c.metrics.RecordCompletionAttempt(string(req.Purpose), outcome, elapsed)

		if reason == "" {
			return Result{OK: true, Text: text, Attempts: attempt + 1, StatusCode: status}
		}

		last = unavailable(req.Purpose, reason, attempt+1, status)
		if reason == ReasonEmptyContent || ctx.Err() != nil {
			break
		}

		if attempt < policy.RetryAttempts-1 {
			delay := policy.Backoff(attempt, reason)
			logger.Debug(ctx, "Backing off before next completion attempt",
				"attempt", attempt,
				"delay", delay.String())
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return unavailable(req.Purpose, ReasonTransport, attempt+1, status)
			}
		}
	}

	if ctx.Err() != nil {
		last.Reason = ReasonTransport
	}
	return last
}

// TestConnection makes a single short attempt and reports whether it succeeded
func (c *CompletionClient) TestConnection(ctx context.Context) bool {
	policy := c.policy
	policy.RetryAttempts = 1

	result := c.CompleteWithPolicy(ctx, CompletionRequest{
		Purpose: models.PurposeConnectionTest,
		Prompt:  connectionTestPrompt,
	}, policy)
	return result.OK
}

func (c *CompletionClient) buildPayload(req CompletionRequest) chatRequest {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	return chatRequest{
		Model:       c.settings.Model,
		Messages:    messages,
		MaxTokens:   c.settings.MaxTokens,
		Temperature: c.settings.Temperature,
		Stream:      false,
	}
}

// attempt performs one bounded call. An empty reason means success.
func (c *CompletionClient) attempt(ctx context.Context, body []byte, timeout time.Duration) (string, int, Reason) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.settings.URL, bytes.NewReader(body))
	if err != nil {
		logger.Warn(ctx, "Failed to create completion request", "error", err.Error())
		return "", 0, ReasonTransport
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.settings.APIKey != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.settings.APIKey))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", 0, classifyError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", resp.StatusCode, classifyError(ctx, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, ReasonBadStatus
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", resp.StatusCode, ReasonEmptyContent
	}
	for _, choice := range parsed.Choices {
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, resp.StatusCode, ""
		}
	}
	return "", resp.StatusCode, ReasonEmptyContent
}

// classifyError separates per-attempt timeouts from other transport errors.
// A cancelled parent is always a transport failure.
func classifyError(parent context.Context, err error) Reason {
	if parent.Err() != nil {
		return ReasonTransport
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonTransport
}

func unavailable(purpose models.Purpose, reason Reason, attempts, status int) Result {
	return Result{
		OK:         false,
		Text:       Fallback(purpose),
		Reason:     reason,
		Attempts:   attempts,
		StatusCode: status,
	}
}
