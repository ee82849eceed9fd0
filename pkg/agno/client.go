package agno

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/seongon-agency/lark-agent-agno-backend/internal/errors"

	"github.com/sirupsen/logrus"
)

// Client is the boundary to the hosted Agno agent service. The service owns
// prompt construction, session memory, LLM selection, and tool-call
// orchestration; this layer only passes the user's literal text in and gets
// a string reply out.
type Client interface {
	Chat(ctx context.Context, sessionID, message string, history []Message) (string, error)
	Health(ctx context.Context) (*HealthResponse, error)
	ClearSession(ctx context.Context, sessionID string) error
	CheckConnection(ctx context.Context) error
}

type AgnoClient struct {
	baseURL      string
	systemPrompt string
	client       *http.Client
	logger       *logrus.Logger
}

func NewClient(baseURL, systemPrompt string, timeout time.Duration, logger *logrus.Logger) Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	if timeout <= 0 {
		// LLM generations are slow; the default HTTP timeout would cut
		// long replies off.
		timeout = 90 * time.Second
	}

	return &AgnoClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		systemPrompt: systemPrompt,
		client:       &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

// Chat sends one user message for a session and returns the generated reply.
func (c *AgnoClient) Chat(ctx context.Context, sessionID, message string, history []Message) (string, error) {
	reqBody := ChatRequest{
		SessionID:    sessionID,
		Message:      message,
		History:      history,
		SystemPrompt: c.systemPrompt,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach agent service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read agent response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewAPIError("agent", "/chat", resp.StatusCode,
			fmt.Errorf("agent service returned status %d: %s", resp.StatusCode, string(body)))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal agent response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"session_id":      chatResp.SessionID,
		"response_length": len(chatResp.Response),
	}).Debug("Agent reply received")

	return chatResp.Response, nil
}

// Health checks whether the agent service is available.
func (c *AgnoClient) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read health response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent service is not healthy (status %d): %s", resp.StatusCode, string(body))
	}

	var healthResp HealthResponse
	if err := json.Unmarshal(body, &healthResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal health response: %w", err)
	}

	return &healthResp, nil
}

// ClearSession drops the agent service's conversation memory for a session.
func (c *AgnoClient) ClearSession(ctx context.Context, sessionID string) error {
	endpoint := c.baseURL + "/clear-session?session_id=" + url.QueryEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create clear-session request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send clear-session request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return apperrors.NewAPIError("agent", "/clear-session", resp.StatusCode,
			fmt.Errorf("clear-session failed with status %d: %s", resp.StatusCode, string(body)))
	}

	c.logger.WithField("session_id", sessionID).Info("Agent session cleared")
	return nil
}

// CheckConnection verifies at startup that the agent service is reachable and
// has an LLM provider configured. A misconfigured provider would otherwise
// only surface as per-message failures.
func (c *AgnoClient) CheckConnection(ctx context.Context) error {
	health, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("agent connection check failed: %w", err)
	}

	if health.Status != "healthy" {
		return errors.New("agent service status is not healthy")
	}
	if !health.OpenAIConfigured {
		return errors.New("agent service has no LLM provider configured")
	}

	c.logger.WithFields(logrus.Fields{
		"status":       health.Status,
		"storage_path": health.StoragePath,
	}).Info("Agent service connection verified")

	return nil
}
