package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/seongon-agency/lark-agent-agno-backend/internal/dedup"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/models"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/service"
	"github.com/seongon-agency/lark-agent-agno-backend/pkg/agno"
	"github.com/seongon-agency/lark-agent-agno-backend/pkg/circuitbreaker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory store for end-to-end handler tests.
type memStore struct {
	mu    sync.Mutex
	turns []models.Turn
}

func (m *memStore) UpsertSession(ctx context.Context, sessionKey, chatID, userID string) error {
	return nil
}

func (m *memStore) SaveTurn(ctx context.Context, turn *models.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, *turn)
	return nil
}

func (m *memStore) GetRecentTurns(ctx context.Context, sessionKey string, limit int) ([]models.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Turn(nil), m.turns...), nil
}

func (m *memStore) ClearSession(ctx context.Context, sessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
	return nil
}

func (m *memStore) CleanupOldTurns(ctx context.Context, retentionDays int) (int64, error) {
	return 0, nil
}

type stubAgent struct {
	mu      sync.Mutex
	calls   int
	chatErr error
}

func (a *stubAgent) Chat(ctx context.Context, sessionID, message string, history []agno.Message) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.chatErr != nil {
		return "", a.chatErr
	}
	return "agent reply", nil
}

func (a *stubAgent) Health(ctx context.Context) (*agno.HealthResponse, error) {
	return &agno.HealthResponse{Status: "healthy", OpenAIConfigured: true}, nil
}

func (a *stubAgent) ClearSession(ctx context.Context, sessionID string) error { return nil }

func (a *stubAgent) CheckConnection(ctx context.Context) error { return nil }

func (a *stubAgent) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type stubSender struct {
	mu    sync.Mutex
	texts []string
}

func (s *stubSender) SendText(ctx context.Context, chatID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return nil
}

func (s *stubSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func newEndToEndServer(agent *stubAgent, sender *stubSender) *Server {
	logger := testLogger()
	bridge := service.NewBridge(
		&memStore{},
		agent,
		sender,
		dedup.New(30*time.Minute),
		circuitbreaker.New("agent", 5, time.Minute, logger),
		10,
		logger,
	)
	return NewServer(&models.Config{}, bridge, logger)
}

func TestDoubleDeliveryInvokesAgentOnce(t *testing.T) {
	agent := &stubAgent{}
	sender := &stubSender{}
	srv := newEndToEndServer(agent, sender)

	body := messageEnvelope("om_e2e", "oc_chat", "ou_user", "hello twice")

	rec1 := postEvent(srv, "/webhook/event", body)
	rec2 := postEvent(srv, "/webhook/event", body)

	assert.Equal(t, 200, rec1.Code)
	assert.Equal(t, 200, rec2.Code, "redelivery is still acknowledged")

	require.Eventually(t, func() bool { return len(sender.sent()) == 1 }, time.Second, 5*time.Millisecond)

	// Allow the second dispatch to drain before asserting it was a no-op.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, agent.callCount(), "one invocation for two deliveries")
	assert.Equal(t, []string{"agent reply"}, sender.sent())
}

func TestAgentFailureProducesOneApology(t *testing.T) {
	agent := &stubAgent{chatErr: errors.New("llm timeout")}
	sender := &stubSender{}
	srv := newEndToEndServer(agent, sender)

	rec := postEvent(srv, "/webhook/event", messageEnvelope("om_fail", "oc_chat", "ou_user", "hello"))
	assert.Equal(t, 200, rec.Code, "failures after acknowledgment never change the response")

	require.Eventually(t, func() bool { return len(sender.sent()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Contains(t, sender.sent()[0], "Sorry, I encountered an error")
}

func TestServerShutdownWithoutStart(t *testing.T) {
	srv := newTestServer(&models.Config{}, &mockBridge{})
	assert.NoError(t, srv.Shutdown(context.Background()))
}
