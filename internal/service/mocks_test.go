package service

import (
	"context"
	"sync"
	"time"

	"github.com/seongon-agency/lark-agent-agno-backend/internal/models"
	"github.com/seongon-agency/lark-agent-agno-backend/pkg/agno"
)

// Mock conversation store
type mockStore struct {
	mu sync.Mutex

	upsertErr  error
	saveErr    error
	turnsResp  []models.Turn
	turnsErr   error
	clearErr   error
	cleanupN   int64
	cleanupErr error

	upsertCalls  int
	savedTurns   []models.Turn
	clearedKeys  []string
	cleanupCalls int
}

func (m *mockStore) UpsertSession(ctx context.Context, sessionKey, chatID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	return m.upsertErr
}

func (m *mockStore) SaveTurn(ctx context.Context, turn *models.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedTurns = append(m.savedTurns, *turn)
	return nil
}

func (m *mockStore) GetRecentTurns(ctx context.Context, sessionKey string, limit int) ([]models.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turnsResp, m.turnsErr
}

func (m *mockStore) ClearSession(ctx context.Context, sessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clearedKeys = append(m.clearedKeys, sessionKey)
	return nil
}

func (m *mockStore) CleanupOldTurns(ctx context.Context, retentionDays int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupCalls++
	return m.cleanupN, m.cleanupErr
}

// Mock agent client
type mockAgent struct {
	mu sync.Mutex

	chatResp string
	chatErr  error
	clearErr error

	chatCalls    int
	lastSession  string
	lastMessage  string
	lastHistory  []agno.Message
	clearedKeys  []string
	healthErr    error
	connectError error
}

func (m *mockAgent) Chat(ctx context.Context, sessionID, message string, history []agno.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatCalls++
	m.lastSession = sessionID
	m.lastMessage = message
	m.lastHistory = history
	return m.chatResp, m.chatErr
}

func (m *mockAgent) Health(ctx context.Context) (*agno.HealthResponse, error) {
	if m.healthErr != nil {
		return nil, m.healthErr
	}
	return &agno.HealthResponse{Status: "healthy", OpenAIConfigured: true}, nil
}

func (m *mockAgent) ClearSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clearedKeys = append(m.clearedKeys, sessionID)
	return nil
}

func (m *mockAgent) CheckConnection(ctx context.Context) error {
	return m.connectError
}

// Mock Lark sender
type mockSender struct {
	mu sync.Mutex

	sendErr error

	sentChats []string
	sentTexts []string
}

func (m *mockSender) SendText(ctx context.Context, chatID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sentChats = append(m.sentChats, chatID)
	m.sentTexts = append(m.sentTexts, text)
	return nil
}

func (m *mockSender) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sentTexts...)
}

// Dedup stub that never reports a duplicate. Tests exercising duplicate
// suppression use the real cache instead.
type passthroughDedup struct{}

func (passthroughDedup) CheckAndMark(messageID string, now time.Time) bool { return false }
