package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seongon-agency/lark-agent-agno-backend/internal/metrics"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/models"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/privacy"
	"github.com/seongon-agency/lark-agent-agno-backend/pkg/agno"
	"github.com/seongon-agency/lark-agent-agno-backend/pkg/circuitbreaker"
	"github.com/seongon-agency/lark-agent-agno-backend/pkg/lark"

	"github.com/sirupsen/logrus"
)

// Replies produced by the bridge itself rather than the agent.
const (
	apologyText      = "Sorry, I encountered an error processing your message. Please try again."
	clearConfirmText = "Conversation history cleared."
	clearCommand     = "/clear"
)

// MessageBridge routes one inbound Lark message through deduplication,
// the conversation store, and the agent, then replies to the chat.
type MessageBridge interface {
	HandleMessage(ctx context.Context, event *models.MessageReceiveEvent) error
	CleanupOldTurns(ctx context.Context, retentionDays int) error
}

// ConversationStore is the persistence surface the bridge needs.
// *database.Database satisfies it; tests substitute a mock.
type ConversationStore interface {
	UpsertSession(ctx context.Context, sessionKey, chatID, userID string) error
	SaveTurn(ctx context.Context, turn *models.Turn) error
	GetRecentTurns(ctx context.Context, sessionKey string, limit int) ([]models.Turn, error)
	ClearSession(ctx context.Context, sessionKey string) error
	CleanupOldTurns(ctx context.Context, retentionDays int) (int64, error)
}

// Deduplicator suppresses redelivered message IDs.
type Deduplicator interface {
	CheckAndMark(messageID string, now time.Time) bool
}

type bridge struct {
	store        ConversationStore
	agent        agno.Client
	sender       lark.Sender
	dedup        Deduplicator
	breaker      *circuitbreaker.CircuitBreaker
	historyTurns int
	logger       *logrus.Logger
}

func NewBridge(store ConversationStore, agent agno.Client, sender lark.Sender, dedup Deduplicator, breaker *circuitbreaker.CircuitBreaker, historyTurns int, logger *logrus.Logger) MessageBridge {
	return &bridge{
		store:        store,
		agent:        agent,
		sender:       sender,
		dedup:        dedup,
		breaker:      breaker,
		historyTurns: historyTurns,
		logger:       logger,
	}
}

// SessionKey derives the conversation identity for one user in one chat.
// The same key addresses the local store and the agent service's memory.
func SessionKey(chatID, userID string) string {
	return fmt.Sprintf("%s_%s", chatID, userID)
}

func (b *bridge) HandleMessage(ctx context.Context, event *models.MessageReceiveEvent) error {
	msgID := event.Message.MessageID
	chatID := event.Message.ChatID
	userID := event.SenderUserID()

	log := b.logger.WithFields(logrus.Fields{
		LogFieldMessageID: privacy.MaskMessageID(msgID),
		LogFieldChatID:    privacy.MaskChatID(chatID),
		LogFieldUserID:    privacy.MaskUserID(userID),
		LogFieldDirection: "incoming",
	})

	if b.dedup.CheckAndMark(msgID, time.Now()) {
		log.Warn("Duplicate delivery, skipping")
		metrics.IncrementCounter("messages_duplicate_total", nil)
		return nil
	}

	if event.Message.MessageType != models.MsgTypeText {
		log.WithField(LogFieldMessageType, event.Message.MessageType).Debug("Ignoring non-text message")
		return nil
	}

	text, err := models.ParseTextContent(event.Message.Content)
	if err != nil {
		return fmt.Errorf("failed to parse message content: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Debug("Ignoring empty message")
		return nil
	}

	sessionKey := SessionKey(chatID, userID)

	if err := b.store.UpsertSession(ctx, sessionKey, chatID, userID); err != nil {
		log.WithError(err).Error("Failed to upsert session")
		// The agent can still answer without a persisted session row.
	}

	if text == clearCommand {
		return b.clearSession(ctx, log, sessionKey, chatID)
	}

	history, err := b.store.GetRecentTurns(ctx, sessionKey, b.historyTurns)
	if err != nil {
		log.WithError(err).Error("Failed to load conversation history")
		history = nil
	}

	reply, err := b.invokeAgent(ctx, sessionKey, text, history)
	if err != nil {
		log.WithError(err).Error("Agent invocation failed")
		metrics.IncrementCounter("agent_invocations_failed_total", nil)
		b.sendReply(ctx, log, chatID, apologyText)
		return err
	}
	metrics.IncrementCounter("agent_invocations_total", nil)

	b.saveTurn(ctx, log, sessionKey, msgID, models.RoleUser, text)
	b.saveTurn(ctx, log, sessionKey, "", models.RoleAssistant, reply)

	b.sendReply(ctx, log, chatID, reply)
	return nil
}

func (b *bridge) CleanupOldTurns(ctx context.Context, retentionDays int) error {
	removed, err := b.store.CleanupOldTurns(ctx, retentionDays)
	if err != nil {
		return err
	}
	if removed > 0 {
		b.logger.WithField(LogFieldCount, removed).Info("Removed expired conversation turns")
	}
	return nil
}

// invokeAgent calls the agent service behind the circuit breaker and
// converts the stored turns into the wire history format.
func (b *bridge) invokeAgent(ctx context.Context, sessionKey, text string, turns []models.Turn) (string, error) {
	history := make([]agno.Message, 0, len(turns))
	for _, turn := range turns {
		history = append(history, agno.Message{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	var reply string
	start := time.Now()
	err := b.breaker.Execute(ctx, func(ctx context.Context) error {
		var chatErr error
		reply, chatErr = b.agent.Chat(ctx, sessionKey, text, history)
		return chatErr
	})
	metrics.RecordTimer("agent_chat_duration", time.Since(start), nil)
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (b *bridge) clearSession(ctx context.Context, log *logrus.Entry, sessionKey, chatID string) error {
	if err := b.agent.ClearSession(ctx, sessionKey); err != nil {
		log.WithError(err).Warn("Failed to clear agent session")
	}
	if err := b.store.ClearSession(ctx, sessionKey); err != nil {
		log.WithError(err).Error("Failed to clear stored conversation")
		b.sendReply(ctx, log, chatID, apologyText)
		return err
	}

	log.Info("Conversation cleared")
	b.sendReply(ctx, log, chatID, clearConfirmText)
	return nil
}

func (b *bridge) saveTurn(ctx context.Context, log *logrus.Entry, sessionKey, messageID, role, content string) {
	err := b.store.SaveTurn(ctx, &models.Turn{
		SessionKey: sessionKey,
		MessageID:  messageID,
		Role:       role,
		Content:    content,
	})
	if err != nil {
		log.WithError(err).WithField(LogFieldOperation, "save_turn").Error("Failed to persist turn")
	}
}

// sendReply delivers text to the chat. Send failures are logged and
// swallowed; there is no retry or fallback channel.
func (b *bridge) sendReply(ctx context.Context, log *logrus.Entry, chatID, text string) {
	if err := b.sender.SendText(ctx, chatID, text); err != nil {
		log.WithError(err).WithField(LogFieldOperation, "send_text").Error("Failed to send reply")
		metrics.IncrementCounter("lark_send_failed_total", nil)
		return
	}
	metrics.IncrementCounter("lark_send_total", nil)
}
