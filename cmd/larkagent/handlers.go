package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/seongon-agency/lark-agent-agno-backend/internal/crypto"
	apperrors "github.com/seongon-agency/lark-agent-agno-backend/internal/errors"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/models"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/privacy"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/service"

	"github.com/sirupsen/logrus"
)

// maxWebhookBodyBytes bounds Lark webhook payloads. Text events are
// small; anything near this limit is malformed or hostile.
const maxWebhookBodyBytes = 1 << 20

func (s *Server) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"service":   "larkagent",
			"status":    "ok",
			"version":   Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (s *Server) handleEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		envelope, err := s.decodeEnvelope(r)
		if err != nil {
			s.logger.WithError(err).Error("Failed to decode event payload")
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}

		if envelope.IsChallenge() {
			writeJSON(w, http.StatusOK, map[string]string{"challenge": envelope.Challenge})
			return
		}

		if !s.verifyToken(envelope) {
			s.logger.Warn("Webhook delivery with mismatched verification token")
			writeError(w, http.StatusUnauthorized, "invalid verification token")
			return
		}

		if envelope.EventType() != models.EventTypeMessageReceive {
			s.logger.WithField(service.LogFieldEventType, envelope.EventType()).Debug("Ignoring unhandled event type")
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}

		var event models.MessageReceiveEvent
		if err := json.Unmarshal(envelope.Event, &event); err != nil {
			s.logger.WithError(err).Error("Failed to decode message event")
			writeError(w, http.StatusBadRequest, "invalid event body")
			return
		}

		// Lark redelivers on slow responses, so acknowledge now and let
		// the bridge run the agent exchange off the request goroutine.
		ctx := context.WithoutCancel(r.Context())
		go func() {
			if err := s.bridge.HandleMessage(ctx, &event); err != nil {
				s.logger.WithError(err).WithField(
					service.LogFieldMessageID, privacy.MaskMessageID(event.Message.MessageID),
				).Error("Message handling failed")
			}
		}()

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) handleCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		envelope, err := s.decodeEnvelope(r)
		if err != nil {
			s.logger.WithError(err).Error("Failed to decode card payload")
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}

		if envelope.IsChallenge() {
			writeJSON(w, http.StatusOK, map[string]string{"challenge": envelope.Challenge})
			return
		}

		if !s.verifyToken(envelope) {
			writeError(w, http.StatusUnauthorized, "invalid verification token")
			return
		}

		var action models.CardActionEvent
		if len(envelope.Event) > 0 {
			if err := json.Unmarshal(envelope.Event, &action); err != nil {
				s.logger.WithError(err).Debug("Unparseable card action body")
			}
		}

		s.logger.WithFields(logrus.Fields{
			service.LogFieldChatID: privacy.MaskChatID(action.ChatID),
			service.LogFieldUserID: privacy.MaskUserID(action.UserID),
			"action_tag":           action.Action.Tag,
		}).Info("Card action acknowledged")

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// decodeEnvelope reads the webhook body and, when the payload is
// encrypted, decrypts it with the configured key before re-parsing.
func (s *Server) decodeEnvelope(r *http.Request) (*models.EventEnvelope, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		return nil, err
	}

	var envelope models.EventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}

	if envelope.Encrypt == "" {
		return &envelope, nil
	}

	plaintext, err := crypto.DecryptEvent(envelope.Encrypt, s.cfg.Lark.EncryptKey)
	if err != nil {
		return nil, apperrors.NewDecryptError(err)
	}

	var decrypted models.EventEnvelope
	if err := json.Unmarshal(plaintext, &decrypted); err != nil {
		return nil, err
	}
	return &decrypted, nil
}

// verifyToken checks the envelope's verification token when one is
// configured. An unconfigured token disables the check.
func (s *Server) verifyToken(envelope *models.EventEnvelope) bool {
	expected := s.cfg.Lark.VerificationToken
	if expected == "" {
		return true
	}
	return envelope.VerificationToken() == expected
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
