package lark

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/seongon-agency/lark-agent-agno-backend/internal/errors"

	"github.com/sirupsen/logrus"

	larksdk "github.com/larksuite/oapi-sdk-go/v3"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
)

// Sender delivers reply text back into a Lark chat.
type Sender interface {
	SendText(ctx context.Context, chatID, text string) error
}

type Client struct {
	client *larksdk.Client
	logger *logrus.Logger
}

func NewClient(appID, appSecret string, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Client{
		client: larksdk.NewClient(appID, appSecret),
		logger: logger,
	}
}

// SendText posts a text message to a chat through the create-message API.
// The SDK handles tenant token acquisition and refresh.
func (c *Client) SendText(ctx context.Context, chatID, text string) error {
	content, err := MarshalTextContent(text)
	if err != nil {
		return fmt.Errorf("failed to marshal text content: %w", err)
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType("chat_id").
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(chatID).
			MsgType(larkim.MsgTypeText).
			Content(content).
			Build()).
		Build()

	resp, err := c.client.Im.Message.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("lark send failed: %w", err)
	}
	if !resp.Success() {
		return apperrors.NewAPIError("lark", "im/v1/messages", resp.StatusCode,
			fmt.Errorf("lark send rejected: code=%d msg=%s", resp.Code, resp.Msg))
	}

	c.logger.WithField("chat_id", chatID).Debug("Reply delivered to Lark")
	return nil
}

// MarshalTextContent builds the {"text": ...} content body of a text message.
func MarshalTextContent(text string) (string, error) {
	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", err
	}
	return string(content), nil
}
