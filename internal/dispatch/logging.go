package dispatch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// loggingClient stands in for the chat platform and tracker when no
// real credentials are configured. Display creation hands back a fresh
// id so the display lifecycle still exercises end to end.
type loggingClient struct {
	logger *slog.Logger
}

// NewLoggingClients returns clients that log every call instead of
// reaching any external system.
func NewLoggingClients(logger *slog.Logger) (DisplayClient, ChatClient, TrackerClient) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &loggingClient{logger: logger}
	return c, c, c
}

func (c *loggingClient) CreateMessage(_ context.Context, channelID, content string) (string, error) {
	messageID := uuid.NewString()
	c.logger.Info("would create display message", "channel", channelID, "message", messageID, "content", content)
	return messageID, nil
}

func (c *loggingClient) UpdateMessage(_ context.Context, channelID, messageID, content string) error {
	c.logger.Info("would update display message", "channel", channelID, "message", messageID, "content", content)
	return nil
}

func (c *loggingClient) DeleteMessage(_ context.Context, channelID, messageID string) error {
	c.logger.Info("would delete display message", "channel", channelID, "message", messageID)
	return nil
}

func (c *loggingClient) Send(_ context.Context, target, content string) error {
	c.logger.Info("would send message", "target", target, "content", content)
	return nil
}

func (c *loggingClient) Transition(_ context.Context, issueKey, transitionID string, fields map[string]string) error {
	c.logger.Info("would transition tracker issue", "issue", issueKey, "transition", transitionID, "fields", fields)
	return nil
}

func (c *loggingClient) Comment(_ context.Context, issueKey, body string) error {
	c.logger.Info("would comment on tracker issue", "issue", issueKey, "body", body)
	return nil
}
