// Package push sends mobile push notifications through Firebase Cloud
// Messaging. Delivery is best-effort; callers must never let a push failure
// abort the business operation that triggered it.
package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"campuslink-backend/internal/logger"
)

// Sender dispatches a push message to a single device token
type Sender interface {
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}

type fcmSender struct {
	client *messaging.Client
}

// NewFCMSender builds a sender backed by Firebase Cloud Messaging
func NewFCMSender(ctx context.Context, credentialsFile string) (Sender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize fcm client: %w", err)
	}
	return &fcmSender{client: client}, nil
}

func (s *fcmSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	logger.ExternalServiceCall("fcm", "Send", "title", title)
	_, err := s.client.Send(ctx, msg)
	logger.ExternalServiceResult("fcm", "Send", err)
	if err != nil {
		return fmt.Errorf("failed to send push message: %w", err)
	}
	return nil
}

type noopSender struct{}

// NewNoopSender returns a sender that drops all messages. Used when push is
// disabled in config.
func NewNoopSender() Sender {
	return noopSender{}
}

func (noopSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	logger.Debug("Push disabled, dropping message", "title", title)
	return nil
}
