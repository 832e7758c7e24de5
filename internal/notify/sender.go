package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Message письмо заявителю
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender отправляет письма, возвращает id сообщения у провайдера
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// ResendSender отправляет письма через Resend API
type ResendSender struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

func NewResendSender(apiKey, from string, logger *zap.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend send: %w", err)
	}

	s.logger.Info("Email sent",
		zap.String("message_id", sent.Id),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return sent.Id, nil
}

// NoopSender только логирует письма, когда Resend не настроен
type NoopSender struct {
	logger *zap.Logger
}

func NewNoopSender(logger *zap.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

func (s *NoopSender) Send(_ context.Context, msg Message) (string, error) {
	s.logger.Debug("Email delivery disabled, dropping message",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return "noop", nil
}
