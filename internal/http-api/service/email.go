package service

import (
	"context"
	"log/slog"
)

// EmailSender abstracts outbound mail. The default implementation only logs;
// deployments plug in a real provider.
type EmailSender interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}

type logEmailSender struct {
	logger *slog.Logger
}

// NewLogEmailSender returns a sender that records the mail instead of
// delivering it. Useful in development and as a safe default.
func NewLogEmailSender(logger *slog.Logger) EmailSender {
	return &logEmailSender{logger: logger}
}

func (s *logEmailSender) SendPasswordReset(ctx context.Context, to, token string) error {
	s.logger.Info("password reset email (not delivered: log sender)", "to", to, "token", token)
	return nil
}
