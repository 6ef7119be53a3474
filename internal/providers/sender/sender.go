package sender

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers one message to one recipient. A nil error means the
// message was handed to the transport.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type NoOpSender struct{}

func (NoOpSender) Send(ctx context.Context, to, subject, body string) error {
	return nil
}

// LogSender records deliveries through the logger. It stands in for a
// real transport in demo and development environments.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.Named("sender")}
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info("email delivered",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}
