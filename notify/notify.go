// Package notify delivers reminder messages. Every sink is fire-and-forget from the
// caller's point of view: a returned error is reported, never retried here.
package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=notify.go -destination=mocks/sink.go -package=mock_notify

type Sink interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Message is the payload published by the broker sinks.
type Message struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sentAt"`
}

// LogSink writes reminders to the log. It is the default when no broker is configured.
type LogSink struct{ log *zap.Logger }

func NewLogSink(log *zap.Logger) *LogSink { return &LogSink{log: log.Named("notify")} }

func (s *LogSink) Send(_ context.Context, to, subject, body string) error {
	s.log.Info("reminder", zap.String("to", to), zap.String("subject", subject), zap.String("body", body))
	return nil
}

// Multi sends to every sink and joins their errors.
type Multi []Sink

func (m Multi) Send(ctx context.Context, to, subject, body string) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, to, subject, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
