// Package reminder sends due-date reminders for active loans. It only reads loans.
package reminder

import (
	"context"
	"fmt"
	"time"

	"Gin_postgres_redis_device_rental/metrics"
	"Gin_postgres_redis_device_rental/models"
	"Gin_postgres_redis_device_rental/notify"

	"go.uber.org/zap"
)

//go:generate mockgen -source=dispatcher.go -destination=mocks/dispatcher.go -package=mock_reminder

// LoanSource returns ACTIVE, unreturned loans due on day, with Device and User loaded.
type LoanSource interface {
	LoansDueOn(ctx context.Context, day time.Time) ([]models.Loan, error)
}

// Deduper claims a reminder key before it is sent.
type Deduper interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type Config struct {
	Enabled   bool
	DaysAhead []int
}

// Summary counts the outcome of one sweep.
type Summary struct {
	Sent    int
	Skipped int
	Failed  int
}

type Dispatcher struct {
	cfg    Config
	loans  LoanSource
	sink   notify.Sink
	dedupe Deduper
	log    *zap.Logger
}

type Option func(*Dispatcher)

// WithDeduper makes every (loan, due date, offset) go out at most once per claim TTL.
func WithDeduper(d Deduper) Option {
	return func(x *Dispatcher) { x.dedupe = d }
}

func NewDispatcher(cfg Config, loans LoanSource, sink notify.Sink, log *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cfg:   Config{Enabled: cfg.Enabled, DaysAhead: append([]int(nil), cfg.DaysAhead...)},
		loans: loans,
		sink:  sink,
		log:   log.Named("reminders"),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch runs one sweep for today. Offsets are visited in configured order. A failed
// query or send is logged and counted, and the sweep moves on.
func (d *Dispatcher) Dispatch(ctx context.Context, today time.Time) Summary {
	var sum Summary
	if !d.cfg.Enabled {
		d.log.Debug("reminders disabled, sweep skipped")
		return sum
	}

	today = models.Day(today)
	for _, days := range d.cfg.DaysAhead {
		if ctx.Err() != nil {
			break
		}
		target := today.AddDate(0, 0, days)
		loans, err := d.loans.LoansDueOn(ctx, target)
		if err != nil {
			metrics.ReminderErrorsTotal.WithLabelValues("query").Inc()
			d.log.Error("load loans due", zap.String("due", target.Format(models.DateLayout)), zap.Error(err))
			continue
		}
		for _, l := range loans {
			if ctx.Err() != nil {
				break
			}
			switch d.remind(ctx, l, days) {
			case sent:
				sum.Sent++
			case skipped:
				sum.Skipped++
			case failed:
				sum.Failed++
			}
		}
	}

	d.log.Info("reminder sweep done",
		zap.String("today", today.Format(models.DateLayout)),
		zap.Int("sent", sum.Sent),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed),
	)
	return sum
}

type outcome int

const (
	sent outcome = iota
	skipped
	failed
)

func (d *Dispatcher) remind(ctx context.Context, l models.Loan, days int) outcome {
	fields := []zap.Field{zap.String("loan_id", l.ID), zap.Int("days_ahead", days)}

	if l.User == nil || l.User.Email == "" {
		metrics.ReminderErrorsTotal.WithLabelValues("recipient").Inc()
		d.log.Error("loan has no recipient address", fields...)
		return failed
	}

	key := fmt.Sprintf("%s:%s:%d", l.ID, l.DueDate.Format(models.DateLayout), days)
	claimed := false
	if d.dedupe != nil {
		ok, err := d.dedupe.Claim(ctx, key)
		switch {
		case err != nil:
			// send anyway, a duplicate is preferable to a missed reminder
			metrics.ReminderErrorsTotal.WithLabelValues("dedupe").Inc()
			d.log.Warn("reminder claim failed", append(fields, zap.Error(err))...)
		case !ok:
			return skipped
		default:
			claimed = true
		}
	}

	subject, body := Render(l, days)
	if err := d.sink.Send(ctx, l.User.Email, subject, body); err != nil {
		metrics.ReminderErrorsTotal.WithLabelValues("send").Inc()
		d.log.Error("send reminder", append(fields, zap.String("to", l.User.Email), zap.Error(err))...)
		if claimed {
			if err := d.dedupe.Release(ctx, key); err != nil {
				d.log.Warn("release reminder claim", append(fields, zap.Error(err))...)
			}
		}
		return failed
	}

	metrics.RemindersSentTotal.Inc()
	d.log.Debug("reminder sent", append(fields, zap.String("to", l.User.Email))...)
	return sent
}
