package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"Gin_postgres_redis_device_rental/metrics"
	"Gin_postgres_redis_device_rental/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxLoanDays = 14

type CreateLoanInput struct {
	DeviceID  string
	UserID    string
	StartDate time.Time
	DueDate   time.Time
}

type ReturnLoanInput struct {
	LoanID     string
	ReturnDate *time.Time // nil → today
	Note       string
	Damaged    bool
}

// LoanEngine creates and closes loans.
type LoanEngine struct {
	store   Store
	ledger  Ledger
	log     *zap.Logger
	timeNow func() time.Time
}

func NewLoanEngine(store Store, log *zap.Logger) *LoanEngine {
	return &LoanEngine{store: store, log: log.Named("loans"), timeNow: time.Now}
}

// WithClock replaces the clock used for the default return date.
func (e *LoanEngine) WithClock(now func() time.Time) *LoanEngine {
	e.timeNow = now
	return e
}

// Create lends an AVAILABLE device. Preconditions are checked in order and the first
// failing one is returned. The device row stays locked until the loan is written, so
// two concurrent calls for the same device cannot both succeed.
func (e *LoanEngine) Create(ctx context.Context, in CreateLoanInput) (*models.Loan, error) {
	start, due := models.Day(in.StartDate), models.Day(in.DueDate)

	var loan *models.Loan
	err := e.store.Tx(ctx, func(tx Store) error {
		// 1) 锁住设备行
		d, err := tx.LockDevice(ctx, in.DeviceID)
		if err != nil {
			return specific(err, ErrDeviceNotFound)
		}
		if _, err := tx.FindUser(ctx, in.UserID); err != nil {
			return specific(err, ErrUserNotFound)
		}
		// only the current snapshot matters here, a RESERVED device is rejected too
		if d.Status != models.DeviceAvailable {
			return ErrDeviceUnavailable
		}
		days := models.DaysBetween(start, due)
		if days <= 0 {
			return ErrDueNotAfterStart
		}
		if days > MaxLoanDays {
			return ErrLoanTooLong
		}

		l := &models.Loan{
			ID:        uuid.NewString(),
			DeviceID:  d.ID,
			UserID:    in.UserID,
			StartDate: start,
			DueDate:   due,
			Status:    models.LoanActive,
		}
		if err := tx.CreateLoan(ctx, l); err != nil {
			// one_active_per_device 唯一索引兜底
			if errors.Is(err, ErrConflict) {
				return ErrDeviceUnavailable
			}
			return fmt.Errorf("create loan: %w", err)
		}
		if err := e.ledger.Apply(ctx, tx, d, EventLend); err != nil {
			return err
		}
		loan = l
		return nil
	})
	if err != nil {
		reject(e.log, "create_loan", err, zap.String("device_id", in.DeviceID), zap.String("user_id", in.UserID))
		return nil, err
	}

	metrics.LoansCreatedTotal.Inc()
	e.log.Info("loan created",
		zap.String("loan_id", loan.ID),
		zap.String("device_id", loan.DeviceID),
		zap.String("user_id", loan.UserID),
		zap.String("due", loan.DueDate.Format(models.DateLayout)),
	)
	return loan, nil
}

// Return closes an ACTIVE loan. It is not idempotent: a second call fails with
// ErrAlreadyReturned. The loan outcome (RETURNED/OVERDUE) depends only on the date and
// the device condition (AVAILABLE/DAMAGED) only on the damage flag.
func (e *LoanEngine) Return(ctx context.Context, in ReturnLoanInput) (*models.Loan, error) {
	returnDate := models.Day(e.timeNow())
	if in.ReturnDate != nil {
		returnDate = models.Day(*in.ReturnDate)
	}

	var loan *models.Loan
	err := e.store.Tx(ctx, func(tx Store) error {
		l, err := tx.LockLoan(ctx, in.LoanID)
		if err != nil {
			return specific(err, ErrLoanNotFound)
		}
		if l.ReturnDate != nil || l.Status == models.LoanReturned || l.Status == models.LoanOverdue {
			return ErrAlreadyReturned
		}
		if l.Status != models.LoanActive {
			return ErrLoanNotActive
		}
		d, err := tx.LockDevice(ctx, l.DeviceID)
		if err != nil {
			return specific(err, ErrDeviceNotFound)
		}

		l.ReturnDate = &returnDate
		if note := strings.TrimSpace(in.Note); note != "" {
			l.ReturnNote = note
		}
		l.DamageReported = in.Damaged
		if returnDate.After(models.Day(l.DueDate)) {
			l.Status = models.LoanOverdue
		} else {
			l.Status = models.LoanReturned
		}

		ev := EventReturn
		if in.Damaged {
			ev = EventReturnDamaged
		}
		if err := e.ledger.Apply(ctx, tx, d, ev); err != nil {
			return err
		}
		if err := tx.SaveLoan(ctx, l); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		loan = l
		return nil
	})
	if err != nil {
		reject(e.log, "return_loan", err, zap.String("loan_id", in.LoanID))
		return nil, err
	}

	metrics.LoansReturnedTotal.WithLabelValues(string(loan.Status), strconv.FormatBool(loan.DamageReported)).Inc()
	e.log.Info("loan returned",
		zap.String("loan_id", loan.ID),
		zap.String("status", string(loan.Status)),
		zap.Bool("damaged", loan.DamageReported),
	)
	return loan, nil
}

// Overdue lists loans still out after their due date as of today.
func (e *LoanEngine) Overdue(ctx context.Context, today time.Time) ([]models.Loan, error) {
	ls, err := e.store.ListOverdueLoans(ctx, models.Day(today))
	if err != nil {
		return nil, fmt.Errorf("list overdue loans: %w", err)
	}
	return ls, nil
}

// Get reads a loan without locking it.
func (e *LoanEngine) Get(ctx context.Context, id string) (*models.Loan, error) {
	l, err := e.store.FindLoan(ctx, id)
	if err != nil {
		return nil, specific(err, ErrLoanNotFound)
	}
	return l, nil
}

// History lists every loan of a device, most recent start date first.
func (e *LoanEngine) History(ctx context.Context, deviceID string) ([]models.Loan, error) {
	if _, err := e.store.FindDevice(ctx, deviceID); err != nil {
		return nil, specific(err, ErrDeviceNotFound)
	}
	ls, err := e.store.ListDeviceLoans(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("list device loans: %w", err)
	}
	return ls, nil
}

// specific replaces a store not-found with the operation's own error.
func specific(err, notFound error) error {
	if errors.Is(err, ErrNotFound) {
		return notFound
	}
	return err
}

func reject(log *zap.Logger, op string, err error, fields ...zap.Field) {
	reason := ""
	switch {
	case errors.Is(err, ErrNotFound):
		reason = "not_found"
	case errors.Is(err, ErrInvalidRange):
		reason = "invalid_range"
	case errors.Is(err, ErrConflict):
		reason = "conflict"
	case errors.Is(err, ErrInvalid):
		reason = "invalid"
	default:
		log.Error(op+" failed", append(fields, zap.Error(err))...)
		return
	}
	metrics.RejectionsTotal.WithLabelValues(op, reason).Inc()
	log.Debug(op+" rejected", append(fields, zap.String("reason", err.Error()))...)
}
