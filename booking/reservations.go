package booking

import (
	"context"
	"fmt"
	"time"

	"Gin_postgres_redis_device_rental/metrics"
	"Gin_postgres_redis_device_rental/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxReservationDays = 30

type CreateReservationInput struct {
	DeviceID string
	UserID   string
	FromDate time.Time
	ToDate   time.Time
}

// ReservationEngine creates and cancels advance claims on a device.
type ReservationEngine struct {
	store  Store
	ledger Ledger
	log    *zap.Logger
}

func NewReservationEngine(store Store, log *zap.Logger) *ReservationEngine {
	return &ReservationEngine{store: store, log: log.Named("reservations")}
}

// Create places an ACTIVE reservation for [FromDate, ToDate]. The overlap checks run
// under the device row lock, so concurrent overlapping requests cannot both pass them.
func (e *ReservationEngine) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	from, to := models.Day(in.FromDate), models.Day(in.ToDate)

	var res *models.Reservation
	err := e.store.Tx(ctx, func(tx Store) error {
		d, err := tx.LockDevice(ctx, in.DeviceID)
		if err != nil {
			return specific(err, ErrDeviceNotFound)
		}
		if _, err := tx.FindUser(ctx, in.UserID); err != nil {
			return specific(err, ErrUserNotFound)
		}
		days := models.DaysBetween(from, to)
		if days <= 0 {
			return ErrToNotAfterFrom
		}
		if days > MaxReservationDays {
			return ErrReservationTooLong
		}

		overlap := NewOverlap(tx)
		taken, err := overlap.HasActiveReservationOverlap(ctx, d.ID, from, to)
		if err != nil {
			return err
		}
		if taken {
			return ErrReservationOverlap
		}
		onLoan, err := overlap.HasActiveLoanOverlap(ctx, d.ID, from, to)
		if err != nil {
			return err
		}
		if onLoan {
			return ErrLoanOverlap
		}

		r := &models.Reservation{
			ID:       uuid.NewString(),
			DeviceID: d.ID,
			UserID:   in.UserID,
			FromDate: from,
			ToDate:   to,
			Status:   models.ReservationActive,
		}
		if err := tx.CreateReservation(ctx, r); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		if err := e.ledger.Apply(ctx, tx, d, EventReserve); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		reject(e.log, "create_reservation", err, zap.String("device_id", in.DeviceID), zap.String("user_id", in.UserID))
		return nil, err
	}

	metrics.ReservationsCreatedTotal.Inc()
	e.log.Info("reservation created",
		zap.String("reservation_id", res.ID),
		zap.String("device_id", res.DeviceID),
		zap.String("from", res.FromDate.Format(models.DateLayout)),
		zap.String("to", res.ToDate.Format(models.DateLayout)),
	)
	return res, nil
}

// Cancel is idempotent: a reservation that is no longer ACTIVE is returned unchanged.
// After cancelling, a RESERVED device becomes AVAILABLE once no other ACTIVE
// reservation is left on it.
func (e *ReservationEngine) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	var (
		res      *models.Reservation
		canceled bool
	)
	err := e.store.Tx(ctx, func(tx Store) error {
		r, err := tx.LockReservation(ctx, id)
		if err != nil {
			return specific(err, ErrReservationNotFound)
		}
		if r.Status != models.ReservationActive {
			res = r
			return nil
		}
		d, err := tx.LockDevice(ctx, r.DeviceID)
		if err != nil {
			return specific(err, ErrDeviceNotFound)
		}

		r.Status = models.ReservationCanceled
		if err := tx.SaveReservation(ctx, r); err != nil {
			return fmt.Errorf("save reservation: %w", err)
		}

		others, err := NewOverlap(tx).HasAnyActiveReservation(ctx, d.ID)
		if err != nil {
			return err
		}
		if !others {
			if err := e.ledger.Apply(ctx, tx, d, EventRelease); err != nil {
				return err
			}
		}
		res, canceled = r, true
		return nil
	})
	if err != nil {
		reject(e.log, "cancel_reservation", err, zap.String("reservation_id", id))
		return nil, err
	}

	if canceled {
		metrics.ReservationsCanceledTotal.Inc()
		e.log.Info("reservation canceled", zap.String("reservation_id", res.ID), zap.String("device_id", res.DeviceID))
	}
	return res, nil
}

func (e *ReservationEngine) Get(ctx context.Context, id string) (*models.Reservation, error) {
	r, err := e.store.FindReservation(ctx, id)
	if err != nil {
		return nil, specific(err, ErrReservationNotFound)
	}
	return r, nil
}

// List returns the reservations matching f ordered by start date.
func (e *ReservationEngine) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	switch f.Status {
	case "", models.ReservationActive, models.ReservationCanceled, models.ReservationExpired, models.ReservationFulfilled:
	default:
		return nil, fmt.Errorf("%w: unknown reservation status %q", ErrInvalid, f.Status)
	}
	rs, err := e.store.ListReservations(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return rs, nil
}
