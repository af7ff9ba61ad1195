package booking

import (
	"context"
	"fmt"
	"time"

	"Gin_postgres_redis_device_rental/models"
)

// Overlap answers whether an ACTIVE loan or reservation intersects a device and a date
// window. Both ends are inclusive: [a,b] and [c,d] overlap iff b >= c and a <= d.
// It only reads; isolation comes from the transaction the store belongs to.
type Overlap struct {
	store OverlapStore
}

func NewOverlap(s OverlapStore) Overlap { return Overlap{store: s} }

func (o Overlap) HasActiveLoanOverlap(ctx context.Context, deviceID string, from, to time.Time) (bool, error) {
	ok, err := o.store.HasActiveLoanOverlap(ctx, deviceID, models.Day(from), models.Day(to))
	if err != nil {
		return false, fmt.Errorf("check loan overlap: %w", err)
	}
	return ok, nil
}

func (o Overlap) HasActiveReservationOverlap(ctx context.Context, deviceID string, from, to time.Time) (bool, error) {
	ok, err := o.store.HasActiveReservationOverlap(ctx, deviceID, models.Day(from), models.Day(to))
	if err != nil {
		return false, fmt.Errorf("check reservation overlap: %w", err)
	}
	return ok, nil
}

// HasAnyActiveReservation is the device-wide probe used after a cancellation.
func (o Overlap) HasAnyActiveReservation(ctx context.Context, deviceID string) (bool, error) {
	ok, err := o.store.HasActiveReservation(ctx, deviceID)
	if err != nil {
		return false, fmt.Errorf("check active reservations: %w", err)
	}
	return ok, nil
}
