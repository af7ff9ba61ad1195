package booking

import (
	"context"
	"time"

	"Gin_postgres_redis_device_rental/models"
)

// Store is the persistence the engines run against. Lookups that find nothing return an
// error wrapping ErrNotFound; unique violations wrap ErrConflict.
//
// Tx runs fn inside one transaction; the Store passed to fn must be used for every read
// and write of that operation. Lock* reads take a row lock (SELECT ... FOR UPDATE) that
// is held until the transaction ends.
type Store interface {
	Tx(ctx context.Context, fn func(tx Store) error) error

	CreateDevice(ctx context.Context, d *models.Device) error
	FindDevice(ctx context.Context, id string) (*models.Device, error)
	LockDevice(ctx context.Context, id string) (*models.Device, error)
	SetDeviceStatus(ctx context.Context, id string, status models.DeviceStatus) error
	SerialExists(ctx context.Context, serial string) (bool, error)

	FindUser(ctx context.Context, id string) (*models.User, error)

	CreateLoan(ctx context.Context, l *models.Loan) error
	FindLoan(ctx context.Context, id string) (*models.Loan, error)
	LockLoan(ctx context.Context, id string) (*models.Loan, error)
	SaveLoan(ctx context.Context, l *models.Loan) error
	ListOverdueLoans(ctx context.Context, today time.Time) ([]models.Loan, error)
	ListDeviceLoans(ctx context.Context, deviceID string) ([]models.Loan, error)

	CreateReservation(ctx context.Context, r *models.Reservation) error
	FindReservation(ctx context.Context, id string) (*models.Reservation, error)
	LockReservation(ctx context.Context, id string) (*models.Reservation, error)
	SaveReservation(ctx context.Context, r *models.Reservation) error
	ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, error)

	OverlapStore
}

// ReservationFilter narrows ListReservations. Empty fields match everything.
type ReservationFilter struct {
	UserID   string
	DeviceID string
	Status   models.ReservationStatus
}

// OverlapStore answers the two inclusive interval predicates of the overlap detector,
// plus the device-wide check used when a reservation is cancelled.
type OverlapStore interface {
	HasActiveLoanOverlap(ctx context.Context, deviceID string, from, to time.Time) (bool, error)
	HasActiveReservationOverlap(ctx context.Context, deviceID string, from, to time.Time) (bool, error)
	HasActiveReservation(ctx context.Context, deviceID string) (bool, error)
}
