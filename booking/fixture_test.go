package booking_test

import (
	"context"
	"os"
	"testing"

	"Gin_postgres_redis_device_rental/booking"
	"Gin_postgres_redis_device_rental/config"
	"Gin_postgres_redis_device_rental/db"
	"Gin_postgres_redis_device_rental/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var day = models.MustParseDay

type fixture struct {
	t            *testing.T
	ctx          context.Context
	repo         *db.Repo
	devices      *booking.Devices
	loans        *booking.LoanEngine
	reservations *booking.ReservationEngine
}

// newFixture runs the engines against a fresh in-memory SQLite database.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	return openFixture(t, config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
}

// newPostgresFixture runs the engines against the database in DATABASE_URL and skips
// the test when it is unset. SQLite ignores FOR UPDATE, so only this fixture exercises
// the row locks themselves.
func newPostgresFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	return openFixture(t, config.DatabaseConfig{Driver: "postgres", DSN: dsn})
}

func openFixture(t *testing.T, cfg config.DatabaseConfig) *fixture {
	t.Helper()
	gdb, err := db.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		_ = sqlDB.Close()
	})

	repo := db.NewRepo(gdb)
	return &fixture{
		t:            t,
		ctx:          context.Background(),
		repo:         repo,
		devices:      booking.NewDevices(repo, zap.NewNop()),
		loans:        booking.NewLoanEngine(repo, zap.NewNop()),
		reservations: booking.NewReservationEngine(repo, zap.NewNop()),
	}
}

func (f *fixture) device() *models.Device {
	f.t.Helper()
	d, err := f.devices.Register(f.ctx, booking.DeviceInput{
		Name:         "Sony A7 III",
		Type:         "camera",
		SerialNumber: "SN-" + uuid.NewString()[:8],
		Location:     "Lab 1",
	})
	require.NoError(f.t, err)
	return d
}

func (f *fixture) user() *models.User {
	f.t.Helper()
	name := "user-" + uuid.NewString()[:8]
	u := &models.User{Username: name, Email: name + "@example.com"}
	require.NoError(f.t, f.repo.CreateUser(f.ctx, u))
	return u
}

func (f *fixture) status(deviceID string) models.DeviceStatus {
	f.t.Helper()
	d, err := f.devices.Get(f.ctx, deviceID)
	require.NoError(f.t, err)
	return d.Status
}

func (f *fixture) lend(d *models.Device, u *models.User, start, due string) *models.Loan {
	f.t.Helper()
	l, err := f.loans.Create(f.ctx, booking.CreateLoanInput{
		DeviceID: d.ID, UserID: u.ID, StartDate: day(start), DueDate: day(due),
	})
	require.NoError(f.t, err)
	return l
}

func (f *fixture) reserve(d *models.Device, u *models.User, from, to string) (*models.Reservation, error) {
	return f.reservations.Create(f.ctx, booking.CreateReservationInput{
		DeviceID: d.ID, UserID: u.ID, FromDate: day(from), ToDate: day(to),
	})
}
