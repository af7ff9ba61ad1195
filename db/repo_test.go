package db

import (
	"context"
	"errors"
	"testing"

	"Gin_postgres_redis_device_rental/booking"
	"Gin_postgres_redis_device_rental/config"
	"Gin_postgres_redis_device_rental/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var day = models.MustParseDay

func newRepo(t *testing.T) *Repo {
	t.Helper()
	gdb, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		_ = sqlDB.Close()
	})
	return NewRepo(gdb)
}

func seed(t *testing.T, r *Repo) (*models.Device, *models.User) {
	t.Helper()
	ctx := context.Background()
	d := &models.Device{ID: uuid.NewString(), Name: "Zoom H6", Type: "recorder", SerialNumber: "ZH6-" + uuid.NewString()[:6], Location: "Cabinet 3", Status: models.DeviceAvailable}
	require.NoError(t, r.CreateDevice(ctx, d))
	u := &models.User{Username: "bob-" + uuid.NewString()[:6]}
	u.Email = u.Username + "@example.com"
	require.NoError(t, r.CreateUser(ctx, u))
	return d, u
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNotFoundAndMalformedIDs(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	for _, id := range []string{uuid.NewString(), "not-a-uuid", ""} {
		_, err := r.FindDevice(ctx, id)
		assert.ErrorIs(t, err, booking.ErrNotFound)
		_, err = r.LockDevice(ctx, id)
		assert.ErrorIs(t, err, booking.ErrNotFound)
		_, err = r.FindUser(ctx, id)
		assert.ErrorIs(t, err, booking.ErrNotFound)
		_, err = r.LockLoan(ctx, id)
		assert.ErrorIs(t, err, booking.ErrNotFound)
		_, err = r.LockReservation(ctx, id)
		assert.ErrorIs(t, err, booking.ErrNotFound)
	}

	assert.ErrorIs(t, r.SetDeviceStatus(ctx, uuid.NewString(), models.DeviceLoaned), booking.ErrNotFound)
	assert.ErrorIs(t, r.SaveLoan(ctx, &models.Loan{ID: uuid.NewString()}), booking.ErrNotFound)
	assert.ErrorIs(t, r.SaveReservation(ctx, &models.Reservation{ID: uuid.NewString()}), booking.ErrNotFound)
}

func TestUniqueConstraintsAreConflicts(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	d, u := seed(t, r)

	dup := &models.Device{ID: uuid.NewString(), Name: "x", Type: "x", SerialNumber: d.SerialNumber, Location: "x"}
	assert.ErrorIs(t, r.CreateDevice(ctx, dup), booking.ErrConflict)

	exists, err := r.SerialExists(ctx, d.SerialNumber)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = r.SerialExists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)

	first := &models.Loan{DeviceID: d.ID, UserID: u.ID, StartDate: day("2024-01-01"), DueDate: day("2024-01-05"), Status: models.LoanActive}
	require.NoError(t, r.CreateLoan(ctx, first))
	second := &models.Loan{DeviceID: d.ID, UserID: u.ID, StartDate: day("2024-02-01"), DueDate: day("2024-02-05"), Status: models.LoanActive}
	assert.ErrorIs(t, r.CreateLoan(ctx, second), booking.ErrConflict)

	// closed loans do not count against the index
	first.Status = models.LoanReturned
	rd := day("2024-01-04")
	first.ReturnDate = &rd
	require.NoError(t, r.SaveLoan(ctx, first))
	second.ID = ""
	assert.NoError(t, r.CreateLoan(ctx, second))
}

func TestLoanOverlapQuery(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	d, u := seed(t, r)
	require.NoError(t, r.CreateLoan(ctx, &models.Loan{DeviceID: d.ID, UserID: u.ID, StartDate: day("2024-01-10"), DueDate: day("2024-01-20"), Status: models.LoanActive}))

	tests := []struct {
		from, to string
		want     bool
	}{
		{"2024-01-01", "2024-01-09", false},
		{"2024-01-01", "2024-01-10", true},
		{"2024-01-15", "2024-01-16", true},
		{"2024-01-20", "2024-01-25", true},
		{"2024-01-21", "2024-01-25", false},
	}
	for _, tc := range tests {
		got, err := r.HasActiveLoanOverlap(ctx, d.ID, day(tc.from), day(tc.to))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s..%s", tc.from, tc.to)
	}

	other, _ := seed(t, r)
	got, err := r.HasActiveLoanOverlap(ctx, other.ID, day("2024-01-15"), day("2024-01-16"))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestReservationQueries(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	d, u := seed(t, r)
	res := &models.Reservation{DeviceID: d.ID, UserID: u.ID, FromDate: day("2024-02-01"), ToDate: day("2024-02-05"), Status: models.ReservationActive}
	require.NoError(t, r.CreateReservation(ctx, res))

	got, err := r.HasActiveReservationOverlap(ctx, d.ID, day("2024-02-05"), day("2024-02-06"))
	require.NoError(t, err)
	assert.True(t, got)
	got, err = r.HasActiveReservationOverlap(ctx, d.ID, day("2024-02-06"), day("2024-02-07"))
	require.NoError(t, err)
	assert.False(t, got)
	got, err = r.HasActiveReservation(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got)

	res.Status = models.ReservationCanceled
	require.NoError(t, r.SaveReservation(ctx, res))

	got, err = r.HasActiveReservationOverlap(ctx, d.ID, day("2024-02-01"), day("2024-02-05"))
	require.NoError(t, err)
	assert.False(t, got)
	got, err = r.HasActiveReservation(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestLoansDueOn(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	d, u := seed(t, r)
	d2, _ := seed(t, r)
	d3, _ := seed(t, r)

	due := &models.Loan{DeviceID: d.ID, UserID: u.ID, StartDate: day("2024-01-01"), DueDate: day("2024-01-10"), Status: models.LoanActive}
	require.NoError(t, r.CreateLoan(ctx, due))
	require.NoError(t, r.CreateLoan(ctx, &models.Loan{DeviceID: d2.ID, UserID: u.ID, StartDate: day("2024-01-01"), DueDate: day("2024-01-11"), Status: models.LoanActive}))
	rd := day("2024-01-05")
	require.NoError(t, r.CreateLoan(ctx, &models.Loan{DeviceID: d3.ID, UserID: u.ID, StartDate: day("2024-01-01"), DueDate: day("2024-01-10"), ReturnDate: &rd, Status: models.LoanReturned}))

	loans, err := r.LoansDueOn(ctx, day("2024-01-10"))
	require.NoError(t, err)

	require.Len(t, loans, 1)
	assert.Equal(t, due.ID, loans[0].ID)
	require.NotNil(t, loans[0].Device)
	require.NotNil(t, loans[0].User)
	assert.Equal(t, d.SerialNumber, loans[0].Device.SerialNumber)
	assert.Equal(t, u.Email, loans[0].User.Email)
}

func TestTxRollsBack(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	d, _ := seed(t, r)
	boom := errors.New("abort")

	err := r.Tx(ctx, func(tx booking.Store) error {
		locked, err := tx.LockDevice(ctx, d.ID)
		require.NoError(t, err)
		require.NoError(t, tx.SetDeviceStatus(ctx, locked.ID, models.DeviceLoaned))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := r.FindDevice(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceAvailable, got.Status)
}
