package booking_test

import (
	"errors"
	"testing"

	"Gin_postgres_redis_device_rental/booking"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	kinds := []error{booking.ErrNotFound, booking.ErrInvalidRange, booking.ErrConflict, booking.ErrInvalid}
	byKind := map[error][]error{
		booking.ErrNotFound:     {booking.ErrDeviceNotFound, booking.ErrUserNotFound, booking.ErrLoanNotFound, booking.ErrReservationNotFound},
		booking.ErrInvalidRange: {booking.ErrDueNotAfterStart, booking.ErrLoanTooLong, booking.ErrToNotAfterFrom, booking.ErrReservationTooLong},
		booking.ErrConflict: {booking.ErrDeviceUnavailable, booking.ErrAlreadyReturned, booking.ErrLoanNotActive,
			booking.ErrReservationOverlap, booking.ErrLoanOverlap, booking.ErrDuplicateSerial, booking.ErrInvalidTransition},
		booking.ErrInvalid: {booking.ErrInvalidDevice},
	}

	for kind, errs := range byKind {
		for _, err := range errs {
			for _, k := range kinds {
				assert.Equal(t, k == kind, errors.Is(err, k), "%q vs %q", err, k)
			}
		}
	}
	assert.Equal(t, "maximum loan period is 14 days", booking.ErrLoanTooLong.Error())
}
