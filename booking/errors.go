package booking

import (
	"errors"
	"fmt"
)

// Error kinds. Every business error below unwraps to exactly one of them.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidRange = errors.New("invalid range")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid input")
)

var (
	ErrDeviceNotFound      = newError(ErrNotFound, "device not found")
	ErrUserNotFound        = newError(ErrNotFound, "user not found")
	ErrLoanNotFound        = newError(ErrNotFound, "loan not found")
	ErrReservationNotFound = newError(ErrNotFound, "reservation not found")

	ErrDueNotAfterStart   = newError(ErrInvalidRange, "due date must be after start date")
	ErrLoanTooLong        = newError(ErrInvalidRange, fmt.Sprintf("maximum loan period is %d days", MaxLoanDays))
	ErrToNotAfterFrom     = newError(ErrInvalidRange, "reservation end must be after its start")
	ErrReservationTooLong = newError(ErrInvalidRange, fmt.Sprintf("maximum reservation period is %d days", MaxReservationDays))

	ErrDeviceUnavailable  = newError(ErrConflict, "device is not available for loan")
	ErrAlreadyReturned    = newError(ErrConflict, "loan already returned")
	ErrLoanNotActive      = newError(ErrConflict, "loan is not active")
	ErrReservationOverlap = newError(ErrConflict, "device already reserved in this period")
	ErrLoanOverlap        = newError(ErrConflict, "device is on loan in this period")
	ErrDuplicateSerial    = newError(ErrConflict, "device with this serial number already exists")
	ErrInvalidTransition  = newError(ErrConflict, "invalid device status transition")

	ErrInvalidDevice = newError(ErrInvalid, "name, type, serial number and location are required")
)

type bookingError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error { return &bookingError{kind: kind, msg: msg} }

func (e *bookingError) Error() string { return e.msg }
func (e *bookingError) Unwrap() error { return e.kind }
