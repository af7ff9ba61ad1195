package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	got := Day(time.Date(2024, 3, 10, 23, 30, 0, 0, loc))

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, 14, DaysBetween(MustParseDay("2024-01-01"), MustParseDay("2024-01-15")))
	assert.Equal(t, -1, DaysBetween(MustParseDay("2024-01-02"), MustParseDay("2024-01-01")))
	assert.Equal(t, 29, DaysBetween(MustParseDay("2024-02-01"), MustParseDay("2024-03-01")), "leap year")
	assert.Panics(t, func() { MustParseDay("01/02/2024") })
}

func TestDeviceStatusLabels(t *testing.T) {
	for _, s := range DeviceStatuses {
		assert.NotEqual(t, string(s), s.Label(), "label of %s", s)

		parsed, err := ParseDeviceStatus(s.Label())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	got, err := ParseDeviceStatus(" loaned ")
	require.NoError(t, err)
	assert.Equal(t, DeviceLoaned, got)

	got, err = ParseDeviceStatus("on LOAN")
	require.NoError(t, err)
	assert.Equal(t, DeviceLoaned, got)

	_, err = ParseDeviceStatus("borrowed")
	assert.Error(t, err)
	assert.Equal(t, "WEIRD", DeviceStatus("WEIRD").Label())
}

func TestLoanAndReservationStatus(t *testing.T) {
	assert.Equal(t, "Returned late", LoanOverdue.Label())
	assert.False(t, LoanActive.Terminal())
	for _, s := range []LoanStatus{LoanReturned, LoanOverdue, LoanCanceled} {
		assert.True(t, s.Terminal(), s)
	}

	assert.Equal(t, "Fulfilled", ReservationFulfilled.Label())
	assert.False(t, ReservationActive.Terminal())
	for _, s := range []ReservationStatus{ReservationCanceled, ReservationExpired, ReservationFulfilled} {
		assert.True(t, s.Terminal(), s)
	}
}

func TestLoanIsOverdue(t *testing.T) {
	l := Loan{Status: LoanActive, DueDate: MustParseDay("2024-01-10")}

	assert.False(t, l.IsOverdue(MustParseDay("2024-01-10")))
	assert.True(t, l.IsOverdue(time.Date(2024, 1, 11, 0, 0, 1, 0, time.UTC)))

	rd := MustParseDay("2024-01-12")
	l.ReturnDate, l.Status = &rd, LoanOverdue
	assert.False(t, l.IsOverdue(MustParseDay("2024-01-20")))
}
