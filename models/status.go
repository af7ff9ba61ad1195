package models

import (
	"fmt"
	"strings"
)

type DeviceStatus string

const (
	DeviceAvailable   DeviceStatus = "AVAILABLE"
	DeviceReserved    DeviceStatus = "RESERVED"
	DeviceLoaned      DeviceStatus = "LOANED"
	DeviceMaintenance DeviceStatus = "MAINTENANCE"
	DeviceLost        DeviceStatus = "LOST"
	DeviceDamaged     DeviceStatus = "DAMAGED"
)

var DeviceStatuses = []DeviceStatus{
	DeviceAvailable, DeviceReserved, DeviceLoaned, DeviceMaintenance, DeviceLost, DeviceDamaged,
}

// Label is the human-facing name. The stored and compared value is always the enum itself.
func (s DeviceStatus) Label() string {
	switch s {
	case DeviceAvailable:
		return "Available"
	case DeviceReserved:
		return "Reserved"
	case DeviceLoaned:
		return "On loan"
	case DeviceMaintenance:
		return "In maintenance"
	case DeviceLost:
		return "Lost"
	case DeviceDamaged:
		return "Damaged"
	}
	return string(s)
}

// ParseDeviceStatus accepts either the enum name or its label, case-insensitive.
func ParseDeviceStatus(v string) (DeviceStatus, error) {
	v = strings.TrimSpace(v)
	for _, s := range DeviceStatuses {
		if strings.EqualFold(v, string(s)) || strings.EqualFold(v, s.Label()) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown device status %q", v)
}

type LoanStatus string

const (
	LoanActive   LoanStatus = "ACTIVE"
	LoanReturned LoanStatus = "RETURNED"
	LoanOverdue  LoanStatus = "OVERDUE"
	LoanCanceled LoanStatus = "CANCELED"
)

func (s LoanStatus) Label() string {
	switch s {
	case LoanActive:
		return "Active"
	case LoanReturned:
		return "Returned"
	case LoanOverdue:
		return "Returned late"
	case LoanCanceled:
		return "Canceled"
	}
	return string(s)
}

// Terminal reports whether no further transition is possible.
func (s LoanStatus) Terminal() bool { return s != LoanActive }

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationCanceled  ReservationStatus = "CANCELED"
	ReservationExpired   ReservationStatus = "EXPIRED"
	ReservationFulfilled ReservationStatus = "FULFILLED"
)

func (s ReservationStatus) Label() string {
	switch s {
	case ReservationActive:
		return "Active"
	case ReservationCanceled:
		return "Canceled"
	case ReservationExpired:
		return "Expired"
	case ReservationFulfilled:
		return "Fulfilled"
	}
	return string(s)
}

func (s ReservationStatus) Terminal() bool { return s != ReservationActive }
