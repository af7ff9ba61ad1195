package booking

import (
	"context"
	"fmt"

	"Gin_postgres_redis_device_rental/models"
)

// Event is something that happened to a device and may move its status.
type Event string

const (
	EventLend          Event = "lend"
	EventReturn        Event = "return"
	EventReturnDamaged Event = "return_damaged"
	EventReserve       Event = "reserve"
	EventRelease       Event = "release"

	// Administered outside the loan/reservation engines.
	EventMaintenance Event = "maintenance"
	EventLost        Event = "lost"
	EventRestore     Event = "restore"
)

// AdminEvents are the events Devices.Administer accepts.
var AdminEvents = map[Event]bool{EventMaintenance: true, EventLost: true, EventRestore: true}

// transitions[event][from] = to. A missing entry is rejected.
var transitions = map[Event]map[models.DeviceStatus]models.DeviceStatus{
	EventLend: {
		models.DeviceAvailable: models.DeviceLoaned,
	},
	// RESERVED only shows up under an open loan through an out-of-band status write;
	// the physical return still wins
	EventReturn: {
		models.DeviceLoaned:   models.DeviceAvailable,
		models.DeviceLost:     models.DeviceAvailable,
		models.DeviceReserved: models.DeviceAvailable,
	},
	EventReturnDamaged: {
		models.DeviceLoaned:   models.DeviceDamaged,
		models.DeviceLost:     models.DeviceDamaged,
		models.DeviceReserved: models.DeviceDamaged,
	},
	// a reservation only marks future intent; a device already out keeps its status
	EventReserve: {
		models.DeviceAvailable:   models.DeviceReserved,
		models.DeviceReserved:    models.DeviceReserved,
		models.DeviceLoaned:      models.DeviceLoaned,
		models.DeviceMaintenance: models.DeviceMaintenance,
		models.DeviceLost:        models.DeviceLost,
		models.DeviceDamaged:     models.DeviceDamaged,
	},
	EventRelease: {
		models.DeviceAvailable:   models.DeviceAvailable,
		models.DeviceReserved:    models.DeviceAvailable,
		models.DeviceLoaned:      models.DeviceLoaned,
		models.DeviceMaintenance: models.DeviceMaintenance,
		models.DeviceLost:        models.DeviceLost,
		models.DeviceDamaged:     models.DeviceDamaged,
	},
	EventMaintenance: {
		models.DeviceAvailable: models.DeviceMaintenance,
		models.DeviceDamaged:   models.DeviceMaintenance,
	},
	EventLost: {
		models.DeviceAvailable:   models.DeviceLost,
		models.DeviceReserved:    models.DeviceLost,
		models.DeviceLoaned:      models.DeviceLost,
		models.DeviceMaintenance: models.DeviceLost,
		models.DeviceDamaged:     models.DeviceLost,
	},
	EventRestore: {
		models.DeviceMaintenance: models.DeviceAvailable,
		models.DeviceDamaged:     models.DeviceAvailable,
		models.DeviceLost:        models.DeviceAvailable,
	},
}

// Next looks up the transition table. It never touches storage.
func Next(current models.DeviceStatus, ev Event) (models.DeviceStatus, error) {
	to, ok := transitions[ev][current]
	if !ok {
		return "", fmt.Errorf("%w: %s on %s device", ErrInvalidTransition, ev, current)
	}
	return to, nil
}

// Ledger is the authoritative status record of a device. Every status write in the
// engines goes through Apply, so a transition missing from the table cannot happen.
type Ledger struct{}

// Apply moves d according to ev and persists the new status through s, which must be the
// transaction the caller already holds the device lock in. Unchanged statuses are not written.
func (Ledger) Apply(ctx context.Context, s Store, d *models.Device, ev Event) error {
	to, err := Next(d.Status, ev)
	if err != nil {
		return err
	}
	if to == d.Status {
		return nil
	}
	if err := s.SetDeviceStatus(ctx, d.ID, to); err != nil {
		return fmt.Errorf("set device status: %w", err)
	}
	d.Status = to
	return nil
}
