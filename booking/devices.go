package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Gin_postgres_redis_device_rental/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DeviceInput struct {
	Name         string
	Type         string
	SerialNumber string
	Location     string
}

// Devices is the registry side of the ledger: creation and the externally administered
// statuses (maintenance, lost, restore).
type Devices struct {
	store  Store
	ledger Ledger
	log    *zap.Logger
}

func NewDevices(store Store, log *zap.Logger) *Devices {
	return &Devices{store: store, log: log.Named("devices")}
}

func (s *Devices) Register(ctx context.Context, in DeviceInput) (*models.Device, error) {
	d := &models.Device{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Type:         strings.TrimSpace(in.Type),
		SerialNumber: strings.TrimSpace(in.SerialNumber),
		Location:     strings.TrimSpace(in.Location),
		Status:       models.DeviceAvailable,
	}
	if d.Name == "" || d.Type == "" || d.SerialNumber == "" || d.Location == "" {
		return nil, ErrInvalidDevice
	}

	exists, err := s.store.SerialExists(ctx, d.SerialNumber)
	if err != nil {
		return nil, fmt.Errorf("check serial: %w", err)
	}
	if exists {
		return nil, ErrDuplicateSerial
	}
	if err := s.store.CreateDevice(ctx, d); err != nil {
		// 并发注册同一序列号时由唯一索引拦截
		if errors.Is(err, ErrConflict) {
			return nil, ErrDuplicateSerial
		}
		return nil, fmt.Errorf("create device: %w", err)
	}

	s.log.Info("device registered", zap.String("device_id", d.ID), zap.String("serial", d.SerialNumber))
	return d, nil
}

func (s *Devices) Get(ctx context.Context, id string) (*models.Device, error) {
	d, err := s.store.FindDevice(ctx, id)
	if err != nil {
		return nil, specific(err, ErrDeviceNotFound)
	}
	return d, nil
}

// Administer applies one of AdminEvents to the device.
func (s *Devices) Administer(ctx context.Context, id string, ev Event) (*models.Device, error) {
	if !AdminEvents[ev] {
		return nil, fmt.Errorf("%w: %s is not an administrative event", ErrInvalidTransition, ev)
	}

	var dev *models.Device
	err := s.store.Tx(ctx, func(tx Store) error {
		d, err := tx.LockDevice(ctx, id)
		if err != nil {
			return specific(err, ErrDeviceNotFound)
		}
		if err := s.ledger.Apply(ctx, tx, d, ev); err != nil {
			return err
		}
		dev = d
		return nil
	})
	if err != nil {
		reject(s.log, "administer_device", err, zap.String("device_id", id), zap.String("event", string(ev)))
		return nil, err
	}

	s.log.Info("device status administered", zap.String("device_id", dev.ID), zap.String("status", string(dev.Status)))
	return dev, nil
}
