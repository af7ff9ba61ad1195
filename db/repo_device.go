// db/repo_device.go
package db

import (
	"context"
	"fmt"
	"time"

	"Gin_postgres_redis_device_rental/booking"
	"Gin_postgres_redis_device_rental/models"

	"gorm.io/gorm/clause"
)

func (r *Repo) CreateDevice(ctx context.Context, d *models.Device) error {
	return translate(r.DB.WithContext(ctx).Create(d).Error)
}

func (r *Repo) FindDevice(ctx context.Context, id string) (*models.Device, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var d models.Device
	if err := r.DB.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// LockDevice reads the device with SELECT ... FOR UPDATE. Outside a transaction the lock
// is released immediately, so callers use it through Tx.
func (r *Repo) LockDevice(ctx context.Context, id string) (*models.Device, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var d models.Device
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&d, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *Repo) SetDeviceStatus(ctx context.Context, id string, status models.DeviceStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Device{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: device %s", booking.ErrNotFound, id)
	}
	return nil
}

func (r *Repo) SerialExists(ctx context.Context, serial string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Device{}).
		Where("serial_number = ?", serial).
		Count(&n).Error
	return n > 0, err
}
