// db/repo_reservation.go
package db

import (
	"context"
	"fmt"
	"time"

	"Gin_postgres_redis_device_rental/booking"
	"Gin_postgres_redis_device_rental/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (r *Repo) CreateReservation(ctx context.Context, res *models.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	return translate(r.DB.WithContext(ctx).Create(res).Error)
}

func (r *Repo) FindReservation(ctx context.Context, id string) (*models.Reservation, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var res models.Reservation
	if err := r.DB.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

func (r *Repo) LockReservation(ctx context.Context, id string) (*models.Reservation, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var res models.Reservation
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&res, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

func (r *Repo) SaveReservation(ctx context.Context, res *models.Reservation) error {
	out := r.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ?", res.ID).
		Updates(map[string]any{
			"status":     string(res.Status),
			"updated_at": time.Now(),
		})
	if out.Error != nil {
		return translate(out.Error)
	}
	if out.RowsAffected == 0 {
		return fmt.Errorf("%w: reservation %s", booking.ErrNotFound, res.ID)
	}
	return nil
}

// ListReservations returns the reservations matching f, earliest window first.
func (r *Repo) ListReservations(ctx context.Context, f booking.ReservationFilter) ([]models.Reservation, error) {
	var out []models.Reservation
	tx := r.DB.WithContext(ctx)
	if f.UserID != "" {
		if validID(f.UserID) != nil {
			return out, nil
		}
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if f.DeviceID != "" {
		if validID(f.DeviceID) != nil {
			return out, nil
		}
		tx = tx.Where("device_id = ?", f.DeviceID)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", string(f.Status))
	}
	err := tx.Order("from_date ASC").Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *Repo) HasActiveReservationOverlap(ctx context.Context, deviceID string, from, to time.Time) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("device_id = ? AND status = ?", deviceID, string(models.ReservationActive)).
		Where("to_date >= ? AND from_date <= ?", from, to).
		Count(&n).Error
	return n > 0, err
}

func (r *Repo) HasActiveReservation(ctx context.Context, deviceID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("device_id = ? AND status = ?", deviceID, string(models.ReservationActive)).
		Count(&n).Error
	return n > 0, err
}
