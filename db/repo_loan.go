// db/repo_loan.go
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

func (r *Repo) CreateLoan(ctx context.Context, l *models.Loan) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	// 一台设备同一时间只允许一个 ACTIVE 借用，由部分唯一索引兜底
	return translate(r.DB.WithContext(ctx).Omit(clause.Associations).Create(l).Error)
}

func (r *Repo) FindLoan(ctx context.Context, id string) (*models.Loan, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var l models.Loan
	if err := r.DB.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *Repo) LockLoan(ctx context.Context, id string) (*models.Loan, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var l models.Loan
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

// SaveLoan persists the return-side fields. Start and due dates never change after
// creation.
func (r *Repo) SaveLoan(ctx context.Context, l *models.Loan) error {
	res := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ?", l.ID).
		Updates(map[string]any{
			"status":          string(l.Status),
			"return_date":     l.ReturnDate,
			"return_note":     l.ReturnNote,
			"damage_reported": l.DamageReported,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: loan %s", booking.ErrNotFound, l.ID)
	}
	return nil
}

// ListOverdueLoans returns loans still out whose due date is before today, oldest first.
func (r *Repo) ListOverdueLoans(ctx context.Context, today time.Time) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.DB.WithContext(ctx).
		Where("status = ? AND return_date IS NULL AND due_date < ?", string(models.LoanActive), models.Day(today)).
		Order("due_date ASC").
		Find(&loans).Error
	return loans, err
}

// ListDeviceLoans returns every loan ever made on the device, latest start first.
func (r *Repo) ListDeviceLoans(ctx context.Context, deviceID string) ([]models.Loan, error) {
	var loans []models.Loan
	if validID(deviceID) != nil {
		return loans, nil
	}
	err := r.DB.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("start_date DESC").
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

// LoansDueOn returns the active loans due on day with their device and borrower loaded.
func (r *Repo) LoansDueOn(ctx context.Context, day time.Time) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.DB.WithContext(ctx).
		Preload("Device").
		Preload("User").
		Where("status = ? AND return_date IS NULL AND due_date = ?", string(models.LoanActive), models.Day(day)).
		Order("created_at ASC").
		Find(&loans).Error
	return loans, err
}

// HasActiveLoanOverlap reports an ACTIVE loan on the device whose [start, due] meets
// [from, to]. Both ends are inclusive.
func (r *Repo) HasActiveLoanOverlap(ctx context.Context, deviceID string, from, to time.Time) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Where("device_id = ? AND status = ?", deviceID, string(models.LoanActive)).
		Where("due_date >= ? AND start_date <= ?", from, to).
		Count(&n).Error
	return n > 0, err
}
