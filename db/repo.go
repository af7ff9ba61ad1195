package db

import (
	"context"
	"errors"
	"fmt"

	"Gin_postgres_redis_device_rental/booking"
	"Gin_postgres_redis_device_rental/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repo implements booking.Store on gorm. A Repo handed out by Tx is bound to that
// transaction.
type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

var _ booking.Store = (*Repo)(nil)

func (r *Repo) Tx(ctx context.Context, fn func(tx booking.Store) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repo{DB: tx})
	})
}

// translate maps gorm errors onto the booking error kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", booking.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", booking.ErrConflict, err)
	}
	return err
}

// ids are uuid columns; anything else can never match and must not reach Postgres.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed id %q", booking.ErrNotFound, id)
	}
	return nil
}

// Users

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *Repo) FindUser(ctx context.Context, id string) (*models.User, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
