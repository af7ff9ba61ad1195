package models

import "time"

type Reservation struct {
	ID       string            `gorm:"type:uuid;primaryKey" json:"id"`
	DeviceID string            `gorm:"type:uuid;index;not null" json:"deviceId"`
	UserID   string            `gorm:"type:uuid;index;not null" json:"userId"`
	FromDate time.Time         `gorm:"type:date;not null" json:"fromDate"`
	ToDate   time.Time         `gorm:"type:date;not null" json:"toDate"`
	Status   ReservationStatus `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Reservation) TableName() string { return ReservationTable }
