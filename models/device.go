// models/device.go
package models

import "time"

const (
	DeviceTable      = "rental_devices"
	UserTable        = "rental_users"
	LoanTable        = "rental_loans"
	ReservationTable = "rental_reservations"
)

type Device struct {
	ID           string       `gorm:"type:uuid;primaryKey" json:"id"`
	SerialNumber string       `gorm:"size:120;uniqueIndex;not null" json:"serialNumber"` // 全局唯一，创建后不变
	Name         string       `gorm:"size:200;not null" json:"name"`
	Type         string       `gorm:"size:120;not null" json:"type"`
	Location     string       `gorm:"size:200;not null" json:"location"`
	Status       DeviceStatus `gorm:"size:20;not null;default:'AVAILABLE';index" json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func (Device) TableName() string { return DeviceTable }
