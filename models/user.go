package models

import (
	"time"
)

// User is the borrower a loan or reservation belongs to. Accounts are managed elsewhere;
// the rental core only needs the identity and the reminder address.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return UserTable
}
