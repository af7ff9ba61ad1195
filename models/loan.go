package models

import "time"

type Loan struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	DeviceID string `gorm:"type:uuid;index;not null" json:"deviceId"`
	UserID   string `gorm:"type:uuid;index;not null" json:"userId"`

	StartDate  time.Time  `gorm:"type:date;not null" json:"startDate"`
	DueDate    time.Time  `gorm:"type:date;index;not null" json:"dueDate"`
	ReturnDate *time.Time `gorm:"type:date" json:"returnDate,omitempty"` // 一旦写入不再清空

	Status         LoanStatus `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	ReturnNote     string     `gorm:"size:1000" json:"returnNote,omitempty"`
	DamageReported bool       `gorm:"not null;default:false" json:"damageReported"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Loaded only by the reminder query.
	Device *Device `gorm:"foreignKey:DeviceID" json:"device,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Loan) TableName() string { return LoanTable }

// IsOverdue reports whether the loan is still out after its due date.
func (l Loan) IsOverdue(today time.Time) bool {
	return l.Status == LoanActive && l.ReturnDate == nil && Day(today).After(Day(l.DueDate))
}
