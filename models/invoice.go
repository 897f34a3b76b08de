package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPaid    = "paid"
	StatusPending = "pending"
)

// Invoice amounts are stored in cents. Date is the creation day (YYYY-MM-DD)
// and is never changed afterwards.
type Invoice struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID string    `gorm:"type:uuid;index;not null" json:"customerId"`
	Amount     int64     `gorm:"not null" json:"amount"`
	Status     string    `gorm:"type:varchar(16);index;not null" json:"status"`
	Date       string    `gorm:"type:varchar(10);index;not null" json:"date"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
