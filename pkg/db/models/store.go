package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is a physical shipping origin.
type Store struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	PostalCode *string   `gorm:"column:postal_code"`
	City       *string   `gorm:"column:city"`
	State      *string   `gorm:"column:state"`
	Address    *string   `gorm:"column:address"`
	IsActive   bool      `gorm:"column:is_active;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns a primary key when the caller left it empty.
func (m *Store) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
