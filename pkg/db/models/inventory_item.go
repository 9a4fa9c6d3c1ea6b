package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryItem tracks available/reserved counts per product and store.
type InventoryItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	StoreID      uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	AvailableQty int       `gorm:"column:available_qty;not null;default:0"`
	ReservedQty  int       `gorm:"column:reserved_qty;not null;default:0"`
	Store        Store     `gorm:"foreignKey:StoreID"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Sellable is the quantity not held by reservations.
func (i InventoryItem) Sellable() int {
	if sellable := i.AvailableQty - i.ReservedQty; sellable > 0 {
		return sellable
	}
	return 0
}

// BeforeCreate assigns a primary key when the caller left it empty.
func (m *InventoryItem) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
