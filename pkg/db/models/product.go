package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product carries the physical attributes used for shipping quotes.
// Inventory is loaded per store; Store is the optional home store.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID   *uuid.UUID      `gorm:"column:store_id;type:uuid"`
	SKU       string          `gorm:"column:sku;not null"`
	Name      string          `gorm:"column:name;not null"`
	WeightKg  *float64        `gorm:"column:weight_kg"`
	WidthCm   *float64        `gorm:"column:width_cm"`
	HeightCm  *float64        `gorm:"column:height_cm"`
	DepthCm   *float64        `gorm:"column:depth_cm"`
	IsActive  bool            `gorm:"column:is_active;not null"`
	Store     *Store          `gorm:"foreignKey:StoreID"`
	Inventory []InventoryItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns a primary key when the caller left it empty.
func (m *Product) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
