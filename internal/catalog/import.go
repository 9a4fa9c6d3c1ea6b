package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/packfinderz-shipping/pkg/db/models"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Fixture is a JSON catalog snapshot used to seed local databases.
type Fixture struct {
	Stores   []FixtureStore   `json:"stores"`
	Products []FixtureProduct `json:"products"`
}

type FixtureStore struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PostalCode *string   `json:"postalCode,omitempty"`
	City       *string   `json:"city,omitempty"`
	State      *string   `json:"state,omitempty"`
	Address    *string   `json:"address,omitempty"`
	Active     *bool     `json:"active,omitempty"`
}

type FixtureProduct struct {
	ID          uuid.UUID          `json:"id"`
	SKU         string             `json:"sku"`
	Name        string             `json:"name"`
	WeightKg    *float64           `json:"weightKg,omitempty"`
	WidthCm     *float64           `json:"widthCm,omitempty"`
	HeightCm    *float64           `json:"heightCm,omitempty"`
	DepthCm     *float64           `json:"depthCm,omitempty"`
	HomeStoreID *uuid.UUID         `json:"homeStoreId,omitempty"`
	Inventory   []FixtureInventory `json:"inventory,omitempty"`
}

type FixtureInventory struct {
	StoreID      uuid.UUID `json:"storeId"`
	AvailableQty int       `json:"availableQty"`
	ReservedQty  int       `json:"reservedQty,omitempty"`
}

// DecodeFixture reads a Fixture from JSON.
func DecodeFixture(r io.Reader) (Fixture, error) {
	var fixture Fixture
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&fixture); err != nil {
		return Fixture{}, fmt.Errorf("decode catalog fixture: %w", err)
	}
	return fixture, nil
}

// Import upserts the fixture inside a single transaction.
func Import(ctx context.Context, runner txRunner, fixture Fixture) error {
	return runner.WithTx(ctx, func(tx *gorm.DB) error {
		return NewRepository(tx).importFixture(ctx, fixture)
	})
}

func (r *Repository) importFixture(ctx context.Context, fixture Fixture) error {
	db := r.db.WithContext(ctx)

	for _, s := range fixture.Stores {
		active := true
		if s.Active != nil {
			active = *s.Active
		}
		store := models.Store{
			ID:         s.ID,
			Name:       s.Name,
			PostalCode: s.PostalCode,
			City:       s.City,
			State:      s.State,
			Address:    s.Address,
			IsActive:   active,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "postal_code", "city", "state", "address", "is_active", "updated_at"}),
		}).Create(&store).Error; err != nil {
			return fmt.Errorf("upsert store %s: %w", s.ID, err)
		}
	}

	for _, p := range fixture.Products {
		product := models.Product{
			ID:       p.ID,
			StoreID:  p.HomeStoreID,
			SKU:      p.SKU,
			Name:     p.Name,
			WeightKg: p.WeightKg,
			WidthCm:  p.WidthCm,
			HeightCm: p.HeightCm,
			DepthCm:  p.DepthCm,
			IsActive: true,
		}
		if err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"store_id", "sku", "name", "weight_kg", "width_cm", "height_cm", "depth_cm", "is_active", "updated_at"}),
		}).Create(&product).Error; err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}

		for _, inv := range p.Inventory {
			item := models.InventoryItem{
				ProductID:    product.ID,
				StoreID:      inv.StoreID,
				AvailableQty: inv.AvailableQty,
				ReservedQty:  inv.ReservedQty,
			}
			if err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "product_id"}, {Name: "store_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"available_qty", "reserved_qty", "updated_at"}),
			}).Create(&item).Error; err != nil {
				return fmt.Errorf("upsert inventory %s/%s: %w", p.ID, inv.StoreID, err)
			}
		}
	}
	return nil
}
