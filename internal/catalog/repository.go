package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/packfinderz-shipping/internal/shipping"
	"github.com/angelmondragon/packfinderz-shipping/pkg/db/models"
)

// Provider is the bulk product read consumed by the quote engine.
type Provider interface {
	LoadProducts(ctx context.Context, productIDs []string) (map[string]shipping.ProductRecord, error)
}

// Repository reads the shipping catalog through GORM.
type Repository struct {
	db *gorm.DB
}

var _ Provider = (*Repository)(nil)

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// LoadProducts fetches active products with their home store and per-store
// inventory in one round of queries. Ids that are malformed or unknown are
// left out of the result, which is keyed by the ids as requested.
func (r *Repository) LoadProducts(ctx context.Context, productIDs []string) (map[string]shipping.ProductRecord, error) {
	requested := make(map[uuid.UUID][]string, len(productIDs))
	ids := make([]uuid.UUID, 0, len(productIDs))
	for _, raw := range productIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if _, seen := requested[id]; !seen {
			ids = append(ids, id)
		}
		requested[id] = append(requested[id], raw)
	}

	out := make(map[string]shipping.ProductRecord, len(productIDs))
	if len(ids) == 0 {
		return out, nil
	}

	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Store").
		Preload("Inventory", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Preload("Inventory.Store").
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&products).
		Error
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	for _, product := range products {
		record := toProductRecord(product)
		for _, raw := range requested[product.ID] {
			record.ID = raw
			out[raw] = record
		}
	}
	return out, nil
}

func toProductRecord(p models.Product) shipping.ProductRecord {
	record := shipping.ProductRecord{
		ID:       p.ID.String(),
		WeightKg: p.WeightKg,
		WidthCm:  p.WidthCm,
		HeightCm: p.HeightCm,
		DepthCm:  p.DepthCm,
	}
	if p.Store != nil {
		home := toStoreRecord(*p.Store)
		record.HomeStore = &home
	}
	record.Inventory = make([]shipping.StoreInventoryRecord, 0, len(p.Inventory))
	for _, item := range p.Inventory {
		record.Inventory = append(record.Inventory, shipping.StoreInventoryRecord{
			Store:        toStoreRecord(item.Store),
			AvailableQty: item.Sellable(),
		})
	}
	return record
}

func toStoreRecord(s models.Store) shipping.StoreRecord {
	return shipping.StoreRecord{
		ID:         s.ID.String(),
		Name:       s.Name,
		PostalCode: deref(s.PostalCode),
		City:       deref(s.City),
		State:      deref(s.State),
		Address:    deref(s.Address),
		Active:     s.IsActive,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
