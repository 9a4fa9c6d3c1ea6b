package shipping

import (
	"context"
	"errors"
	"sync"
)

func floatPtr(v float64) *float64 { return &v }

func testStore(id, zip string, active bool) StoreRecord {
	return StoreRecord{
		ID:         id,
		Name:       "Store " + id,
		PostalCode: zip,
		City:       "Sao Paulo",
		State:      "SP",
		Active:     active,
	}
}

func stocked(store StoreRecord, qty int) StoreInventoryRecord {
	return StoreInventoryRecord{Store: store, AvailableQty: qty}
}

type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]ProductRecord
	err      error
	calls    int
	lastIDs  []string
}

func (f *fakeCatalog) LoadProducts(_ context.Context, ids []string) (map[string]ProductRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastIDs = append([]string(nil), ids...)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]ProductRecord, len(ids))
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			out[id] = product
		}
	}
	return out, nil
}

var errCatalogDown = errors.New("catalog down")
