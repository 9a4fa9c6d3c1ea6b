package shipping

// resolution is the store chosen to fulfill a cart line.
type resolution struct {
	Store        StoreRecord
	AvailableQty int
	FromStock    bool
}

// Sufficient reports whether the chosen store holds the full quantity.
func (r resolution) Sufficient(required int) bool {
	return r.FromStock && r.AvailableQty >= required
}

// resolveStrategy is one step of the fulfillment decision order.
type resolveStrategy func(product ProductRecord, required int) (resolution, bool)

// resolveStrategies are tried in order; the first match wins.
var resolveStrategies = []resolveStrategy{
	sufficientStockStrategy,
	anyActiveStockStrategy,
	homeStoreStrategy,
}

// ResolveFulfillment picks the single store that fulfills a product line.
// It returns false when no strategy matches.
func ResolveFulfillment(product ProductRecord, required int) (StoreRecord, bool) {
	res, ok := resolve(product, required)
	return res.Store, ok
}

func resolve(product ProductRecord, required int) (resolution, bool) {
	for _, strategy := range resolveStrategies {
		if res, ok := strategy(product, required); ok {
			return res, true
		}
	}
	return resolution{}, false
}

func sufficientStockStrategy(product ProductRecord, required int) (resolution, bool) {
	return highestStock(product.Inventory, func(rec StoreInventoryRecord) bool {
		return rec.Store.Active && rec.AvailableQty >= required
	})
}

func anyActiveStockStrategy(product ProductRecord, _ int) (resolution, bool) {
	return highestStock(product.Inventory, func(rec StoreInventoryRecord) bool {
		return rec.Store.Active
	})
}

func homeStoreStrategy(product ProductRecord, _ int) (resolution, bool) {
	if product.HomeStore == nil || !product.HomeStore.Active {
		return resolution{}, false
	}
	return resolution{Store: *product.HomeStore}, true
}

// highestStock returns the eligible record with the most units. Ties keep the
// first record encountered.
func highestStock(records []StoreInventoryRecord, eligible func(StoreInventoryRecord) bool) (resolution, bool) {
	var (
		best  StoreInventoryRecord
		found bool
	)
	for _, rec := range records {
		if !eligible(rec) {
			continue
		}
		if !found || rec.AvailableQty > best.AvailableQty {
			best = rec
			found = true
		}
	}
	if !found {
		return resolution{}, false
	}
	return resolution{Store: best.Store, AvailableQty: best.AvailableQty, FromStock: true}, true
}
