package shipping

import "github.com/angelmondragon/packfinderz-shipping/pkg/enums"

// QuoteInput is the raw quote intent handed over by transports (HTTP, CLI).
type QuoteInput struct {
	DestinationZipCode string
	DestinationCity    string
	DestinationState   string
	Mode               string
	ServiceType        string
	Items              []CartLine
}

// CartLine is a requested product/quantity pair.
type CartLine struct {
	ProductID string
	Quantity  int
}

// ShippingRequest is a validated, normalized QuoteInput.
type ShippingRequest struct {
	DestinationZipCode string
	DestinationCity    string
	DestinationState   string
	Mode               enums.QuoteMode
	ServiceTier        enums.ServiceTier
	Lines              []CartLine
}

// ProductRecord is the catalog view of a product needed for quoting.
// Nil physical attributes fall back to the package defaults.
type ProductRecord struct {
	ID        string
	WeightKg  *float64
	WidthCm   *float64
	HeightCm  *float64
	DepthCm   *float64
	HomeStore *StoreRecord
	Inventory []StoreInventoryRecord
}

// StoreInventoryRecord is the stock a single store holds for a product.
type StoreInventoryRecord struct {
	Store        StoreRecord
	AvailableQty int
}

// StoreRecord is the catalog view of a physical store.
type StoreRecord struct {
	ID         string
	Name       string
	PostalCode string
	City       string
	State      string
	Address    string
	Active     bool
}

// StoreGroup aggregates every cart line fulfilled by one store.
type StoreGroup struct {
	StoreID     string
	StoreName   string
	OriginZip   string
	OriginCity  string
	OriginState string
	TotalWeight float64
	MaxWidthCm  float64
	MaxHeightCm float64
	MaxDepthCm  float64
	Items       []GroupItem
}

// GroupItem is a cart line as shipped inside a store group.
type GroupItem struct {
	ProductID    string
	Quantity     int
	UnitWeightKg float64
}

// StoreQuoteLeg is the priced shipment from one store to the destination.
type StoreQuoteLeg struct {
	StoreID        string
	StoreName      string
	OriginZip      string
	OriginCity     string
	OriginState    string
	DestinationZip string
	ServiceTier    enums.ServiceTier
	Price          float64
	DeadlineDays   int
	TotalWeightKg  float64
	Items          []GroupItem
}

// SeparateQuote ships every store group on its own.
type SeparateQuote struct {
	TotalPrice      float64
	MaxDeadlineDays int
	Legs            []StoreQuoteLeg
}

// CombinedQuote consolidates all store groups into a single discounted shipment.
type CombinedQuote struct {
	BasePriceSum        float64
	DiscountPercent     float64
	FinalPrice          float64
	BaseMaxDeadlineDays int
	ExtraDays           int
	DeadlineDays        int
	Description         string
}

// Destination echoes the normalized destination back to the caller.
type Destination struct {
	ZipCode string
	City    string
	State   string
}

// QuoteResult is the outcome of a quote run.
type QuoteResult struct {
	Destination   Destination
	ModeRequested enums.QuoteMode
	Separate      *SeparateQuote
	Combined      *CombinedQuote
	Diagnostics   []Diagnostic

	legCount int
}
