package dto

import (
	"strings"

	"github.com/angelmondragon/packfinderz-shipping/internal/shipping"
)

// QuoteRequest is the body of POST /api/v1/shipping/quote.
type QuoteRequest struct {
	Items              []QuoteItem `json:"items" validate:"required,min=1"`
	DestinationZipCode string      `json:"destinationZipCode" validate:"required"`
	DestinationCity    string      `json:"destinationCity,omitempty"`
	DestinationState   string      `json:"destinationState,omitempty"`
	Mode               string      `json:"mode,omitempty" validate:"omitempty,oneof=separate combined both"`
	ServiceType        string      `json:"serviceType,omitempty" validate:"omitempty,oneof=standard express"`
}

type QuoteItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ValidationReason maps tag failures onto the engine's reason codes.
func (QuoteRequest) ValidationReason(field, tag string) string {
	if strings.HasPrefix(field, "items.") {
		return shipping.ReasonInvalidItem
	}
	switch field {
	case "items":
		if tag == "type" {
			return shipping.ReasonInvalidItem
		}
		return shipping.ReasonEmptyCart
	case "destinationZipCode":
		return shipping.ReasonInvalidDestination
	case "mode":
		return shipping.ReasonInvalidMode
	case "serviceType":
		return shipping.ReasonInvalidServiceType
	}
	return ""
}

type QuoteResponse struct {
	Destination   Destination    `json:"destination"`
	ModeRequested string         `json:"modeRequested"`
	Separate      *SeparateQuote `json:"separate"`
	Combined      *CombinedQuote `json:"combined"`
	Diagnostics   []Diagnostic   `json:"diagnostics"`
}

type Destination struct {
	ZipCode string `json:"zipCode"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
}

type SeparateQuote struct {
	TotalPrice      float64    `json:"totalPrice"`
	MaxDeadlineDays int        `json:"maxDeadlineDays"`
	Groups          []StoreLeg `json:"groups"`
}

type StoreLeg struct {
	StoreID            string    `json:"storeId"`
	StoreName          string    `json:"storeName"`
	OriginZipCode      string    `json:"originZipCode"`
	OriginCity         string    `json:"originCity,omitempty"`
	OriginState        string    `json:"originState,omitempty"`
	DestinationZipCode string    `json:"destinationZipCode"`
	ServiceType        string    `json:"serviceType"`
	Price              float64   `json:"price"`
	DeadlineDays       int       `json:"deadlineDays"`
	TotalWeightKg      float64   `json:"totalWeightKg"`
	Items              []LegItem `json:"items"`
}

type LegItem struct {
	ProductID    string  `json:"productId"`
	Quantity     int     `json:"quantity"`
	UnitWeightKg float64 `json:"unitWeightKg"`
}

type CombinedQuote struct {
	BasePriceSum              float64 `json:"basePriceSum"`
	DiscountPercent           float64 `json:"discountPercent"`
	FinalPrice                float64 `json:"finalPrice"`
	BaseMaxDeadlineDays       int     `json:"baseMaxDeadlineDays"`
	ExtraDaysForConsolidation int     `json:"extraDaysForConsolidation"`
	DeadlineDays              int     `json:"deadlineDays"`
	Description               string  `json:"description"`
}

type Diagnostic struct {
	Type      string `json:"type"`
	ProductID string `json:"productId,omitempty"`
	StoreID   string `json:"storeId,omitempty"`
	Message   string `json:"message"`
}
