package shipping

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-shipping/pkg/enums"
)

const (
	postalCodeLength = 8
	maxCartLines     = 200
)

// MaxLineQuantity bounds the merged quantity of a single product.
const MaxLineQuantity = 100_000

// NormalizePostalCode strips every non-digit and reports whether exactly
// eight digits remain.
func NormalizePostalCode(raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	return digits, len(digits) == postalCodeLength
}

// NormalizeRequest validates raw input and produces a ShippingRequest.
// Duplicate product ids are merged in first-seen order. UUID-shaped ids are
// compared in canonical form.
func NormalizeRequest(in QuoteInput) (ShippingRequest, error) {
	if len(in.Items) == 0 {
		return ShippingRequest{}, validationError(ReasonEmptyCart, "cart has no items")
	}

	zip, ok := NormalizePostalCode(in.DestinationZipCode)
	if !ok {
		return ShippingRequest{}, validationError(ReasonInvalidDestination, "destination postal code must have 8 digits")
	}

	lines, err := mergeLines(in.Items)
	if err != nil {
		return ShippingRequest{}, err
	}

	mode, err := enums.ParseQuoteMode(in.Mode)
	if err != nil {
		return ShippingRequest{}, validationError(ReasonInvalidMode, err.Error())
	}
	tier, err := enums.ParseServiceTier(in.ServiceType)
	if err != nil {
		return ShippingRequest{}, validationError(ReasonInvalidServiceType, err.Error())
	}

	return ShippingRequest{
		DestinationZipCode: zip,
		DestinationCity:    strings.TrimSpace(in.DestinationCity),
		DestinationState:   strings.TrimSpace(in.DestinationState),
		Mode:               mode,
		ServiceTier:        tier,
		Lines:              lines,
	}, nil
}

func mergeLines(items []CartLine) ([]CartLine, error) {
	index := make(map[string]int, len(items))
	lines := make([]CartLine, 0, len(items))
	for i, item := range items {
		id := canonicalProductID(item.ProductID)
		if id == "" {
			return nil, validationError(ReasonInvalidItem, fmt.Sprintf("item %d has no product id", i))
		}
		if item.Quantity <= 0 {
			return nil, validationError(ReasonInvalidItem, fmt.Sprintf("item %d quantity must be positive", i))
		}
		if item.Quantity > MaxLineQuantity {
			return nil, validationError(ReasonInvalidItem, fmt.Sprintf("item %d quantity exceeds %d", i, MaxLineQuantity))
		}
		if pos, ok := index[id]; ok {
			// both operands are bounded, so the sum cannot wrap
			if lines[pos].Quantity+item.Quantity > MaxLineQuantity {
				return nil, validationError(ReasonInvalidItem, fmt.Sprintf("product %s quantity exceeds %d", id, MaxLineQuantity))
			}
			lines[pos].Quantity += item.Quantity
			continue
		}
		index[id] = len(lines)
		lines = append(lines, CartLine{ProductID: id, Quantity: item.Quantity})
	}
	if len(lines) > maxCartLines {
		return nil, validationError(ReasonInvalidItem, fmt.Sprintf("cart exceeds %d distinct products", maxCartLines))
	}
	return lines, nil
}

func canonicalProductID(raw string) string {
	id := strings.TrimSpace(raw)
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}

// ProductIDs returns the distinct product ids of the request in order.
func (r ShippingRequest) ProductIDs() []string {
	ids := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}
