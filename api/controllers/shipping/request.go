package shipping

import (
	"github.com/angelmondragon/packfinderz-shipping/api/controllers/shipping/dto"
	"github.com/angelmondragon/packfinderz-shipping/api/validators"
	shippingsvc "github.com/angelmondragon/packfinderz-shipping/internal/shipping"
)

const maxLocalityLen = 120

// ToQuoteInput converts the public request body into engine input.
func ToQuoteInput(payload dto.QuoteRequest) shippingsvc.QuoteInput {
	items := make([]shippingsvc.CartLine, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, shippingsvc.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	return shippingsvc.QuoteInput{
		DestinationZipCode: payload.DestinationZipCode,
		DestinationCity:    validators.SanitizeString(payload.DestinationCity, maxLocalityLen),
		DestinationState:   validators.SanitizeString(payload.DestinationState, maxLocalityLen),
		Mode:               payload.Mode,
		ServiceType:        payload.ServiceType,
		Items:              items,
	}
}
