package shipping

import (
	"github.com/angelmondragon/packfinderz-shipping/api/controllers/shipping/dto"
	shippingsvc "github.com/angelmondragon/packfinderz-shipping/internal/shipping"
)

// NewQuoteResponse maps an engine result onto the public JSON shape.
func NewQuoteResponse(result *shippingsvc.QuoteResult) dto.QuoteResponse {
	resp := dto.QuoteResponse{
		Destination: dto.Destination{
			ZipCode: result.Destination.ZipCode,
			City:    result.Destination.City,
			State:   result.Destination.State,
		},
		ModeRequested: result.ModeRequested.String(),
		Diagnostics:   make([]dto.Diagnostic, 0, len(result.Diagnostics)),
	}

	if sep := result.Separate; sep != nil {
		groups := make([]dto.StoreLeg, 0, len(sep.Legs))
		for _, leg := range sep.Legs {
			groups = append(groups, newStoreLeg(leg))
		}
		resp.Separate = &dto.SeparateQuote{
			TotalPrice:      sep.TotalPrice,
			MaxDeadlineDays: sep.MaxDeadlineDays,
			Groups:          groups,
		}
	}

	if comb := result.Combined; comb != nil {
		resp.Combined = &dto.CombinedQuote{
			BasePriceSum:              comb.BasePriceSum,
			DiscountPercent:           comb.DiscountPercent,
			FinalPrice:                comb.FinalPrice,
			BaseMaxDeadlineDays:       comb.BaseMaxDeadlineDays,
			ExtraDaysForConsolidation: comb.ExtraDays,
			DeadlineDays:              comb.DeadlineDays,
			Description:               comb.Description,
		}
	}

	for _, diag := range result.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, dto.Diagnostic{
			Type:      diag.Type.String(),
			ProductID: diag.ProductID,
			StoreID:   diag.StoreID,
			Message:   diag.Message,
		})
	}
	return resp
}

func newStoreLeg(leg shippingsvc.StoreQuoteLeg) dto.StoreLeg {
	items := make([]dto.LegItem, 0, len(leg.Items))
	for _, item := range leg.Items {
		items = append(items, dto.LegItem{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitWeightKg: item.UnitWeightKg,
		})
	}
	return dto.StoreLeg{
		StoreID:            leg.StoreID,
		StoreName:          leg.StoreName,
		OriginZipCode:      leg.OriginZip,
		OriginCity:         leg.OriginCity,
		OriginState:        leg.OriginState,
		DestinationZipCode: leg.DestinationZip,
		ServiceType:        leg.ServiceTier.String(),
		Price:              leg.Price,
		DeadlineDays:       leg.DeadlineDays,
		TotalWeightKg:      leg.TotalWeightKg,
		Items:              items,
	}
}
