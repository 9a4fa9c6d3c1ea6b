package shipping

import (
	"context"
	"fmt"

	"github.com/angelmondragon/packfinderz-shipping/pkg/enums"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
)

// Diagnostic is a non-fatal finding recorded while building a quote.
type Diagnostic struct {
	Type      enums.DiagnosticType
	ProductID string
	StoreID   string
	Message   string
}

type diagnostics []Diagnostic

func (d *diagnostics) productNotFound(productID string) {
	*d = append(*d, Diagnostic{
		Type:      enums.DiagnosticTypeProductNotFound,
		ProductID: productID,
		Message:   "product not found in catalog",
	})
}

func (d *diagnostics) unresolvable(productID string) {
	*d = append(*d, Diagnostic{
		Type:      enums.DiagnosticTypeUnresolvable,
		ProductID: productID,
		Message:   "no active store can fulfill product",
	})
}

func (d *diagnostics) missingOrigin(productID, storeID string) {
	*d = append(*d, Diagnostic{
		Type:      enums.DiagnosticTypeMissingOrigin,
		ProductID: productID,
		StoreID:   storeID,
		Message:   "store has no valid origin postal code",
	})
}

func (d *diagnostics) insufficientStock(productID, storeID string, available, required int) {
	*d = append(*d, Diagnostic{
		Type:      enums.DiagnosticTypeInsufficientStock,
		ProductID: productID,
		StoreID:   storeID,
		Message:   fmt.Sprintf("store holds %d of %d requested units", available, required),
	})
}

func logDiagnostics(ctx context.Context, logg *logger.Logger, diags []Diagnostic) {
	if logg == nil {
		return
	}
	for _, diag := range diags {
		dctx := logg.WithFields(ctx, map[string]any{
			"diagnostic": diag.Type.String(),
		})
		if diag.ProductID != "" {
			dctx = logg.WithProductID(dctx, diag.ProductID)
		}
		if diag.StoreID != "" {
			dctx = logg.WithStoreID(dctx, diag.StoreID)
		}
		logg.Warn(dctx, diag.Message)
	}
}
