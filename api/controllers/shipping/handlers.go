package shipping

import (
	"net/http"

	"github.com/angelmondragon/packfinderz-shipping/api/controllers/shipping/dto"
	"github.com/angelmondragon/packfinderz-shipping/api/responses"
	"github.com/angelmondragon/packfinderz-shipping/api/validators"
	shippingsvc "github.com/angelmondragon/packfinderz-shipping/internal/shipping"
	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
)

// Quote computes separate and consolidated shipping quotes for a cart.
func Quote(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		var payload dto.QuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Quote(r.Context(), ToQuoteInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, NewQuoteResponse(result))
	}
}
