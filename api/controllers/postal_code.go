package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/packfinderz-shipping/api/responses"
	"github.com/angelmondragon/packfinderz-shipping/internal/postalcode"
	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
)

// PostalCodeLookup resolves a postal code into its street address.
func PostalCodeLookup(svc postalcode.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "postal code service unavailable"))
			return
		}

		addr, err := svc.Lookup(ctx, chi.URLParam(r, "zipCode"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, addr)
	}
}
