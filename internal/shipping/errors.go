package shipping

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
)

// Reasons attached to validation failures under the "reason" details key.
const (
	ReasonEmptyCart             = "EMPTY_CART"
	ReasonInvalidDestination    = "INVALID_DESTINATION"
	ReasonInvalidItem           = "INVALID_ITEM"
	ReasonInvalidMode           = "INVALID_MODE"
	ReasonInvalidServiceType    = "INVALID_SERVICE_TYPE"
	ReasonNoResolvableProducts  = "NO_RESOLVABLE_PRODUCTS"
	ReasonNoValidStoreGroups    = "NO_VALID_STORE_GROUPS"
	ReasonUnexpectedComputation = "UNEXPECTED_COMPUTATION_ERROR"
	ReasonCatalogUnavailable    = "CATALOG_UNAVAILABLE"
)

type stage string

const (
	stageCollecting stage = "collecting"
	stageGrouped    stage = "grouped"
	stagePriced     stage = "priced"
	stageAggregated stage = "aggregated"
)

// Sentinels for errors.Is checks against quote failures.
var (
	ErrEmptyCart             = pkgerrors.Reasoned(pkgerrors.CodeValidation, ReasonEmptyCart, "")
	ErrInvalidDestination    = pkgerrors.Reasoned(pkgerrors.CodeValidation, ReasonInvalidDestination, "")
	ErrNoResolvableProducts  = pkgerrors.Reasoned(pkgerrors.CodeValidation, ReasonNoResolvableProducts, "")
	ErrNoValidStoreGroups    = pkgerrors.Reasoned(pkgerrors.CodeValidation, ReasonNoValidStoreGroups, "")
	ErrUnexpectedComputation = pkgerrors.Reasoned(pkgerrors.CodeValidation, ReasonUnexpectedComputation, "")
	ErrCatalogUnavailable    = pkgerrors.Reasoned(pkgerrors.CodeDependency, ReasonCatalogUnavailable, "")
)

func quoteError(st stage, reason, message string) *pkgerrors.Error {
	return pkgerrors.Reasoned(pkgerrors.CodeValidation, reason, message).WithDetail("stage", string(st))
}

func validationError(reason, message string) *pkgerrors.Error {
	return quoteError(stageCollecting, reason, message)
}

func computationError(st stage, cause any) *pkgerrors.Error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, fmt.Errorf("%v", cause), "unable to compute shipping quote").
		WithReason(ReasonUnexpectedComputation).
		WithDetail("stage", string(st))
}

// ReasonOf extracts the failure reason from an error returned by the service.
func ReasonOf(err error) string {
	return pkgerrors.ReasonOf(err)
}
