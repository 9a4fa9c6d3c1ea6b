package shipping

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-shipping/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
	"github.com/angelmondragon/packfinderz-shipping/pkg/metrics"
)

const (
	consolidationDiscountPercent = 15.0
	consolidationExtraDays       = 2
)

// CatalogProvider performs the single bulk read the quote needs. Unknown ids
// are absent from the returned map.
type CatalogProvider interface {
	LoadProducts(ctx context.Context, productIDs []string) (map[string]ProductRecord, error)
}

type quoteRecorder interface {
	ObserveQuote(outcome, mode, tier string, duration time.Duration)
	ObserveLegs(count int)
	IncDiagnostic(kind string)
}

// Service exposes shipping quote computation.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error)
}

type service struct {
	catalog  CatalogProvider
	logg     *logger.Logger
	recorder quoteRecorder
}

// NewService builds a quote service over the given catalog. The recorder may be nil.
func NewService(catalog CatalogProvider, logg *logger.Logger, recorder quoteRecorder) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if recorder == nil {
		recorder = (*metrics.QuoteMetrics)(nil)
	}
	return &service{
		catalog:  catalog,
		logg:     logg,
		recorder: recorder,
	}, nil
}

// Quote validates the input, reads the catalog once and computes the quote.
// Validation failures return before the catalog is touched.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	started := time.Now()

	req, err := NormalizeRequest(input)
	if err != nil {
		s.recorder.ObserveQuote(metrics.OutcomeRejected, rawLabel(input.Mode, enums.ParseQuoteMode), rawLabel(input.ServiceType, enums.ParseServiceTier), time.Since(started))
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"mode":        req.Mode.String(),
		"tier":        req.ServiceTier.String(),
		"destination": req.DestinationZipCode,
		"lines":       len(req.Lines),
	})

	products, err := s.catalog.LoadProducts(ctx, req.ProductIDs())
	if err != nil {
		s.recorder.ObserveQuote(metrics.OutcomeFailed, req.Mode.String(), req.ServiceTier.String(), time.Since(started))
		s.logg.Error(ctx, "shipping.quote.catalog_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unavailable").
			WithReason(ReasonCatalogUnavailable)
	}

	result, err := BuildQuote(req, products)
	if result != nil {
		logDiagnostics(ctx, s.logg, result.Diagnostics)
		for _, diag := range result.Diagnostics {
			s.recorder.IncDiagnostic(diag.Type.String())
		}
	}
	if err != nil {
		s.recorder.ObserveQuote(metrics.OutcomeRejected, req.Mode.String(), req.ServiceTier.String(), time.Since(started))
		s.logg.Warn(s.logg.WithField(ctx, "reason", ReasonOf(err)), "shipping.quote.rejected")
		return nil, err
	}

	s.recorder.ObserveQuote(metrics.OutcomeSuccess, req.Mode.String(), req.ServiceTier.String(), time.Since(started))
	s.recorder.ObserveLegs(legCount(result))
	s.logg.Info(ctx, "shipping.quote.computed")
	return result, nil
}

// BuildQuote runs the quote stages over an already fetched catalog snapshot.
// On failure the returned result still carries the diagnostics collected so
// far.
func BuildQuote(req ShippingRequest, products map[string]ProductRecord) (*QuoteResult, error) {
	result := &QuoteResult{
		Destination: Destination{
			ZipCode: req.DestinationZipCode,
			City:    req.DestinationCity,
			State:   req.DestinationState,
		},
		ModeRequested: req.Mode,
	}

	// collecting
	var diags diagnostics
	lines, resolvedStores := collectLines(req, products, &diags)
	groups := groupByStore(lines)
	result.Diagnostics = append([]Diagnostic{}, diags...)

	// grouped
	if resolvedStores == 0 {
		return result, quoteError(stageGrouped, ReasonNoResolvableProducts, "no requested product can be fulfilled")
	}
	if len(groups) == 0 {
		return result, quoteError(stageGrouped, ReasonNoValidStoreGroups, "no fulfilling store has a valid origin postal code")
	}

	// priced
	legs, err := priceGroups(groups, req)
	if err != nil {
		return result, err
	}

	// aggregated
	if err := aggregate(result, legs, req.Mode); err != nil {
		return result, err
	}
	return result, nil
}

func collectLines(req ShippingRequest, products map[string]ProductRecord, diags *diagnostics) ([]resolvedLine, int) {
	lines := make([]resolvedLine, 0, len(req.Lines))
	resolvedStores := 0
	for _, line := range req.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			diags.productNotFound(line.ProductID)
			continue
		}
		if product.ID == "" {
			product.ID = line.ProductID
		}

		res, ok := resolve(product, line.Quantity)
		if !ok {
			diags.unresolvable(product.ID)
			continue
		}
		resolvedStores++

		origin, ok := NormalizePostalCode(res.Store.PostalCode)
		if !ok {
			diags.missingOrigin(product.ID, res.Store.ID)
			continue
		}
		if res.FromStock && !res.Sufficient(line.Quantity) {
			diags.insufficientStock(product.ID, res.Store.ID, res.AvailableQty, line.Quantity)
		}

		store := res.Store
		store.PostalCode = origin
		lines = append(lines, resolvedLine{Store: store, Product: product, Quantity: line.Quantity})
	}
	return lines, resolvedStores
}

func priceGroups(groups []StoreGroup, req ShippingRequest) (legs []StoreQuoteLeg, err error) {
	defer func() {
		if r := recover(); r != nil {
			legs = nil
			err = computationError(stagePriced, r)
		}
	}()

	legs = make([]StoreQuoteLeg, 0, len(groups))
	for _, group := range groups {
		estimate := CalculateShipping(ShippingInput{
			OriginZip:      group.OriginZip,
			DestinationZip: req.DestinationZipCode,
			TotalWeightKg:  group.TotalWeight,
			WidthCm:        group.MaxWidthCm,
			HeightCm:       group.MaxHeightCm,
			DepthCm:        group.MaxDepthCm,
			Tier:           req.ServiceTier,
		})
		if math.IsNaN(estimate.Price) || math.IsInf(estimate.Price, 0) {
			return nil, computationError(stagePriced, fmt.Sprintf("non-finite price for store %s", group.StoreID))
		}
		legs = append(legs, StoreQuoteLeg{
			StoreID:        group.StoreID,
			StoreName:      group.StoreName,
			OriginZip:      group.OriginZip,
			OriginCity:     group.OriginCity,
			OriginState:    group.OriginState,
			DestinationZip: req.DestinationZipCode,
			ServiceTier:    req.ServiceTier,
			Price:          estimate.Price,
			DeadlineDays:   estimate.DeadlineDays,
			TotalWeightKg:  round2(group.TotalWeight),
			Items:          group.Items,
		})
	}
	return legs, nil
}

func aggregate(result *QuoteResult, legs []StoreQuoteLeg, mode enums.QuoteMode) error {
	sum := decimal.Zero
	maxDeadline := 0
	for _, leg := range legs {
		sum = sum.Add(decimal.NewFromFloat(leg.Price))
		if leg.DeadlineDays > maxDeadline {
			maxDeadline = leg.DeadlineDays
		}
	}
	sum = sum.Round(priceDecimals)
	total, _ := sum.Float64()
	if total <= 0 {
		return computationError(stageAggregated, "non-positive quote total")
	}

	result.legCount = len(legs)
	if mode.IncludesSeparate() {
		result.Separate = &SeparateQuote{
			TotalPrice:      total,
			MaxDeadlineDays: maxDeadline,
			Legs:            legs,
		}
	}

	if len(legs) > 1 && mode.IncludesCombined() {
		factor := decimal.NewFromFloat(100 - consolidationDiscountPercent).Div(decimal.NewFromInt(100))
		final, _ := sum.Mul(factor).Round(priceDecimals).Float64()
		result.Combined = &CombinedQuote{
			BasePriceSum:        total,
			DiscountPercent:     consolidationDiscountPercent,
			FinalPrice:          final,
			BaseMaxDeadlineDays: maxDeadline,
			ExtraDays:           consolidationExtraDays,
			DeadlineDays:        maxDeadline + consolidationExtraDays,
			Description: fmt.Sprintf(
				"Consolidated shipment of %d stores: %.0f%% off, %d extra days",
				len(legs), consolidationDiscountPercent, consolidationExtraDays,
			),
		}
	}
	return nil
}

func legCount(result *QuoteResult) int {
	if result == nil {
		return 0
	}
	return result.legCount
}

// rawLabel keeps metric label cardinality bounded for unparsed input.
func rawLabel[T fmt.Stringer](raw string, parse func(string) (T, error)) string {
	parsed, err := parse(raw)
	if err != nil {
		return "invalid"
	}
	return parsed.String()
}
