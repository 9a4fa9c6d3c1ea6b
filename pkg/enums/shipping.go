package enums

import (
	"fmt"
	"strings"
)

// QuoteMode selects which quote variants the caller wants back.
type QuoteMode string

const (
	QuoteModeSeparate QuoteMode = "separate"
	QuoteModeCombined QuoteMode = "combined"
	QuoteModeBoth     QuoteMode = "both"
)

var validQuoteModes = []QuoteMode{
	QuoteModeSeparate,
	QuoteModeCombined,
	QuoteModeBoth,
}

// String implements fmt.Stringer.
func (m QuoteMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known QuoteMode.
func (m QuoteMode) IsValid() bool {
	for _, candidate := range validQuoteModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// IncludesSeparate reports whether the per-store quote must be built.
func (m QuoteMode) IncludesSeparate() bool {
	return m != QuoteModeCombined
}

// IncludesCombined reports whether a consolidated quote may be built.
func (m QuoteMode) IncludesCombined() bool {
	return m != QuoteModeSeparate
}

// ParseQuoteMode converts raw input into a QuoteMode. Empty input yields QuoteModeBoth.
func ParseQuoteMode(value string) (QuoteMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return QuoteModeBoth, nil
	}
	for _, candidate := range validQuoteModes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote mode %q", value)
}

// ServiceTier is the shipping service level priced by the quote engine.
type ServiceTier string

const (
	ServiceTierStandard ServiceTier = "standard"
	ServiceTierExpress  ServiceTier = "express"
)

var validServiceTiers = []ServiceTier{
	ServiceTierStandard,
	ServiceTierExpress,
}

// String implements fmt.Stringer.
func (s ServiceTier) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceTier.
func (s ServiceTier) IsValid() bool {
	for _, candidate := range validServiceTiers {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceTier converts raw input into a ServiceTier. Empty input yields ServiceTierStandard.
func ParseServiceTier(value string) (ServiceTier, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return ServiceTierStandard, nil
	}
	for _, candidate := range validServiceTiers {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service tier %q", value)
}

// DiagnosticType classifies non-fatal findings recorded while building a quote.
type DiagnosticType string

const (
	DiagnosticTypeProductNotFound   DiagnosticType = "product_not_found"
	DiagnosticTypeUnresolvable      DiagnosticType = "unresolvable_product"
	DiagnosticTypeMissingOrigin     DiagnosticType = "store_missing_origin"
	DiagnosticTypeInsufficientStock DiagnosticType = "insufficient_stock"
)

// String implements fmt.Stringer.
func (d DiagnosticType) String() string {
	return string(d)
}
