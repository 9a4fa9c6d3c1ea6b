package postalcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/packfinderz-shipping/internal/shipping"
	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
	"github.com/angelmondragon/packfinderz-shipping/pkg/redis"
	"github.com/angelmondragon/packfinderz-shipping/pkg/viacep"
)

const defaultCacheTTL = 24 * time.Hour

type addressLookup interface {
	Lookup(ctx context.Context, zipCode string) (*viacep.Address, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	PostalCodeKey(zipCode string) string
}

// Service resolves postal codes to addresses.
type Service interface {
	Lookup(ctx context.Context, rawZipCode string) (*viacep.Address, error)
}

type service struct {
	lookup addressLookup
	cache  cacheStore
	ttl    time.Duration
	logg   *logger.Logger
}

// NewService wires the upstream lookup with an optional cache.
func NewService(lookup addressLookup, cache cacheStore, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if lookup == nil {
		return nil, fmt.Errorf("address lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &service{lookup: lookup, cache: cache, ttl: ttl, logg: logg}, nil
}

func (s *service) Lookup(ctx context.Context, rawZipCode string) (*viacep.Address, error) {
	zipCode, ok := shipping.NormalizePostalCode(rawZipCode)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "postal code must have 8 digits").
			WithReason(shipping.ReasonInvalidDestination)
	}
	ctx = s.logg.WithField(ctx, "zip_code", zipCode)

	if cached, ok := s.fromCache(ctx, zipCode); ok {
		return cached, nil
	}

	address, err := s.lookup.Lookup(ctx, zipCode)
	if err != nil {
		return nil, err
	}
	s.store(ctx, zipCode, address)
	return address, nil
}

// fromCache treats every cache failure as a miss.
func (s *service) fromCache(ctx context.Context, zipCode string) (*viacep.Address, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.PostalCodeKey(zipCode))
	if err != nil {
		if !errors.Is(err, redis.ErrNil) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "postal_code.cache_read_failed")
		}
		return nil, false
	}
	var address viacep.Address
	if err := json.Unmarshal([]byte(raw), &address); err != nil {
		s.logg.Warn(ctx, "postal_code.cache_decode_failed")
		return nil, false
	}
	return &address, true
}

func (s *service) store(ctx context.Context, zipCode string, address *viacep.Address) {
	if s.cache == nil || address == nil {
		return
	}
	payload, err := json.Marshal(address)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.PostalCodeKey(zipCode), string(payload), s.ttl); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "postal_code.cache_write_failed")
	}
}
