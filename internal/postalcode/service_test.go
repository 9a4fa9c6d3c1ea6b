package postalcode

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
	"github.com/angelmondragon/packfinderz-shipping/pkg/redis"
	"github.com/angelmondragon/packfinderz-shipping/pkg/viacep"
)

type fakeLookup struct {
	calls   []string
	address *viacep.Address
	err     error
}

func (f *fakeLookup) Lookup(_ context.Context, zipCode string) (*viacep.Address, error) {
	f.calls = append(f.calls, zipCode)
	if f.err != nil {
		return nil, f.err
	}
	clone := *f.address
	return &clone, nil
}

type memoryCache struct {
	values  map[string]string
	ttls    map[string]time.Duration
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	if m.failGet {
		return "", errors.New("connection refused")
	}
	v, ok := m.values[key]
	if !ok {
		return "", redis.ErrNil
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCache) PostalCodeKey(zipCode string) string {
	return "test:postal_code:" + zipCode
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
}

func paulista() *viacep.Address {
	return &viacep.Address{ZipCode: "01310100", Street: "Avenida Paulista", Neighborhood: "Bela Vista", City: "São Paulo", State: "SP"}
}

func TestLookupNormalizesAndCaches(t *testing.T) {
	lookup := &fakeLookup{address: paulista()}
	cache := newMemoryCache()
	svc, err := NewService(lookup, cache, time.Hour, testLogger())
	require.NoError(t, err)

	address, err := svc.Lookup(context.Background(), "01310-100")
	require.NoError(t, err)
	assert.Equal(t, "Avenida Paulista", address.Street)
	assert.Equal(t, []string{"01310100"}, lookup.calls)
	assert.Equal(t, time.Hour, cache.ttls["test:postal_code:01310100"])

	again, err := svc.Lookup(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Equal(t, address, again)
	assert.Len(t, lookup.calls, 1, "second lookup should be served from cache")
}

func TestLookupWithoutCache(t *testing.T) {
	lookup := &fakeLookup{address: paulista()}
	svc, err := NewService(lookup, nil, 0, testLogger())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := svc.Lookup(context.Background(), "01310100")
		require.NoError(t, err)
	}
	assert.Len(t, lookup.calls, 2)
}

func TestLookupCacheFailureFallsThrough(t *testing.T) {
	lookup := &fakeLookup{address: paulista()}
	cache := newMemoryCache()
	cache.failGet = true
	svc, err := NewService(lookup, cache, time.Minute, testLogger())
	require.NoError(t, err)

	address, err := svc.Lookup(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Equal(t, "SP", address.State)
	assert.Len(t, lookup.calls, 1)
}

func TestLookupRejectsInvalidCode(t *testing.T) {
	lookup := &fakeLookup{address: paulista()}
	svc, err := NewService(lookup, nil, 0, testLogger())
	require.NoError(t, err)

	_, err = svc.Lookup(context.Background(), "1234")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Empty(t, lookup.calls)
}

func TestLookupPropagatesUpstreamErrors(t *testing.T) {
	lookup := &fakeLookup{err: pkgerrors.New(pkgerrors.CodeNotFound, "postal code not found")}
	cache := newMemoryCache()
	svc, err := NewService(lookup, cache, 0, testLogger())
	require.NoError(t, err)

	_, err = svc.Lookup(context.Background(), "99999999")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	assert.Empty(t, cache.values, "failures must not be cached")
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, 0, testLogger())
	assert.Error(t, err)
	_, err = NewService(&fakeLookup{}, nil, 0, nil)
	assert.Error(t, err)
}
