package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-shipping/api/controllers/shipping/dto"
	shippingsvc "github.com/angelmondragon/packfinderz-shipping/internal/shipping"
	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
)

type stubCatalog struct {
	products map[string]shippingsvc.ProductRecord
	err      error
	calls    int
}

func (s *stubCatalog) LoadProducts(_ context.Context, ids []string) (map[string]shippingsvc.ProductRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := map[string]shippingsvc.ProductRecord{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func weight(v float64) *float64 { return &v }

func twoStoreCatalog() *stubCatalog {
	sp := shippingsvc.StoreRecord{ID: "store-sp", Name: "Paulista", PostalCode: "01310100", City: "Sao Paulo", State: "SP", Active: true}
	rj := shippingsvc.StoreRecord{ID: "store-rj", Name: "Centro", PostalCode: "20040002", City: "Rio de Janeiro", State: "RJ", Active: true}
	return &stubCatalog{products: map[string]shippingsvc.ProductRecord{
		"p-sp": {ID: "p-sp", WeightKg: weight(1), Inventory: []shippingsvc.StoreInventoryRecord{{Store: sp, AvailableQty: 10}}},
		"p-rj": {ID: "p-rj", WeightKg: weight(2), Inventory: []shippingsvc.StoreInventoryRecord{{Store: rj, AvailableQty: 10}}},
	}}
}

func newHandler(t *testing.T, catalog *stubCatalog) http.HandlerFunc {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
	svc, err := shippingsvc.NewService(catalog, logg, nil)
	require.NoError(t, err)
	return Quote(svc, logg)
}

func postQuote(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shipping/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestQuoteTwoStores(t *testing.T) {
	handler := newHandler(t, twoStoreCatalog())

	resp := postQuote(handler, `{
		"destinationZipCode": "01310-100",
		"destinationCity": " Sao Paulo ",
		"mode": "both",
		"items": [{"productId": "p-sp", "quantity": 1}, {"productId": "p-rj", "quantity": 1}]
	}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data dto.QuoteResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	data := envelope.Data

	assert.Equal(t, "01310100", data.Destination.ZipCode)
	assert.Equal(t, "Sao Paulo", data.Destination.City)
	assert.Equal(t, "both", data.ModeRequested)
	require.NotNil(t, data.Separate)
	require.Len(t, data.Separate.Groups, 2)
	assert.Equal(t, "store-sp", data.Separate.Groups[0].StoreID)
	assert.Equal(t, "standard", data.Separate.Groups[0].ServiceType)
	assert.Equal(t, 14.0, data.Separate.Groups[0].Price)
	assert.Equal(t, 80.0, data.Separate.Groups[1].Price)
	assert.Equal(t, 94.0, data.Separate.TotalPrice)
	require.NotNil(t, data.Combined)
	assert.Equal(t, 79.9, data.Combined.FinalPrice)
	assert.Equal(t, 2, data.Combined.ExtraDaysForConsolidation)
	assert.Equal(t, 21, data.Combined.DeadlineDays)
	assert.Empty(t, data.Diagnostics)
}

func TestQuoteResponseShape(t *testing.T) {
	handler := newHandler(t, twoStoreCatalog())

	resp := postQuote(handler, `{"destinationZipCode":"01310100","mode":"separate","items":[{"productId":"p-sp","quantity":1}]}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var raw struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, "null", string(raw.Data["combined"]))
	assert.Equal(t, "[]", string(raw.Data["diagnostics"]))

	var separate map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw.Data["separate"], &separate))
	assert.Contains(t, separate, "groups")
	assert.Contains(t, separate, "maxDeadlineDays")
}

func TestQuoteReportsDiagnostics(t *testing.T) {
	handler := newHandler(t, twoStoreCatalog())

	resp := postQuote(handler, `{"destinationZipCode":"01310100","items":[{"productId":"p-sp","quantity":1},{"productId":"ghost","quantity":1}]}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data dto.QuoteResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data.Diagnostics, 1)
	assert.Equal(t, "product_not_found", envelope.Data.Diagnostics[0].Type)
	assert.Equal(t, "ghost", envelope.Data.Diagnostics[0].ProductID)
}

func TestQuoteValidationReasons(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		reason string
	}{
		{"missing items", `{"destinationZipCode":"01310100"}`, shippingsvc.ReasonEmptyCart},
		{"empty items", `{"destinationZipCode":"01310100","items":[]}`, shippingsvc.ReasonEmptyCart},
		{"missing destination", `{"items":[{"productId":"p-sp","quantity":1}]}`, shippingsvc.ReasonInvalidDestination},
		{"short destination", `{"destinationZipCode":"123","items":[{"productId":"p-sp","quantity":1}]}`, shippingsvc.ReasonInvalidDestination},
		{"bad mode", `{"destinationZipCode":"01310100","mode":"cheapest","items":[{"productId":"p-sp","quantity":1}]}`, shippingsvc.ReasonInvalidMode},
		{"bad tier", `{"destinationZipCode":"01310100","serviceType":"overnight","items":[{"productId":"p-sp","quantity":1}]}`, shippingsvc.ReasonInvalidServiceType},
		{"zero quantity", `{"destinationZipCode":"01310100","items":[{"productId":"p-sp","quantity":0}]}`, shippingsvc.ReasonInvalidItem},
		{"fractional quantity", `{"destinationZipCode":"01310100","items":[{"productId":"p-sp","quantity":1.5}]}`, shippingsvc.ReasonInvalidItem},
		{"quantity out of int range", `{"destinationZipCode":"01310100","items":[{"productId":"p-sp","quantity":1e30}]}`, shippingsvc.ReasonInvalidItem},
		{"quantity as string", `{"destinationZipCode":"01310100","items":[{"productId":"p-sp","quantity":"2"}]}`, shippingsvc.ReasonInvalidItem},
		{"items not an array", `{"destinationZipCode":"01310100","items":{"productId":"p-sp"}}`, shippingsvc.ReasonInvalidItem},
		{"duplicate lines overflow", `{"destinationZipCode":"01310100","items":[{"productId":"p-sp","quantity":9223372036854775807},{"productId":"p-sp","quantity":2}]}`, shippingsvc.ReasonInvalidItem},
		{"only unknown products", `{"destinationZipCode":"01310100","items":[{"productId":"ghost","quantity":1}]}`, shippingsvc.ReasonNoResolvableProducts},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			catalog := twoStoreCatalog()
			resp := postQuote(newHandler(t, catalog), tc.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)

			env := decodeError(t, resp)
			assert.Equal(t, string(pkgerrors.CodeValidation), env.Error.Code)
			assert.Equal(t, tc.reason, env.Error.Details["reason"])
		})
	}
}

func TestQuoteValidationSkipsCatalog(t *testing.T) {
	catalog := twoStoreCatalog()
	resp := postQuote(newHandler(t, catalog), `{"destinationZipCode":"01310100","items":[]}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, catalog.calls)
}

func TestQuoteRejectsUnknownFields(t *testing.T) {
	resp := postQuote(newHandler(t, twoStoreCatalog()), `{"destinationZipCode":"01310100","coupon":"X","items":[{"productId":"p-sp","quantity":1}]}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestQuoteCatalogFailure(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("connection reset")}
	resp := postQuote(newHandler(t, catalog), `{"destinationZipCode":"01310100","items":[{"productId":"p-sp","quantity":1}]}`)
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeDependency), decodeError(t, resp).Error.Code)
}

func TestQuoteNilService(t *testing.T) {
	resp := postQuote(Quote(nil, nil), `{}`)
	require.Equal(t, http.StatusInternalServerError, resp.Code)
}
