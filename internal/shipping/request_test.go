package shipping

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-shipping/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
)

func TestNormalizePostalCode(t *testing.T) {
	zip, ok := NormalizePostalCode(" 01310-100 ")
	require.True(t, ok)
	require.Equal(t, "01310100", zip)

	_, ok = NormalizePostalCode("123")
	require.False(t, ok)
	_, ok = NormalizePostalCode("013101000")
	require.False(t, ok)
	_, ok = NormalizePostalCode("")
	require.False(t, ok)
}

func TestNormalizeRequestDefaultsAndMerge(t *testing.T) {
	req, err := NormalizeRequest(QuoteInput{
		DestinationZipCode: "01310-100",
		DestinationCity:    " Sao Paulo ",
		Items: []CartLine{
			{ProductID: "b", Quantity: 1},
			{ProductID: "a", Quantity: 2},
			{ProductID: " b ", Quantity: 4},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "01310100", req.DestinationZipCode)
	require.Equal(t, "Sao Paulo", req.DestinationCity)
	require.Equal(t, enums.QuoteModeBoth, req.Mode)
	require.Equal(t, enums.ServiceTierStandard, req.ServiceTier)
	require.Equal(t, []CartLine{{ProductID: "b", Quantity: 5}, {ProductID: "a", Quantity: 2}}, req.Lines)
	require.Equal(t, []string{"b", "a"}, req.ProductIDs())
}

func TestNormalizeRequestMergesUUIDSpellings(t *testing.T) {
	req, err := NormalizeRequest(QuoteInput{
		DestinationZipCode: "01310100",
		Items: []CartLine{
			{ProductID: "6F1C2A4E-9B7D-4C3A-8E21-0D5B7A9C1E33", Quantity: 2},
			{ProductID: "6f1c2a4e-9b7d-4c3a-8e21-0d5b7a9c1e33", Quantity: 3},
			{ProductID: "SKU-Lamp", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, []CartLine{
		{ProductID: "6f1c2a4e-9b7d-4c3a-8e21-0d5b7a9c1e33", Quantity: 5},
		{ProductID: "SKU-Lamp", Quantity: 1},
	}, req.Lines)
}

func TestNormalizeRequestAcceptsLineLimit(t *testing.T) {
	req, err := NormalizeRequest(QuoteInput{
		DestinationZipCode: "01310100",
		Items: []CartLine{
			{ProductID: "a", Quantity: MaxLineQuantity - 1},
			{ProductID: "a", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, MaxLineQuantity, req.Lines[0].Quantity)
}

func TestNormalizeRequestRejections(t *testing.T) {
	valid := []CartLine{{ProductID: "a", Quantity: 1}}
	cases := []struct {
		name   string
		input  QuoteInput
		reason string
	}{
		{name: "empty cart", input: QuoteInput{DestinationZipCode: "01310100"}, reason: ReasonEmptyCart},
		{name: "empty cart wins over bad destination", input: QuoteInput{DestinationZipCode: "1"}, reason: ReasonEmptyCart},
		{name: "short destination", input: QuoteInput{DestinationZipCode: "123", Items: valid}, reason: ReasonInvalidDestination},
		{name: "zero quantity", input: QuoteInput{DestinationZipCode: "01310100", Items: []CartLine{{ProductID: "a"}}}, reason: ReasonInvalidItem},
		{name: "negative quantity", input: QuoteInput{DestinationZipCode: "01310100", Items: []CartLine{{ProductID: "a", Quantity: -2}}}, reason: ReasonInvalidItem},
		{name: "quantity above line limit", input: QuoteInput{DestinationZipCode: "01310100", Items: []CartLine{{ProductID: "a", Quantity: MaxLineQuantity + 1}}}, reason: ReasonInvalidItem},
		{name: "merged quantity would wrap", input: QuoteInput{DestinationZipCode: "01310100", Items: []CartLine{{ProductID: "a", Quantity: math.MaxInt}, {ProductID: "a", Quantity: 2}}}, reason: ReasonInvalidItem},
		{name: "merged quantity above line limit", input: QuoteInput{DestinationZipCode: "01310100", Items: []CartLine{{ProductID: "a", Quantity: MaxLineQuantity}, {ProductID: "a", Quantity: 1}}}, reason: ReasonInvalidItem},
		{name: "blank product", input: QuoteInput{DestinationZipCode: "01310100", Items: []CartLine{{ProductID: " ", Quantity: 1}}}, reason: ReasonInvalidItem},
		{name: "bad mode", input: QuoteInput{DestinationZipCode: "01310100", Items: valid, Mode: "split"}, reason: ReasonInvalidMode},
		{name: "bad tier", input: QuoteInput{DestinationZipCode: "01310100", Items: valid, ServiceType: "overnight"}, reason: ReasonInvalidServiceType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeRequest(tc.input)
			require.Error(t, err)
			require.Equal(t, tc.reason, ReasonOf(err))
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestNormalizeRequestCaseInsensitiveEnums(t *testing.T) {
	req, err := NormalizeRequest(QuoteInput{
		DestinationZipCode: "01310100",
		Mode:               "SEPARATE",
		ServiceType:        "Express",
		Items:              []CartLine{{ProductID: "a", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, enums.QuoteModeSeparate, req.Mode)
	require.Equal(t, enums.ServiceTierExpress, req.ServiceTier)
}

func TestNormalizeRequestTooManyLines(t *testing.T) {
	items := make([]CartLine, 0, maxCartLines+1)
	for i := 0; i <= maxCartLines; i++ {
		items = append(items, CartLine{ProductID: fmt.Sprintf("p%d", i), Quantity: 1})
	}
	_, err := NormalizeRequest(QuoteInput{DestinationZipCode: "01310100", Items: items})
	require.Equal(t, ReasonInvalidItem, ReasonOf(err))
}
