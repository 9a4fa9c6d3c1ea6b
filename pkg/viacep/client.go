package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
)

const (
	defaultBaseURL           = "https://viacep.com.br/ws"
	defaultTimeout           = 5 * time.Second
	responseReadLimit  int64 = 1024
	postalCodeDigits         = 8
)

var errInvalidPostalCode = errors.New("postal code must have 8 digits")

// Client wraps the public ViaCEP address lookup API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the lookup base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout sets the timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds the lookup client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Address is the normalized lookup result.
type Address struct {
	ZipCode      string `json:"zipCode"`
	Street       string `json:"street"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	IBGECode     string `json:"ibgeCode,omitempty"`
}

// Lookup resolves an 8-digit postal code. Unknown codes yield a NOT_FOUND error.
func (c *Client) Lookup(ctx context.Context, zipCode string) (*Address, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "postal code client not configured")
	}
	if len(zipCode) != postalCodeDigits || strings.Trim(zipCode, "0123456789") != "" {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, errInvalidPostalCode, "invalid postal code")
	}

	url := fmt.Sprintf("%s/%s/json/", strings.TrimRight(c.baseURL, "/"), zipCode)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build postal code request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute postal code request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "postal code request failed")
	}

	var apiResp struct {
		CEP         string `json:"cep"`
		Logradouro  string `json:"logradouro"`
		Complemento string `json:"complemento"`
		Bairro      string `json:"bairro"`
		Localidade  string `json:"localidade"`
		UF          string `json:"uf"`
		IBGE        string `json:"ibge"`
		Erro        any    `json:"erro"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode postal code response")
	}
	if notFound(apiResp.Erro) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "postal code not found")
	}

	return &Address{
		ZipCode:      zipCode,
		Street:       apiResp.Logradouro,
		Complement:   apiResp.Complemento,
		Neighborhood: apiResp.Bairro,
		City:         apiResp.Localidade,
		State:        apiResp.UF,
		IBGECode:     apiResp.IBGE,
	}, nil
}

// notFound handles both the boolean and string forms of the "erro" flag.
func notFound(flag any) bool {
	switch v := flag.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}
