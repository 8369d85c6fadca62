package viacep

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/go-resty/resty/v2"

	"github.com/joaofarias/doafacil/internal/config"
)

// ErrInvalidCEP indicates a postal code that is not eight digits.
var ErrInvalidCEP = errors.New("postal code must have exactly eight digits")

// ErrCEPNotFound indicates the postal code is well-formed but unknown.
var ErrCEPNotFound = errors.New("postal code not found")

// Client exposes the postal-code lookup used by partner registration.
type Client interface {
	Lookup(ctx context.Context, cep string) (*AddressResult, error)
}

// AddressResult mirrors the ViaCEP response payload.
type AddressResult struct {
	CEP        string `json:"cep"`
	Street     string `json:"logradouro"`
	Complement string `json:"complemento"`
	District   string `json:"bairro"`
	City       string `json:"localidade"`
	State      string `json:"uf"`
	Missing    bool   `json:"erro,omitempty"`
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a ViaCEP API client using the provided configuration values.
func NewClient(cfg config.ViaCEPConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// Lookup resolves a postal code to its street address.
func (c *APIClient) Lookup(ctx context.Context, cep string) (*AddressResult, error) {
	digits := digitsOnly(cep)
	if len(digits) != 8 {
		return nil, ErrInvalidCEP
	}

	result := new(AddressResult)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		Get(fmt.Sprintf("/ws/%s/json/", digits))
	if err != nil {
		return nil, fmt.Errorf("lookup postal code %s: %w", digits, err)
	}

	// ViaCEP answers 400 for malformed codes and {"erro": true} for unknown ones.
	if resp.StatusCode() == http.StatusBadRequest {
		return nil, ErrInvalidCEP
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("viacep error: status=%d", resp.StatusCode())
	}
	if result.Missing {
		return nil, ErrCEPNotFound
	}

	return result, nil
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
