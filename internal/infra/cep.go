package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrCEPNotFound is returned when the lookup service does not know the code.
var ErrCEPNotFound = errors.New("cep: não encontrado")

// ErrCEPInvalid is returned for codes that are not eight digits.
var ErrCEPInvalid = errors.New("cep: formato inválido")

// CEPAddress is the subset of a ViaCEP answer the storefront uses.
type CEPAddress struct {
	CEP      string `json:"cep"`
	Street   string `json:"logradouro"`
	District string `json:"bairro"`
	City     string `json:"localidade"`
	State    string `json:"uf"`
	Erro     any    `json:"erro,omitempty"` // ViaCEP answers 200 with {"erro": true} for unknown codes
}

// CEPClient resolves Brazilian postal codes through a ViaCEP compatible API.
// Calls go through a circuit breaker so a slow upstream does not stall checkout.
type CEPClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewCEPClient(baseURL string, cb *CircuitBreaker) *CEPClient {
	return &CEPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cb:         cb,
	}
}

// NormalizeCEP strips punctuation and checks the code has eight digits.
func NormalizeCEP(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r != '-' && r != '.' && r != ' ' {
			return "", ErrCEPInvalid
		}
	}
	if b.Len() != 8 {
		return "", ErrCEPInvalid
	}
	return b.String(), nil
}

// Lookup fetches the address of cep.
func (c *CEPClient) Lookup(ctx context.Context, cep string) (*CEPAddress, error) {
	code, err := NormalizeCEP(cep)
	if err != nil {
		return nil, err
	}

	var result CEPAddress
	cbErr := c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.baseURL, code), nil)
		if err != nil {
			return fmt.Errorf("cep: create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("cep: upstream unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("cep: upstream returned %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("cep: decode response: %w", err)
		}
		return nil
	})
	if cbErr != nil {
		return nil, cbErr
	}
	if result.Erro != nil || result.City == "" {
		return nil, ErrCEPNotFound
	}
	return &result, nil
}
