package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Carrier is the outbound interface to the shipping provider's REST API.
type Carrier interface {
	CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error)
	CreateTransaction(ctx context.Context, req TransactionRequest) (*Transaction, error)
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	CreateRefund(ctx context.Context, transactionID string) (*Refund, error)
	ValidateAddress(ctx context.Context, addr Address) (*ValidatedAddress, error)
	RegisterTrackingWebhook(ctx context.Context, carrier, trackingNumber string) error
}

type httpCarrier struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPCarrier builds a token-authenticated JSON client for the carrier API.
func NewHTTPCarrier(baseURL, token string) Carrier {
	return &httpCarrier{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *httpCarrier) CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error) {
	var shipment Shipment
	if err := c.do(ctx, http.MethodPost, "/shipments/", req, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (c *httpCarrier) CreateTransaction(ctx context.Context, req TransactionRequest) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions/", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *httpCarrier) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var tx Transaction
	path := "/transactions/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *httpCarrier) CreateRefund(ctx context.Context, transactionID string) (*Refund, error) {
	var refund Refund
	body := map[string]string{"transaction": transactionID}
	if err := c.do(ctx, http.MethodPost, "/refunds/", body, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

func (c *httpCarrier) ValidateAddress(ctx context.Context, addr Address) (*ValidatedAddress, error) {
	type validateRequest struct {
		Address
		Validate bool `json:"validate"`
	}
	var validated ValidatedAddress
	if err := c.do(ctx, http.MethodPost, "/addresses/", validateRequest{Address: addr, Validate: true}, &validated); err != nil {
		return nil, err
	}
	return &validated, nil
}

func (c *httpCarrier) RegisterTrackingWebhook(ctx context.Context, carrier, trackingNumber string) error {
	body := map[string]string{
		"carrier":         carrier,
		"tracking_number": trackingNumber,
	}
	return c.do(ctx, http.MethodPost, "/tracks/", body, nil)
}

func (c *httpCarrier) do(ctx context.Context, method, path string, in, out any) error {
	var payload io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode carrier request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build carrier request: %w", err)
	}
	req.Header.Set("Authorization", "ShippoToken "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("carrier request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("carrier request %s %s: status %d: %s", method, path, resp.StatusCode, snippet)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode carrier response: %w", err)
	}
	return nil
}
