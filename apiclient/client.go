// Package apiclient is a small client for a VIIPER server: it creates a
// virtual USB keyboard and streams modtap's HID reports to it.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Alia5/modtap/apitypes"
)

// Client wraps a Transport with typed request helpers.
type Client struct{ transport *Transport }

// New constructs a client for the API server at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport, mostly for tests.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// BusListCtx returns all active virtual bus numbers.
func (c *Client) BusListCtx(ctx context.Context) (*apitypes.BusListResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.BusListResponse](raw)
}

// BusCreateCtx creates virtual bus busID.
func (c *Client) BusCreateCtx(ctx context.Context, busID uint32) (*apitypes.BusCreateResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/create", strconv.FormatUint(uint64(busID), 10), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.BusCreateResponse](raw)
}

// DeviceAddCtx adds a device of devType to the bus.
func (c *Client) DeviceAddCtx(ctx context.Context, busID uint32, devType string) (*apitypes.Device, error) {
	req := apitypes.DeviceCreateRequest{Type: &devType}
	params := map[string]string{"id": strconv.FormatUint(uint64(busID), 10)}
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/add", req, params)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.Device](raw)
}

// DeviceRemoveCtx removes device devID from the bus.
func (c *Client) DeviceRemoveCtx(ctx context.Context, busID uint32, devID string) (*apitypes.DeviceRemoveResponse, error) {
	params := map[string]string{"id": strconv.FormatUint(uint64(busID), 10)}
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/remove", devID, params)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceRemoveResponse](raw)
}

// EnsureBus creates busID unless the server already has it.
func (c *Client) EnsureBus(ctx context.Context, busID uint32) error {
	list, err := c.BusListCtx(ctx)
	if err != nil {
		return fmt.Errorf("list buses: %w", err)
	}
	for _, b := range list.Buses {
		if b == busID {
			return nil
		}
	}
	if _, err := c.BusCreateCtx(ctx, busID); err != nil {
		return fmt.Errorf("create bus %d: %w", busID, err)
	}
	return nil
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
