package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/http/wire"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client calls the delivery and marketplace order HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// NewClient creates a Client for baseURL; timeout bounds every request.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    httpClient,
		timeout: timeout,
	}, nil
}

// GetDeliveryByOrder fetches the delivery of an order.
func (c *Client) GetDeliveryByOrder(ctx context.Context, orderID string) (*domain.Delivery, error) {
	return c.delivery(ctx, http.MethodGet, "/api/delivery/by-order/"+url.PathEscape(orderID), nil)
}

// GetDelivery fetches a delivery by id.
func (c *Client) GetDelivery(ctx context.Context, id string) (*domain.Delivery, error) {
	return c.delivery(ctx, http.MethodGet, "/api/delivery/"+url.PathEscape(id), nil)
}

// GetOrder fetches a marketplace order.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return c.order(ctx, http.MethodGet, "/api/marketplace/orders/"+url.PathEscape(id), nil)
}

// UpdateOrderStatus sets an order status; confirming creates the delivery.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	body := wire.UpdateOrderRequest{Status: string(status)}
	return c.order(ctx, http.MethodPut, "/api/marketplace/orders/"+url.PathEscape(id), body)
}

// AssignDriver attaches a driver to a delivery.
func (c *Client) AssignDriver(ctx context.Context, id string, req wire.AssignDriverRequest) (*domain.Delivery, error) {
	return c.delivery(ctx, http.MethodPost, "/api/delivery/"+url.PathEscape(id)+"/assign-driver", req)
}

// UpdateStatus moves a delivery to status.
func (c *Client) UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus, notes string) (*domain.Delivery, error) {
	body := wire.UpdateStatusRequest{Status: string(status), Notes: notes}
	return c.delivery(ctx, http.MethodPatch, "/api/delivery/"+url.PathEscape(id)+"/update-status", body)
}

// delivery and order reject a payload without an id: every later call is built from it.
func (c *Client) delivery(ctx context.Context, method, path string, in any) (*domain.Delivery, error) {
	var data wire.DeliveryData
	if err := c.do(ctx, method, path, in, &data); err != nil {
		return nil, err
	}
	if data.Delivery.ID == "" {
		return nil, fmt.Errorf("%s %s: delivery without id: %w", method, path, ErrEmptyResponse)
	}
	return data.Delivery.ToDomain(), nil
}

func (c *Client) order(ctx context.Context, method, path string, in any) (*domain.Order, error) {
	var data wire.OrderData
	if err := c.do(ctx, method, path, in, &data); err != nil {
		return nil, err
	}
	if data.Order.ID == "" {
		return nil, fmt.Errorf("%s %s: order without id: %w", method, path, ErrEmptyResponse)
	}
	return data.Order.ToDomain(), nil
}

// NextStatuses lists the statuses the server will accept next.
func (c *Client) NextStatuses(ctx context.Context, id string) ([]domain.DeliveryStatus, error) {
	var data wire.NextStatusesData
	if err := c.do(ctx, http.MethodGet, "/api/delivery/"+url.PathEscape(id)+"/next-statuses", nil, &data); err != nil {
		return nil, err
	}
	out := make([]domain.DeliveryStatus, 0, len(data.Statuses))
	for _, s := range data.Statuses {
		out = append(out, s.Status)
	}
	return out, nil
}

// Drivers fetches the roster.
func (c *Client) Drivers(ctx context.Context) ([]wire.Driver, error) {
	var data wire.DriversData
	if err := c.do(ctx, http.MethodGet, "/api/delivery/drivers", nil, &data); err != nil {
		return nil, err
	}
	return data.Drivers, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(raw)}
	}

	var env wire.Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if !env.Success {
		return &StatusError{Code: resp.StatusCode, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if env.Data == nil {
		return fmt.Errorf("%s %s: %w", method, path, ErrEmptyResponse)
	}
	if err := json.Unmarshal(*env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts {message} from an error body; anything unparseable has no message.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}
