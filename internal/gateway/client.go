package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"amply-reservation-client/internal/model"
)

// Client is a typed interface to the remote reservation service's REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a gateway client with the fixed request timeout the
// service is configured for.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// errorBody is the optional JSON payload of a non-2xx response.
type errorBody struct {
	Message string `json:"message"`
}

// do runs one request and classifies the failure modes: the caller gets a
// *TransportError when the server was unreachable and a *ServerRejection
// when it answered with a non-2xx status.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := "unknown error"
		var eb errorBody
		if jsonErr := json.Unmarshal(respBody, &eb); jsonErr == nil && eb.Message != "" {
			message = eb.Message
		}
		return &ServerRejection{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}
	return nil
}

// ListReservations fetches the entire reservation collection. The server
// exposes no filter parameter; callers filter by NIC client-side.
func (c *Client) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	var list []model.Reservation
	if err := c.do(ctx, http.MethodGet, "/api/v1/reservations", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateReservation submits a new reservation.
func (c *Client) CreateReservation(ctx context.Context, req model.ReservationCreateRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/reservations", req, nil)
}

// UpdateReservation replaces an existing reservation's fields.
func (c *Client) UpdateReservation(ctx context.Context, id string, req model.ReservationCreateRequest) error {
	return c.do(ctx, http.MethodPut, "/api/v1/reservations/"+id, req, nil)
}

// DeleteReservation removes a reservation.
func (c *Client) DeleteReservation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/reservations/"+id, nil, nil)
}

// ConfirmReservation transitions a reservation to confirmed.
func (c *Client) ConfirmReservation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/reservations/"+id+"/confirm", nil, nil)
}

// MarkReservationDone transitions a reservation to done.
func (c *Client) MarkReservationDone(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/reservations/"+id+"/done", nil, nil)
}

// ListActiveStations fetches the active stations with their nested
// per-date schedules.
func (c *Client) ListActiveStations(ctx context.Context) ([]model.ChargingStation, error) {
	var list []model.ChargingStation
	if err := c.do(ctx, http.MethodGet, "/api/v1/charging-stations/active", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListUserProfiles fetches all owner profiles. Used for auth lookup and NIC
// resolution.
func (c *Client) ListUserProfiles(ctx context.Context) ([]model.UserProfile, error) {
	var list []model.UserProfile
	if err := c.do(ctx, http.MethodGet, "/api/v1/userprofiles", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateUserProfile updates a profile keyed by NIC.
func (c *Client) UpdateUserProfile(ctx context.Context, nic string, p model.UserProfile) error {
	return c.do(ctx, http.MethodPut, "/api/v1/userprofiles/"+nic, p, nil)
}
