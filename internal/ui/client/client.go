package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized is returned for any 401 from the APIs. The web layer
// treats it as "session no longer valid" and redirects to login.
var ErrUnauthorized = errors.New("not authenticated")

// APIError carries a non-2xx response the caller may want to show to the
// user, such as "Username already registered".
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api responded %d: %s", e.StatusCode, e.Detail)
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Zone struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	VehicleCount int    `json:"vehicle_count"`
}

type ZoneInput struct {
	Name         string `json:"name"`
	VehicleCount int    `json:"vehicle_count"`
}

type Incident struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

type IncidentInput struct {
	Type     string `json:"type"`
	Location string `json:"location"`
}

// Client talks to the traffic and incident APIs on behalf of a browser
// session.
type Client struct {
	trafficURL  string
	incidentURL string
	http        *http.Client
}

func New(trafficURL, incidentURL string, timeout time.Duration) *Client {
	return &Client{
		trafficURL:  strings.TrimRight(trafficURL, "/"),
		incidentURL: strings.TrimRight(incidentURL, "/"),
		http:        &http.Client{Timeout: timeout},
	}
}

func (c *Client) Signup(ctx context.Context, username, password string) (User, error) {
	var user User
	err := c.doJSON(ctx, http.MethodPost, c.trafficURL+"/auth/signup", "",
		map[string]string{"username": username, "password": password}, &user)
	return user, err
}

// Login posts form-encoded credentials and returns the bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.trafficURL+"/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token Token
	if err := c.send(req, &token); err != nil {
		return Token{}, err
	}
	return token, nil
}

func (c *Client) Me(ctx context.Context, token string) (User, error) {
	var user User
	err := c.doJSON(ctx, http.MethodGet, c.trafficURL+"/users/me", token, nil, &user)
	return user, err
}

func (c *Client) ListZones(ctx context.Context, token string) ([]Zone, error) {
	var zones []Zone
	err := c.doJSON(ctx, http.MethodGet, c.trafficURL+"/zones/", token, nil, &zones)
	return zones, err
}

func (c *Client) GetZone(ctx context.Context, token string, id int64) (Zone, error) {
	var zone Zone
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s/zones/%d", c.trafficURL, id), token, nil, &zone)
	return zone, err
}

func (c *Client) CreateZone(ctx context.Context, token string, in ZoneInput) (Zone, error) {
	var zone Zone
	err := c.doJSON(ctx, http.MethodPost, c.trafficURL+"/zones/", token, in, &zone)
	return zone, err
}

func (c *Client) UpdateZone(ctx context.Context, token string, id int64, in ZoneInput) (Zone, error) {
	var zone Zone
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/zones/%d", c.trafficURL, id), token, in, &zone)
	return zone, err
}

func (c *Client) DeleteZone(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/zones/%d", c.trafficURL, id), token, nil, nil)
}

func (c *Client) ListIncidents(ctx context.Context, token string) ([]Incident, error) {
	var incidents []Incident
	err := c.doJSON(ctx, http.MethodGet, c.incidentURL+"/incidents/", token, nil, &incidents)
	return incidents, err
}

func (c *Client) GetIncident(ctx context.Context, token string, id int64) (Incident, error) {
	var incident Incident
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s/incidents/%d", c.incidentURL, id), token, nil, &incident)
	return incident, err
}

func (c *Client) ReportIncident(ctx context.Context, token string, in IncidentInput) (Incident, error) {
	var incident Incident
	err := c.doJSON(ctx, http.MethodPost, c.incidentURL+"/report", token, in, &incident)
	return incident, err
}

func (c *Client) UpdateIncident(ctx context.Context, token string, id int64, in IncidentInput) (Incident, error) {
	var incident Incident
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/incidents/%d", c.incidentURL, id), token, in, &incident)
	return incident, err
}

func (c *Client) DeleteIncident(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/incidents/%d", c.incidentURL, id), token, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, rawURL, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, out)
}

// send executes the request and decodes the response. A transport failure
// always produces a non-nil error before the response is touched, so a nil
// *http.Response is never dereferenced.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Detail: decodeDetail(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeDetail(body io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Detail == "" {
		return "request failed"
	}
	return payload.Detail
}
