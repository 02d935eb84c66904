package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(trafficURL, incidentURL string) *Client {
	return New(trafficURL, incidentURL, 2*time.Second)
}

func TestListZones(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/zones/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "name": "Downtown", "vehicle_count": 42}]`))
	}))
	defer srv.Close()

	zones, err := newTestClient(srv.URL, srv.URL).ListZones(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(zones) != 1 || zones[0].Name != "Downtown" || zones[0].VehicleCount != 42 {
		t.Errorf("unexpected zones: %+v", zones)
	}
}

func TestLogin_SendsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("form parse failed: %v", err)
		}
		if r.PostFormValue("username") != "alice" || r.PostFormValue("password") != "password123" {
			t.Errorf("unexpected form values: %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "tok-123", "token_type": "bearer"}`))
	}))
	defer srv.Close()

	token, err := newTestClient(srv.URL, srv.URL).Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token.AccessToken != "tok-123" {
		t.Errorf("unexpected token: %+v", token)
	}
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		http.Error(w, `{"detail": "Could not validate credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, srv.URL).ListZones(context.Background(), "stale")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Username already registered"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, srv.URL).Signup(context.Background(), "alice", "password123")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "Username already registered" {
		t.Errorf("unexpected detail %q", apiErr.Detail)
	}
}

// An unreachable service must surface as an error value, never as a nil
// response waiting to be dereferenced.
func TestTransportFailureReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(srv.URL, srv.URL)

	if _, err := c.ListZones(context.Background(), "tok"); err == nil {
		t.Fatal("expected error for unreachable traffic service")
	}
	if _, err := c.ListIncidents(context.Background(), "tok"); err == nil {
		t.Fatal("expected error for unreachable incident service")
	}
	if _, err := c.Login(context.Background(), "alice", "password123"); err == nil {
		t.Fatal("expected error for unreachable login endpoint")
	}
}

func TestDeleteZone_NoBodyExpected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "Traffic Zone with id 7 deleted"}`))
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL, srv.URL).DeleteZone(context.Background(), "tok", 7); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
