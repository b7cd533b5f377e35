package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientGet(t *testing.T) {
	reqs := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs <- r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":{"code":1,"description":"ok"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/cbn-live",
		WithUserAgent("CBN/4.2.5 CFNetwork/1"),
		WithDefaultHeader("Accept-Language", "sv-SE"),
	)

	resp, err := c.Get(context.Background(), "setColours",
		Header("Accept", "application/json"),
		Query("hash", "a b&c"),
		Query("colours", `{"0":[1,2,3]}`),
	)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"status":{"code":1,"description":"ok"}}` {
		t.Errorf("unexpected body %s", resp.Body)
	}

	got := <-reqs
	if got.URL.Path != "/cbn-live/setColours" {
		t.Errorf("expected path /cbn-live/setColours, got %s", got.URL.Path)
	}
	if v := got.URL.Query().Get("hash"); v != "a b&c" {
		t.Errorf("expected hash %q, got %q", "a b&c", v)
	}
	if v := got.URL.Query().Get("colours"); v != `{"0":[1,2,3]}` {
		t.Errorf("expected colours %q, got %q", `{"0":[1,2,3]}`, v)
	}
	if strings.Contains(got.URL.RawQuery, "{") {
		t.Errorf("expected encoded query, got %s", got.URL.RawQuery)
	}
	if v := got.Header.Get("Accept"); v != "application/json" {
		t.Errorf("expected Accept header, got %q", v)
	}
	if v := got.Header.Get("Accept-Language"); v != "sv-SE" {
		t.Errorf("expected Accept-Language header, got %q", v)
	}
	if v := got.UserAgent(); v != "CBN/4.2.5 CFNetwork/1" {
		t.Errorf("expected user agent, got %q", v)
	}
}

func TestClientGetErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	_, err := c.Get(context.Background(), "requestLock")

	var er ErrorResponse
	if !errors.As(err, &er) {
		t.Fatalf("expected ErrorResponse, got %T: %v", err, err)
	}
	if er.Status != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", er.Status)
	}
	if !strings.Contains(er.Payload, "down for maintenance") {
		t.Errorf("unexpected payload %q", er.Payload)
	}
}

func TestClientGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hash":"abc"}`))
	}))
	defer srv.Close()

	var out struct {
		Hash string `json:"hash"`
	}
	if err := NewClient(srv.URL).GetJSON(context.Background(), "requestLock", &out); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if out.Hash != "abc" {
		t.Errorf("expected hash abc, got %q", out.Hash)
	}
}

func TestClientMaxBodySize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, WithMaxBodySize(10)).Get(context.Background(), "")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(resp.Body) != 10 {
		t.Errorf("expected 10 bytes, got %d", len(resp.Body))
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, WithTimeout(50*time.Millisecond)).Get(context.Background(), "")
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var te interface{ Timeout() bool }
	if !errors.As(err, &te) || !te.Timeout() {
		t.Errorf("expected timeout error, got %v", err)
	}
}
