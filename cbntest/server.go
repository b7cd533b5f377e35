// Package cbntest runs an in-process fake of the LED matrix service for tests
// and demos.
package cbntest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"time"

	"github.com/enverbisevac/cbn/colour"
	"github.com/enverbisevac/cbn/httputil"
	"github.com/enverbisevac/cbn/lock"
	"github.com/enverbisevac/cbn/lock/inmem"
	"github.com/enverbisevac/cbn/openapi"
	"github.com/enverbisevac/cbn/optional"
	"github.com/enverbisevac/cbn/pubsub"
	events "github.com/enverbisevac/cbn/pubsub/inmem"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Submission status codes of the fake service.
const (
	StatusAccepted       uint = 1
	StatusInvalidLock    uint = 2
	StatusInvalidColours uint = 3
)

// Server is a running fake service.
type Server struct {
	*httptest.Server

	config Config
	device *inmem.Device
	events *events.PubSub

	mu           sync.Mutex
	state        *colour.State
	lockRequests int
	submissions  int
	headers      []http.Header
}

// NewServer starts a fake service. Call Close when done.
func NewServer(options ...Option) *Server {
	config := Config{
		MaxTime: 30 * time.Second,
	}
	for _, opt := range options {
		opt.Apply(&config)
	}

	device := config.device
	if device == nil {
		device = inmem.New(inmem.WithTTL(config.MaxTime))
	}

	s := &Server{
		config: config,
		device: device,
		events: events.New(events.WithSendTimeout(100 * time.Millisecond)),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))
	r.Use(s.record)
	r.Use(s.delay)

	r.Get(path.Join("/", s.config.Prefix, lockPath), s.handleRequestLock)
	r.Get(path.Join("/", s.config.Prefix, submitPath), s.handleSetColours)
	r.Method(http.MethodGet, path.Join("/", s.config.Prefix, "openapi.json"), openapi.Handler(s.config.Prefix))
	return r
}

const (
	lockPath   = "requestLock"
	submitPath = "setColours"
)

// BaseURL returns the base URL clients should use.
func (s *Server) BaseURL() string {
	return s.Server.URL + path.Join("/", s.config.Prefix)
}

// Close shuts the server down and closes every event subscription.
func (s *Server) Close() {
	s.Server.Close()
	_ = s.events.Close(context.Background())
}

// Events subscribes to device events on topics. Events are delivered while
// the consumer is open.
func (s *Server) Events(ctx context.Context, topics ...pubsub.Topic) (pubsub.Consumer, <-chan pubsub.Event) {
	return s.events.SubscribeChan(ctx, topics...)
}

// Device returns the device lock backing the service.
func (s *Server) Device() *inmem.Device {
	return s.device
}

// State returns the last accepted colour state.
func (s *Server) State() (colour.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return colour.State{}, false
	}
	return *s.state, true
}

// LockRequests returns how many lock requests were served.
func (s *Server) LockRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockRequests
}

// Submissions returns how many submissions were served.
func (s *Server) Submissions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submissions
}

// Headers returns the headers of every request received, in order.
func (s *Server) Headers() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]http.Header(nil), s.headers...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.headers = append(s.headers, r.Header.Clone())
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.Delay > 0 {
			t := time.NewTimer(s.config.Delay)
			defer t.Stop()
			select {
			case <-r.Context().Done():
				return
			case <-t.C:
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRequestLock(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.lockRequests++
	s.mu.Unlock()

	if s.config.LockResponse != nil {
		s.writeRaw(w, s.config.LockResponse)
		return
	}

	token, ok, err := s.device.TryAcquire(r.Context())
	if err != nil {
		return
	}
	if !ok {
		s.publish(r, pubsub.Event{Topic: pubsub.TopicLock, Kind: pubsub.KindBusy, Code: lock.StatusBusy})
		s.writeEnvelope(w, lock.Envelope{
			Status: &lock.Status{Code: lock.StatusBusy, Description: "device is locked"},
		})
		return
	}

	s.publish(r, pubsub.Event{Topic: pubsub.TopicLock, Kind: pubsub.KindGranted, Token: token, Code: lock.StatusGranted})

	s.writeEnvelope(w, lock.Envelope{
		Status:  &lock.Status{Code: lock.StatusGranted, Description: "lock granted"},
		Hash:    optional.New(token),
		MaxTime: optional.New(s.device.TTL().Seconds()),
	})
}

func (s *Server) handleSetColours(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.submissions++
	s.mu.Unlock()

	if s.config.SubmitResponse != nil {
		s.writeRaw(w, s.config.SubmitResponse)
		return
	}

	hash := httputil.QueryParamOrDefault(r, "hash", "")
	if err := s.device.Check(hash); err != nil {
		s.reject(w, r, hash, StatusInvalidLock, err)
		return
	}

	raw, err := httputil.QueryParam[string](r, "colours")
	if err != nil {
		s.reject(w, r, hash, StatusInvalidColours, err)
		return
	}
	state, err := colour.Decode(raw)
	if err != nil {
		s.reject(w, r, hash, StatusInvalidColours, err)
		return
	}

	s.mu.Lock()
	s.state = &state
	s.mu.Unlock()

	if !s.config.KeepLock {
		_ = s.device.Release(hash)
	}

	s.publish(r, pubsub.Event{Topic: pubsub.TopicColours, Kind: pubsub.KindAccepted, Token: hash, Code: StatusAccepted, State: &state})
	s.writeEnvelope(w, lock.Envelope{
		Status: &lock.Status{Code: StatusAccepted, Description: "colours set"},
	})
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, hash string, code uint, err error) {
	s.publish(r, pubsub.Event{Topic: pubsub.TopicColours, Kind: pubsub.KindRejected, Token: hash, Code: code})
	s.writeEnvelope(w, lock.Envelope{
		Status: &lock.Status{Code: code, Description: err.Error()},
	})
}

func (s *Server) publish(r *http.Request, e pubsub.Event) {
	_ = s.events.Publish(r.Context(), e)
}

func (s *Server) writeEnvelope(w http.ResponseWriter, env lock.Envelope) {
	w.WriteHeader(s.status())
	_ = json.NewEncoder(w).Encode(env)
}

func (s *Server) writeRaw(w http.ResponseWriter, body []byte) {
	w.WriteHeader(s.status())
	_, _ = w.Write(body)
}

func (s *Server) status() int {
	if s.config.HTTPStatus != 0 {
		return s.config.HTTPStatus
	}
	return http.StatusOK
}
