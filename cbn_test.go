package cbn_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/enverbisevac/cbn"
	"github.com/enverbisevac/cbn/cbntest"
	"github.com/enverbisevac/cbn/colour"
	"github.com/enverbisevac/cbn/errors"
	"github.com/enverbisevac/cbn/httputil"
	"github.com/enverbisevac/cbn/lock"
	"github.com/enverbisevac/cbn/lock/inmem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newClient(t *testing.T, srv *cbntest.Server, options ...cbn.Option) *cbn.Client {
	t.Helper()

	client, err := cbn.New(srv.BaseURL(), options...)
	require.NoError(t, err)
	return client
}

func TestAcquireGranted(t *testing.T) {
	srv := cbntest.NewServer(cbntest.WithPrefix("/cbn-live"), cbntest.WithMaxTime(45*time.Second))
	defer srv.Close()

	client := newClient(t, srv)

	l, err := client.Acquire(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, l.Token)
	assert.NoError(t, srv.Device().Check(l.Token))

	ttl, ok := l.TTL()
	assert.True(t, ok)
	assert.Equal(t, 45*time.Second, ttl)

	headers := srv.Headers()
	require.Len(t, headers, 1)
	assert.Equal(t, "application/json", headers[0].Get("Accept"))
	assert.Equal(t, "sv-SE", headers[0].Get("Accept-Language"))
	assert.Equal(t, cbn.DefaultUserAgent, headers[0].Get("User-Agent"))

	_, err = uuid.Parse(headers[0].Get(cbn.RequestIDHeader))
	assert.NoError(t, err)
}

func TestAcquireLanguage(t *testing.T) {
	srv := cbntest.NewServer()
	defer srv.Close()

	client := newClient(t, srv, cbn.WithLanguage(language.BritishEnglish), cbn.WithUserAgent("painter/1.0"))

	_, err := client.Acquire(context.Background())
	require.NoError(t, err)

	headers := srv.Headers()
	require.Len(t, headers, 1)
	assert.Equal(t, "en-GB", headers[0].Get("Accept-Language"))
	assert.Equal(t, "painter/1.0", headers[0].Get("User-Agent"))
}

func TestAcquireBusy(t *testing.T) {
	srv := cbntest.NewServer()
	defer srv.Close()

	_, ok, err := srv.Device().TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = newClient(t, srv).Acquire(context.Background())
	require.Error(t, err)

	assert.True(t, errors.IsBusy(err))
	assert.Equal(t, errors.OpAcquire, errors.AsOp(err))
	assert.Equal(t, 1, srv.LockRequests(), "busy must not be retried")
}

func TestAcquireFailures(t *testing.T) {
	tests := []struct {
		name    string
		options []cbntest.Option
		check   func(error) bool
	}{
		{
			name:    "hash missing",
			options: []cbntest.Option{cbntest.WithLockResponse(`{"status":{"code":1,"description":"ok"}}`)},
			check:   errors.IsProtocolViolation,
		},
		{
			name:    "unknown status",
			options: []cbntest.Option{cbntest.WithLockResponse(`{"status":{"code":3,"description":"?"}}`)},
			check:   errors.IsUnknownStatus,
		},
		{
			name:    "truncated body",
			options: []cbntest.Option{cbntest.WithLockResponse(`{"status":{"co`)},
			check:   errors.IsMalformedResponse,
		},
		{
			name:    "server error",
			options: []cbntest.Option{cbntest.WithHTTPStatus(http.StatusBadGateway)},
			check:   errors.IsTransport,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := cbntest.NewServer(tt.options...)
			defer srv.Close()

			l, err := newClient(t, srv).Acquire(context.Background())
			require.Error(t, err)

			assert.True(t, tt.check(err), "unexpected code %s: %v", errors.AsCode(err), err)
			assert.Equal(t, errors.OpAcquire, errors.AsOp(err))
			assert.Equal(t, lock.Lock{}, l)
			assert.Equal(t, 1, srv.LockRequests())
		})
	}
}

func TestAcquireTimeout(t *testing.T) {
	srv := cbntest.NewServer(cbntest.WithDelay(2 * time.Second))
	defer srv.Close()

	_, err := newClient(t, srv, cbn.WithTimeout(50*time.Millisecond)).Acquire(context.Background())
	require.Error(t, err)

	assert.True(t, errors.IsTimeout(err), "unexpected code %s: %v", errors.AsCode(err), err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestAcquireConnectionRefused(t *testing.T) {
	srv := cbntest.NewServer()
	base := srv.BaseURL()
	srv.Close()

	client, err := cbn.New(base)
	require.NoError(t, err)

	_, err = client.Acquire(context.Background())
	require.Error(t, err)

	assert.True(t, errors.IsTransport(err), "unexpected code %s: %v", errors.AsCode(err), err)
	assert.NotNil(t, errors.Source(err))
}

func TestSubmitAccepted(t *testing.T) {
	srv := cbntest.NewServer()
	defer srv.Close()

	client := newClient(t, srv)

	var state colour.State
	for i := range state {
		state[i] = colour.RGB(uint8(i*25), 127, 255-uint8(i))
	}
	sent := state

	l, err := client.Acquire(context.Background())
	require.NoError(t, err)

	require.NoError(t, client.Submit(context.Background(), l, state))

	assert.Equal(t, sent, state, "submit must not mutate the state")

	got, ok := srv.State()
	require.True(t, ok)
	assert.Equal(t, state, got)

	headers := srv.Headers()
	require.Len(t, headers, 2)
	assert.Equal(t, "application/json", headers[1].Get("Accept"))
}

func TestSubmitRejected(t *testing.T) {
	srv := cbntest.NewServer()
	defer srv.Close()

	client := newClient(t, srv)

	err := client.Submit(context.Background(), lock.Lock{Token: "not-a-token"}, colour.Uniform(colour.Blue))
	require.Error(t, err)

	assert.True(t, errors.IsRejected(err))
	assert.False(t, errors.IsTransport(err))
	assert.Equal(t, errors.OpSubmit, errors.AsOp(err))

	resp := errors.Detail[errors.Response](err)
	require.NotNil(t, resp)
	assert.Equal(t, cbntest.StatusInvalidLock, resp.Code)

	_, ok := srv.State()
	assert.False(t, ok)
}

func TestSubmitExpiredLock(t *testing.T) {
	srv := cbntest.NewServer(cbntest.WithMaxTime(20 * time.Millisecond))
	defer srv.Close()

	client := newClient(t, srv)

	l, err := client.Acquire(context.Background())
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	err = client.Submit(context.Background(), l, colour.Uniform(colour.Green))
	require.Error(t, err)
	assert.True(t, errors.IsRejected(err))
}

func TestSubmitMalformedResponse(t *testing.T) {
	srv := cbntest.NewServer(cbntest.WithSubmitResponse("OK"))
	defer srv.Close()

	client := newClient(t, srv)

	l, err := client.Acquire(context.Background())
	require.NoError(t, err)

	err = client.Submit(context.Background(), l, colour.Uniform(colour.White))
	require.Error(t, err)

	assert.True(t, errors.IsMalformedResponse(err))
	assert.Equal(t, errors.OpSubmit, errors.AsOp(err))

	resp := errors.Detail[errors.Response](err)
	require.NotNil(t, resp)
	assert.Equal(t, []byte("OK"), resp.Body)
}

func TestSubmitTimeout(t *testing.T) {
	srv := cbntest.NewServer(cbntest.WithDelay(2 * time.Second))
	defer srv.Close()

	client := newClient(t, srv, cbn.WithTimeout(50*time.Millisecond))

	err := client.Submit(context.Background(), lock.Lock{Token: "t"}, colour.Uniform(colour.Red))
	require.Error(t, err)

	assert.True(t, errors.IsTimeout(err))
	assert.Equal(t, errors.OpSubmit, errors.AsOp(err))
}

func TestPaint(t *testing.T) {
	srv := cbntest.NewServer()
	defer srv.Close()

	client := newClient(t, srv)

	l, err := client.Paint(context.Background(), colour.Uniform(colour.Red))
	require.NoError(t, err)
	assert.NotEmpty(t, l.Token)

	got, ok := srv.State()
	require.True(t, ok)
	assert.Equal(t, colour.Uniform(colour.Red), got)

	assert.Equal(t, 1, srv.LockRequests())
	assert.Equal(t, 1, srv.Submissions())
}

func TestPaintBusy(t *testing.T) {
	srv := cbntest.NewServer(cbntest.WithLockResponse(`{"status":{"code":0,"description":"busy"}}`))
	defer srv.Close()

	_, err := newClient(t, srv).Paint(context.Background(), colour.Uniform(colour.Red))
	require.Error(t, err)

	assert.True(t, errors.IsBusy(err))
	assert.Equal(t, 0, srv.Submissions())
}

func TestAcquireRetry(t *testing.T) {
	device := inmem.New(inmem.WithTTL(100 * time.Millisecond))
	srv := cbntest.NewServer(cbntest.WithDevice(device))
	defer srv.Close()

	_, ok, err := device.TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	l, err := newClient(t, srv).AcquireRetry(context.Background(), 50, 20*time.Millisecond)
	require.NoError(t, err)

	assert.NotEmpty(t, l.Token)
	assert.Greater(t, srv.LockRequests(), 1)
}

func TestAcquireRetryExhausted(t *testing.T) {
	device := inmem.New(inmem.WithTTL(0))
	srv := cbntest.NewServer(cbntest.WithDevice(device))
	defer srv.Close()

	_, _, err := device.TryAcquire(context.Background())
	require.NoError(t, err)

	_, err = newClient(t, srv).AcquireRetry(context.Background(), 3, time.Millisecond)
	require.Error(t, err)

	assert.True(t, errors.IsBusy(err))
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, srv.LockRequests())
}

func TestAcquireRetryStopsOnOtherErrors(t *testing.T) {
	srv := cbntest.NewServer(cbntest.WithLockResponse(`not json`))
	defer srv.Close()

	_, err := newClient(t, srv).AcquireRetry(context.Background(), 5, time.Millisecond)
	require.Error(t, err)

	assert.True(t, errors.IsMalformedResponse(err))
	assert.Equal(t, 1, srv.LockRequests())
}

func TestAcquireRetryCancelled(t *testing.T) {
	srv := cbntest.NewServer(cbntest.WithLockResponse(`{"status":{"code":0,"description":"busy"}}`))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(t, srv).AcquireRetry(ctx, 1000, time.Second)
	require.Error(t, err)

	assert.True(t, errors.IsBusy(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		options []cbn.Option
	}{
		{name: "relative url", baseURL: "/cbn-live"},
		{name: "bad scheme", baseURL: "ftp://example.com"},
		{name: "zero timeout", baseURL: "http://example.com", options: []cbn.Option{cbn.WithTimeout(0)}},
		{name: "undefined language", baseURL: "http://example.com", options: []cbn.Option{cbn.WithLanguage(language.Und)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cbn.New(tt.baseURL, tt.options...)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}

func TestNewDefaults(t *testing.T) {
	client, err := cbn.New("")
	require.NoError(t, err)

	config := client.Config()
	assert.Equal(t, cbn.DefaultBaseURL, config.BaseURL)
	assert.Equal(t, cbn.DefaultTimeout, config.Timeout)
	assert.Equal(t, cbn.DefaultLanguage, config.Language)
}

// recordingTransport captures requests without a network.
type recordingTransport struct {
	reqs []*http.Request
	body string
}

func (r *recordingTransport) Get(ctx context.Context, rawurl string, options ...httputil.RequestOption) (*httputil.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://device.test/"+rawurl, nil)
	if err != nil {
		return nil, err
	}
	for _, opt := range options {
		opt.Apply(req)
	}
	r.reqs = append(r.reqs, req)
	return &httputil.Response{StatusCode: http.StatusOK, Body: []byte(r.body)}, nil
}

func TestSubmitterQuery(t *testing.T) {
	transport := &recordingTransport{body: `{"status":{"code":1,"description":"ok"}}`}
	submitter := cbn.NewSubmitter(transport)

	state := colour.Uniform(colour.RGB(255, 0, 0))
	require.NoError(t, submitter.Submit(context.Background(), lock.Lock{Token: "a+b/c=="}, state))

	require.Len(t, transport.reqs, 1)
	req := transport.reqs[0]

	assert.Equal(t, "/setColours", req.URL.Path)

	query := req.URL.Query()
	assert.Len(t, query, 2)
	assert.Equal(t, "a+b/c==", query.Get("hash"))
	assert.Equal(t, colour.Encode(state), query.Get("colours"))

	assert.Equal(t, "application/json", req.Header.Get("Accept"))
}

func TestAcquirerHeaders(t *testing.T) {
	transport := &recordingTransport{body: `{"status":{"code":1,"description":"ok"},"hash":"abc123"}`}
	acquirer := cbn.NewAcquirer(transport)

	l, err := acquirer.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lock.Lock{Token: "abc123"}, l)

	require.Len(t, transport.reqs, 1)
	req := transport.reqs[0]

	assert.Equal(t, "/requestLock", req.URL.Path)
	assert.Empty(t, req.URL.RawQuery)
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "sv-SE", req.Header.Get("Accept-Language"))
	assert.Equal(t, "keep-alive", req.Header.Get("Connection"))
}

func TestSubmitRequest(t *testing.T) {
	req := cbn.NewSubmitRequest(lock.Lock{Token: "abc"}, colour.Uniform(colour.Black))

	values := req.Values()
	assert.Equal(t, "abc", values.Get("hash"))
	assert.Equal(t, colour.Encode(colour.Uniform(colour.Black)), values.Get("colours"))

	decoded, err := colour.Decode(values.Get("colours"))
	require.NoError(t, err)
	assert.Equal(t, colour.Uniform(colour.Black), decoded)
}
