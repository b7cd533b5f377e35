package httputil

import (
	"net/http"
	"time"

	"github.com/go-logr/logr"
)

// ClientOption configures a Client.
type ClientOption interface {
	Apply(*Client)
}

// ClientOptionFunc is a function that configures a Client.
type ClientOptionFunc func(*Client)

// Apply calls f(client).
func (f ClientOptionFunc) Apply(c *Client) {
	f(c)
}

// WithHTTPClient replaces the underlying http client.
func WithHTTPClient(client *http.Client) ClientOption {
	return ClientOptionFunc(func(c *Client) {
		if client != nil {
			c.client = client
		}
	})
}

// WithTimeout sets a bounded timeout on a copy of the underlying http client.
func WithTimeout(d time.Duration) ClientOption {
	return ClientOptionFunc(func(c *Client) {
		client := *c.client
		client.Timeout = d
		c.client = &client
	})
}

// WithDefaultHeader adds a header sent with every request.
func WithDefaultHeader(key, value string) ClientOption {
	return ClientOptionFunc(func(c *Client) {
		if value != "" {
			c.headers.Set(key, value)
		}
	})
}

// WithUserAgent sets the User-Agent of every request.
func WithUserAgent(value string) ClientOption {
	return WithDefaultHeader("User-Agent", value)
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(log logr.Logger) ClientOption {
	return ClientOptionFunc(func(c *Client) {
		c.log = log
	})
}

// WithDebug logs response bodies at info level.
func WithDebug(debug bool) ClientOption {
	return ClientOptionFunc(func(c *Client) {
		c.debug = debug
	})
}

// WithMaxBodySize bounds how many bytes of a response body are read.
func WithMaxBodySize(n int64) ClientOption {
	return ClientOptionFunc(func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	})
}

// RequestOption configures a single request.
type RequestOption interface {
	Apply(*http.Request)
}

// RequestOptionFunc is a function that configures a request.
type RequestOptionFunc func(*http.Request)

// Apply calls f(req).
func (f RequestOptionFunc) Apply(req *http.Request) {
	f(req)
}

// Header sets a request header.
func Header(key, value string) RequestOption {
	return RequestOptionFunc(func(req *http.Request) {
		req.Header.Set(key, value)
	})
}

// Query sets a query parameter. Values are URL-encoded.
func Query(key, value string) RequestOption {
	return RequestOptionFunc(func(req *http.Request) {
		q := req.URL.Query()
		q.Set(key, value)
		req.URL.RawQuery = q.Encode()
	})
}
