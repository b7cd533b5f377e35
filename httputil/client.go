// Copyright (c) 2023 Enver Bisevac
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-logr/logr"
)

// DefaultMaxBodySize bounds how much of a response body is read.
const DefaultMaxBodySize = 1 << 20

type Client struct {
	client      *http.Client
	base        string
	headers     http.Header
	maxBodySize int64
	log         logr.Logger
	debug       bool
}

// Response is the status and body of a completed request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func NewClient(uri string, options ...ClientOption) *Client {
	c := &Client{
		client:      http.DefaultClient,
		base:        uri,
		headers:     make(http.Header),
		maxBodySize: DefaultMaxBodySize,
		log:         logr.Discard(),
		debug:       false,
	}

	for _, opt := range options {
		opt.Apply(c)
	}

	return c
}

// SetClient sets the default http client.
func (c *Client) SetClient(client *http.Client) {
	c.client = client
}

// SetDebug sets the debug flag. When the debug flag is
// true, response bodies are logged at info level instead of V(1),
// which can be helpful when debugging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Base returns the base URL requests are resolved against.
func (c *Client) Base() string {
	return c.base
}

// Get issues an http GET request and returns status and body.
func (c *Client) Get(ctx context.Context, rawurl string, options ...RequestOption) (*Response, error) {
	return c.do(ctx, rawurl, http.MethodGet, nil, options...)
}

// GetJSON issues an http GET request and decodes the json body into out.
func (c *Client) GetJSON(ctx context.Context, rawurl string, out any, options ...RequestOption) error {
	resp, err := c.Get(ctx, rawurl, options...)
	if err != nil {
		return err
	}
	return json.Unmarshal(resp.Body, out)
}

// helper function to make an http request.
func (c *Client) do(ctx context.Context, rawurl, method string, in any, options ...RequestOption) (*Response, error) {
	// executes the http request and returns the body as
	// and io.ReadCloser
	resp, err := c.stream(ctx, rawurl, method, in, options...)
	if err != nil {
		return nil, err
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, err
	}

	c.logBody(ctx, method, resp.Request.URL, resp.StatusCode, body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, ErrorResponse{
			Status:  resp.StatusCode,
			Payload: string(body),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// helper function to stream a http request.
func (c *Client) stream(ctx context.Context, rawurl, method string, in any, options ...RequestOption) (*http.Response, error) {
	uri, err := url.JoinPath(c.base, rawurl)
	if err != nil {
		return nil, err
	}

	// if we are posting or putting data, we need to
	// write it to the body of the request.
	var buf io.ReadWriter
	if in != nil {
		buf = &bytes.Buffer{}
		if err = json.NewEncoder(buf).Encode(in); err != nil {
			return nil, err
		}
	}

	// creates a new http request.
	req, err := http.NewRequestWithContext(ctx, method, uri, buf)
	if err != nil {
		return nil, err
	}

	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	for _, opt := range options {
		opt.Apply(req)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// send the http request.
	return c.client.Do(req)
}

func (c *Client) logBody(ctx context.Context, method string, u *url.URL, status int, body []byte) {
	log := c.log
	if fromCtx, err := logr.FromContext(ctx); err == nil {
		log = fromCtx
	}
	if !c.debug {
		log = log.V(1)
	}
	log.Info("http response", "method", method, "path", u.Path, "status", status, "body", string(body))
}

type ErrorResponse struct {
	Status  int
	Payload string
}

func (r ErrorResponse) Error() string {
	return fmt.Sprintf("error occurred with status code %d and payload %s", r.Status, r.Payload)
}
