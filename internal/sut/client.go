// Copyright 2026 nerdsane
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sut is the harness's only boundary with the live service: it issues
// (method, path, body) requests against a configured base address and hands
// back (status code, JSON body). No per-request timeout is set; slow responses
// under fault injection must not spuriously fail a run.
package sut

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/nerdsane/deep-sci-fi-sub003/pkg/metrics"
)

// Response is what every live-service call reduces to.
type Response struct {
	Status int
	Body   json.RawMessage
}

// OK reports a 2xx status.
func (r Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// ServerError reports a 5xx status.
func (r Response) ServerError() bool { return r.Status >= 500 }

// Decode unmarshals the body into out.
func (r Response) Decode(out any) error {
	return json.Unmarshal(r.Body, out)
}

// Client wraps resty for the live service.
type Client struct {
	rc      *resty.Client
	limiter *rate.Limiter
}

// NewClient builds a client for baseURL. rateRPS <= 0 disables the client-side
// request cap.
func NewClient(baseURL string, rateRPS float64) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(0).
		SetHeader("Content-Type", "application/json")
	var limiter *rate.Limiter
	if rateRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateRPS), 1)
	}
	return &Client{rc: rc, limiter: limiter}
}

// Do issues one request. headers may be nil; body may be nil for GET/DELETE.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers map[string]string) (Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Response{}, err
		}
	}
	start := time.Now()
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	for k, v := range headers {
		req.SetHeader(k, v)
	}
	resp, err := req.Execute(method, path)
	metrics.SUTRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		return Response{}, err
	}
	return Response{Status: resp.StatusCode(), Body: resp.Body()}, nil
}

// Get issues a GET.
func (c *Client) Get(ctx context.Context, path string) (Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, nil)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, nil)
}

// PostIdempotent issues a POST carrying an Idempotency-Key header.
func (c *Client) PostIdempotent(ctx context.Context, path string, body any, key string) (Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, map[string]string{"Idempotency-Key": key})
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) (Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}
