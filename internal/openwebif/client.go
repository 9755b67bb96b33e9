// SPDX-License-Identifier: MIT

// Package openwebif is a client for the Enigma2 OpenWebif /web XML API.
package openwebif

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Service is one entry of a getservices or getcurrent response. The
// reference is kept byte-identical to what the receiver returned; it is only
// percent-encoded at transport boundaries.
type Service struct {
	Name string `xml:"e2servicename" json:"name"`
	Ref  string `xml:"e2servicereference" json:"ref"`
}

// About describes a receiver as reported by /web/about.
type About struct {
	ServiceName   string `xml:"e2servicename" json:"serviceName"`
	Provider      string `xml:"e2serviceprovider" json:"provider"`
	Model         string `xml:"e2model" json:"model"`
	ImageVersion  string `xml:"e2imageversion" json:"firmwareVersion"`
	EnigmaVersion string `xml:"e2enigmaversion" json:"enigmaVersion"`
	WebifVersion  string `xml:"e2webifversion" json:"webifVersion"`
}

type serviceList struct {
	Services []Service `xml:"e2service"`
}

type currentEnvelope struct {
	Service Service `xml:"e2service"`
}

type aboutEnvelope struct {
	About About `xml:"e2about"`
}

// Options configures client behavior.
type Options struct {
	Timeout        time.Duration
	UserAgent      string
	RateLimit      rate.Limit
	RateLimitBurst int
}

const (
	defaultTimeout        = 10 * time.Second
	defaultRateLimit      = 10
	defaultRateLimitBurst = 20
)

// Client issues single-attempt requests against one receiver base URL.
// Receivers are assumed on a trusted LAN: no auth, no retries, no redirects
// beyond the transport defaults.
type Client struct {
	base      string
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// New creates a client for the given receiver base URL.
func New(base string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = defaultRateLimitBurst
	}
	return &Client{
		base:      strings.TrimRight(strings.TrimSpace(base), "/"),
		http:      &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(opts.RateLimit, opts.RateLimitBurst),
		userAgent: opts.UserAgent,
	}
}

// Base returns the normalized receiver base URL.
func (c *Client) Base() string { return c.base }

// Services fetches a service listing. sRef may be empty (top-level bouquet
// list) or a filter query / bouquet reference, which is percent-encoded such
// that the receiver decodes the byte-identical string.
func (c *Client) Services(ctx context.Context, sRef string) ([]Service, error) {
	u := c.base + "/web/getservices"
	if sRef != "" {
		u += "?sRef=" + url.QueryEscape(sRef)
	}
	var list serviceList
	if err := c.getXML(ctx, "getservices", u, &list); err != nil {
		return nil, err
	}
	return list.Services, nil
}

// About fetches receiver identity and firmware information.
func (c *Client) About(ctx context.Context) (*About, error) {
	var env aboutEnvelope
	if err := c.getXML(ctx, "about", c.base+"/web/about", &env); err != nil {
		return nil, err
	}
	return &env.About, nil
}

// Current fetches the service the receiver is currently tuned to.
func (c *Client) Current(ctx context.Context) (*Service, error) {
	var env currentEnvelope
	if err := c.getXML(ctx, "getcurrent", c.base+"/web/getcurrent", &env); err != nil {
		return nil, err
	}
	return &env.Service, nil
}

// Zap commands the receiver to switch its live tuner to ref. The
// acknowledgement body is discarded; callers treat zap as best-effort.
func (c *Client) Zap(ctx context.Context, ref string) error {
	u := c.base + "/web/zap?sRef=" + url.QueryEscape(ref)
	res, err := c.do(ctx, "zap", u)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
	return nil
}

// ScreenshotURL returns the /grab URL for a JPEG screenshot of the given
// height. The bytes are opaque to this package; the UI fetches them itself.
func (c *Client) ScreenshotURL(height int) string {
	return fmt.Sprintf("%s/grab?format=jpg&r=%d", c.base, height)
}

func (c *Client) getXML(ctx context.Context, op, u string, v any) error {
	res, err := c.do(ctx, op, u)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if err := xml.NewDecoder(res.Body).Decode(v); err != nil {
		return &APIError{Sentinel: ErrBadResponse, Operation: op, Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, u string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Sentinel: ErrTimeout, Operation: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &APIError{Sentinel: ErrUnavailable, Operation: op, Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	res, err := c.http.Do(req)
	if err != nil {
		sentinel := ErrUnavailable
		if ctx.Err() != nil {
			sentinel = ErrTimeout
		}
		return nil, &APIError{Sentinel: sentinel, Operation: op, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		_ = res.Body.Close()
		return nil, &APIError{Sentinel: ErrBadStatus, Operation: op, Status: res.StatusCode}
	}
	return res, nil
}
