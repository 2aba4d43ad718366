// Package fetch wraps the HTTP client every scraper shares: rotating browser
// headers, per-host rate limiting and status classification.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"h1bhunt-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// ErrBlocked is returned when a site answers 403.
var ErrBlocked = errors.New("blocked by site (403)")

type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d for %s", e.Code, e.URL)
}

type Client struct {
	rc      *resty.Client
	limiter *util.HostLimiter
}

func New(timeout time.Duration, limiter *util.HostLimiter) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		rc:      resty.New().SetTimeout(timeout),
		limiter: limiter,
	}
}

// Get fetches raw with browser-like headers. 403 maps to ErrBlocked and any
// other non-200 to *StatusError.
func (c *Client) Get(ctx context.Context, raw string, params url.Values) ([]byte, error) {
	if err := c.limiter.WaitURL(ctx, raw); err != nil {
		return nil, err
	}
	req := c.rc.R().
		SetContext(ctx).
		SetHeaders(util.BrowserHeaders())
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}
	resp, err := req.Get(raw)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", raw, err)
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusForbidden:
		return nil, ErrBlocked
	case code != http.StatusOK:
		return nil, &StatusError{Code: code, URL: raw}
	}
	return resp.Body(), nil
}

// Document is Get followed by HTML parsing.
func (c *Client) Document(ctx context.Context, raw string, params url.Values) (*goquery.Document, error) {
	body, err := c.Get(ctx, raw, params)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", raw, err)
	}
	return doc, nil
}

// GetJSON decodes a JSON API response into out.
func (c *Client) GetJSON(ctx context.Context, raw string, params url.Values, out any) error {
	if err := c.limiter.WaitURL(ctx, raw); err != nil {
		return err
	}
	req := c.rc.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", util.BrowserHeaders()["User-Agent"]).
		SetResult(out)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}
	resp, err := req.Get(raw)
	if err != nil {
		return fmt.Errorf("get %s: %w", raw, err)
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusForbidden:
		return ErrBlocked
	case code != http.StatusOK:
		return &StatusError{Code: code, URL: raw}
	}
	return nil
}

// Session returns a client with its own cookie jar that shares the rate
// limiter. Sites that hand out CSRF cookies need one per board.
func (c *Client) Session() *Client {
	return &Client{
		rc:      resty.New().SetTimeout(c.rc.GetClient().Timeout),
		limiter: c.limiter,
	}
}

// Cookie reads a cookie the session has stored for raw.
func (c *Client) Cookie(raw, name string) string {
	u, err := url.Parse(raw)
	if err != nil || c.rc.GetClient().Jar == nil {
		return ""
	}
	for _, ck := range c.rc.GetClient().Jar.Cookies(u) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

// PostJSON sends body as JSON and decodes the response into out. Status
// handling matches GetJSON.
func (c *Client) PostJSON(ctx context.Context, raw string, headers map[string]string, body, out any) error {
	if err := c.limiter.WaitURL(ctx, raw); err != nil {
		return err
	}
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", util.BrowserHeaders()["User-Agent"]).
		SetHeaders(headers).
		SetBody(body).
		SetResult(out).
		Post(raw)
	if err != nil {
		return fmt.Errorf("post %s: %w", raw, err)
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusForbidden:
		return ErrBlocked
	case code != http.StatusOK:
		return &StatusError{Code: code, URL: raw}
	}
	return nil
}
