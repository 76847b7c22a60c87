package waxhub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Request performs one authenticated API call.
//
// Parameter routing: a params map containing the key "filter" is encoded
// as the query string (nested maps become bracketed keys, e.g.
// filter[status]=active); any other non-empty map is sent as the JSON
// request body; a nil or empty map sends neither.
//
// When the API reports an expired access token and auto-refresh is
// enabled, the session is asked to refresh once and the request is sent
// once more. A failed refresh fails the whole call with
// [ErrRefreshFailed]; a second expired-token error propagates as is.
//
// The response, including error responses that reached the server, is
// recorded in the client's last-response slot before being returned.
func (c *Client) Request(
	ctx context.Context,
	method, path string,
	params map[string]any,
	headers map[string]string,
) (*Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, method, path, params, headers)
		if err == nil {
			return resp, nil
		}

		var apiErr *APIError
		if attempt == 0 && c.autoRefresh && c.session != nil &&
			errors.As(err, &apiErr) && apiErr.TokenExpired() {
			c.logger.Info("access token expired, refreshing",
				zap.String("method", method),
				zap.String("path", path))

			if refreshErr := c.session.RefreshAccessToken(ctx); refreshErr != nil {
				return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, refreshErr)
			}

			continue
		}

		return nil, err
	}
}

// send performs a single logical network operation, retrying only
// transport-level failures (network errors, 5xx, rate limits) with
// exponential backoff. Client errors are permanent here; the expired-token
// case is handled one level up.
func (c *Client) send(
	ctx context.Context,
	method, path string,
	params map[string]any,
	headers map[string]string,
) (*Response, error) {
	operation := func() (*Response, error) {
		if err := c.wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}

		req, err := c.newRequest(ctx, method, path, params, headers)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		c.logger.Debug("sending request",
			zap.String("method", method),
			zap.String("url", req.URL.String()))

		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			// Network errors are retryable.
			c.logger.Warn("request failed, will retry",
				zap.Error(err),
				zap.String("method", method),
				zap.String("url", req.URL.String()))
			return nil, err
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("read response: %w", err))
		}

		resp := &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       body,
			URL:        req.URL.String(),
		}
		c.lastResponse = resp

		switch {
		case httpResp.StatusCode == http.StatusTooManyRequests:
			if err := c.handleRetryAfter(httpResp.Header.Get("Retry-After")); err != nil {
				return resp, backoff.Permanent(fmt.Errorf("too many requests: %w, %w", err, ErrRateLimit))
			}
			return resp, fmt.Errorf("too many requests: %w", ErrRateLimit)
		case httpResp.StatusCode >= 500:
			c.logger.Warn("server error, will retry",
				zap.Int("status_code", httpResp.StatusCode),
				zap.String("url", req.URL.String()))
			return resp, newAPIError(resp)
		case httpResp.StatusCode >= 400:
			return resp, backoff.Permanent(newAPIError(resp))
		}

		return resp, nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = c.retryInitialInterval

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxElapsedTime(c.retryMaxElapsed),
	)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// newRequest creates a new HTTP request with auth headers and the routed
// parameters attached.
func (c *Client) newRequest(
	ctx context.Context,
	method, path string,
	params map[string]any,
	headers map[string]string,
) (*http.Request, error) {
	rel := &url.URL{Path: path}
	u := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if len(params) > 0 {
		if _, ok := params["filter"]; ok {
			u.RawQuery = encodeQuery(params).Encode()
		} else {
			data, err := json.Marshal(params)
			if err != nil {
				return nil, fmt.Errorf("marshal request: %w", err)
			}
			body = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", mediaType)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())

	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", mediaType)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// encodeQuery flattens a parameter map into query values. Nested maps and
// url.Values become bracketed keys (filter[status]=active), string slices
// are comma-joined, everything else is printed verbatim.
func encodeQuery(params map[string]any) url.Values {
	q := url.Values{}

	for key, value := range params {
		switch v := value.(type) {
		case url.Values:
			for sub, vals := range v {
				for _, s := range vals {
					q.Add(fmt.Sprintf("%s[%s]", key, sub), s)
				}
			}
		case map[string]any:
			for sub, sv := range v {
				q.Set(fmt.Sprintf("%s[%s]", key, sub), fmt.Sprint(sv))
			}
		case map[string]string:
			for sub, sv := range v {
				q.Set(fmt.Sprintf("%s[%s]", key, sub), sv)
			}
		case []string:
			q.Set(key, strings.Join(v, ","))
		default:
			q.Set(key, fmt.Sprint(v))
		}
	}

	return q
}

// listParams assembles the parameters for a list call. Filter options are
// nested under the filter namespace, page options under page. The filter
// key is always present so the map is routed to the query string.
func listParams(filter any, page PageParams) (map[string]any, error) {
	filterValues, err := query.Values(filter)
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}

	params := map[string]any{"filter": filterValues}

	pageValues, err := query.Values(page)
	if err != nil {
		return nil, fmt.Errorf("encode page: %w", err)
	}
	if len(pageValues) > 0 {
		params["page"] = pageValues
	}

	return params, nil
}

// wait checks if the client is currently rate-limited.
// If so, it blocks until the reset time or until the context is canceled.
func (c *Client) wait(ctx context.Context) error {
	c.retryAfterMU.Lock()
	waitUntil := c.retryAfter
	c.retryAfterMU.Unlock()

	if time.Now().After(waitUntil) {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Until(waitUntil)):
		return nil
	}
}

// handleRetryAfter updates the client's retry-after timestamp based on the
// delta-seconds value in the Retry-After header.
func (c *Client) handleRetryAfter(header string) error {
	if header == "" {
		return fmt.Errorf("missing Retry-After header")
	}

	seconds, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid Retry-After header %q: %w", header, err)
	}

	t := time.Now().Add(time.Duration(seconds) * time.Second)

	c.retryAfterMU.Lock()
	defer c.retryAfterMU.Unlock()

	if t.After(c.retryAfter) {
		c.retryAfter = t
	}

	return nil
}
