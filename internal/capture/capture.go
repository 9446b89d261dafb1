// Package capture reads raw kintone responses into snapshots that tools can
// cache, query and render. The SDK hands responses back untouched; this is
// where a caller looks inside them.
package capture

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Operation names recorded on snapshots.
const (
	OpCreate = "create"
	OpSearch = "search"
	OpUpdate = "update"
	OpDelete = "delete"
)

// keptHeaders are copied from the response; everything else is dropped.
var keptHeaders = []string{
	"Content-Type",
	"X-ConcurrencyLimit-Limit",
	"X-ConcurrencyLimit-Running",
	"X-Cybozu-Error",
}

// Captured is a read-out kintone response.
type Captured struct {
	ID         string            `json:"id"`
	App        string            `json:"app"`
	Operation  string            `json:"operation"`
	Method     string            `json:"method"`
	Path       string            `json:"path"`
	Status     int               `json:"status"`
	Header     map[string]string `json:"header,omitempty"`
	Body       []byte            `json:"-"`
	Truncated  bool              `json:"truncated"`
	CapturedAt time.Time         `json:"captured_at"`
}

// OK reports whether the status is 2xx.
func (c *Captured) OK() bool { return c.Status >= 200 && c.Status < 300 }

// IsJSON reports whether the response declared a JSON body.
func (c *Captured) IsJSON() bool {
	return strings.Contains(strings.ToLower(c.Header["Content-Type"]), "json")
}

// APIError is the error document kintone returns with non-2xx statuses.
type APIError struct {
	Code    string         `json:"code"`
	ID      string         `json:"id"`
	Message string         `json:"message"`
	Errors  map[string]any `json:"errors,omitempty"`
}

// Read drains and closes resp, keeping at most maxBytes of the body
// (0 = unlimited). A nil body reads as empty.
func Read(resp *http.Response, app, op string, maxBytes int) (*Captured, error) {
	if resp == nil {
		return nil, errors.New("nil response")
	}
	body := resp.Body
	if body == nil {
		body = http.NoBody
	}
	defer body.Close()

	c := &Captured{
		App:        app,
		Operation:  op,
		Status:     resp.StatusCode,
		Header:     make(map[string]string),
		CapturedAt: time.Now(),
	}
	if resp.Request != nil {
		c.Method = resp.Request.Method
		c.Path = resp.Request.URL.Path
	}
	for _, h := range keptHeaders {
		if v := resp.Header.Get(h); v != "" {
			c.Header[h] = v
		}
	}

	var r io.Reader = body
	if maxBytes > 0 {
		r = io.LimitReader(body, int64(maxBytes)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if maxBytes > 0 && len(data) > maxBytes {
		data = data[:maxBytes]
		c.Truncated = true
	}
	c.Body = data
	return c, nil
}
