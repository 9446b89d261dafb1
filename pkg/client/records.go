package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const recordsPath = "/records.json"

// recordsPayload is the body of create and update requests.
type recordsPayload struct {
	App     int64    `json:"app"`
	Records []Record `json:"records"`
}

// NewCreateRequest builds the POST request that adds records to an app.
func (c *Client) NewCreateRequest(ctx context.Context, appName string, records []Record) (*http.Request, error) {
	return c.newPayloadRequest(ctx, http.MethodPost, appName, records)
}

// NewUpdateRequest builds the PUT request that updates records in an app.
// Each record carries its own id or updateKey and the "record" instruction.
func (c *Client) NewUpdateRequest(ctx context.Context, appName string, records []Record) (*http.Request, error) {
	return c.newPayloadRequest(ctx, http.MethodPut, appName, records)
}

// NewSearchRequest builds the GET request that searches records with a kintone
// query string. The total count is always requested.
func (c *Client) NewSearchRequest(ctx context.Context, appName, query string) (*http.Request, error) {
	app, header, base, err := c.prepare(appName)
	if err != nil {
		return nil, err
	}

	var q strings.Builder
	q.WriteString("app=")
	q.WriteString(strconv.FormatInt(app.AppID, 10))
	q.WriteString("&query=")
	q.WriteString(encodeQueryValue(query))
	q.WriteString("&totalCount=true")

	return newRequest(ctx, http.MethodGet, base+recordsPath+"?"+q.String(), header, nil)
}

// NewDestroyRequest builds the DELETE request that removes records by id.
// Ids are sent as ids[0], ids[1], ... in the order given.
func (c *Client) NewDestroyRequest(ctx context.Context, appName string, ids []int64) (*http.Request, error) {
	app, header, base, err := c.prepare(appName)
	if err != nil {
		return nil, err
	}

	var q strings.Builder
	q.WriteString("app=")
	q.WriteString(strconv.FormatInt(app.AppID, 10))
	for i, id := range ids {
		fmt.Fprintf(&q, "&ids[%d]=%d", i, id)
	}

	return newRequest(ctx, http.MethodDelete, base+recordsPath+"?"+q.String(), header, nil)
}

// Create adds records to the named app.
func (c *Client) Create(ctx context.Context, appName string, records []Record) (*http.Response, error) {
	req, err := c.NewCreateRequest(ctx, appName, records)
	if err != nil {
		return nil, err
	}
	return c.do(appName, req)
}

// Search runs a kintone query against the named app.
func (c *Client) Search(ctx context.Context, appName, query string) (*http.Response, error) {
	req, err := c.NewSearchRequest(ctx, appName, query)
	if err != nil {
		return nil, err
	}
	return c.do(appName, req)
}

// Update updates records in the named app.
func (c *Client) Update(ctx context.Context, appName string, records []Record) (*http.Response, error) {
	req, err := c.NewUpdateRequest(ctx, appName, records)
	if err != nil {
		return nil, err
	}
	return c.do(appName, req)
}

// Destroy deletes records by id from the named app.
func (c *Client) Destroy(ctx context.Context, appName string, ids []int64) (*http.Response, error) {
	req, err := c.NewDestroyRequest(ctx, appName, ids)
	if err != nil {
		return nil, err
	}
	return c.do(appName, req)
}

// prepare resolves the app, its auth header and its base URL.
func (c *Client) prepare(appName string) (AppConfig, http.Header, string, error) {
	app, err := c.resolve(appName)
	if err != nil {
		return AppConfig{}, nil, "", err
	}
	header, err := authHeader(c.credential, appName, app)
	if err != nil {
		return AppConfig{}, nil, "", err
	}
	return app, header, Endpoint(c.subdomain, c.domain, app.GuestID), nil
}

func (c *Client) newPayloadRequest(ctx context.Context, method, appName string, records []Record) (*http.Request, error) {
	app, header, base, err := c.prepare(appName)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}

	body, err := json.Marshal(recordsPayload{App: app.AppID, Records: records})
	if err != nil {
		return nil, fmt.Errorf("encoding records for app %q: %w", appName, err)
	}
	header.Set("Content-Type", "application/json")

	return newRequest(ctx, method, base+recordsPath, header, body)
}

func newRequest(ctx context.Context, method, rawURL string, header http.Header, body []byte) (*http.Request, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, rawURL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	return req, nil
}

// encodeQueryValue percent-encodes a kintone query, spaces as %20.
func encodeQueryValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
