package client

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req).
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Client is a kintone record API client. It is immutable after New and safe
// for concurrent use as long as its Doer is.
type Client struct {
	subdomain  string
	domain     string
	apps       Registry
	credential Credential
	httpClient Doer
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithCredential sets the client-level credential used for every app.
func WithCredential(cred Credential) Option {
	return func(c *Client) {
		c.credential = cred
	}
}

// WithHTTPClient sets the transport that carries the requests.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.httpClient = d
		}
	}
}

// WithDomain overrides the domain appended to bare subdomains.
// An empty domain keeps the default.
func WithDomain(domain string) Option {
	return func(c *Client) {
		if d := strings.TrimPrefix(domain, "."); d != "" {
			c.domain = d
		}
	}
}

// New creates a client for subdomain and the given app registry.
// The registry is copied; later changes to apps are not observed.
func New(subdomain string, apps Registry, opts ...Option) *Client {
	c := &Client{
		subdomain:  subdomain,
		domain:     DefaultDomain,
		apps:       cloneRegistry(apps),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subdomain returns the configured subdomain.
func (c *Client) Subdomain() string { return c.subdomain }

// Credential returns the client-level credential.
func (c *Client) Credential() Credential { return c.credential }

// App returns the configuration registered under name.
func (c *Client) App(name string) (AppConfig, bool) {
	app, ok := c.apps[name]
	return app, ok
}

// Apps returns a copy of the registry.
func (c *Client) Apps() Registry { return cloneRegistry(c.apps) }

// AppEndpoint returns the REST base URL for the named app.
func (c *Client) AppEndpoint(name string) (string, error) {
	app, err := c.resolve(name)
	if err != nil {
		return "", err
	}
	return Endpoint(c.subdomain, c.domain, app.GuestID), nil
}

// resolve looks up name and checks the parts of the configuration every
// request depends on.
func (c *Client) resolve(name string) (AppConfig, error) {
	if c.subdomain == "" {
		return AppConfig{}, &ConfigurationError{App: name, Err: ErrEmptySubdomain}
	}
	app, ok := c.apps[name]
	if !ok {
		return AppConfig{}, &ConfigurationError{App: name, Err: ErrUnknownApp}
	}
	if app.AppID <= 0 {
		return AppConfig{}, &ConfigurationError{App: name, Err: ErrMissingAppID}
	}
	return app, nil
}

// do sends req and returns the response untouched. Transport errors are
// returned as-is.
func (c *Client) do(appName string, req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("kintone request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("app", appName),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, err
	}

	slog.Debug("kintone request completed",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("app", appName),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return resp, nil
}

func (c *Client) String() string {
	return fmt.Sprintf("kintone.Client{subdomain=%s apps=%d credential=%s}", c.subdomain, len(c.apps), c.credential)
}
