package client

import (
	"net/http"
	"strconv"
	"strings"
)

// DefaultDomain is appended to subdomains that are not fully qualified.
const DefaultDomain = "cybozu.com"

// Authentication headers.
const (
	HeaderAuthorization = "X-Cybozu-Authorization"
	HeaderAPIToken      = "X-Cybozu-API-Token"
)

// Endpoint returns the REST base URL for a subdomain and optional guest space.
// A subdomain already ending in ".com" is used as the host verbatim.
func Endpoint(subdomain, domain string, guestID *int64) string {
	host := subdomain
	if !strings.HasSuffix(subdomain, ".com") {
		host = subdomain + "." + domain
	}
	if guestID != nil {
		return "https://" + host + "/k/guest/" + strconv.FormatInt(*guestID, 10) + "/v1"
	}
	return "https://" + host + "/k/v1"
}

// authHeader picks the single authentication header for a call.
// The client credential takes precedence over the app token.
func authHeader(cred Credential, appName string, app AppConfig) (http.Header, error) {
	h := make(http.Header, 1)
	switch {
	case cred.IsSet():
		h.Set(HeaderAuthorization, cred.Value())
	case app.HasToken():
		h.Set(HeaderAPIToken, app.APIToken)
	default:
		return nil, &AuthenticationError{App: appName}
	}
	return h, nil
}
