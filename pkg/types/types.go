// Package types provides the tool output shapes shared by kintone-mcp and
// by custom tools registered through pkg/mcpsrv.
package types

import "encoding/json"

// ToAny round-trips a typed value through JSON to produce an untyped any.
// Use this when a tool output field must be any (instead of json.RawMessage)
// to satisfy the MCP SDK's schema validation.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Auth modes reported for an app.
const (
	AuthClient   = "client"    // client-level credential, sent as X-Cybozu-Authorization
	AuthAPIToken = "api_token" // per-app token, sent as X-Cybozu-API-Token
	AuthNone     = "none"      // calls against this app fail before any request
)

// AppSummary describes one registered app. The API token itself is never included.
type AppSummary struct {
	Name        string `json:"name"`
	AppID       int64  `json:"app_id"`
	GuestID     int64  `json:"guest_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Auth        string `json:"auth"`
	Endpoint    string `json:"endpoint,omitempty"`
}

// ListAppsResponse is the output of kintone_list_apps.
type ListAppsResponse struct {
	Subdomain string       `json:"subdomain"`
	Apps      []AppSummary `json:"apps,omitzero"`
}

// ResourceRef points to an MCP resource.
type ResourceRef struct {
	URI  string `json:"uri"`
	MIME string `json:"mime"`
	Hint string `json:"hint,omitempty"`
}
