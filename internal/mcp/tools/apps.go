package tools

import (
	"context"
	"slices"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/kintone-mcp/pkg/client"
	"github.com/usestring/kintone-mcp/pkg/types"
)

// ListAppsInput is the input for kintone_list_apps.
type ListAppsInput struct{}

// ToolListApps lists the registered apps with their resolved endpoint and auth mode.
func ToolListApps(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListAppsInput) (*sdkmcp.CallToolResult, types.ListAppsResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListAppsInput) (*sdkmcp.CallToolResult, types.ListAppsResponse, error) {
		return nil, ListApps(d.Client), nil
	}
}

// ListApps summarises every app the client knows, sorted by name.
func ListApps(c *client.Client) types.ListAppsResponse {
	apps := c.Apps()
	out := types.ListAppsResponse{
		Subdomain: c.Subdomain(),
		Apps:      make([]types.AppSummary, 0, len(apps)),
	}
	names := apps.Names()
	slices.Sort(names)
	for _, name := range names {
		app := apps[name]
		summary := types.AppSummary{
			Name:        name,
			AppID:       app.AppID,
			DisplayName: app.DisplayName,
			Auth:        AuthMode(c.Credential(), app),
		}
		if app.GuestID != nil {
			summary.GuestID = *app.GuestID
		}
		if endpoint, err := c.AppEndpoint(name); err == nil {
			summary.Endpoint = endpoint
		}
		out.Apps = append(out.Apps, summary)
	}
	return out
}

// AuthMode reports which header a call against app would carry.
func AuthMode(cred client.Credential, app client.AppConfig) string {
	switch {
	case cred.IsSet():
		return types.AuthClient
	case app.HasToken():
		return types.AuthAPIToken
	default:
		return types.AuthNone
	}
}
