package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "kintone_list_apps",
		Description: "List the registered kintone apps with app id, guest space, REST endpoint and auth mode. Call this first to learn valid app names.",
	}, ToolListApps(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "kintone_search_records",
		Description: "Search records with a kintone query in one app (app) or several apps (apps). The total count is always requested. Non-2xx responses are returned with ok=false and kintone's error document.",
	}, ToolSearchRecords(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "kintone_create_records",
		Description: "Create up to 100 records in one app. Each record maps field codes to {value: ...}.",
	}, ToolCreateRecords(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "kintone_update_records",
		Description: "Update up to 100 records in one app. Each entry is {id, record} or {updateKey, record}, optionally with revision.",
	}, ToolUpdateRecords(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "kintone_delete_records",
		Description: "Delete up to 100 records from one app by id. Ids must be positive and unique.",
		Annotations: &sdkmcp.ToolAnnotations{
			DestructiveHint: ptr(true),
		},
	}, ToolDeleteRecords(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "kintone_query_response",
		Description: "Run a jq expression over the full body of an earlier response (by response_id). Use it when the compacted body in a tool result is not enough.",
		Annotations: &sdkmcp.ToolAnnotations{
			ReadOnlyHint: true,
		},
	}, ToolQueryResponse(d))
}

func ptr[T any](v T) *T { return &v }
