package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleQuerySyntax serves the kintone query reference.
func HandleQuerySyntax(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var app, goal string
		if req != nil && req.Params != nil && req.Params.Arguments != nil {
			app = req.Params.Arguments["app"]
			goal = req.Params.Arguments["goal"]
		}

		var sb strings.Builder

		sb.WriteString("# kintone Query Syntax\n\n")
		if app != "" {
			fmt.Fprintf(&sb, "Target app: `%s`\n", app)
		}
		if goal != "" {
			fmt.Fprintf(&sb, "Goal: %s\n", goal)
		}
		if len(cfg.AppNames) > 0 {
			fmt.Fprintf(&sb, "Registered apps on `%s`: %s\n", cfg.Subdomain, strings.Join(cfg.AppNames, ", "))
		}
		sb.WriteString("\n")

		sb.WriteString("## Form\n\n")
		sb.WriteString("`<field_code> <operator> <value> [and|or ...] [order by <field_code> asc|desc] [limit N] [offset N]`\n\n")
		sb.WriteString("- Field codes, not labels. `$id` is the record number, `$revision` the revision.\n")
		sb.WriteString("- Strings are double-quoted. Group with parentheses.\n")
		sb.WriteString("- `limit` defaults to 100 and cannot exceed 500. Use `offset` to page; the tool does not page for you.\n")
		sb.WriteString("- An empty query matches every record.\n\n")

		sb.WriteString("## Operators\n\n")
		sb.WriteString("| Operator | Fields | Example |\n")
		sb.WriteString("|----------|--------|---------|\n")
		sb.WriteString("| `=` `!=` | text, number, date, record number | `status = \"open\"` |\n")
		sb.WriteString("| `>` `<` `>=` `<=` | number, date, datetime | `amount >= 1000` |\n")
		sb.WriteString("| `in` `not in` | drop-down, radio, status, user | `priority in (\"high\", \"urgent\")` |\n")
		sb.WriteString("| `like` `not like` | text, rich text, attachments | `title like \"invoice\"` |\n")
		sb.WriteString("| `is empty` `is not empty` | most fields | `due_date is empty` |\n\n")

		sb.WriteString("## Functions\n\n")
		sb.WriteString("- `LOGINUSER()` for user fields, `TODAY()`, `NOW()`, `FROM_TODAY(-7, DAYS)`, `THIS_MONTH()` for dates.\n\n")

		sb.WriteString("## Examples\n\n")
		sb.WriteString("```\n")
		sb.WriteString("status in (\"open\") and assignee in (LOGINUSER()) order by $id desc limit 50\n")
		sb.WriteString("created_at >= FROM_TODAY(-30, DAYS) and (title like \"urgent\" or priority = \"high\")\n")
		sb.WriteString("$id > 1200 order by $id asc limit 500\n")
		sb.WriteString("```\n\n")

		sb.WriteString("## Reading Results\n\n")
		sb.WriteString("- `kintone_search_records` always asks for `totalCount`; compare it with the records returned to know if more pages exist.\n")
		sb.WriteString("- Each field comes back as `{\"type\": ..., \"value\": ...}`. In jq, select `.value`.\n")
		sb.WriteString("- The body in a tool result is compacted. Use `kintone_query_response` with the `response_id` to extract exactly what you need, e.g. `[.records[] | {id: .[\"$id\"].value, title: .title.value}]`.\n")
		sb.WriteString("- A non-2xx status is a normal result with `ok: false` and kintone's error document (`code`, `message`, `errors`). Error `GAIA_IQ11` means the query did not parse.\n")

		return &sdkmcp.GetPromptResult{
			Description: "kintone query syntax reference",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
