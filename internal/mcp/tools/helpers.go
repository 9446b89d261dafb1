// Package tools contains MCP tool implementations for kintone.
package tools

import (
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/kintone-mcp/internal/capture"
	"github.com/usestring/kintone-mcp/internal/present"
	"github.com/usestring/kintone-mcp/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// MakeJSONToolResult creates a CallToolResult with JSON text content.
func MakeJSONToolResult(v any) (*sdkmcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: string(b)},
		},
	}, nil
}

// ToRecordResponse renders a captured response for the model. JSON bodies are
// compacted with opts; anything else is returned as text.
func ToRecordResponse(c *capture.Captured, opts *present.Options) types.RecordResponse {
	out := types.RecordResponse{
		ResponseID: c.ID,
		App:        c.App,
		Operation:  c.Operation,
		Status:     c.Status,
		OK:         c.OK(),
		Truncated:  c.Truncated,
	}

	if len(c.Body) > 0 {
		body, err := present.Body(c.Body, opts)
		if err != nil || c.Truncated {
			body = present.Value(string(c.Body), opts)
		}
		out.Body = body
	}

	if !out.OK {
		var apiErr capture.APIError
		if json.Unmarshal(c.Body, &apiErr) == nil && (apiErr.Code != "" || apiErr.Message != "") {
			out.Error = &types.KintoneError{
				Code:    apiErr.Code,
				ID:      apiErr.ID,
				Message: apiErr.Message,
			}
			if len(apiErr.Errors) > 0 {
				out.Error.Errors = apiErr.Errors
			}
		}
	}

	out.Hints = responseHints(c, out)
	return out
}

func responseHints(c *capture.Captured, out types.RecordResponse) []string {
	var hints []string
	if c.Truncated {
		hints = append(hints, "Body exceeded RESPONSE_MAX_BODY_BYTES and was cut; narrow the query or raise the limit")
	}
	if out.OK && c.IsJSON() {
		hints = append(hints, fmt.Sprintf("Use kintone_query_response with response_id %q to extract fields with jq", c.ID))
	}
	if out.Error != nil {
		switch out.Error.Code {
		case "GAIA_IL23", "CB_AU01", "GAIA_NO01":
			hints = append(hints, "Authentication failed; check the app token or client credential")
		case "GAIA_IQ11", "GAIA_IQ03":
			hints = append(hints, "The query could not be parsed; see the kintone_query_syntax prompt")
		}
	}
	return hints
}
