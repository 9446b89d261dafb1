package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/kintone-mcp/internal/present"
	"github.com/usestring/kintone-mcp/pkg/types"
)

// QueryResponseInput is the input for kintone_query_response.
type QueryResponseInput struct {
	ResponseID string `json:"response_id" jsonschema:"required,response_id returned by a record tool"`
	Expression string `json:"expression" jsonschema:"required,jq expression, e.g. '.records[] | {id: .[\"$id\"].value, name: .name.value}'"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Max values to return (default: QUERY_MAX_RESULTS)"`
}

// ToolQueryResponse runs a jq expression over a cached response body.
func ToolQueryResponse(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryResponseInput) (*sdkmcp.CallToolResult, types.QueryResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryResponseInput) (*sdkmcp.CallToolResult, types.QueryResponse, error) {
		if input.ResponseID == "" {
			return nil, types.QueryResponse{}, ErrInvalidInput("response_id is required")
		}
		if input.Expression == "" {
			return nil, types.QueryResponse{}, ErrInvalidInput("expression is required")
		}
		if err := d.Query.ValidateExpression(input.Expression); err != nil {
			return nil, types.QueryResponse{}, ErrInvalidInput(err.Error())
		}

		captured, ok := d.Cache.Get(input.ResponseID)
		if !ok {
			return nil, types.QueryResponse{}, ErrNotFound("response", input.ResponseID)
		}
		if captured.Truncated {
			return nil, types.QueryResponse{}, ErrInvalidInput("response body was truncated and cannot be queried; raise RESPONSE_MAX_BODY_BYTES and repeat the call")
		}

		maxResults := input.MaxResults
		if maxResults <= 0 || maxResults > d.Config.QueryMaxResults {
			maxResults = d.Config.QueryMaxResults
		}

		result, err := d.Query.Query(captured.Body, input.Expression, maxResults)
		if err != nil {
			return nil, types.QueryResponse{}, ErrInvalidInput(err.Error())
		}

		out := types.QueryResponse{
			ResponseID: input.ResponseID,
			Expression: input.Expression,
			Values:     make([]any, 0, len(result.Values)),
			Errors:     result.Errors,
			Count:      result.Count,
			Truncated:  result.Truncated,
		}
		for _, v := range result.Values {
			out.Values = append(out.Values, present.Value(v, d.Compact))
		}
		if result.Truncated {
			out.Hints = append(out.Hints, "Output stopped at max_results; refine the expression or raise the limit")
		}
		if result.Count == 0 && len(result.Errors) == 0 {
			out.Hints = append(out.Hints, "No values; kintone wraps field values as {field_code: {type, value}}, so select .value")
		}
		return nil, out, nil
	}
}
