package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/kintone-mcp/internal/mcp/tools"
)

// AddTool registers a tool like [sdkmcp.AddTool], but first panics if the zero
// value of Out would fail the output schema the SDK infers for it (for
// example a nil slice field without omitzero).
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
