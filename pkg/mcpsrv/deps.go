package mcpsrv

import (
	"github.com/usestring/kintone-mcp/internal/cache"
	"github.com/usestring/kintone-mcp/internal/config"
	"github.com/usestring/kintone-mcp/internal/present"
	"github.com/usestring/kintone-mcp/internal/query"
	"github.com/usestring/kintone-mcp/pkg/client"
)

// Deps contains all dependencies available to custom tools.
// Custom tools see the same client, response cache and jq engine as the
// builtin ones, so a response_id from one works with the other.
type Deps struct {
	Client  *client.Client
	Cache   *cache.ResponseCache
	Config  *config.Config
	Query   *query.Engine
	Compact *present.Options
}
