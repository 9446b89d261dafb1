package tools

import (
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/usestring/kintone-mcp/internal/cache"
	"github.com/usestring/kintone-mcp/internal/capture"
	"github.com/usestring/kintone-mcp/internal/config"
	"github.com/usestring/kintone-mcp/internal/present"
	"github.com/usestring/kintone-mcp/internal/query"
	"github.com/usestring/kintone-mcp/pkg/client"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Client  *client.Client
	Cache   *cache.ResponseCache
	Config  *config.Config
	Query   *query.Engine
	Compact *present.Options

	searches singleflight.Group
}

// Capture reads resp into a snapshot, caches it and returns it with its id set.
func (d *Deps) Capture(resp *http.Response, app, op string) (*capture.Captured, error) {
	c, err := capture.Read(resp, app, op, d.Config.ResponseMaxBodyBytes)
	if err != nil {
		return nil, err
	}
	d.Cache.Put(c)
	return c, nil
}
