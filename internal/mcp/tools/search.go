package tools

import (
	"context"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/usestring/kintone-mcp/internal/capture"
	"github.com/usestring/kintone-mcp/internal/config"
	"github.com/usestring/kintone-mcp/pkg/types"
)

// SearchRecordsInput is the input for kintone_search_records.
type SearchRecordsInput struct {
	App   string   `json:"app,omitempty" jsonschema:"Registered app name to search"`
	Apps  []string `json:"apps,omitempty" jsonschema:"Search several apps with the same query; results keep this order"`
	Query string   `json:"query,omitempty" jsonschema:"kintone query, e.g. 'status in (\"open\") order by $id desc limit 50'. Empty matches all records"`
}

// ToolSearchRecords runs one query against one or more apps. Apps are searched
// concurrently, bounded by SEARCH_WORKERS. With a single app a failed call is
// a tool error; with several, failures are reported per app.
func ToolSearchRecords(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchRecordsInput) (*sdkmcp.CallToolResult, types.SearchRecordsResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchRecordsInput) (*sdkmcp.CallToolResult, types.SearchRecordsResponse, error) {
		apps := searchTargets(input)
		if len(apps) == 0 {
			return nil, types.SearchRecordsResponse{}, ErrInvalidInput("app or apps is required")
		}

		out := types.SearchRecordsResponse{Query: input.Query}

		if len(apps) == 1 {
			resp, err := d.search(ctx, apps[0], input.Query)
			if err != nil {
				return nil, types.SearchRecordsResponse{}, err
			}
			out.Results = []types.RecordResponse{resp}
			return nil, out, nil
		}

		results := make([]*types.RecordResponse, len(apps))
		failures := make([]*types.AppFailure, len(apps))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(d.Config.SearchWorkers, 1))
		for i, app := range apps {
			g.Go(func() error {
				resp, err := d.search(gctx, app, input.Query)
				if err != nil {
					failures[i] = &types.AppFailure{App: app, Code: CodeOf(err), Error: err.Error()}
					return nil
				}
				results[i] = &resp
				return nil
			})
		}
		_ = g.Wait()

		out.Results = make([]types.RecordResponse, 0, len(apps))
		for i := range apps {
			if results[i] != nil {
				out.Results = append(out.Results, *results[i])
			}
			if failures[i] != nil {
				out.Failed = append(out.Failed, *failures[i])
			}
		}
		return nil, out, nil
	}
}

// search coalesces identical in-flight searches so concurrent callers share
// one request and one cached response. The shared request runs detached from
// any single caller and is bounded by the HTTP timeout; each caller stops
// waiting when its own context ends.
func (d *Deps) search(ctx context.Context, app, query string) (types.RecordResponse, error) {
	ch := d.searches.DoChan(app+"\x00"+query, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.searchTimeout())
		defer cancel()
		return d.run(app, capture.OpSearch, func() (*http.Response, error) {
			return d.Client.Search(flightCtx, app, query)
		})
	})
	select {
	case <-ctx.Done():
		return types.RecordResponse{}, WrapKintoneError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return types.RecordResponse{}, res.Err
		}
		return ToRecordResponse(res.Val.(*capture.Captured), d.Compact), nil
	}
}

func (d *Deps) searchTimeout() time.Duration {
	if d.Config != nil && d.Config.HTTPClientTimeout > 0 {
		return d.Config.HTTPClientTimeout
	}
	return config.DefaultHTTPClientTimeout
}

// searchTargets merges app and apps, dropping blanks and repeats.
func searchTargets(input SearchRecordsInput) []string {
	seen := make(map[string]bool)
	var apps []string
	for _, app := range append([]string{input.App}, input.Apps...) {
		if app == "" || seen[app] {
			continue
		}
		seen[app] = true
		apps = append(apps, app)
	}
	return apps
}
