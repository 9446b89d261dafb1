package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/kintone-mcp/internal/cache"
	"github.com/usestring/kintone-mcp/internal/config"
	"github.com/usestring/kintone-mcp/internal/mcp/tools"
	"github.com/usestring/kintone-mcp/internal/present"
	"github.com/usestring/kintone-mcp/internal/query"
	"github.com/usestring/kintone-mcp/pkg/client"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	doer := client.DoerFunc(func(req *http.Request) (*http.Response, error) {
		rec := httptest.NewRecorder()
		rec.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(rec, `{"records":[{"title":{"type":"SINGLE_LINE_TEXT","value":"hello"}}],"totalCount":"1"}`)
		resp := rec.Result()
		resp.Request = req
		return resp, nil
	})
	apps := client.Registry{
		"tasks": {AppID: 12, APIToken: "secret-token", DisplayName: "Tasks"},
	}

	respCache, err := cache.NewResponseCache(8)
	require.NoError(t, err)

	deps := &tools.Deps{
		Client:  client.New("example", apps, client.WithHTTPClient(doer)),
		Cache:   respCache,
		Config:  &config.Config{SearchWorkers: 1, ResponseMaxBodyBytes: 1 << 16, QueryMaxResults: 10},
		Query:   query.NewEngine(),
		Compact: present.DefaultOptions(),
	}

	s, err := NewServer(deps, WithBuiltinTools(), WithBuiltinPrompts())
	require.NoError(t, err)
	return s
}

func connect(t *testing.T, s *Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	_, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestNewServer_requiresClient(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)

	_, err = NewServer(&tools.Deps{})
	assert.Error(t, err)
}

func TestServer_listsBuiltins(t *testing.T) {
	session := connect(t, newTestServer(t))
	ctx := context.Background()

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range toolsResult.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"kintone_list_apps",
		"kintone_search_records",
		"kintone_create_records",
		"kintone_update_records",
		"kintone_delete_records",
		"kintone_query_response",
	}, names)

	prompts, err := session.ListPrompts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, prompts.Prompts, 1)
	assert.Equal(t, "kintone_query_syntax", prompts.Prompts[0].Name)
}

func TestServer_searchThenReadResponse(t *testing.T) {
	session := connect(t, newTestServer(t))
	ctx := context.Background()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "kintone_search_records",
		Arguments: map[string]any{"app": "tasks", "query": "limit 1"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out struct {
		Results []struct {
			ResponseID string `json:"response_id"`
			OK         bool   `json:"ok"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Results, 1)
	assert.True(t, out.Results[0].OK)

	resource, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "kintone://response/" + out.Results[0].ResponseID})
	require.NoError(t, err)
	require.Len(t, resource.Contents, 1)
	assert.Contains(t, resource.Contents[0].Text, `"hello"`)
}

func TestServer_toolErrorForUnknownApp(t *testing.T) {
	session := connect(t, newTestServer(t))

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "kintone_delete_records",
		Arguments: map[string]any{"app": "missing", "ids": []int64{1}},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_appsResourceRedactsTokens(t *testing.T) {
	session := connect(t, newTestServer(t))

	resource, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "kintone://apps"})
	require.NoError(t, err)
	require.Len(t, resource.Contents, 1)

	text := resource.Contents[0].Text
	assert.Contains(t, text, "tasks")
	assert.NotContains(t, text, "secret-token")
}

func TestParseResponseURI(t *testing.T) {
	id, err := parseResponseURI("kintone://response/abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	for _, bad := range []string{"http://response/abc", "kintone://response/", "kintone://apps/x/y"} {
		_, err := parseResponseURI(bad)
		assert.Error(t, err, bad)
		assert.True(t, strings.Contains(err.Error(), tools.ErrCodeInvalidInput), bad)
	}
}
