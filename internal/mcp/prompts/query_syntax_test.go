package prompts

import (
	"context"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleQuerySyntax(t *testing.T) {
	cfg := &Config{Subdomain: "example", AppNames: []string{"customers", "orders"}}
	req := &sdkmcp.GetPromptRequest{
		Params: &sdkmcp.GetPromptParams{
			Name:      "kintone_query_syntax",
			Arguments: map[string]string{"app": "orders", "goal": "open orders this week"},
		},
	}

	result, err := HandleQuerySyntax(cfg)(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	text, ok := result.Messages[0].Content.(*sdkmcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Target app: `orders`")
	assert.Contains(t, text.Text, "Goal: open orders this week")
	assert.Contains(t, text.Text, "customers, orders")
	assert.Contains(t, text.Text, "kintone_query_response")
}

func TestHandleQuerySyntax_noArguments(t *testing.T) {
	result, err := HandleQuerySyntax(&Config{})(context.Background(), &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{}})
	require.NoError(t, err)

	text := result.Messages[0].Content.(*sdkmcp.TextContent).Text
	assert.NotContains(t, text, "Target app")
	assert.NotContains(t, text, "Registered apps")
}
