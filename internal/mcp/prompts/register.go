package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "kintone_query_syntax",
		Description: "kintone query language reference with examples, plus how the record tools return results. Read before writing a query for kintone_search_records.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "app",
				Description: "Registered app the query is for",
				Required:    false,
			},
			{
				Name:        "goal",
				Description: "What the records should match, in plain words",
				Required:    false,
			},
		},
	}, HandleQuerySyntax(cfg))
}
