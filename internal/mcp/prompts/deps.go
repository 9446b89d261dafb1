// Package prompts contains MCP prompt implementations for kintone.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	Subdomain string
	AppNames  []string
}
