package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/kintone-mcp/internal/mcp/tools"
	"github.com/usestring/kintone-mcp/internal/registry"
)

// Resource URI scheme: kintone://
// Supported URIs:
//   kintone://apps
//   kintone://apps/schema
//   kintone://response/{id}

const scheme = "kintone://"

// registerResources registers resources and resource templates.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         scheme + "apps",
		Name:        "App Registry",
		Description: "Registered apps as loaded from the apps file, with API tokens redacted.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceApps)

	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         scheme + "apps/schema",
		Name:        "App Registry Schema",
		Description: "JSON Schema of the apps file (YAML or JSON).",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"user", "assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceSchema)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: scheme + "response/{id}",
		Name:        "kintone Response",
		Description: "Full body of an earlier response by response_id. High context cost; prefer kintone_query_response.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceResponse)
}

func (s *Server) handleResourceApps(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	data, err := registry.Marshal(s.deps.Client.Apps(), true)
	if err != nil {
		return nil, fmt.Errorf("serializing registry: %w", err)
	}
	return textResult(req.Params.URI, string(data)), nil
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	data, err := registry.Schema()
	if err != nil {
		return nil, fmt.Errorf("generating schema: %w", err)
	}
	return textResult(req.Params.URI, string(data)), nil
}

func (s *Server) handleResourceResponse(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	id, err := parseResponseURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	captured, ok := s.deps.Cache.Get(id)
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	content := map[string]any{
		"response": captured,
		"body":     string(captured.Body),
	}
	if captured.IsJSON() && !captured.Truncated {
		var body any
		if err := json.Unmarshal(captured.Body, &body); err == nil {
			content["body"] = body
		}
	}
	return toResourceResult(req.Params.URI, content)
}

// parseResponseURI extracts the response id from kintone://response/{id}.
func parseResponseURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, scheme) {
		return "", tools.ErrInvalidInput("invalid URI scheme: expected " + scheme)
	}
	parts := strings.Split(strings.TrimPrefix(uri, scheme), "/")
	if len(parts) != 2 || parts[0] != "response" || parts[1] == "" {
		return "", tools.ErrInvalidInput(fmt.Sprintf("unknown resource: %s", uri))
	}
	return parts[1], nil
}

func textResult(uri, text string) *sdkmcp.ReadResourceResult {
	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{URI: uri, MIMEType: tools.MimeJSON, Text: text},
		},
	}
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}
	return textResult(uri, string(data)), nil
}
