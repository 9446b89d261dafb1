// Package mcpsrv provides an extensible MCP server for kintone.
//
// The server exposes the record operations of a [client.Client] as MCP tools
// (list apps, search, create, update, delete, and jq over earlier responses),
// the app registry as resources, and a query syntax prompt. Custom tools,
// prompts and resources are added with functional options.
//
// # Basic Usage
//
//	apps, err := registry.Load("apps.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c := client.New("example", apps, client.WithCredential(client.EncodedCredential(os.Getenv("KINTONE_AUTH"))))
//	server, err := mcpsrv.NewServer(c)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    App string `json:"app"`
//	}
//
//	type MyOutput struct {
//	    Endpoint string `json:"endpoint"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    c,
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "app_endpoint", Description: "Show an app's REST endpoint"},
//	        func(d *mcpsrv.Deps) func(ctx context.Context, req *mcp.CallToolRequest, in MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	            return func(ctx context.Context, req *mcp.CallToolRequest, in MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	                endpoint, err := d.Client.AppEndpoint(in.App)
//	                return nil, MyOutput{Endpoint: endpoint}, err
//	            }
//	        }),
//	)
//
// # Configuration
//
// Settings are read from the environment (see internal/config) and can be
// overridden with options:
//
//	server, err := mcpsrv.NewServer(
//	    c,
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/kintone-mcp.log"),
//	    mcpsrv.WithSearchWorkers(8),
//	)
package mcpsrv
