package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usestring/kintone-mcp/internal/capture"
	"github.com/usestring/kintone-mcp/internal/config"
	"github.com/usestring/kintone-mcp/internal/logging"
	"github.com/usestring/kintone-mcp/internal/mcp/tools"
	"github.com/usestring/kintone-mcp/internal/registry"
	"github.com/usestring/kintone-mcp/pkg/client"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// cli carries the flags shared by every subcommand.
type cli struct {
	cfg        *config.Config
	logLevel   string
	doer       client.Doer
	logCleanup func() error
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(doer client.Doer) *cobra.Command {
	c := &cli{cfg: config.Load(), doer: doer}

	rootCmd := &cobra.Command{
		Use:           "kintonectl",
		Short:         "Call the kintone record API for the apps in a registry file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logCfg := c.cfg.LoggingConfig()
			logCfg.Level = c.logLevel
			cleanup, err := logging.Setup(logCfg)
			if err != nil {
				return err
			}
			c.logCleanup = cleanup
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.closeLog()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfg.AppsFile, "apps-file", c.cfg.AppsFile, "App registry file (YAML or JSON)")
	flags.StringVar(&c.cfg.Subdomain, "subdomain", c.cfg.Subdomain, "kintone subdomain, or a full host ending in .com")
	flags.StringVar(&c.cfg.Domain, "domain", c.cfg.Domain, "Domain appended to a bare subdomain")
	flags.DurationVar(&c.cfg.HTTPClientTimeout, "timeout", c.cfg.HTTPClientTimeout, "HTTP timeout")
	flags.StringVar(&c.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&c.cfg.LogFile, "log-file", c.cfg.LogFile, "Write logs to this rotated file instead of stderr")

	rootCmd.AddCommand(c.newAppsCmd())
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(c.newSearchCmd())
	rootCmd.AddCommand(c.newWriteCmd("create", "Create records from a JSON array", capture.OpCreate))
	rootCmd.AddCommand(c.newWriteCmd("update", "Update records from a JSON array of {id|updateKey, record}", capture.OpUpdate))
	rootCmd.AddCommand(c.newDeleteCmd())

	return rootCmd
}

// closeLog flushes and closes the log file, if any. Safe to call twice.
func (c *cli) closeLog() error {
	if c.logCleanup == nil {
		return nil
	}
	cleanup := c.logCleanup
	c.logCleanup = nil
	return cleanup()
}

// client loads the registry and builds a kintone client from the flags.
func (c *cli) client() (*client.Client, error) {
	apps, err := registry.Load(c.cfg.AppsFile)
	if err != nil {
		return nil, err
	}
	opts := c.cfg.ClientOptions()
	if c.doer != nil {
		opts = append(opts, client.WithHTTPClient(c.doer))
	}
	return client.New(c.cfg.Subdomain, apps, opts...), nil
}

func (c *cli) newAppsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List registered apps with endpoint and auth mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kc, err := c.client()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tools.ListApps(kc))
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the registry file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := registry.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func (c *cli) newSearchCmd() *cobra.Command {
	var app, query string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search records with a kintone query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kc, err := c.client()
			if err != nil {
				return err
			}
			resp, err := kc.Search(cmd.Context(), app, query)
			return report(cmd, resp, err, app, capture.OpSearch)
		},
	}
	cmd.Flags().StringVar(&app, "app", "", "Registered app name")
	cmd.Flags().StringVar(&query, "query", "", "kintone query (empty matches all records)")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}

func (c *cli) newWriteCmd(use, short, op string) *cobra.Command {
	var app, file string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			kc, err := c.client()
			if err != nil {
				return err
			}
			var resp *http.Response
			if op == capture.OpCreate {
				resp, err = kc.Create(cmd.Context(), app, records)
			} else {
				resp, err = kc.Update(cmd.Context(), app, records)
			}
			return report(cmd, resp, err, app, op)
		},
	}
	cmd.Flags().StringVar(&app, "app", "", "Registered app name")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON array of records, or - for stdin")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}

func (c *cli) newDeleteCmd() *cobra.Command {
	var app string
	var ids []int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete records by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tools.ValidateIDs(ids); err != nil {
				return err
			}
			kc, err := c.client()
			if err != nil {
				return err
			}
			resp, err := kc.Destroy(cmd.Context(), app, ids)
			return report(cmd, resp, err, app, capture.OpDelete)
		},
	}
	cmd.Flags().StringVar(&app, "app", "", "Registered app name")
	cmd.Flags().Int64SliceVar(&ids, "ids", nil, "Record ids, comma separated, in order")
	_ = cmd.MarkFlagRequired("app")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

// report prints status and body. A non-2xx status is printed like any other
// response and then reported as an error so the exit code reflects it.
func report(cmd *cobra.Command, resp *http.Response, err error, app, op string) error {
	if err != nil {
		return err
	}
	captured, err := capture.Read(resp, app, op, 0)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s -> %d\n", captured.Method, captured.Path, captured.Status)
	if len(captured.Body) > 0 {
		var pretty bytes.Buffer
		if json.Indent(&pretty, captured.Body, "", "  ") == nil {
			fmt.Fprintln(out, pretty.String())
		} else {
			fmt.Fprintln(out, string(captured.Body))
		}
	}
	if !captured.OK() {
		return fmt.Errorf("kintone returned status %d", captured.Status)
	}
	return nil
}

func readRecords(stdin io.Reader, file string) ([]client.Record, error) {
	var data []byte
	var err error
	if file == "" || file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("no records given")
	}
	var records []client.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("records must be a JSON array of objects: %w", err)
	}
	return records, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
