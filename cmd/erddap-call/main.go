// Command erddap-call lists and invokes the tools of an ERDDAP MCP server
// over the streamable HTTP transport.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nguyandy/erddap-mcp-demo/internal/logger"
)

type options struct {
	url     string
	list    bool
	tool    string
	args    string
	outDir  string
	timeout time.Duration
}

// filePayload mirrors the file result of get_dataset_variable_data.
type filePayload struct {
	Type     string `json:"type"`
	MIME     string `json:"mime"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func main() {
	var opts options
	flag.StringVar(&opts.url, "url", envOr("MCP_URL", "http://127.0.0.1:8000/mcp"), "streamable HTTP endpoint of the MCP server")
	flag.BoolVar(&opts.list, "list", false, "list the available tools")
	flag.StringVar(&opts.tool, "tool", "", "tool to call")
	flag.StringVar(&opts.args, "args", "{}", "tool arguments as a JSON object")
	flag.StringVar(&opts.outDir, "out", "", "write file results into this directory")
	flag.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	log := logger.New(logger.DefaultConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Error("erddap-call failed", "url", opts.url, "tool", opts.tool, "error", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if !opts.list && opts.tool == "" {
		return errors.New("nothing to do: pass -list or -tool")
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	mc, err := connect(ctx, opts.url)
	if err != nil {
		return err
	}
	defer mc.Close()

	if opts.list {
		return listTools(ctx, mc, out)
	}
	return callTool(ctx, mc, opts, out)
}

func connect(ctx context.Context, url string) (*mcpclient.Client, error) {
	mc, err := mcpclient.NewStreamableHttpClient(url)
	if err != nil {
		return nil, fmt.Errorf("MCP connect: %w", err)
	}
	if err := mc.Start(ctx); err != nil {
		mc.Close()
		return nil, fmt.Errorf("MCP start: %w", err)
	}
	if _, err := mc.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: "erddap-call", Version: "1.0.0"},
		},
	}); err != nil {
		mc.Close()
		return nil, fmt.Errorf("MCP init: %w", err)
	}
	return mc, nil
}

func listTools(ctx context.Context, mc *mcpclient.Client, out io.Writer) error {
	res, err := mc.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	for _, t := range res.Tools {
		desc, _, _ := strings.Cut(t.Description, ". ")
		fmt.Fprintf(out, "%-30s %s\n", t.Name, desc)
	}
	return nil
}

func callTool(ctx context.Context, mc *mcpclient.Client, opts options, out io.Writer) error {
	var args map[string]any
	if err := json.Unmarshal([]byte(opts.args), &args); err != nil {
		return fmt.Errorf("-args must be a JSON object: %w", err)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = opts.tool
	req.Params.Arguments = args

	res, err := mc.CallTool(ctx, req)
	if err != nil {
		return fmt.Errorf("call %s: %w", opts.tool, err)
	}

	var text strings.Builder
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			text.WriteString(tc.Text)
		}
	}
	if res.IsError {
		return fmt.Errorf("%s: %s", opts.tool, text.String())
	}

	if opts.outDir != "" {
		var fp filePayload
		if json.Unmarshal([]byte(text.String()), &fp) == nil && fp.Type == "file" && fp.Filename != "" {
			return writeFile(opts.outDir, fp, out)
		}
	}
	_, err = fmt.Fprintln(out, text.String())
	return err
}

func writeFile(dir string, fp filePayload, out io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, filepath.Base(fp.Filename))
	if err := os.WriteFile(path, []byte(fp.Content), 0o644); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "wrote %s (%d bytes)\n", path, len(fp.Content))
	return err
}
