package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/nguyandy/erddap-mcp-demo/internal/audit"
	"github.com/nguyandy/erddap-mcp-demo/internal/erddap"
	"github.com/nguyandy/erddap-mcp-demo/internal/logger"
)

// toolFunc is the transport-neutral body of a tool. A string result is sent
// as plain text; anything else is serialized to JSON.
type toolFunc func(ctx context.Context, args map[string]any) (any, error)

type tool struct {
	def mcp.Tool
	fn  toolFunc
}

// toolset owns the dependencies shared by every tool invocation.
type toolset struct {
	erddap     *erddap.Client
	defaultURL string
	audit      *audit.Recorder
	log        logger.Logger

	tools map[string]tool
	order []string
}

func newToolset(client *erddap.Client, defaultURL string, rec *audit.Recorder, log logger.Logger) *toolset {
	t := &toolset{
		erddap:     client,
		defaultURL: defaultURL,
		audit:      rec,
		log:        log,
		tools:      make(map[string]tool),
	}

	t.add(pingToolDef, handlePing)
	t.add(standardNamesToolDef, t.handleStandardNames)
	t.add(searchDatasetsToolDef, t.handleSearchDatasets)
	t.add(listDatasetsToolDef, t.handleListDatasets)
	t.add(listDatasetVariablesToolDef, t.handleListDatasetVariables)
	t.add(variableDataToolDef, t.handleVariableData)
	if rec.Enabled() {
		t.add(usageStatsToolDef, t.handleUsageStats)
	}
	return t
}

func (t *toolset) add(def mcp.Tool, fn toolFunc) {
	t.tools[def.Name] = tool{def: def, fn: t.instrument(def.Name, fn)}
	t.order = append(t.order, def.Name)
}

// register adds every tool to the MCP server.
func (t *toolset) register(s *server.MCPServer) {
	for _, name := range t.order {
		tl := t.tools[name]
		s.AddTool(tl.def, mcpHandler(tl.fn))
	}
}

// call runs a tool by name, as the REST mirror does.
func (t *toolset) call(ctx context.Context, name string, args map[string]any) (any, error) {
	tl, ok := t.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	return tl.fn(withCaller(ctx, callerREST), args)
}

// Callers recorded in the audit log's client_info column.
const (
	callerMCP  = "mcp"
	callerREST = "rest"
)

type callerKey struct{}

func withCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func callerFrom(ctx context.Context) string {
	caller, _ := ctx.Value(callerKey{}).(string)
	return caller
}

// erddapURL returns the erddap_url argument, or the configured default.
func (t *toolset) erddapURL(args map[string]any) (string, error) {
	return stringArg(args, "erddap_url", t.defaultURL)
}

func (t *toolset) instrument(name string, fn toolFunc) toolFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		start := time.Now()
		res, err := fn(ctx, args)
		duration := time.Since(start)

		count := 0
		if err != nil {
			t.log.Warn("tool call failed", "tool", name, "duration_ms", duration.Milliseconds(), "error", err)
		} else {
			count = resultCount(res)
			t.log.Info("tool call", "tool", name, "duration_ms", duration.Milliseconds(), "results", count)
		}
		rec := audit.NewRecord(name, args, count, duration, err)
		rec.Client = callerFrom(ctx)
		t.audit.RecordAsync(rec)
		return res, err
	}
}

func resultCount(v any) int {
	switch r := v.(type) {
	case nil:
		return 0
	case []string:
		return len(r)
	case []erddap.DatasetSummary:
		return len(r)
	case []audit.ToolStats:
		return len(r)
	default:
		return 1
	}
}

// mcpHandler adapts a toolFunc to mcp-go. Failures become error results so the
// calling agent sees the message instead of a protocol error.
func mcpHandler(fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := fn(withCaller(ctx, callerMCP), req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if text, ok := res.(string); ok {
			return mcp.NewToolResultText(text), nil
		}
		return jsonResult(res)
	}
}

// jsonResult marshals v to indented JSON and returns it as a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to serialize response"), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
