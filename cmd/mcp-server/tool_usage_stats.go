package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nguyandy/erddap-mcp-demo/internal/audit"
)

var usageStatsToolDef = mcp.NewTool("tool_usage_stats",
	mcp.WithDescription("Get usage statistics for the tools of this server: call counts, error counts and "+
		"average and maximum duration per tool, read from the audit log."),
	mcp.WithReadOnlyHintAnnotation(true),
)

func (t *toolset) handleUsageStats(ctx context.Context, _ map[string]any) (any, error) {
	stats, err := t.audit.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []audit.ToolStats{}
	}
	return stats, nil
}
