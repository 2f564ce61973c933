package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

var pingToolDef = mcp.NewTool("ping",
	mcp.WithDescription("Health check tool"),
	mcp.WithReadOnlyHintAnnotation(true),
)

func handlePing(ctx context.Context, args map[string]any) (any, error) {
	return "pong", nil
}
