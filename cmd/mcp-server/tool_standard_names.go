package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

var standardNamesToolDef = mcp.NewTool("get_variable_standard_names",
	mcp.WithDescription("List all CF standard names of the variables in datasets served by an ERDDAP server. "+
		"Standard names identify the physical quantity a variable measures. When looking for datasets that "+
		"measure a specific property, retrieve this list first and pass a discovered value as standard_name to search_datasets."),
	mcp.WithString("erddap_url",
		mcp.Description("Base URL of the ERDDAP server, e.g. https://erddap.sensors.ioos.us/erddap"),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

func (t *toolset) handleStandardNames(ctx context.Context, args map[string]any) (any, error) {
	base, err := t.erddapURL(args)
	if err != nil {
		return nil, err
	}
	names, err := t.erddap.StandardNames(ctx, base)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
