package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

var listDatasetsToolDef = mcp.NewTool("list_datasets",
	mcp.WithDescription("List every tabledap dataset of an ERDDAP server as CSV with columns datasetID, title, "+
		"minLongitude, maxLongitude, minLatitude, maxLatitude, minTime, maxTime."),
	mcp.WithString("erddap_url",
		mcp.Description("Base URL of the ERDDAP server"),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

func (t *toolset) handleListDatasets(ctx context.Context, args map[string]any) (any, error) {
	base, err := t.erddapURL(args)
	if err != nil {
		return nil, err
	}
	return t.erddap.ListDatasets(ctx, base)
}
