package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

var listDatasetVariablesToolDef = mcp.NewTool("list_dataset_variables",
	mcp.WithDescription("List the variables of one ERDDAP dataset as CSV with columns "+
		"variable_name, long_name, standard_name, units, axis."),
	mcp.WithString("erddap_url",
		mcp.Description("Base URL of the ERDDAP server"),
	),
	mcp.WithString("dataset_id",
		mcp.Description("Dataset identifier as returned by search_datasets or list_datasets"),
		mcp.Required(),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

func (t *toolset) handleListDatasetVariables(ctx context.Context, args map[string]any) (any, error) {
	base, err := t.erddapURL(args)
	if err != nil {
		return nil, err
	}
	datasetID, err := stringArg(args, "dataset_id", "")
	if err != nil {
		return nil, err
	}
	return t.erddap.ListDatasetVariables(ctx, base, datasetID)
}
