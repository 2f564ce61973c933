package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nguyandy/erddap-mcp-demo/internal/erddap"
)

var variableDataToolDef = mcp.NewTool("get_dataset_variable_data",
	mcp.WithDescription("Get data for one or more variables of an ERDDAP dataset, returned as a CSV file payload "+
		"{type, mime, filename, content}. The CSV always includes the time column. variable_name may be a single "+
		"name (\"temperature\"), a comma-separated list (\"temperature,salinity\") or a JSON array of names."),
	mcp.WithString("erddap_url",
		mcp.Description("Base URL of the ERDDAP server"),
	),
	mcp.WithString("dataset_id",
		mcp.Description("Dataset identifier"),
		mcp.Required(),
	),
	mcp.WithString("variable_name",
		mcp.Description("Variable name or comma-separated variable names"),
		mcp.Required(),
	),
	mcp.WithString("start_time",
		mcp.Description("Earliest time, ISO-8601. Omit for no lower bound."),
	),
	mcp.WithString("end_time",
		mcp.Description("Latest time, ISO-8601. Defaults to now."),
	),
	mcp.WithBoolean("exclude_nans",
		mcp.Description("Drop rows where a requested variable is NaN"),
		mcp.DefaultBool(true),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

func (t *toolset) handleVariableData(ctx context.Context, args map[string]any) (any, error) {
	base, err := t.erddapURL(args)
	if err != nil {
		return nil, err
	}
	q, err := dataQueryFromArgs(args)
	if err != nil {
		return nil, err
	}
	return t.erddap.VariableData(ctx, base, q)
}

func dataQueryFromArgs(args map[string]any) (erddap.DataQuery, error) {
	var (
		q   erddap.DataQuery
		err error
	)
	if q.DatasetID, err = stringArg(args, "dataset_id", ""); err != nil {
		return q, err
	}
	if q.Variables, err = variablesArg(args, "variable_name"); err != nil {
		return q, err
	}
	if q.Start, err = timeArg(args, "start_time"); err != nil {
		return q, err
	}
	end, err := timeArg(args, "end_time")
	if err != nil {
		return q, err
	}
	if end != nil {
		q.End = *end
	}
	if q.ExcludeNaNs, err = boolArg(args, "exclude_nans", true); err != nil {
		return q, err
	}
	return q, nil
}
