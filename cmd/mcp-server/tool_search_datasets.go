package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nguyandy/erddap-mcp-demo/internal/erddap"
)

var searchDatasetsToolDef = mcp.NewTool("search_datasets",
	mcp.WithDescription("Search the tabledap datasets of an ERDDAP server. Every filter is optional and only "+
		"the supplied filters are sent. Returns dataset_id, title and summary for each match."),
	mcp.WithString("erddap_url",
		mcp.Description("Base URL of the ERDDAP server"),
	),
	mcp.WithNumber("page",
		mcp.Description("Result page, starting at 1"),
		mcp.DefaultNumber(erddap.DefaultPage),
		mcp.Min(1),
	),
	mcp.WithNumber("page_size",
		mcp.Description("Results per page"),
		mcp.DefaultNumber(erddap.DefaultPageSize),
		mcp.Min(1),
	),
	mcp.WithString("search_query",
		mcp.Description("Free-text search terms"),
	),
	mcp.WithString("standard_name",
		mcp.Description("CF standard name a dataset variable must have (see get_variable_standard_names)"),
	),
	mcp.WithNumber("min_longitude",
		mcp.Description("Western bound in degrees east"),
		mcp.Min(-180),
		mcp.Max(360),
	),
	mcp.WithNumber("max_longitude",
		mcp.Description("Eastern bound in degrees east"),
		mcp.Min(-180),
		mcp.Max(360),
	),
	mcp.WithNumber("min_latitude",
		mcp.Description("Southern bound in degrees north"),
		mcp.Min(-90),
		mcp.Max(90),
	),
	mcp.WithNumber("max_latitude",
		mcp.Description("Northern bound in degrees north"),
		mcp.Min(-90),
		mcp.Max(90),
	),
	mcp.WithString("min_time",
		mcp.Description("Earliest time, ISO-8601 (e.g. 2024-01-01T00:00:00Z). Times without an offset are UTC."),
	),
	mcp.WithString("max_time",
		mcp.Description("Latest time, ISO-8601"),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

func (t *toolset) handleSearchDatasets(ctx context.Context, args map[string]any) (any, error) {
	base, err := t.erddapURL(args)
	if err != nil {
		return nil, err
	}
	params, err := searchParamsFromArgs(args)
	if err != nil {
		return nil, err
	}
	results, err := t.erddap.SearchDatasets(ctx, base, params)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []erddap.DatasetSummary{}
	}
	return results, nil
}

func searchParamsFromArgs(args map[string]any) (erddap.SearchParams, error) {
	var (
		p   erddap.SearchParams
		err error
	)
	if p.Page, err = intArg(args, "page", erddap.DefaultPage); err != nil {
		return p, err
	}
	if p.PageSize, err = intArg(args, "page_size", erddap.DefaultPageSize); err != nil {
		return p, err
	}
	if p.SearchFor, err = stringArg(args, "search_query", ""); err != nil {
		return p, err
	}
	if p.StandardName, err = stringArg(args, "standard_name", ""); err != nil {
		return p, err
	}

	bounds := []struct {
		key string
		dst **float64
	}{
		{"min_longitude", &p.MinLon},
		{"max_longitude", &p.MaxLon},
		{"min_latitude", &p.MinLat},
		{"max_latitude", &p.MaxLat},
	}
	for _, b := range bounds {
		if *b.dst, err = floatPtrArg(args, b.key); err != nil {
			return p, err
		}
	}

	if p.MinTime, err = timeArg(args, "min_time"); err != nil {
		return p, err
	}
	if p.MaxTime, err = timeArg(args, "max_time"); err != nil {
		return p, err
	}
	return p, nil
}
