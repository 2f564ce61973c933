package main

import "net/http"

// handleStandardNames handles GET /api/standard-names
//
// @Summary     List variable standard names
// @Description Returns every CF standard name used by the datasets of the ERDDAP server.
// @Tags        discovery
// @Produce     json
// @Param       erddap_url query string false "Base URL of the ERDDAP server"
// @Success     200 {array}  string "Standard names"
// @Failure     400 {object} map[string]string "Missing or invalid erddap_url"
// @Failure     502 {object} map[string]string "ERDDAP request failed"
// @Failure     504 {object} map[string]string "ERDDAP request timed out"
// @Router      /standard-names [get]
func (h *RESTHandler) handleStandardNames(w http.ResponseWriter, r *http.Request) {
	res, err := h.tools.call(r.Context(), standardNamesToolDef.Name, queryArgs(r, "erddap_url"))
	serveToolResult(w, res, err)
}

// handleSearch handles GET /api/search
//
// @Summary     Search datasets
// @Description Advanced search over the tabledap datasets. Only supplied filters are sent to ERDDAP.
// @Tags        discovery
// @Produce     json
// @Param       erddap_url    query string  false "Base URL of the ERDDAP server"
// @Param       page          query integer false "Result page" default(1)
// @Param       page_size     query integer false "Results per page" default(50)
// @Param       search_query  query string  false "Free-text search terms"
// @Param       standard_name query string  false "CF standard name"
// @Param       min_longitude query number  false "Western bound"
// @Param       max_longitude query number  false "Eastern bound"
// @Param       min_latitude  query number  false "Southern bound"
// @Param       max_latitude  query number  false "Northern bound"
// @Param       min_time      query string  false "Earliest time (ISO-8601)"
// @Param       max_time      query string  false "Latest time (ISO-8601)"
// @Success     200 {array}  erddap.DatasetSummary
// @Failure     400 {object} map[string]string "Invalid parameters"
// @Failure     502 {object} map[string]string "ERDDAP request failed"
// @Failure     504 {object} map[string]string "ERDDAP request timed out"
// @Router      /search [get]
func (h *RESTHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	args := queryArgs(r, "erddap_url", "page", "page_size", "search_query", "standard_name",
		"min_longitude", "max_longitude", "min_latitude", "max_latitude", "min_time", "max_time")
	res, err := h.tools.call(r.Context(), searchDatasetsToolDef.Name, args)
	serveToolResult(w, res, err)
}

// handleDatasets handles GET /api/datasets
//
// @Summary     List datasets
// @Description Returns the allDatasets listing as CSV.
// @Tags        discovery
// @Produce     text/csv
// @Param       erddap_url query string false "Base URL of the ERDDAP server"
// @Success     200 {string} string "CSV listing"
// @Failure     400 {object} map[string]string "Missing or invalid erddap_url"
// @Failure     502 {object} map[string]string "ERDDAP request failed"
// @Router      /datasets [get]
func (h *RESTHandler) handleDatasets(w http.ResponseWriter, r *http.Request) {
	res, err := h.tools.call(r.Context(), listDatasetsToolDef.Name, queryArgs(r, "erddap_url"))
	serveToolResult(w, res, err)
}
