package main

import "net/http"

// handleVariables handles GET /api/datasets/{id}/variables
//
// @Summary     List dataset variables
// @Description Returns the variables of a dataset as CSV: variable_name, long_name, standard_name, units, axis.
// @Tags        data
// @Produce     text/csv
// @Param       id         path  string true  "Dataset ID"
// @Param       erddap_url query string false "Base URL of the ERDDAP server"
// @Success     200 {string} string "CSV listing"
// @Failure     400 {object} map[string]string "Invalid parameters"
// @Failure     502 {object} map[string]string "ERDDAP request failed"
// @Router      /datasets/{id}/variables [get]
func (h *RESTHandler) handleVariables(w http.ResponseWriter, r *http.Request) {
	args := queryArgs(r, "erddap_url")
	args["dataset_id"] = r.PathValue("id")
	res, err := h.tools.call(r.Context(), listDatasetVariablesToolDef.Name, args)
	serveToolResult(w, res, err)
}

// handleData handles GET /api/data/{id}
//
// @Summary     Download variable data
// @Description Returns the requested variables and the time column as a CSV attachment.
// @Tags        data
// @Produce     text/csv
// @Param       id            path  string  true  "Dataset ID"
// @Param       variable_name query string  true  "Variable name, comma-separated names, or the parameter repeated"
// @Param       erddap_url    query string  false "Base URL of the ERDDAP server"
// @Param       start_time    query string  false "Earliest time (ISO-8601)"
// @Param       end_time      query string  false "Latest time (ISO-8601), defaults to now"
// @Param       exclude_nans  query boolean false "Drop rows with NaN values" default(true)
// @Success     200 {string} string "CSV file"
// @Failure     400 {object} map[string]string "Invalid parameters"
// @Failure     502 {object} map[string]string "ERDDAP request failed"
// @Failure     504 {object} map[string]string "ERDDAP request timed out"
// @Router      /data/{id} [get]
func (h *RESTHandler) handleData(w http.ResponseWriter, r *http.Request) {
	args := queryArgs(r, "erddap_url", "variable_name", "start_time", "end_time", "exclude_nans")
	args["dataset_id"] = r.PathValue("id")
	res, err := h.tools.call(r.Context(), variableDataToolDef.Name, args)
	serveToolResult(w, res, err)
}
