// Package main provides the ERDDAP MCP server with an optional REST API layer.
//
// @title           ERDDAP Tabledap API
// @version         1.0
// @description     REST access to the ERDDAP tools of this server. Every endpoint queries a remote ERDDAP server chosen with erddap_url (or the configured default) and returns its normalized response.
// @BasePath        /api
// @schemes         http https
//
// @tag.name        discovery
// @tag.description Standard names, dataset search and dataset listings
// @tag.name        data
// @tag.description Variable metadata and variable data
// @tag.name        reference
// @tag.description Server usage statistics
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	_ "github.com/nguyandy/erddap-mcp-demo/cmd/mcp-server/docs"
	"github.com/nguyandy/erddap-mcp-demo/internal/audit"
	"github.com/nguyandy/erddap-mcp-demo/internal/erddap"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RESTHandler serves the tools as plain HTTP endpoints.
type RESTHandler struct {
	tools *toolset
}

// Register attaches all /api/* routes and the /docs/ Swagger UI to mux.
func (h *RESTHandler) Register(mux *http.ServeMux) {
	// Discovery
	mux.HandleFunc("GET /api/standard-names", h.handleStandardNames)
	mux.HandleFunc("GET /api/search", h.handleSearch)
	mux.HandleFunc("GET /api/datasets", h.handleDatasets)

	// Data
	mux.HandleFunc("GET /api/datasets/{id}/variables", h.handleVariables)
	mux.HandleFunc("GET /api/data/{id}", h.handleData)

	// Reference
	mux.HandleFunc("GET /api/stats", h.handleStats)

	mux.Handle("/docs/", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
		httpSwagger.DocExpansion("list"),
		httpSwagger.UIConfig(map[string]string{
			"onComplete": `function() { document.title = 'ERDDAP MCP Docs'; }`,
		}),
	))
}

// queryArgs copies the listed query parameters into a tool argument map.
// A repeated parameter becomes a list.
func queryArgs(r *http.Request, keys ...string) map[string]any {
	q := r.URL.Query()
	args := make(map[string]any, len(keys))
	for _, k := range keys {
		switch vals := q[k]; len(vals) {
		case 0:
		case 1:
			args[k] = vals[0]
		default:
			args[k] = vals
		}
	}
	return args
}

// writeJSON writes v as a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_ = jsonEncode(w, v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// jsonEncode writes v as JSON to w.
func jsonEncode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// errorStatus maps a tool error to an HTTP status code.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, erddap.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, erddap.ErrRemoteTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, erddap.ErrRemoteRequest):
		return http.StatusBadGateway
	case errors.Is(err, audit.ErrNoStats):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// serveToolResult writes the outcome of a tool call. Text results are CSV,
// file payloads are sent as attachments and everything else as JSON.
func serveToolResult(w http.ResponseWriter, res any, err error) {
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	switch v := res.(type) {
	case string:
		writeCSV(w, "", v)
	case *erddap.FilePayload:
		writeCSV(w, v.Filename, v.Content)
	default:
		writeJSON(w, http.StatusOK, v)
	}
}

func writeCSV(w http.ResponseWriter, filename, content string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, content)
}

// handleHealth handles GET /healthz
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
