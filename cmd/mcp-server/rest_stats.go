package main

import (
	"net/http"

	"github.com/nguyandy/erddap-mcp-demo/internal/audit"
)

// handleStats handles GET /api/stats
//
// @Summary     Get tool usage statistics
// @Description Returns call counts, error counts and durations per tool from the audit log.
// @Tags        reference
// @Produce     json
// @Success     200 {array}  audit.ToolStats
// @Failure     503 {object} map[string]string "Audit log unavailable"
// @Router      /stats [get]
func (h *RESTHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	if !h.tools.audit.Enabled() {
		writeError(w, http.StatusServiceUnavailable, audit.ErrNoStats.Error())
		return
	}
	res, err := h.tools.call(r.Context(), usageStatsToolDef.Name, nil)
	serveToolResult(w, res, err)
}
