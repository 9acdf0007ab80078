package http

import (
	"io"
	"net/http"
)

// getServerVersion answers GET /api/version with the build version as plain text.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, h.services.AppInfoService.GetAppVersion(r.Context()))
}
