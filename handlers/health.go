package handlers

import (
	"net/http"

	"github.com/akinalp/tovi/pkg"
)

// Health, GET /api/health — liveness kontrolü.
// Load balancer / uptime monitörleri için; auth gerektirmez.
func Health(w http.ResponseWriter, _ *http.Request) {
	pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
