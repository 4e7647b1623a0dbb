package http

import (
	"net/http"
	"time"

	"github.com/nextprepbd/platform/pkg/httpx"
	"github.com/nextprepbd/platform/pkg/platformsdk"
)

// LivezHandler is the liveness probe. Always 200 while the process runs.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, platformsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
