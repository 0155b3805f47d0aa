package syncer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/pkg"
)

type Handler struct {
	syncer *Syncer
}

func NewHandler(s *Syncer) *Handler {
	return &Handler{
		syncer: s,
	}
}

// HandleSync triggers a sync for one platform, or all of them.
// A full re-fetch is the default, ?light=true syncs only records newer
// than the stored cursors.
func (handler *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sync")
	defer span.End()

	platform := mux.Vars(r)["platform"]
	full := r.URL.Query().Get("light") != "true"

	var result SyncResult
	var err error
	switch platform {
	case "hevy":
		result, err = handler.syncer.SyncHevy(ctx, full)
	case "strava":
		result, err = handler.syncer.SyncStrava(ctx, full)
	case "garmin":
		result, err = handler.syncer.SyncGarmin(ctx, full)
	case "all":
		result, err = handler.syncer.SyncAll(ctx, full)
	default:
		http.Error(w, "error, unknown platform", http.StatusBadRequest)
		return
	}

	switch {
	case errors.Is(err, ErrHevyNotConfigured),
		errors.Is(err, ErrStravaNotConfigured),
		errors.Is(err, ErrGarminNotConfigured):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	case err != nil:
		log.Errorf("sync %s failed: %s", platform, err)
		http.Error(w, "sync failed", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal sync result: %s", err)
		http.Error(w, "failed to marshal sync result", http.StatusInternalServerError)
		return
	}

	log.Debugf("sync %s done: %s", platform, respJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
