package exports

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/pkg"
)

type Handler struct {
	exporter *Exporter
}

func NewHandler(exporter *Exporter) *Handler {
	return &Handler{
		exporter: exporter,
	}
}

// HandleExport streams one entity as CSV and leaves a copy in the data dir.
func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.export")
	defer span.End()

	entity := mux.Vars(r)["entity"]

	var csvBytes []byte
	var err error
	switch entity {
	case "workouts":
		csvBytes, err = handler.exporter.ExportWorkouts(ctx)
	case "activities":
		csvBytes, err = handler.exporter.ExportActivities(ctx)
	case "daily-stats":
		csvBytes, err = handler.exporter.ExportDailyStats(ctx)
	case "sleep":
		csvBytes, err = handler.exporter.ExportSleep(ctx)
	default:
		http.Error(w, "error, unknown export entity", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("export %s failed: %s", entity, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+entity+".csv")
	pkg.WriteResponseBytes(w, pkg.ContentType.CSV, csvBytes, http.StatusOK)
}
