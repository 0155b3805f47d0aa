package dailystats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/pkg"
)

type handlerRepo interface {
	GetByDate(ctx context.Context, date time.Time) (*DailyStats, error)
	List(ctx context.Context, from, to time.Time) ([]DailyStats, error)
}

type ListResponse struct {
	Stats []DailyStats `json:"stats"`
	Total int          `json:"total"`
}

type Handler struct {
	repo handlerRepo
	now  func() time.Time
}

func NewHandler(repo handlerRepo) *Handler {
	return &Handler{
		repo: repo,
		now:  time.Now,
	}
}

// HandleList returns daily stats for a date range, the last 30 days by default.
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dailystats.list")
	defer span.End()

	to := handler.now().UTC()
	from := to.AddDate(0, 0, -30)
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := pkg.ParseDate(fromStr)
		if err != nil {
			http.Error(w, "parse form error, parameter <from>", http.StatusBadRequest)
			return
		}
		from = parsed
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		parsed, err := pkg.ParseDate(toStr)
		if err != nil {
			http.Error(w, "parse form error, parameter <to>", http.StatusBadRequest)
			return
		}
		to = parsed
	}

	stats, err := handler.repo.List(ctx, from, to)
	if err != nil {
		log.Errorf("failed to list daily stats: %s", err)
		http.Error(w, "failed to list daily stats", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListResponse{
		Stats: stats,
		Total: len(stats),
	})
	if err != nil {
		log.Errorf("failed to marshal daily stats: %s", err)
		http.Error(w, "failed to marshal daily stats", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleGetByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dailystats.getByDate")
	defer span.End()

	dateStr := mux.Vars(r)["date"]
	date, err := pkg.ParseDate(dateStr)
	if err != nil {
		http.Error(w, "error, invalid date", http.StatusBadRequest)
		return
	}

	stats, err := handler.repo.GetByDate(ctx, date)
	if errors.Is(err, ErrDailyStatsNotFound) {
		http.Error(w, "daily stats not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get daily stats for %s: %s", dateStr, err)
		http.Error(w, "failed to get daily stats", http.StatusInternalServerError)
		return
	}

	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal daily stats: %s", err)
		http.Error(w, "failed to marshal daily stats", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statsJson, http.StatusOK)
}
