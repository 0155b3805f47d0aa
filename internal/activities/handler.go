package activities

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/pkg"
)

const defaultPageSize = 20

type handlerRepo interface {
	Get(ctx context.Context, id int) (*Activity, error)
	List(ctx context.Context, params ListParams) (_ []Activity, total int, err error)
}

type ListResponse struct {
	Activities []Activity `json:"activities"`
	Total      int        `json:"total"`
}

type Handler struct {
	repo handlerRepo
}

func NewHandler(repo handlerRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.list")
	defer span.End()

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		var err error
		if page, err = strconv.Atoi(pageStr); err != nil {
			http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
			return
		}
	}
	size := defaultPageSize
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		var err error
		if size, err = strconv.Atoi(sizeStr); err != nil {
			http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
			return
		}
	}

	var from, to *time.Time
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := pkg.ParseDate(fromStr)
		if err != nil {
			http.Error(w, "parse form error, parameter <from>", http.StatusBadRequest)
			return
		}
		from = &parsed
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		parsed, err := pkg.ParseDate(toStr)
		if err != nil {
			http.Error(w, "parse form error, parameter <to>", http.StatusBadRequest)
			return
		}
		to = &parsed
	}

	activitiesPage, total, err := handler.repo.List(ctx, ListParams{
		ActivityParams: ActivityParams{
			Platform:     r.URL.Query().Get("platform"),
			ActivityType: r.URL.Query().Get("type"),
			From:         from,
			To:           to,
		},
		Page: page,
		Size: size,
	})
	if err != nil {
		log.Errorf("failed to list activities: %s", err)
		http.Error(w, "failed to list activities", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListResponse{
		Activities: activitiesPage,
		Total:      total,
	})
	if err != nil {
		log.Errorf("failed to marshal activities: %s", err)
		http.Error(w, "failed to marshal activities", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.get")
	defer span.End()

	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	activity, err := handler.repo.Get(ctx, id)
	if errors.Is(err, ErrActivityNotFound) {
		http.Error(w, "activity not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get activity %d: %s", id, err)
		http.Error(w, "failed to get activity", http.StatusInternalServerError)
		return
	}

	activityJson, err := json.Marshal(activity)
	if err != nil {
		log.Errorf("failed to marshal activity: %s", err)
		http.Error(w, "failed to marshal activity", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, activityJson, http.StatusOK)
}
