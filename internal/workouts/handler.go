package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/pkg"
)

const defaultPageSize = 20

type handlerRepo interface {
	Get(ctx context.Context, id int) (*Workout, error)
	List(ctx context.Context, params ListParams) (_ []Workout, total int, err error)
}

type ListResponse struct {
	Workouts []Workout `json:"workouts"`
	Total    int       `json:"total"`
}

type RecoveryResponse struct {
	LastRecoveryDay   string   `json:"lastRecoveryDay"`
	DaysSinceRecovery int      `json:"daysSinceRecovery"`
	RecoveryDays      int      `json:"recoveryDaysInPeriod"`
	RecoveryDates     []string `json:"recoveryDates"`
	PeriodDays        int      `json:"periodDays"`
}

type DistributionResponse struct {
	From         string        `json:"from"`
	To           string        `json:"to"`
	TotalSets    int           `json:"totalSets"`
	Distribution []MuscleShare `json:"distribution"`
}

type Handler struct {
	repo             handlerRepo
	analyzer         *Analyzer
	recoveryAnalyzer *RecoveryAnalyzer

	cache       *freecache.Cache
	cacheExpire int
	now         func() time.Time
}

type NewHandlerParams struct {
	Repo             handlerRepo
	Analyzer         *Analyzer
	RecoveryAnalyzer *RecoveryAnalyzer
	CacheSizeMB      int
	CacheExpireSecs  int
}

func NewHandler(params NewHandlerParams) *Handler {
	megabyte := 1024 * 1024
	return &Handler{
		repo:             params.Repo,
		analyzer:         params.Analyzer,
		recoveryAnalyzer: params.RecoveryAnalyzer,
		cache:            freecache.NewCache(params.CacheSizeMB * megabyte),
		cacheExpire:      params.CacheExpireSecs,
		now:              time.Now,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
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

	from, to, err := periodFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	workoutsPage, total, err := handler.repo.List(ctx, ListParams{
		WorkoutParams: WorkoutParams{
			Platform: r.URL.Query().Get("platform"),
			From:     from,
			To:       to,
		},
		Page: page,
		Size: size,
	})
	if err != nil {
		log.Errorf("failed to list workouts: %s", err)
		http.Error(w, "failed to list workouts", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListResponse{
		Workouts: workoutsPage,
		Total:    total,
	})
	if err != nil {
		log.Errorf("failed to marshal workouts: %s", err)
		http.Error(w, "failed to marshal workouts", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id, err := idFromVars(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	workout, err := handler.repo.Get(ctx, id)
	if errors.Is(err, ErrWorkoutNotFound) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get workout %d: %s", id, err)
		http.Error(w, "failed to get workout", http.StatusInternalServerError)
		return
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		http.Error(w, "failed to marshal workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutJson, http.StatusOK)
}

func (handler *Handler) HandleWorkoutMuscles(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.muscles")
	defer span.End()

	id, err := idFromVars(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	analysis, err := handler.analyzer.AnalyzeWorkout(ctx, id)
	if errors.Is(err, ErrWorkoutNotFound) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to analyze workout %d: %s", id, err)
		http.Error(w, "failed to analyze workout", http.StatusInternalServerError)
		return
	}

	analysisJson, err := json.Marshal(analysis)
	if err != nil {
		log.Errorf("failed to marshal workout analysis: %s", err)
		http.Error(w, "failed to marshal workout analysis", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, analysisJson, http.StatusOK)
}

// HandleDistribution returns the muscle volume distribution over a period,
// last 30 days by default. Responses are cached for a few minutes since
// the underlying data only changes on sync.
func (handler *Handler) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.distribution")
	defer span.End()

	from, to, err := periodFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if to == nil {
		now := handler.now()
		to = &now
	}
	if from == nil {
		monthAgo := to.AddDate(0, 0, -30)
		from = &monthAgo
	}

	cacheKey := fmt.Sprintf("distribution::%d::%d", from.Unix(), to.Unix())
	if cached, err := handler.cache.Get([]byte(cacheKey)); err == nil {
		log.Tracef("muscle distribution [%s - %s] served from cache", from, to)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
		return
	}

	analysis, err := handler.analyzer.AnalyzePeriod(ctx, r.URL.Query().Get("platform"), *from, *to)
	if err != nil {
		log.Errorf("failed to analyze period [%s - %s]: %s", from, to, err)
		http.Error(w, "failed to analyze period", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DistributionResponse{
		From:         from.Format(time.RFC3339),
		To:           to.Format(time.RFC3339),
		TotalSets:    analysis.TotalSets,
		Distribution: analysis.Distribution(),
	})
	if err != nil {
		log.Errorf("failed to marshal muscle distribution: %s", err)
		http.Error(w, "failed to marshal muscle distribution", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set([]byte(cacheKey), respJson, handler.cacheExpire); err != nil {
		log.Errorf("failed to cache muscle distribution: %s", err)
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleRecovery(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.recovery")
	defer span.End()

	now := handler.now()

	lastRecoveryDay, err := handler.recoveryAnalyzer.LastRecoveryDay(ctx, now)
	if errors.Is(err, ErrNoRecoveryDay) {
		http.Error(w, "no recovery day found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get last recovery day: %s", err)
		http.Error(w, "failed to get last recovery day", http.StatusInternalServerError)
		return
	}

	periodDays := 30
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if periodDays, err = strconv.Atoi(daysStr); err != nil || periodDays < 1 {
			http.Error(w, "parse form error, parameter <days>", http.StatusBadRequest)
			return
		}
	}

	recoveryDays, recoveryDates, err := handler.recoveryAnalyzer.CountRecoveryDays(ctx, now.AddDate(0, 0, -periodDays), now.AddDate(0, 0, -1))
	if err != nil {
		log.Errorf("failed to count recovery days: %s", err)
		http.Error(w, "failed to count recovery days", http.StatusInternalServerError)
		return
	}

	recoveryDatesStr := make([]string, 0, len(recoveryDates))
	for _, d := range recoveryDates {
		recoveryDatesStr = append(recoveryDatesStr, d.Format("2006-01-02"))
	}

	today := now.UTC().Truncate(24 * time.Hour)
	respJson, err := json.Marshal(RecoveryResponse{
		LastRecoveryDay:   lastRecoveryDay.Format("2006-01-02"),
		DaysSinceRecovery: int(today.Sub(lastRecoveryDay).Hours() / 24),
		RecoveryDays:      recoveryDays,
		RecoveryDates:     recoveryDatesStr,
		PeriodDays:        periodDays,
	})
	if err != nil {
		log.Errorf("failed to marshal recovery response: %s", err)
		http.Error(w, "failed to marshal recovery response", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func idFromVars(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, errors.New("error, id empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("error, id NaN")
	}
	return id, nil
}

func periodFromQuery(r *http.Request) (from, to *time.Time, err error) {
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := pkg.ParseTimestamp(fromStr)
		if err != nil {
			parsed, err = pkg.ParseDate(fromStr)
		}
		if err != nil {
			return nil, nil, errors.New("parse form error, parameter <from>")
		}
		from = &parsed
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		parsed, err := pkg.ParseTimestamp(toStr)
		if err != nil {
			parsed, err = pkg.ParseDate(toStr)
		}
		if err != nil {
			return nil, nil, errors.New("parse form error, parameter <to>")
		}
		to = &parsed
	}
	return from, to, nil
}
