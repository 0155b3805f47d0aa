package insights

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/pkg"
)

type InsightsResponse struct {
	Insights string `json:"insights"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.insights")
	defer span.End()

	insights, err := handler.service.GenerateInsights(ctx)
	if errors.Is(err, ErrInsightsDisabled) {
		http.Error(w, "insights are disabled", http.StatusServiceUnavailable)
		return
	} else if err != nil {
		log.Errorf("failed to generate insights: %s", err)
		http.Error(w, "failed to generate insights", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(InsightsResponse{Insights: insights})
	if err != nil {
		log.Errorf("failed to marshal insights: %s", err)
		http.Error(w, "failed to marshal insights", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
