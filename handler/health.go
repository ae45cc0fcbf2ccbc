package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mexc-data/hotwatch/internal/ingest/supervisor"
)

// StatusSource reports the supervision state backing the health endpoint.
type StatusSource interface {
	State() supervisor.State
	Attempts() int
}

type HealthHandlerParams struct {
	fx.In

	Status StatusSource
	Log    *zap.Logger
}

func NewHealthHandler(params HealthHandlerParams) *HealthHandler {
	return &HealthHandler{
		status: params.Status,
		log:    params.Log,
	}
}

type HealthHandler struct {
	status StatusSource
	log    *zap.Logger
}

type healthReport struct {
	Status   string `json:"status"`
	Worker   string `json:"worker_state"`
	Attempts int    `json:"restart_attempts"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	state := h.status.State()

	report := healthReport{
		Status:   "ok",
		Worker:   state.String(),
		Attempts: h.status.Attempts(),
	}

	// a halted supervisor means the worker is gone for good; report the
	// daemon as unhealthy while keeping the state readable
	code := http.StatusOK
	if state == supervisor.StateHalted {
		report.Status = "halted"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.log.Debug("failed to write health response", zap.Error(err))
	}
}
