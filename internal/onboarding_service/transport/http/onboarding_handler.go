package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/justclara/onboarding_services/internal/onboarding_service/app"
	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

// OnboardingService is the part of app.OnboardingService the handler uses.
type OnboardingService interface {
	StartRun(ctx context.Context, in domain.ProfileInput) (*domain.Run, error)
	RunSync(ctx context.Context, in domain.ProfileInput) (*domain.Run, error)
	GetRun(ctx context.Context, id string) (*domain.Run, error)
}

type OnboardingHandler struct {
	service  OnboardingService
	logger   *slog.Logger
	validate *validator.Validate
}

func NewOnboardingHandler(service OnboardingService, logger *slog.Logger, validate *validator.Validate) *OnboardingHandler {
	return &OnboardingHandler{
		service:  service,
		logger:   logger.With("component", "onboarding_handler"),
		validate: validate,
	}
}

// RegisterRoutes mounts the versioned API and the legacy paths the website calls.
func (h *OnboardingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/onboarding/runs", h.CreateRun)
	r.Get("/api/v1/onboarding/runs/{runID}", h.GetRunStatus)
	r.Post("/create-agent", h.CreateRun)
	r.Get("/creation-status/{runID}", h.GetRunStatus)
	r.Post("/onboard", h.OnboardSync)
}

func (h *OnboardingHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	in, ok := h.decode(w, r, logger)
	if !ok {
		return
	}

	run, err := h.service.StartRun(ctx, in)
	if err != nil {
		h.writeServiceError(ctx, w, logger, err)
		return
	}

	operator, _ := OperatorFromContext(ctx)
	logger.InfoContext(ctx, "Provisioning run accepted", "run_id", run.ID, "business", run.CompanyName, "operator", operator)
	writeJSON(ctx, w, logger, http.StatusAccepted, CreateRunResponse{
		Success: true,
		RunID:   run.ID,
		Message: "Agent creation started",
	})
}

func (h *OnboardingHandler) GetRunStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))
	runID := chi.URLParam(r, "runID")

	run, err := h.service.GetRun(ctx, runID)
	if err != nil {
		h.writeServiceError(ctx, w, logger, err)
		return
	}
	writeJSON(ctx, w, logger, http.StatusOK, RunStatusResponse{Success: run.Status != domain.RunFailed, Run: run})
}

// OnboardSync runs the whole pipeline inside the request.
func (h *OnboardingHandler) OnboardSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	in, ok := h.decode(w, r, logger)
	if !ok {
		return
	}

	run, err := h.service.RunSync(ctx, in)
	if err != nil {
		h.writeServiceError(ctx, w, logger, err)
		return
	}

	status := http.StatusOK
	if run.Status == domain.RunFailed {
		status = http.StatusBadGateway
	}
	writeJSON(ctx, w, logger, status, RunStatusResponse{Success: run.Status != domain.RunFailed, Run: run})
}

func (h *OnboardingHandler) decode(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (domain.ProfileInput, bool) {
	ctx := r.Context()
	defer r.Body.Close()

	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "Failed to decode onboarding request", "error", err)
		writeError(ctx, w, logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return domain.ProfileInput{}, false
	}
	if err := h.validate.StructCtx(ctx, req); err != nil {
		logger.WarnContext(ctx, "Validation failed for onboarding request", "error", err)
		writeError(ctx, w, logger, http.StatusBadRequest, "Validation failed: "+err.Error())
		return domain.ProfileInput{}, false
	}
	return req.ProfileInput(), true
}

func (h *OnboardingHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingBusinessName),
		errors.Is(err, domain.ErrInvalidPhoneNumber),
		errors.Is(err, domain.ErrInvalidAreaCode):
		writeError(ctx, w, logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRunNotFound):
		writeError(ctx, w, logger, http.StatusNotFound, "Creation ID not found")
	case errors.Is(err, app.ErrBusy):
		w.Header().Set("Retry-After", "60")
		writeError(ctx, w, logger, http.StatusServiceUnavailable, err.Error())
	default:
		logger.ErrorContext(ctx, "Onboarding request failed", "error", err)
		writeError(ctx, w, logger, http.StatusInternalServerError, "Internal server error")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(ctx, w, logger, status, ErrorResponse{Success: false, Error: msg})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.ErrorContext(ctx, "Failed to write response", "error", err)
	}
}
