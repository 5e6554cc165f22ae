package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/justclara/onboarding_services/internal/onboarding_service/app"
	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
	adapter_http "github.com/justclara/onboarding_services/internal/onboarding_service/transport/http"
)

type MockOnboardingService struct {
	mock.Mock
}

func (m *MockOnboardingService) StartRun(ctx context.Context, in domain.ProfileInput) (*domain.Run, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Run), args.Error(1)
}

func (m *MockOnboardingService) RunSync(ctx context.Context, in domain.ProfileInput) (*domain.Run, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Run), args.Error(1)
}

func (m *MockOnboardingService) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Run), args.Error(1)
}

const testSecret = "test-secret"

func newTestRouter(svc *MockOnboardingService, secret string) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := adapter_http.NewOnboardingHandler(svc, logger, validator.New())
	return adapter_http.NewRouter(handler, adapter_http.RouterConfig{JWTSecret: secret, CORSAllowedOrigin: "*"}, logger)
}

func validBody() map[string]any {
	return map[string]any{
		"company_name":         "Acme Plumbing",
		"business_address":     "1 Main St, Chicago, IL",
		"timezone":             "Central",
		"business_hours":       "Mon-Fri 9-5",
		"websites":             []string{"acme.example"},
		"primary_phone_number": "(312) 555-0100",
		"preferred_area_code":  "773",
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestOnboardingHandler_CreateRun(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("StartRun", mock.Anything, domain.ProfileInput{
		Name:              "Acme Plumbing",
		Address:           "1 Main St, Chicago, IL",
		TimeZone:          "Central",
		BusinessHours:     "Mon-Fri 9-5",
		WebsiteURL:        "acme.example",
		ContactPhone:      "(312) 555-0100",
		PreferredAreaCode: "773",
	}).Return(domain.NewRun("run-1", "Acme Plumbing", time.Now()), nil).Once()

	rr := doJSON(t, newTestRouter(svc, ""), http.MethodPost, "/api/v1/onboarding/runs", validBody(), nil)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	var resp adapter_http.CreateRunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "run-1", resp.RunID)
	svc.AssertExpectations(t)
}

func TestOnboardingHandler_CreateRunLegacyPath(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("StartRun", mock.Anything, mock.Anything).Return(domain.NewRun("run-7", "Acme", time.Now()), nil).Once()

	rr := doJSON(t, newTestRouter(svc, ""), http.MethodPost, "/create-agent", validBody(), nil)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestOnboardingHandler_CreateRunValidation(t *testing.T) {
	svc := new(MockOnboardingService)
	router := newTestRouter(svc, "")

	body := validBody()
	delete(body, "company_name")
	rr := doJSON(t, router, http.MethodPost, "/api/v1/onboarding/runs", body, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "CompanyName")

	body = validBody()
	body["preferred_area_code"] = "77"
	rr = doJSON(t, router, http.MethodPost, "/api/v1/onboarding/runs", body, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/runs", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNotCalled(t, "StartRun", mock.Anything, mock.Anything)
}

func TestOnboardingHandler_CreateRunServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"InvalidPhone", domain.ErrInvalidPhoneNumber, http.StatusBadRequest},
		{"Busy", app.ErrBusy, http.StatusServiceUnavailable},
		{"StoreDown", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOnboardingService)
			svc.On("StartRun", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rr := doJSON(t, newTestRouter(svc, ""), http.MethodPost, "/api/v1/onboarding/runs", validBody(), nil)
			assert.Equal(t, tt.wantStatus, rr.Code)

			var resp adapter_http.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestOnboardingHandler_GetRunStatus(t *testing.T) {
	svc := new(MockOnboardingService)
	run := domain.NewRun("run-1", "Acme Plumbing", time.Now())
	run.Status = domain.RunInProgress
	run.Stage = domain.StepPhoneNumber
	run.Progress = 55
	svc.On("GetRun", mock.Anything, "run-1").Return(run, nil).Twice()
	svc.On("GetRun", mock.Anything, "missing").Return(nil, domain.ErrRunNotFound).Once()
	router := newTestRouter(svc, "")

	for _, path := range []string{"/api/v1/onboarding/runs/run-1", "/creation-status/run-1"} {
		rr := doJSON(t, router, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, rr.Code, path)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "run-1", body["run_id"])
		assert.Equal(t, "in_progress", body["status"])
		assert.Equal(t, "phone_number", body["stage"])
		assert.EqualValues(t, 55, body["progress"])
	}

	rr := doJSON(t, router, http.MethodGet, "/creation-status/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	svc.AssertExpectations(t)
}

func TestOnboardingHandler_OnboardSync(t *testing.T) {
	svc := new(MockOnboardingService)
	failed := domain.NewRun("run-3", "Acme Plumbing", time.Now())
	failed.Status = domain.RunFailed
	failed.FailedStep = domain.StepKnowledgeBase
	failed.TroubleshootingTips = []string{"Try a different website URL"}
	svc.On("RunSync", mock.Anything, mock.Anything).Return(failed, nil).Once()

	rr := doJSON(t, newTestRouter(svc, ""), http.MethodPost, "/onboard", validBody(), nil)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "knowledge_base", body["failed_step"])
	assert.Equal(t, []any{"Try a different website URL"}, body["troubleshooting_tips"])
}

func signedToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator-1",
		"exp": exp.Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("GetRun", mock.Anything, "run-1").Return(domain.NewRun("run-1", "Acme", time.Now()), nil)
	router := newTestRouter(svc, testSecret)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"Missing", "", http.StatusUnauthorized},
		{"WrongScheme", "Basic abc", http.StatusUnauthorized},
		{"WrongSecret", "Bearer " + signedToken(t, "other", time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"Expired", "Bearer " + signedToken(t, testSecret, time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"Valid", "Bearer " + signedToken(t, testSecret, time.Now().Add(time.Hour)), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			rr := doJSON(t, router, http.MethodGet, "/api/v1/onboarding/runs/run-1", nil, h)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}

	// health stays public
	rr := doJSON(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestOnboardingHandler_CreateRunLogsOperator(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("StartRun", mock.Anything, mock.Anything).Return(domain.NewRun("run-1", "Acme Plumbing", time.Now()), nil).Once()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	handler := adapter_http.NewOnboardingHandler(svc, logger, validator.New())
	router := adapter_http.NewRouter(handler, adapter_http.RouterConfig{JWTSecret: testSecret}, logger)

	h := http.Header{}
	h.Set("Authorization", "Bearer "+signedToken(t, testSecret, time.Now().Add(time.Hour)))
	rr := doJSON(t, router, http.MethodPost, "/api/v1/onboarding/runs", validBody(), h)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Contains(t, logs.String(), "Provisioning run accepted")
	assert.Contains(t, logs.String(), "operator=operator-1")
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(new(MockOnboardingService), "")
	req := httptest.NewRequest(http.MethodOptions, "/create-agent", nil)
	req.Header.Set("Origin", "https://voice.justclara.ai")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
}
