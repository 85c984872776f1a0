package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mergington/campus/pkg/api"
	"github.com/mergington/campus/pkg/observability"
	"github.com/mergington/campus/pkg/storage"
	"github.com/mergington/campus/pkg/transport"
)

// Status messages for GET /genai/status. The endpoint always answers 200;
// the message tells the caller which tier of availability applies.
const (
	statusReadyMessage      = "GenAI System Engineering is ready"
	statusNotConfiguredMsg  = "GenAI is not configured. Please set OPENAI_API_KEY environment variable."
	statusModuleUnavailable = "GenAI module is not available. Install required dependencies."
	taskUnavailableMessage  = "GenAI functionality is not available"
	missingEmailMessage     = "missing required query parameter"
	activityNotFoundMessage = "Activity not found"
)

// Adapter serves the campus API over HTTP: the activity catalog, the
// signup endpoint, and the GenAI task endpoints.
type Adapter struct {
	store  transport.ActivityStore
	tasks  transport.TaskRunner // nil when the GenAI feature is switched off
	mux    *http.ServeMux
	config Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
	StaticDir   string // directory for the web UI; empty disables /static/
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MB
	}
}

// NewAdapter creates an HTTP adapter. The TaskRunner may be nil: the task
// endpoints then answer 503 while the status endpoint reports the feature
// as unavailable. The catalog endpoints work regardless.
func NewAdapter(store transport.ActivityStore, tasks transport.TaskRunner, cfg Config) *Adapter {
	a := &Adapter{
		store:  store,
		tasks:  tasks,
		mux:    http.NewServeMux(),
		config: cfg,
	}

	a.mux.HandleFunc("GET /activities", a.handleListActivities)
	a.mux.HandleFunc("POST /activities/{name}/signup", a.handleSignup)

	a.mux.HandleFunc("GET /genai/status", a.handleGenAIStatus)
	a.mux.HandleFunc("POST /genai/analyze-requirements", a.handleAnalyzeRequirements)
	a.mux.HandleFunc("POST /genai/generate-design", a.handleGenerateDesign)
	a.mux.HandleFunc("POST /genai/assess-risks", a.handleAssessRisks)
	a.mux.HandleFunc("POST /genai/generate-test-cases", a.handleGenerateTestCases)
	a.mux.HandleFunc("POST /genai/optimize-system", a.handleOptimizeSystem)

	if cfg.StaticDir != "" {
		a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
		a.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
		})
	}

	return a
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest.
func (a *Adapter) Handler() http.Handler {
	return a.mux
}

// handleListActivities handles GET /activities.
func (a *Adapter) handleListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := a.store.List(r.Context())
	if err != nil {
		transport.WriteAPIError(w, api.NewServerError(err.Error()))
		return
	}
	transport.WriteJSON(w, http.StatusOK, activities)
}

// handleSignup handles POST /activities/{name}/signup?email=...
// Signups are append-only: repeated calls with the same email add
// duplicate entries, matching the catalog's documented behavior.
func (a *Adapter) handleSignup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	email := r.URL.Query().Get("email")
	if email == "" {
		transport.WriteAPIError(w, api.NewInvalidRequestError("email", missingEmailMessage))
		return
	}

	if err := a.store.Signup(r.Context(), name, email); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			transport.WriteAPIError(w, api.NewNotFoundError(activityNotFoundMessage))
		} else {
			transport.WriteAPIError(w, api.NewServerError(err.Error()))
		}
		return
	}

	observability.SignupsTotal.WithLabelValues(name).Inc()
	transport.WriteJSON(w, http.StatusOK, api.SignupResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

// handleGenAIStatus handles GET /genai/status. It always answers 200,
// reporting one of the three availability tiers.
func (a *Adapter) handleGenAIStatus(w http.ResponseWriter, r *http.Request) {
	if a.tasks == nil {
		transport.WriteJSON(w, http.StatusOK, api.GenAIStatus{
			Enabled: false,
			Message: statusModuleUnavailable,
		})
		return
	}

	if a.tasks.Enabled() {
		transport.WriteJSON(w, http.StatusOK, api.GenAIStatus{
			Enabled: true,
			Message: statusReadyMessage,
			Model:   a.tasks.Model(),
		})
		return
	}

	transport.WriteJSON(w, http.StatusOK, api.GenAIStatus{
		Enabled: false,
		Message: statusNotConfiguredMsg,
	})
}

// taskValidator is implemented by all task request types.
type taskValidator interface {
	Validate() *api.APIError
}

// decodeTaskRequest enforces the shared preconditions of the five task
// endpoints: the feature must not be switched off (503 otherwise), the
// body must be valid JSON within the size limit, and the request's
// required fields must be present. Returns false if a response has
// already been written.
func (a *Adapter) decodeTaskRequest(w http.ResponseWriter, r *http.Request, req taskValidator) bool {
	if a.tasks == nil {
		transport.WriteAPIError(w, api.NewUnavailableError(taskUnavailableMessage))
		return false
	}

	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return false
		}
		transport.WriteAPIError(w, api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()))
		return false
	}

	if apiErr := req.Validate(); apiErr != nil {
		transport.WriteAPIError(w, apiErr)
		return false
	}

	return true
}

// handleAnalyzeRequirements handles POST /genai/analyze-requirements.
func (a *Adapter) handleAnalyzeRequirements(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeRequirementsRequest
	if !a.decodeTaskRequest(w, r, &req) {
		return
	}
	result := a.tasks.AnalyzeRequirements(r.Context(), *req.RequirementsText)
	transport.WriteJSON(w, http.StatusOK, result)
}

// handleGenerateDesign handles POST /genai/generate-design.
func (a *Adapter) handleGenerateDesign(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateDesignRequest
	if !a.decodeTaskRequest(w, r, &req) {
		return
	}
	result := a.tasks.GenerateDesign(r.Context(), *req.Specifications, req.DesignType)
	transport.WriteJSON(w, http.StatusOK, result)
}

// handleAssessRisks handles POST /genai/assess-risks.
func (a *Adapter) handleAssessRisks(w http.ResponseWriter, r *http.Request) {
	var req api.AssessRisksRequest
	if !a.decodeTaskRequest(w, r, &req) {
		return
	}
	result := a.tasks.AssessRisks(r.Context(), *req.SystemDescription)
	transport.WriteJSON(w, http.StatusOK, result)
}

// handleGenerateTestCases handles POST /genai/generate-test-cases.
func (a *Adapter) handleGenerateTestCases(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateTestCasesRequest
	if !a.decodeTaskRequest(w, r, &req) {
		return
	}
	result := a.tasks.GenerateTestCases(r.Context(), *req.Requirements, req.TestType)
	transport.WriteJSON(w, http.StatusOK, result)
}

// handleOptimizeSystem handles POST /genai/optimize-system.
func (a *Adapter) handleOptimizeSystem(w http.ResponseWriter, r *http.Request) {
	var req api.OptimizeSystemRequest
	if !a.decodeTaskRequest(w, r, &req) {
		return
	}
	result := a.tasks.OptimizeSystem(r.Context(), req.SystemConfig, req.OptimizationGoal)
	transport.WriteJSON(w, http.StatusOK, result)
}
