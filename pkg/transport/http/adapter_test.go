package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mergington/campus/pkg/api"
	"github.com/mergington/campus/pkg/storage/memory"
)

// stubRunner implements transport.TaskRunner for adapter tests, recording
// the arguments each task method received.
type stubRunner struct {
	enabled bool
	model   string
	result  *api.TaskResult

	calls    int
	lastText string
	lastTag  string
	lastCfg  map[string]any
}

func (s *stubRunner) Enabled() bool { return s.enabled }
func (s *stubRunner) Model() string { return s.model }

func (s *stubRunner) AnalyzeRequirements(_ context.Context, text string) *api.TaskResult {
	s.calls++
	s.lastText = text
	return s.result
}

func (s *stubRunner) GenerateDesign(_ context.Context, specs, designType string) *api.TaskResult {
	s.calls++
	s.lastText = specs
	s.lastTag = designType
	return s.result
}

func (s *stubRunner) AssessRisks(_ context.Context, desc string) *api.TaskResult {
	s.calls++
	s.lastText = desc
	return s.result
}

func (s *stubRunner) GenerateTestCases(_ context.Context, reqs, testType string) *api.TaskResult {
	s.calls++
	s.lastText = reqs
	s.lastTag = testType
	return s.result
}

func (s *stubRunner) OptimizeSystem(_ context.Context, cfg map[string]any, goal string) *api.TaskResult {
	s.calls++
	s.lastCfg = cfg
	s.lastTag = goal
	return s.result
}

func newTestAdapter(runner *stubRunner) *Adapter {
	if runner == nil {
		return NewAdapter(memory.New(), nil, DefaultConfig())
	}
	return NewAdapter(memory.New(), runner, DefaultConfig())
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// signupPath builds the signup request target with the activity name
// percent-encoded; seeded names contain spaces.
func signupPath(activity, email string) string {
	p := "/activities/" + url.PathEscape(activity) + "/signup"
	if email == "" {
		return p
	}
	return fmt.Sprintf("%s?email=%s", p, url.QueryEscape(email))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *api.APIError {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Error == nil {
		t.Fatal("error body has no error field")
	}
	return resp.Error
}

// --- activity catalog ---

func TestListActivitiesContainsSeededKeys(t *testing.T) {
	h := newTestAdapter(&stubRunner{}).Handler()
	rec := doJSON(t, h, http.MethodGet, "/activities", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var activities map[string]api.Activity
	if err := json.Unmarshal(rec.Body.Bytes(), &activities); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	for _, name := range []string{"Chess Club", "Programming Class", "Gym Class"} {
		if _, ok := activities[name]; !ok {
			t.Errorf("seeded activity %q missing", name)
		}
	}
}

func TestSignupAppendsParticipant(t *testing.T) {
	h := newTestAdapter(&stubRunner{}).Handler()

	rec := doJSON(t, h, http.MethodPost, signupPath("Chess Club", "newkid@mergington.edu"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp api.SignupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	want := "Signed up newkid@mergington.edu for Chess Club"
	if resp.Message != want {
		t.Errorf("message = %q, want %q", resp.Message, want)
	}

	rec = doJSON(t, h, http.MethodGet, "/activities", "")
	var activities map[string]api.Activity
	json.Unmarshal(rec.Body.Bytes(), &activities)
	found := false
	for _, p := range activities["Chess Club"].Participants {
		if p == "newkid@mergington.edu" {
			found = true
		}
	}
	if !found {
		t.Errorf("participant not appended: %v", activities["Chess Club"].Participants)
	}
}

func TestSignupDuplicateAppendsAgain(t *testing.T) {
	h := newTestAdapter(&stubRunner{}).Handler()

	for i := 0; i < 2; i++ {
		rec := doJSON(t, h, http.MethodPost, signupPath("Gym Class", "dup@mergington.edu"), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("signup %d: status = %d", i, rec.Code)
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/activities", "")
	var activities map[string]api.Activity
	json.Unmarshal(rec.Body.Bytes(), &activities)

	count := 0
	for _, p := range activities["Gym Class"].Participants {
		if p == "dup@mergington.edu" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("duplicate entries = %d, want 2", count)
	}
}

func TestSignupUnknownActivityReturns404(t *testing.T) {
	h := newTestAdapter(&stubRunner{}).Handler()

	rec := doJSON(t, h, http.MethodPost, signupPath("Knitting Circle", "x@mergington.edu"), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Message != "Activity not found" {
		t.Errorf("message = %q, want Activity not found", apiErr.Message)
	}
}

func TestSignupMissingEmailReturns400(t *testing.T) {
	h := newTestAdapter(&stubRunner{}).Handler()

	rec := doJSON(t, h, http.MethodPost, signupPath("Chess Club", ""), "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Param != "email" {
		t.Errorf("param = %q, want email", apiErr.Param)
	}
}

// --- status endpoint ---

func TestStatusFeatureSwitchedOff(t *testing.T) {
	h := newTestAdapter(nil).Handler()
	rec := doJSON(t, h, http.MethodGet, "/genai/status", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var st api.GenAIStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if st.Enabled {
		t.Error("enabled = true, want false")
	}
	if st.Message != statusModuleUnavailable {
		t.Errorf("message = %q, want %q", st.Message, statusModuleUnavailable)
	}
	if st.Model != "" {
		t.Errorf("model = %q, want empty", st.Model)
	}
}

func TestStatusNotConfigured(t *testing.T) {
	h := newTestAdapter(&stubRunner{enabled: false}).Handler()
	rec := doJSON(t, h, http.MethodGet, "/genai/status", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var st api.GenAIStatus
	json.Unmarshal(rec.Body.Bytes(), &st)
	if st.Enabled {
		t.Error("enabled = true, want false")
	}
	if st.Message != statusNotConfiguredMsg {
		t.Errorf("message = %q, want %q", st.Message, statusNotConfiguredMsg)
	}
}

func TestStatusReady(t *testing.T) {
	h := newTestAdapter(&stubRunner{enabled: true, model: "gpt-4"}).Handler()
	rec := doJSON(t, h, http.MethodGet, "/genai/status", "")

	var st api.GenAIStatus
	json.Unmarshal(rec.Body.Bytes(), &st)
	if !st.Enabled {
		t.Error("enabled = false, want true")
	}
	if st.Message != statusReadyMessage {
		t.Errorf("message = %q, want %q", st.Message, statusReadyMessage)
	}
	if st.Model != "gpt-4" {
		t.Errorf("model = %q, want gpt-4", st.Model)
	}
}

// --- task endpoints ---

var taskEndpoints = []struct {
	path string
	body string
}{
	{"/genai/analyze-requirements", `{"requirements_text": "the system shall respond"}`},
	{"/genai/generate-design", `{"specifications": "a web app"}`},
	{"/genai/assess-risks", `{"system_description": "microservices"}`},
	{"/genai/generate-test-cases", `{"requirements": "login"}`},
	{"/genai/optimize-system", `{"system_config": {"db": "mysql"}}`},
}

func TestTaskEndpointsReturn503WhenSwitchedOff(t *testing.T) {
	h := newTestAdapter(nil).Handler()

	for _, ep := range taskEndpoints {
		t.Run(ep.path, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, ep.path, ep.body)
			if rec.Code != http.StatusServiceUnavailable {
				t.Fatalf("status = %d, want 503", rec.Code)
			}
			apiErr := decodeError(t, rec)
			if apiErr.Type != api.ErrorTypeUnavailable {
				t.Errorf("type = %q, want %q", apiErr.Type, api.ErrorTypeUnavailable)
			}
			if apiErr.Message != taskUnavailableMessage {
				t.Errorf("message = %q, want %q", apiErr.Message, taskUnavailableMessage)
			}
		})
	}
}

func TestTaskEndpointsRelayResult(t *testing.T) {
	runner := &stubRunner{enabled: true, result: api.DisabledResult()}
	h := newTestAdapter(runner).Handler()

	for _, ep := range taskEndpoints {
		t.Run(ep.path, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, ep.path, ep.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}
			var result api.TaskResult
			if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
				t.Fatalf("invalid body: %v", err)
			}
			if result.Status != api.TaskStatusDisabled {
				t.Errorf("status = %q, want disabled", result.Status)
			}
			if result.Message != api.DisabledMessage {
				t.Errorf("message = %q, want %q", result.Message, api.DisabledMessage)
			}
		})
	}
	if runner.calls != len(taskEndpoints) {
		t.Errorf("runner calls = %d, want %d", runner.calls, len(taskEndpoints))
	}
}

func TestTaskEndpointsRejectMissingRequiredField(t *testing.T) {
	tests := []struct {
		path  string
		param string
	}{
		{"/genai/analyze-requirements", "requirements_text"},
		{"/genai/generate-design", "specifications"},
		{"/genai/assess-risks", "system_description"},
		{"/genai/generate-test-cases", "requirements"},
		{"/genai/optimize-system", "system_config"},
	}

	runner := &stubRunner{enabled: true, result: &api.TaskResult{Status: api.TaskStatusSuccess}}
	h := newTestAdapter(runner).Handler()

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, tt.path, `{}`)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if apiErr := decodeError(t, rec); apiErr.Param != tt.param {
				t.Errorf("param = %q, want %q", apiErr.Param, tt.param)
			}
		})
	}
	if runner.calls != 0 {
		t.Errorf("runner calls = %d, want 0", runner.calls)
	}
}

func TestTaskEndpointAcceptsEmptyRequiredValue(t *testing.T) {
	// Presence is required, content is not: an empty string passes through.
	runner := &stubRunner{enabled: true, result: &api.TaskResult{Status: api.TaskStatusSuccess}}
	h := newTestAdapter(runner).Handler()

	rec := doJSON(t, h, http.MethodPost, "/genai/analyze-requirements", `{"requirements_text": ""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if runner.calls != 1 || runner.lastText != "" {
		t.Errorf("runner got calls=%d text=%q, want one call with empty text", runner.calls, runner.lastText)
	}
}

func TestTaskEndpointForwardsOptionalTag(t *testing.T) {
	runner := &stubRunner{enabled: true, result: &api.TaskResult{Status: api.TaskStatusSuccess}}
	h := newTestAdapter(runner).Handler()

	doJSON(t, h, http.MethodPost, "/genai/generate-design", `{"specifications": "x", "design_type": "detailed"}`)
	if runner.lastTag != "detailed" {
		t.Errorf("design_type = %q, want detailed", runner.lastTag)
	}

	// Absent optional tag arrives as the zero value; defaulting happens
	// in the task facade, not the adapter.
	doJSON(t, h, http.MethodPost, "/genai/generate-design", `{"specifications": "x"}`)
	if runner.lastTag != "" {
		t.Errorf("design_type = %q, want empty", runner.lastTag)
	}
}

func TestTaskEndpointRejectsInvalidJSON(t *testing.T) {
	runner := &stubRunner{enabled: true, result: &api.TaskResult{Status: api.TaskStatusSuccess}}
	h := newTestAdapter(runner).Handler()

	rec := doJSON(t, h, http.MethodPost, "/genai/assess-risks", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTaskEndpointRejectsWrongContentType(t *testing.T) {
	runner := &stubRunner{enabled: true, result: &api.TaskResult{Status: api.TaskStatusSuccess}}
	h := newTestAdapter(runner).Handler()

	req := httptest.NewRequest(http.MethodPost, "/genai/assess-risks", strings.NewReader(`{"system_description": "x"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
}

func TestTaskEndpointRejectsOversizedBody(t *testing.T) {
	runner := &stubRunner{enabled: true, result: &api.TaskResult{Status: api.TaskStatusSuccess}}
	a := NewAdapter(memory.New(), runner, Config{MaxBodySize: 64})

	body := `{"system_description": "` + strings.Repeat("x", 128) + `"}`
	rec := doJSON(t, a.Handler(), http.MethodPost, "/genai/assess-risks", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestOptimizeSystemForwardsConfig(t *testing.T) {
	runner := &stubRunner{enabled: true, result: &api.TaskResult{Status: api.TaskStatusSuccess}}
	h := newTestAdapter(runner).Handler()

	doJSON(t, h, http.MethodPost, "/genai/optimize-system", `{"system_config": {"db": "mysql", "workers": 4}, "optimization_goal": "cost"}`)
	if runner.lastCfg["db"] != "mysql" {
		t.Errorf("system_config not forwarded: %v", runner.lastCfg)
	}
	if runner.lastTag != "cost" {
		t.Errorf("optimization_goal = %q, want cost", runner.lastTag)
	}
}

func TestRootRedirectsToStaticIndex(t *testing.T) {
	a := NewAdapter(memory.New(), &stubRunner{}, Config{MaxBodySize: 1 << 20, StaticDir: t.TempDir()})

	rec := doJSON(t, a.Handler(), http.MethodGet, "/", "")
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/static/index.html" {
		t.Errorf("Location = %q, want /static/index.html", loc)
	}
}
