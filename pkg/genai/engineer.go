package genai

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mergington/campus/pkg/api"
	"github.com/mergington/campus/pkg/debug"
	"github.com/mergington/campus/pkg/observability"
	"github.com/mergington/campus/pkg/provider"
)

// Config holds the facade settings. Loaded once at construction and
// immutable afterwards.
type Config struct {
	// APIKey is the provider credential. When empty the facade reports
	// itself disabled and never touches the network.
	APIKey string

	// Model is the model identifier sent with every call. Default "gpt-4".
	Model string

	// Temperature is the sampling temperature. Nil means the default of
	// 0.7; an explicit zero is honored and sent to the provider.
	Temperature *float64

	// MaxTokens is the per-call token budget. Default 2000.
	MaxTokens int

	// Timeout bounds each outbound provider call. Default 60 seconds.
	Timeout time.Duration
}

// applyDefaults fills zero-value fields with the documented defaults.
func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4"
	}
	if c.Temperature == nil {
		t := 0.7
		c.Temperature = &t
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2000
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}

// Engineer is the GenAI system-engineering facade. It holds the read-only
// configuration and an optional backend client; concurrent use is safe
// because no state is mutated after construction.
type Engineer struct {
	cfg    Config
	client provider.Completer
}

// New creates an Engineer. Pass a nil client to construct a disabled
// facade; the caller decides whether a client can be built (typically:
// only when a credential is configured).
func New(cfg Config, client provider.Completer) *Engineer {
	cfg.applyDefaults()
	return &Engineer{cfg: cfg, client: client}
}

// Enabled reports whether the facade has both a credential and a backend
// client. Disabled facades answer every task with a disabled result.
func (e *Engineer) Enabled() bool {
	return e.client != nil && e.cfg.APIKey != ""
}

// Model returns the configured model identifier.
func (e *Engineer) Model() string {
	return e.cfg.Model
}

// AnalyzeRequirements reviews requirements text for clarity, completeness,
// testability, conflicts, and improvements. When the model answers with
// valid JSON the structured form is returned alongside the raw text;
// otherwise the raw text stands in for both.
func (e *Engineer) AnalyzeRequirements(ctx context.Context, requirementsText string) *api.TaskResult {
	if !e.Enabled() {
		return e.disabled(TaskRequirementsAnalysis)
	}

	text, err := e.complete(ctx, TaskRequirementsAnalysis, analysisSystemPrompt, analysisPrompt(requirementsText))
	if err != nil {
		return api.ErrorResult("Error during analysis: " + err.Error())
	}

	result := &api.TaskResult{
		Status:      api.TaskStatusSuccess,
		RawResponse: text,
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		result.Analysis = parsed
	} else {
		result.Analysis = text
	}
	return result
}

// GenerateDesign produces a design document for the given specifications.
// designType defaults to "architecture" when empty.
func (e *Engineer) GenerateDesign(ctx context.Context, specifications, designType string) *api.TaskResult {
	if designType == "" {
		designType = DefaultDesignType
	}
	if !e.Enabled() {
		return e.disabled(TaskDesignGeneration)
	}

	text, err := e.complete(ctx, TaskDesignGeneration, designSystemPrompt, designPrompt(specifications, designType))
	if err != nil {
		return api.ErrorResult("Error during design generation: " + err.Error())
	}

	return &api.TaskResult{
		Status:     api.TaskStatusSuccess,
		Design:     text,
		DesignType: designType,
	}
}

// AssessRisks produces a risk assessment for a system description.
func (e *Engineer) AssessRisks(ctx context.Context, systemDescription string) *api.TaskResult {
	if !e.Enabled() {
		return e.disabled(TaskRiskAssessment)
	}

	text, err := e.complete(ctx, TaskRiskAssessment, riskSystemPrompt, riskPrompt(systemDescription))
	if err != nil {
		return api.ErrorResult("Error during risk assessment: " + err.Error())
	}

	return &api.TaskResult{
		Status:     api.TaskStatusSuccess,
		Assessment: text,
	}
}

// GenerateTestCases produces test cases for the given requirements.
// testType defaults to "functional" when empty.
func (e *Engineer) GenerateTestCases(ctx context.Context, requirements, testType string) *api.TaskResult {
	if testType == "" {
		testType = DefaultTestType
	}
	if !e.Enabled() {
		return e.disabled(TaskTestCaseGeneration)
	}

	text, err := e.complete(ctx, TaskTestCaseGeneration, testCaseSystemPrompt, testCasePrompt(requirements, testType))
	if err != nil {
		return api.ErrorResult("Error during test case generation: " + err.Error())
	}

	return &api.TaskResult{
		Status:    api.TaskStatusSuccess,
		TestCases: text,
		TestType:  testType,
	}
}

// OptimizeSystem suggests optimizations for a system configuration.
// The configuration mapping is serialized to indented JSON before it is
// interpolated into the prompt. optimizationGoal defaults to "performance"
// when empty.
func (e *Engineer) OptimizeSystem(ctx context.Context, systemConfig map[string]any, optimizationGoal string) *api.TaskResult {
	if optimizationGoal == "" {
		optimizationGoal = DefaultOptimizationGoal
	}
	if !e.Enabled() {
		return e.disabled(TaskOptimization)
	}

	configJSON, err := json.MarshalIndent(systemConfig, "", "  ")
	if err != nil {
		return api.ErrorResult("Error during optimization: " + err.Error())
	}

	text, err := e.complete(ctx, TaskOptimization, optimizationSystemPrompt, optimizationPrompt(string(configJSON), optimizationGoal))
	if err != nil {
		return api.ErrorResult("Error during optimization: " + err.Error())
	}

	return &api.TaskResult{
		Status:           api.TaskStatusSuccess,
		Optimizations:    text,
		OptimizationGoal: optimizationGoal,
	}
}

// disabled records the short-circuit and returns the fixed disabled result.
func (e *Engineer) disabled(task string) *api.TaskResult {
	observability.TasksTotal.WithLabelValues(task, string(api.TaskStatusDisabled)).Inc()
	return api.DisabledResult()
}

// complete issues the single outbound provider call for a task. A fixed
// deadline is applied per call; no retries are performed.
func (e *Engineer) complete(ctx context.Context, task, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	debug.Log("genai", "task dispatch", "task", task, "model", e.cfg.Model)

	temperature := *e.cfg.Temperature
	maxTokens := e.cfg.MaxTokens

	start := time.Now()
	resp, err := e.client.Complete(ctx, &provider.ChatRequest{
		Model: e.cfg.Model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: systemPrompt},
			{Role: provider.RoleUser, Content: userPrompt},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	observability.ProviderLatency.WithLabelValues(e.cfg.Model).Observe(time.Since(start).Seconds())

	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(e.cfg.Model, "error").Inc()
		observability.TasksTotal.WithLabelValues(task, string(api.TaskStatusError)).Inc()
		return "", err
	}

	observability.ProviderRequestsTotal.WithLabelValues(e.cfg.Model, "success").Inc()
	observability.TasksTotal.WithLabelValues(task, string(api.TaskStatusSuccess)).Inc()
	if resp.Usage != nil {
		observability.ProviderTokensTotal.WithLabelValues(e.cfg.Model, "input").Add(float64(resp.Usage.PromptTokens))
		observability.ProviderTokensTotal.WithLabelValues(e.cfg.Model, "output").Add(float64(resp.Usage.CompletionTokens))
	}

	return resp.Text, nil
}
