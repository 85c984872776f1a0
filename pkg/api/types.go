package api

// TaskStatus is the outcome of a GenAI task invocation.
type TaskStatus string

const (
	// TaskStatusDisabled means the facade has no usable credential and no
	// provider call was attempted.
	TaskStatusDisabled TaskStatus = "disabled"

	// TaskStatusError means the provider call was attempted and failed.
	TaskStatusError TaskStatus = "error"

	// TaskStatusSuccess means the provider call succeeded and the variant
	// payload fields are populated.
	TaskStatusSuccess TaskStatus = "success"
)

// DisabledMessage is the fixed guidance returned whenever the facade is
// constructed without a credential.
const DisabledMessage = "GenAI is not configured. Please set OPENAI_API_KEY."

// TaskResult is the outcome of a single GenAI task invocation. Status is
// always set. Message is populated only for disabled and error results.
// The remaining fields are variant payloads, populated only on success and
// only for the task that produced them.
type TaskResult struct {
	Status  TaskStatus `json:"status"`
	Message string     `json:"message,omitempty"`

	// Requirements analysis payload. Analysis holds the structured form
	// when the model returned parseable JSON, otherwise the raw text.
	Analysis    any    `json:"analysis,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`

	// Design generation payload.
	Design     string `json:"design,omitempty"`
	DesignType string `json:"design_type,omitempty"`

	// Risk assessment payload.
	Assessment string `json:"assessment,omitempty"`

	// Test case generation payload.
	TestCases string `json:"test_cases,omitempty"`
	TestType  string `json:"test_type,omitempty"`

	// Optimization payload.
	Optimizations    string `json:"optimizations,omitempty"`
	OptimizationGoal string `json:"optimization_goal,omitempty"`
}

// DisabledResult returns the result used by every task method when the
// facade has no credential. It carries only the status and the fixed
// guidance message.
func DisabledResult() *TaskResult {
	return &TaskResult{
		Status:  TaskStatusDisabled,
		Message: DisabledMessage,
	}
}

// ErrorResult wraps a failure description into an error result. No payload
// fields are carried alongside an error.
func ErrorResult(message string) *TaskResult {
	return &TaskResult{
		Status:  TaskStatusError,
		Message: message,
	}
}

// GenAIStatus is the response body of GET /genai/status.
type GenAIStatus struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

// AnalyzeRequirementsRequest is the body of POST /genai/analyze-requirements.
// Required fields are pointers so that a missing field is distinguishable
// from a present-but-empty one; empty text is accepted and passed through.
type AnalyzeRequirementsRequest struct {
	RequirementsText *string `json:"requirements_text"`
}

// GenerateDesignRequest is the body of POST /genai/generate-design.
type GenerateDesignRequest struct {
	Specifications *string `json:"specifications"`
	DesignType     string  `json:"design_type"`
}

// AssessRisksRequest is the body of POST /genai/assess-risks.
type AssessRisksRequest struct {
	SystemDescription *string `json:"system_description"`
}

// GenerateTestCasesRequest is the body of POST /genai/generate-test-cases.
type GenerateTestCasesRequest struct {
	Requirements *string `json:"requirements"`
	TestType     string  `json:"test_type"`
}

// OptimizeSystemRequest is the body of POST /genai/optimize-system.
// SystemConfig decodes to nil when the field is absent and to an empty,
// non-nil map when the caller sends {}.
type OptimizeSystemRequest struct {
	SystemConfig     map[string]any `json:"system_config"`
	OptimizationGoal string         `json:"optimization_goal"`
}

// Activity describes one extracurricular activity in the catalog.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SignupResponse is the body returned by a successful activity signup.
type SignupResponse struct {
	Message string `json:"message"`
}
