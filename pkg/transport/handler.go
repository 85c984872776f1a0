package transport

import (
	"context"

	"github.com/mergington/campus/pkg/api"
)

// ActivityStore handles persistence and retrieval of the activity catalog.
// Implementations live in pkg/storage/memory and pkg/storage/postgres.
type ActivityStore interface {
	// List returns all activities keyed by name.
	List(ctx context.Context) (map[string]api.Activity, error)

	// Get retrieves a single activity by name. Returns storage.ErrNotFound
	// if no activity with that name exists.
	Get(ctx context.Context, name string) (*api.Activity, error)

	// Signup registers a student email for an activity. The participant
	// list is append-only; repeated signups add repeated entries. Returns
	// storage.ErrNotFound if the activity does not exist.
	Signup(ctx context.Context, name, email string) error

	// HealthCheck verifies the store connection is functional.
	HealthCheck(ctx context.Context) error

	// Close releases database connections and resources.
	Close() error
}

// TaskRunner is the contract for the GenAI task facade. Each method runs
// one engineering task and returns a TaskResult that already encodes the
// outcome (success, error, or disabled); the methods never return a Go
// error, mirroring the always-200 contract of the task endpoints.
//
// A nil TaskRunner handle on the adapter means the feature is switched
// off for the whole process and the endpoints answer 503 instead.
type TaskRunner interface {
	// Enabled reports whether a provider credential is configured.
	Enabled() bool

	// Model returns the configured model name.
	Model() string

	AnalyzeRequirements(ctx context.Context, requirementsText string) *api.TaskResult
	GenerateDesign(ctx context.Context, specifications, designType string) *api.TaskResult
	AssessRisks(ctx context.Context, systemDescription string) *api.TaskResult
	GenerateTestCases(ctx context.Context, requirements, testType string) *api.TaskResult
	OptimizeSystem(ctx context.Context, systemConfig map[string]any, optimizationGoal string) *api.TaskResult
}
