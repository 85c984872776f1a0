package genai

import "fmt"

// Task names, used as metric labels and MCP tool identifiers.
const (
	TaskRequirementsAnalysis = "requirements_analysis"
	TaskDesignGeneration     = "design_generation"
	TaskRiskAssessment       = "risk_assessment"
	TaskTestCaseGeneration   = "test_case_generation"
	TaskOptimization         = "optimization"
)

// Tag defaults applied when the caller omits the sub-variant selector.
const (
	DefaultDesignType       = "architecture"
	DefaultTestType         = "functional"
	DefaultOptimizationGoal = "performance"
)

// System prompts, one per task.
const (
	analysisSystemPrompt     = "You are a system engineering expert."
	designSystemPrompt       = "You are an expert system designer."
	riskSystemPrompt         = "You are a risk assessment expert."
	testCaseSystemPrompt     = "You are a test engineering expert."
	optimizationSystemPrompt = "You are a system optimization expert."
)

// analysisPrompt asks for a structured requirements review. The model is
// instructed to answer in JSON; un-parseable answers degrade to raw text
// at the facade level.
func analysisPrompt(requirementsText string) string {
	return fmt.Sprintf(`As a system engineering expert, analyze the following requirements:

%s

Provide:
1. Clarity assessment (are requirements clear and unambiguous?)
2. Completeness check (are there any gaps?)
3. Testability evaluation (can these be tested?)
4. Potential conflicts or contradictions
5. Suggestions for improvement

Format your response as JSON with keys: clarity, completeness, testability, conflicts, suggestions`,
		requirementsText)
}

func designPrompt(specifications, designType string) string {
	return fmt.Sprintf(`Based on the following specifications, generate a %s design:

%s

Provide:
1. Overall design approach
2. Key components and their responsibilities
3. Interface definitions
4. Data flow
5. Technology recommendations

Format as a detailed design document.`,
		designType, specifications)
}

func riskPrompt(systemDescription string) string {
	return fmt.Sprintf(`Perform a risk assessment for the following system:

%s

Identify:
1. Technical risks
2. Security risks
3. Performance risks
4. Operational risks
5. Mitigation strategies for each risk

Rate each risk as: Critical, High, Medium, or Low`,
		systemDescription)
}

func testCasePrompt(requirements, testType string) string {
	return fmt.Sprintf(`Generate %s test cases for the following requirements:

%s

For each test case provide:
1. Test ID
2. Test description
3. Preconditions
4. Test steps
5. Expected results
6. Priority (High/Medium/Low)

Format as a structured list.`,
		testType, requirements)
}

func optimizationPrompt(configJSON, optimizationGoal string) string {
	return fmt.Sprintf(`Analyze this system configuration and suggest optimizations for %s:

%s

Provide:
1. Current bottlenecks or inefficiencies
2. Specific optimization recommendations
3. Expected impact of each recommendation
4. Implementation complexity (Easy/Medium/Hard)
5. Potential trade-offs`,
		optimizationGoal, configJSON)
}
