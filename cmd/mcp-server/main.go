// Command mcp-server exposes the GenAI System Engineering tasks as MCP
// tools over streamable HTTP, so agent-style clients can run requirement
// analysis, design generation, risk assessment, test case generation,
// and optimization against the same engine the REST endpoints use.
//
// Requires OPENAI_API_KEY; without it every tool answers a disabled
// result.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mergington/campus/pkg/api"
	"github.com/mergington/campus/pkg/config"
	"github.com/mergington/campus/pkg/genai"
	"github.com/mergington/campus/pkg/provider"
	"github.com/mergington/campus/pkg/provider/openai"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8090"
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	var client provider.Completer
	if cfg.GenAI.APIKey != "" {
		c := openai.New(openai.Config{
			BaseURL: cfg.GenAI.BaseURL,
			APIKey:  cfg.GenAI.APIKey,
			Timeout: cfg.GenAI.Timeout,
		})
		defer c.Close()
		client = c
	}
	eng := genai.New(genai.Config{
		APIKey:      cfg.GenAI.APIKey,
		Model:       cfg.GenAI.Model,
		Temperature: &cfg.GenAI.Temperature,
		MaxTokens:   cfg.GenAI.MaxTokens,
		Timeout:     cfg.GenAI.Timeout,
	}, client)

	server := mcp.NewServer(
		&mcp.Implementation{Name: "campus-genai-mcp", Version: "v1.0.0"},
		nil,
	)

	type analyzeInput struct {
		Requirements string `json:"requirements" jsonschema_description:"Requirements text to analyze for clarity, completeness, testability, and conflicts"`
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_requirements",
		Description: "Analyze system requirements and return structured feedback",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input analyzeInput) (*mcp.CallToolResult, struct{}, error) {
		return toolResult(eng.AnalyzeRequirements(ctx, input.Requirements))
	})

	type designInput struct {
		Specifications string `json:"specifications" jsonschema_description:"System specifications to design from"`
		DesignType     string `json:"design_type,omitempty" jsonschema_description:"Design flavor, e.g. architecture, database, api (default: architecture)"`
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_design",
		Description: "Generate a system design document from specifications",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input designInput) (*mcp.CallToolResult, struct{}, error) {
		return toolResult(eng.GenerateDesign(ctx, input.Specifications, input.DesignType))
	})

	type risksInput struct {
		SystemDescription string `json:"system_description" jsonschema_description:"Description of the system to assess"`
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "assess_risks",
		Description: "Assess technical, security, operational, and scalability risks",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input risksInput) (*mcp.CallToolResult, struct{}, error) {
		return toolResult(eng.AssessRisks(ctx, input.SystemDescription))
	})

	type testCasesInput struct {
		Requirements string `json:"requirements" jsonschema_description:"Requirements or feature description to generate test cases for"`
		TestType     string `json:"test_type,omitempty" jsonschema_description:"Test flavor, e.g. functional, integration, performance (default: functional)"`
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_test_cases",
		Description: "Generate test cases with steps and expected results",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input testCasesInput) (*mcp.CallToolResult, struct{}, error) {
		return toolResult(eng.GenerateTestCases(ctx, input.Requirements, input.TestType))
	})

	type optimizeInput struct {
		SystemConfig     map[string]any `json:"system_config" jsonschema_description:"Current system configuration as a JSON object"`
		OptimizationGoal string         `json:"optimization_goal,omitempty" jsonschema_description:"Optimization target, e.g. performance, cost, reliability (default: performance)"`
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "optimize_system",
		Description: "Suggest configuration optimizations toward a stated goal",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input optimizeInput) (*mcp.CallToolResult, struct{}, error) {
		return toolResult(eng.OptimizeSystem(ctx, input.SystemConfig, input.OptimizationGoal))
	})

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, nil)

	httpMux := http.NewServeMux()
	httpMux.Handle("/mcp", handler)
	httpMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	log.Printf("campus MCP server starting on :%s (genai enabled: %v)", port, eng.Enabled())
	if err := http.ListenAndServe(":"+port, httpMux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// toolResult renders a task result as a single JSON text block. Disabled
// and error results are reported as tool errors so clients surface them.
func toolResult(res *api.TaskResult) (*mcp.CallToolResult, struct{}, error) {
	body, err := json.Marshal(res)
	if err != nil {
		return nil, struct{}{}, err
	}
	return &mcp.CallToolResult{
		IsError: res.Status != api.TaskStatusSuccess,
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(body)},
		},
	}, struct{}{}, nil
}
