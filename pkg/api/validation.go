package api

// Validation for the GenAI task request bodies. Required fields must be
// present in the JSON body; their content is not inspected, so empty
// strings and empty mappings pass through to the facade unchanged.

// Validate checks an AnalyzeRequirementsRequest.
func (r *AnalyzeRequirementsRequest) Validate() *APIError {
	if r.RequirementsText == nil {
		return NewInvalidRequestError("requirements_text", "requirements_text is required")
	}
	return nil
}

// Validate checks a GenerateDesignRequest.
func (r *GenerateDesignRequest) Validate() *APIError {
	if r.Specifications == nil {
		return NewInvalidRequestError("specifications", "specifications is required")
	}
	return nil
}

// Validate checks an AssessRisksRequest.
func (r *AssessRisksRequest) Validate() *APIError {
	if r.SystemDescription == nil {
		return NewInvalidRequestError("system_description", "system_description is required")
	}
	return nil
}

// Validate checks a GenerateTestCasesRequest.
func (r *GenerateTestCasesRequest) Validate() *APIError {
	if r.Requirements == nil {
		return NewInvalidRequestError("requirements", "requirements is required")
	}
	return nil
}

// Validate checks an OptimizeSystemRequest. An empty mapping is valid;
// only a missing one is rejected.
func (r *OptimizeSystemRequest) Validate() *APIError {
	if r.SystemConfig == nil {
		return NewInvalidRequestError("system_config", "system_config is required")
	}
	return nil
}
