package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

var knownKeys = map[string]bool{
	KeyCMake: true,
	KeyGperf: true,
	KeyTDLib: true,
	KeyVcpkg: true,
	KeyGit:   true,
}

// Check reports missing required versions as errors and unknown keys as
// warnings.
func (v Versions) Check() []ValidationResult {
	var results []ValidationResult
	for _, key := range RequiredKeys {
		if strings.TrimSpace(v[key]) == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("missing version for %q", key),
			})
		}
	}
	for _, key := range v.Keys() {
		if !knownKeys[key] {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("unknown tool %q is ignored", key),
			})
		}
	}
	return results
}

// Validate returns an error joining every error-level finding.
func (v Versions) Validate() error {
	var errs []error
	for _, r := range v.Check() {
		if r.Level == "error" {
			errs = append(errs, errors.New(r.Message))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid versions manifest: %w", errors.Join(errs...))
	}
	return nil
}
