package key

import "strings"

// Validate checks a lookup outcome for the raw token a caller presented.
// This is a PURE function - no side effects, deterministic.
func Validate(token string, rec Record, found bool) ValidationResult {
	if strings.TrimSpace(token) == "" {
		return ValidationResult{Reason: ReasonMissing}
	}
	if !found {
		return ValidationResult{Reason: ReasonNotFound}
	}
	if rec.Revoked {
		return ValidationResult{Reason: ReasonRevoked}
	}
	return ValidationResult{Valid: true, Record: rec}
}

// NormalizePlan lower-cases and trims a plan name, defaulting to "free".
// This is a PURE function.
func NormalizePlan(plan string) string {
	plan = strings.ToLower(strings.TrimSpace(plan))
	if plan == "" {
		return "free"
	}
	return plan
}
