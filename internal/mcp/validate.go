package mcp

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// ArgumentError reports a structural problem with tool-call arguments.
// Field names the offending argument and Constraint states what was
// violated. Validation is purely structural: no argument check ever
// touches the network.
type ArgumentError struct {
	Field      string
	Constraint string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Constraint)
}

// rejectUnknown fails when args carries a field outside the allowed set.
// All tools apply this uniformly so caller typos fail fast instead of
// being silently dropped.
func rejectUnknown(args map[string]interface{}, allowed ...string) error {
	if len(args) == 0 {
		return nil
	}
	known := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		known[f] = true
	}
	var unknown []string
	for f := range args {
		if !known[f] {
			unknown = append(unknown, f)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &ArgumentError{
		Field:      unknown[0],
		Constraint: fmt.Sprintf("unknown field (allowed: %s)", strings.Join(allowed, ", ")),
	}
}

// requireString returns a mandatory string argument. Whitespace-only
// values count as missing.
func requireString(args map[string]interface{}, field string) (string, error) {
	v, ok := args[field]
	if !ok {
		return "", &ArgumentError{Field: field, Constraint: "required field is missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ArgumentError{Field: field, Constraint: fmt.Sprintf("must be a string, got %T", v)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ArgumentError{Field: field, Constraint: "must not be empty"}
	}
	return s, nil
}

// optionalEnum returns an optional string argument constrained to the
// allowed set, or def when absent.
func optionalEnum(args map[string]interface{}, field string, allowed []string, def string) (string, error) {
	v, ok := args[field]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ArgumentError{Field: field, Constraint: fmt.Sprintf("must be a string, got %T", v)}
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", &ArgumentError{
		Field:      field,
		Constraint: fmt.Sprintf("must be one of %s, got %q", strings.Join(allowed, ", "), s),
	}
}

// optionalInt returns an optional integer argument within [min, max], or
// def when absent. JSON numbers arrive as float64; fractional values are
// rejected rather than truncated.
func optionalInt(args map[string]interface{}, field string, min, max, def int) (int, error) {
	v, ok := args[field]
	if !ok {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &ArgumentError{Field: field, Constraint: fmt.Sprintf("must be an integer, got %T", v)}
	}
	if f != math.Trunc(f) {
		return 0, &ArgumentError{Field: field, Constraint: fmt.Sprintf("must be an integer, got %v", f)}
	}
	n := int(f)
	if n < min || n > max {
		return 0, &ArgumentError{Field: field, Constraint: fmt.Sprintf("must be between %d and %d, got %d", min, max, n)}
	}
	return n, nil
}

// optionalDate returns an optional YYYY-MM-DD argument, or "" when absent.
func optionalDate(args map[string]interface{}, field string) (string, error) {
	v, ok := args[field]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ArgumentError{Field: field, Constraint: fmt.Sprintf("must be a string, got %T", v)}
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", &ArgumentError{Field: field, Constraint: fmt.Sprintf("must be a date in YYYY-MM-DD format, got %q", s)}
	}
	return s, nil
}
