// ABOUTME: Response expectations and their structural validation
// ABOUTME: Status is checked first, then required top-level fields in order

package harness

import "fmt"

// Schema is the expected shape of a response
type Schema struct {
	StatusCode int
	Fields     []string
}

// FailureKind says which expectation was not met
type FailureKind int

const (
	StatusMismatch FailureKind = iota + 1
	MissingField
)

// ValidationFailure is an expected-vs-actual mismatch. It is recorded in
// the case result and never aborts a run.
type ValidationFailure struct {
	Kind     FailureKind
	Expected int
	Actual   int
	Field    string
}

func (f *ValidationFailure) Error() string {
	if f.Kind == MissingField {
		return fmt.Sprintf("response is missing expected field: %s", f.Field)
	}
	return fmt.Sprintf("expected status code %d, got %d", f.Expected, f.Actual)
}

// Validate checks a decoded response body against the schema. It reports
// only the first problem found; nil means the response conforms.
func (s Schema) Validate(status int, body interface{}) *ValidationFailure {
	if status != s.StatusCode {
		return &ValidationFailure{Kind: StatusMismatch, Expected: s.StatusCode, Actual: status}
	}

	obj, _ := body.(map[string]interface{})
	for _, field := range s.Fields {
		if _, ok := obj[field]; !ok {
			return &ValidationFailure{Kind: MissingField, Field: field}
		}
	}
	return nil
}
