// ABOUTME: Tests for response schema validation and report aggregation
// ABOUTME: Covers status-first ordering, non-object bodies and pass-rate rounding

package harness

import (
	"bytes"
	"strings"
	"testing"
)

func TestSchema_Validate(t *testing.T) {
	schema := Schema{StatusCode: 200, Fields: []string{"a", "b"}}

	tests := []struct {
		name   string
		status int
		body   interface{}
		kind   FailureKind
		field  string
	}{
		{"conforms", 200, map[string]interface{}{"a": 1, "b": nil}, 0, ""},
		{"status first", 500, map[string]interface{}{}, StatusMismatch, ""},
		{"first missing field", 200, map[string]interface{}{"c": 1}, MissingField, "a"},
		{"second missing field", 200, map[string]interface{}{"a": 1}, MissingField, "b"},
		{"array body", 200, []interface{}{}, MissingField, "a"},
		{"empty body", 200, nil, MissingField, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failure := schema.Validate(tt.status, tt.body)
			if tt.kind == 0 {
				if failure != nil {
					t.Fatalf("expected pass, got %v", failure)
				}
				return
			}
			if failure == nil || failure.Kind != tt.kind || failure.Field != tt.field {
				t.Errorf("expected %v/%q, got %+v", tt.kind, tt.field, failure)
			}
		})
	}
}

func TestSchema_NoFieldsAcceptsAnyBody(t *testing.T) {
	if f := (Schema{StatusCode: 200}).Validate(200, []interface{}{}); f != nil {
		t.Errorf("expected list body to pass, got %v", f)
	}
}

func TestValidationFailure_Messages(t *testing.T) {
	status := &ValidationFailure{Kind: StatusMismatch, Expected: 200, Actual: 404}
	if status.Error() != "expected status code 200, got 404" {
		t.Errorf("unexpected message: %s", status.Error())
	}
	field := &ValidationFailure{Kind: MissingField, Field: "email"}
	if field.Error() != "response is missing expected field: email" {
		t.Errorf("unexpected message: %s", field.Error())
	}
}

func TestAggregate(t *testing.T) {
	report := Aggregate([]Result{{ID: 1, Passed: true}, {ID: 2}, {ID: 3, Passed: true}})

	if report.TotalTests != 3 || report.PassedTests != 2 {
		t.Errorf("unexpected counts: %+v", report)
	}
	if report.PassRate != 66.67 {
		t.Errorf("expected 66.67, got %v", report.PassRate)
	}
	if len(report.Failures()) != 1 || report.Failures()[0].ID != 2 {
		t.Errorf("unexpected failures: %+v", report.Failures())
	}
	if report.AllPassed() {
		t.Error("expected AllPassed to be false")
	}
}

func TestAggregate_Empty(t *testing.T) {
	report := Aggregate(nil)
	if report.PassRate != 0 || report.FormattedPassRate() != "0.00" {
		t.Errorf("expected zero pass rate, got %v", report.PassRate)
	}
	if report.AllPassed() {
		t.Error("expected empty report not to count as passed")
	}
}

func TestWriteHTML(t *testing.T) {
	report := Aggregate([]Result{
		{ID: 1, Name: "Login", Passed: true},
		{ID: 2, Name: "<Profile>", ErrorMessage: "response is missing expected field: email"},
	})

	var buf bytes.Buffer
	if err := WriteHTML(&buf, report); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"50.00%", "missing expected field: email", "&lt;Profile&gt;", `class="value bad"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}
