// ABOUTME: Tests for the smoke command
// ABOUTME: Verifies report formatting, suite loading and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/markalston/study-portal/internal/harness"
)

func setSmokeFlags(t *testing.T, suite, html string) {
	t.Helper()
	suitePath, htmlReport, smokeTUI = suite, html, false
	t.Cleanup(func() {
		suitePath, htmlReport, smokeTUI = "", "", false
	})
}

func TestRunSmoke_DefaultSuitePasses(t *testing.T) {
	server := platform(t)
	sessionFile := withTestEnv(t, server.URL)
	setSmokeFlags(t, "", "")

	var out bytes.Buffer
	code := runSmoke(context.Background(), &out)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d:\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "Passed 6/6 (100.00%)") {
		t.Errorf("unexpected summary:\n%s", out.String())
	}
	if storedSession(sessionFile).IsLoggedIn(context.Background()) {
		t.Error("expected the smoke run to leave the user session untouched")
	}
}

func TestRunSmoke_LoginCaseUsesConfiguredTeacher(t *testing.T) {
	server := platform(t)
	withTestEnv(t, server.URL)
	t.Setenv("STUDY_PORTAL_TEACHER_PASSWORD", "rotated")
	setSmokeFlags(t, "", "")
	jsonOutput = true

	var out bytes.Buffer
	if code := runSmoke(context.Background(), &out); code != 1 {
		t.Fatalf("expected exit 1, got %d:\n%s", code, out.String())
	}

	var report harness.Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out.String())
	}
	login := report.Details[0]
	if login.Passed || login.ErrorMessage != "expected status code 200, got 401" {
		t.Errorf("expected the login case to use the rejected teacher password, got %+v", login)
	}
}

func TestRunSmoke_FailingCaseJSON(t *testing.T) {
	server := platform(t)
	withTestEnv(t, server.URL)

	suite := filepath.Join(t.TempDir(), "suite.yaml")
	os.WriteFile(suite, []byte(`
name: profile only
cases:
  - id: 2
    name: Teacher profile
    endpoint: /teacher/profile
    requires_auth: true
    role: teacher
    expected_fields: [username, address]
`), 0600)
	setSmokeFlags(t, suite, "")
	jsonOutput = true

	var out bytes.Buffer
	if code := runSmoke(context.Background(), &out); code != 1 {
		t.Fatalf("expected exit 1, got %d:\n%s", code, out.String())
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["status"] != "failed" {
		t.Errorf("expected status failed, got %v", parsed["status"])
	}
	if parsed["total_tests"] != float64(1) || parsed["pass_rate"] != float64(0) {
		t.Errorf("unexpected totals: %v", parsed)
	}
	if !strings.Contains(out.String(), "missing expected field: address") {
		t.Errorf("expected missing field in details:\n%s", out.String())
	}
}

func TestRunSmoke_WritesHTML(t *testing.T) {
	server := platform(t)
	withTestEnv(t, server.URL)
	report := filepath.Join(t.TempDir(), "report.html")
	setSmokeFlags(t, "", report)

	var out bytes.Buffer
	if code := runSmoke(context.Background(), &out); code != 0 {
		t.Fatalf("expected exit 0, got %d:\n%s", code, out.String())
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.Contains(string(data), "100.00%") {
		t.Error("expected pass rate in HTML report")
	}
}

func TestRunSmoke_InvalidSuite(t *testing.T) {
	withTestEnv(t, "http://localhost:8000")
	setSmokeFlags(t, filepath.Join(t.TempDir(), "missing.yaml"), "")

	var out bytes.Buffer
	if code := runSmoke(context.Background(), &out); code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
}

func TestFormatSmokeHuman(t *testing.T) {
	report := harness.Aggregate([]harness.Result{
		{ID: 1, Name: "Login", Passed: true},
		{ID: 2, Name: "Teacher profile", ErrorMessage: "response is missing expected field: email"},
	})

	output := formatSmokeHuman(report)

	for _, check := range []string{"✓", "✗", "Result:", "FAIL", "Passed 1/2 (50.00%)", "FAILED", "- Teacher profile: response is missing expected field: email"} {
		if !strings.Contains(output, check) {
			t.Errorf("expected output to contain '%s'", check)
		}
	}
	if strings.Contains(output, "PASS") {
		t.Error("expected no PASS badge for a failing report")
	}
}

func TestFormatSmokeHuman_AllPassed(t *testing.T) {
	report := harness.Aggregate([]harness.Result{
		{ID: 1, Name: "Login", Passed: true},
		{ID: 2, Name: "Teacher profile", Passed: true},
	})

	output := formatSmokeHuman(report)

	if !strings.Contains(output, "PASS") || !strings.Contains(output, "Passed 2/2 (100.00%)") {
		t.Errorf("expected PASS badge and full pass rate, got %q", output)
	}
	if strings.Contains(output, "FAIL") {
		t.Errorf("expected no FAIL badge, got %q", output)
	}
}

func TestFormatSmokeJSON(t *testing.T) {
	report := harness.Aggregate([]harness.Result{{ID: 1, Name: "Login", Passed: true}})

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(formatSmokeJSON(report)), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["status"] != "passed" || parsed["pass_rate"] != float64(100) {
		t.Errorf("unexpected output: %v", parsed)
	}
}
