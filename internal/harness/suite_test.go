// ABOUTME: Tests for the built-in suite and YAML suite loading
// ABOUTME: Covers defaults, validation errors and file reading

package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/markalston/study-portal/internal/session"
)

func TestDefaultSuite(t *testing.T) {
	suite := DefaultSuite(teacherCreds)
	if len(suite) != 6 {
		t.Fatalf("expected 6 cases, got %d", len(suite))
	}
	if suite[0].ID != LoginCaseID || suite[0].RequiresAuth {
		t.Error("expected the first case to be the unauthenticated login case")
	}
	for i, tc := range suite {
		if tc.ID != i+1 {
			t.Errorf("expected sequential ids, case %d has %d", i, tc.ID)
		}
	}
}

func TestDefaultSuite_LoginUsesTeacherCredentials(t *testing.T) {
	login := DefaultSuite(Credentials{Username: "ops_teacher", Password: "s3cret"})[0]

	body := login.Body
	if body["username"] != "ops_teacher" || body["password"] != "s3cret" {
		t.Errorf("expected configured credentials in login body, got %v", body)
	}
	if body["role"] != "teacher" {
		t.Errorf("expected teacher role, got %v", body["role"])
	}
}

func TestParseSuite(t *testing.T) {
	data := []byte(`
name: minimal
cases:
  - id: 1
    name: Login
    endpoint: /auth/login
    method: post
    body:
      username: test_teacher
      password: test123
      role: teacher
    expected_fields: [token]
  - id: 2
    endpoint: /student/document/list
    requires_auth: true
    role: student
`)

	suite, err := ParseSuite(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if suite.Name != "minimal" || len(suite.Cases) != 2 {
		t.Fatalf("unexpected suite: %+v", suite)
	}

	login := suite.Cases[0]
	if login.Method != "POST" || login.ExpectedStatusCode != 200 {
		t.Errorf("expected defaults applied, got %s %d", login.Method, login.ExpectedStatusCode)
	}
	if login.Body["role"] != "teacher" {
		t.Errorf("expected body to decode, got %v", login.Body)
	}

	list := suite.Cases[1]
	if list.Method != "GET" || list.Role != session.RoleStudent || !list.RequiresAuth {
		t.Errorf("unexpected case: %+v", list)
	}
	if list.Name != "GET /student/document/list" {
		t.Errorf("expected generated name, got %q", list.Name)
	}
}

func TestParseSuite_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "name: x\n", "no cases"},
		{"no endpoint", "cases:\n  - id: 1\n", "endpoint is required"},
		{"relative endpoint", "cases:\n  - id: 1\n    endpoint: auth\n", "must start with /"},
		{"duplicate", "cases:\n  - id: 1\n    endpoint: /a\n  - id: 1\n    endpoint: /b\n", "duplicate id"},
		{"bad role", "cases:\n  - id: 1\n    endpoint: /a\n    role: admin\n", "invalid role"},
		{"bad yaml", "cases: [", "parsing suite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSuite([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadSuite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	if err := os.WriteFile(path, []byte("cases:\n  - id: 1\n    endpoint: /auth/login\n"), 0600); err != nil {
		t.Fatal(err)
	}

	suite, err := LoadSuite(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suite.Cases) != 1 {
		t.Errorf("expected 1 case, got %d", len(suite.Cases))
	}

	if _, err := LoadSuite(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
