// ABOUTME: Test case and result records for the API smoke-test harness
// ABOUTME: Cases are immutable inputs; results are produced once per case

package harness

import (
	"net/http"

	"github.com/markalston/study-portal/internal/session"
)

// LoginCaseID marks the case whose successful response seeds the auth state
const LoginCaseID = 1

// TestCase describes one backend call and what it must return
type TestCase struct {
	ID                 int                    `yaml:"id" json:"id"`
	Name               string                 `yaml:"name" json:"name"`
	Description        string                 `yaml:"description,omitempty" json:"description,omitempty"`
	Endpoint           string                 `yaml:"endpoint" json:"endpoint"`
	Method             string                 `yaml:"method" json:"method"`
	Body               map[string]interface{} `yaml:"body,omitempty" json:"body,omitempty"`
	RequiresAuth       bool                   `yaml:"requires_auth,omitempty" json:"requires_auth,omitempty"`
	Role               session.Role           `yaml:"role,omitempty" json:"role,omitempty"`
	ExpectedStatusCode int                    `yaml:"expected_status_code" json:"expected_status_code"`
	ExpectedFields     []string               `yaml:"expected_fields,omitempty" json:"expected_fields,omitempty"`
}

// Schema returns the response expectations of the case
func (tc TestCase) Schema() Schema {
	return Schema{StatusCode: tc.ExpectedStatusCode, Fields: tc.ExpectedFields}
}

// AuthRole is the role the case runs as. Cases that name no role run as teacher.
func (tc TestCase) AuthRole() session.Role {
	if tc.Role == session.RoleUnknown {
		return session.RoleTeacher
	}
	return tc.Role
}

// sendsBody reports whether the method carries a JSON body
func (tc TestCase) sendsBody() bool {
	switch tc.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return tc.Body != nil
	default:
		return false
	}
}

// Result is the outcome of one case
type Result struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	Passed           bool        `json:"passed"`
	ErrorMessage     string      `json:"error_message,omitempty"`
	ActualStatusCode int         `json:"actual_status_code,omitempty"`
	ResponseData     interface{} `json:"response_data,omitempty"`
}

func failed(tc TestCase, msg string) Result {
	return Result{ID: tc.ID, Name: tc.Name, ErrorMessage: msg}
}
