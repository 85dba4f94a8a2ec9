// ABOUTME: Built-in smoke suite and loading of suites from YAML files
// ABOUTME: Loaded cases are validated and given defaults before a run

package harness

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/markalston/study-portal/internal/session"
)

// Suite is a named, ordered list of cases
type Suite struct {
	Name  string     `yaml:"name"`
	Cases []TestCase `yaml:"cases"`
}

// DefaultSuite covers login, the teacher endpoints and the student
// document flow. The login case signs in with the given teacher credentials.
func DefaultSuite(teacher Credentials) []TestCase {
	return []TestCase{
		{
			ID:          LoginCaseID,
			Name:        "Login",
			Description: "Teacher login returns a token",
			Endpoint:    "/auth/login",
			Method:      http.MethodPost,
			Body: map[string]interface{}{
				"username": teacher.Username,
				"password": teacher.Password,
				"role":     string(session.RoleTeacher),
			},
			ExpectedStatusCode: http.StatusOK,
			ExpectedFields:     []string{"token", "user_id", "username"},
		},
		{
			ID:                 2,
			Name:               "Teacher profile",
			Description:        "Fetch the logged-in teacher's profile",
			Endpoint:           "/teacher/profile",
			Method:             http.MethodGet,
			RequiresAuth:       true,
			Role:               session.RoleTeacher,
			ExpectedStatusCode: http.StatusOK,
			ExpectedFields:     []string{"username", "name", "email", "phone"},
		},
		{
			ID:                 3,
			Name:               "School list",
			Description:        "First page of the school library",
			Endpoint:           "/teacher/school/list?page=1&page_size=10",
			Method:             http.MethodGet,
			RequiresAuth:       true,
			Role:               session.RoleTeacher,
			ExpectedStatusCode: http.StatusOK,
			ExpectedFields:     []string{"schools", "total_pages", "current_page"},
		},
		{
			ID:                 4,
			Name:               "Student statistics",
			Description:        "Aggregate statistics over the teacher's students",
			Endpoint:           "/teacher/statistics/student",
			Method:             http.MethodGet,
			RequiresAuth:       true,
			Role:               session.RoleTeacher,
			ExpectedStatusCode: http.StatusOK,
			ExpectedFields:     []string{"total_students", "gender_ratio", "avg_scores"},
		},
		{
			ID:          5,
			Name:        "Reserve document polishing",
			Description: "Student books a personal statement review",
			Endpoint:    "/student/document/reserve",
			Method:      http.MethodPost,
			Body: map[string]interface{}{
				"document_type":  "personal_statement",
				"document_count": 1,
				"teacher_id":     2,
				"target_school":  "",
				"notes":          "",
			},
			RequiresAuth:       true,
			Role:               session.RoleStudent,
			ExpectedStatusCode: http.StatusOK,
			ExpectedFields:     []string{"message", "reservation_id"},
		},
		{
			ID:                 6,
			Name:               "Document reservations",
			Description:        "Student lists their document reservations",
			Endpoint:           "/student/document/list",
			Method:             http.MethodGet,
			RequiresAuth:       true,
			Role:               session.RoleStudent,
			ExpectedStatusCode: http.StatusOK,
		},
	}
}

// LoadSuite reads a suite from a YAML file
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite decodes and validates a YAML suite. Method defaults to GET
// and the expected status to 200.
func ParseSuite(data []byte) (*Suite, error) {
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parsing suite: %w", err)
	}
	if len(suite.Cases) == 0 {
		return nil, fmt.Errorf("suite has no cases")
	}

	seen := make(map[int]bool)
	for i := range suite.Cases {
		tc := &suite.Cases[i]
		if tc.Endpoint == "" {
			return nil, fmt.Errorf("case %d: endpoint is required", tc.ID)
		}
		if !strings.HasPrefix(tc.Endpoint, "/") {
			return nil, fmt.Errorf("case %d: endpoint must start with /", tc.ID)
		}
		if seen[tc.ID] {
			return nil, fmt.Errorf("case %d: duplicate id", tc.ID)
		}
		seen[tc.ID] = true

		if tc.Method == "" {
			tc.Method = http.MethodGet
		}
		tc.Method = strings.ToUpper(tc.Method)
		if tc.ExpectedStatusCode == 0 {
			tc.ExpectedStatusCode = http.StatusOK
		}
		if tc.Role != session.RoleUnknown {
			if _, err := session.ParseRole(string(tc.Role)); err != nil {
				return nil, fmt.Errorf("case %d: %w", tc.ID, err)
			}
		}
		if tc.Name == "" {
			tc.Name = fmt.Sprintf("%s %s", tc.Method, tc.Endpoint)
		}
	}
	return &suite, nil
}
