// ABOUTME: Typed calls for the backend REST endpoints
// ABOUTME: Login, teacher profile/schools/statistics and student document bookings

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// LoginRequest represents credentials for authentication
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginResponse represents a successful login. Older backends answer with
// access_token instead of token.
type LoginResponse struct {
	Token       string      `json:"token,omitempty"`
	AccessToken string      `json:"access_token,omitempty"`
	TokenType   string      `json:"token_type,omitempty"`
	UserID      interface{} `json:"user_id,omitempty"`
	Username    string      `json:"username,omitempty"`
	Role        string      `json:"role,omitempty"`
}

// BearerToken returns whichever token field the backend populated
func (r *LoginResponse) BearerToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// TeacherProfile represents GET /teacher/profile
type TeacherProfile struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject,omitempty"`
}

// School is one entry in the school library
type School struct {
	ID      interface{} `json:"id,omitempty"`
	Name    string      `json:"name"`
	Region  string      `json:"region,omitempty"`
	Ranking interface{} `json:"ranking,omitempty"`
}

// SchoolPage represents GET /teacher/school/list
type SchoolPage struct {
	Schools     []School `json:"schools"`
	TotalPages  int      `json:"total_pages"`
	CurrentPage int      `json:"current_page"`
}

// StudentStatistics represents GET /teacher/statistics/student
type StudentStatistics struct {
	TotalStudents int                    `json:"total_students"`
	GenderRatio   map[string]interface{} `json:"gender_ratio"`
	AvgScores     map[string]interface{} `json:"avg_scores"`
}

// DocumentReservation is the body of POST /student/document/reserve
type DocumentReservation struct {
	TeacherID     int    `json:"teacher_id"`
	DocumentCount int    `json:"document_count"`
	DocumentType  string `json:"document_type"`
	TargetSchool  string `json:"target_school"`
	Notes         string `json:"notes"`
}

// Login calls POST /auth/login with a JSON body
func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	resp, err := c.Do(ctx, http.MethodPost, "/auth/login", req)
	return decodeLogin(resp, err)
}

// LoginForm calls POST /auth/login the legacy way: form-encoded with the
// role carried in scope
func (c *Client) LoginForm(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("username", req.Username)
	form.Set("password", req.Password)
	form.Set("scope", req.Role)

	resp, err := c.DoForm(ctx, "/auth/login", form)
	return decodeLogin(resp, err)
}

func decodeLogin(resp *Response, err error) (*LoginResponse, error) {
	var login LoginResponse
	if err := decode(resp, err, &login); err != nil {
		return nil, err
	}
	if login.BearerToken() == "" {
		return nil, fmt.Errorf("login response did not include a token")
	}
	return &login, nil
}

// TeacherProfile calls GET /teacher/profile
func (c *Client) TeacherProfile(ctx context.Context) (*TeacherProfile, error) {
	var profile TeacherProfile
	resp, err := c.Do(ctx, http.MethodGet, "/teacher/profile", nil)
	if err := decode(resp, err, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SchoolList calls GET /teacher/school/list
func (c *Client) SchoolList(ctx context.Context, page, pageSize int) (*SchoolPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("page_size", fmt.Sprint(pageSize))

	var schools SchoolPage
	resp, err := c.Do(ctx, http.MethodGet, "/teacher/school/list?"+q.Encode(), nil)
	if err := decode(resp, err, &schools); err != nil {
		return nil, err
	}
	return &schools, nil
}

// StudentStatistics calls GET /teacher/statistics/student
func (c *Client) StudentStatistics(ctx context.Context) (*StudentStatistics, error) {
	var stats StudentStatistics
	resp, err := c.Do(ctx, http.MethodGet, "/teacher/statistics/student", nil)
	if err := decode(resp, err, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ReserveDocument calls POST /student/document/reserve
func (c *Client) ReserveDocument(ctx context.Context, input *DocumentReservation) (map[string]interface{}, error) {
	var result map[string]interface{}
	resp, err := c.Do(ctx, http.MethodPost, "/student/document/reserve", input)
	if err := decode(resp, err, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListDocuments calls GET /student/document/list
func (c *Client) ListDocuments(ctx context.Context) ([]map[string]interface{}, error) {
	var docs []map[string]interface{}
	resp, err := c.Do(ctx, http.MethodGet, "/student/document/list", nil)
	if err := decode(resp, err, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// decode handles clients with and without ClassifyErrors in their chain
func decode(resp *Response, err error, out interface{}) error {
	if err != nil {
		return err
	}
	if !resp.OK() {
		return classify(resp)
	}
	return resp.DecodeJSON(out)
}
