// ABOUTME: Sequential runner for the API smoke-test suite
// ABOUTME: Carries token and role forward, re-authenticating when a case needs another role

package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/markalston/study-portal/internal/client"
	"github.com/markalston/study-portal/internal/session"
)

// Credentials log the harness in as one role
type Credentials struct {
	Username string
	Password string
}

// State is the auth context carried from one case to the next
type State struct {
	Token string
	Role  session.Role
}

// Authenticated reports whether a token is held
func (s State) Authenticated() bool {
	return s.Token != ""
}

// Observer is told about progress; calls happen on the runner's goroutine
type Observer interface {
	CaseStarted(index, total int, tc TestCase)
	CaseFinished(index, total int, result Result)
}

// Runner executes suites against a bare client. It keeps its own auth
// state and never touches the user's session.
type Runner struct {
	client      *client.Client
	credentials map[session.Role]Credentials
	observer    Observer
}

// Option configures a Runner
type Option func(*Runner)

// WithObserver reports progress to o
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

// NewRunner creates a runner. c should be built with client.NewBare.
func NewRunner(c *client.Client, credentials map[session.Role]Credentials, opts ...Option) *Runner {
	r := &Runner{client: c, credentials: credentials}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes cases strictly in order and aggregates the results. A
// failing case never stops the run.
func (r *Runner) Run(ctx context.Context, cases []TestCase) *Report {
	var state State
	results := make([]Result, 0, len(cases))

	for i, tc := range cases {
		if r.observer != nil {
			r.observer.CaseStarted(i, len(cases), tc)
		}

		var result Result
		result, state = r.step(ctx, state, tc)
		results = append(results, result)

		slog.Info("Smoke case finished", "id", tc.ID, "name", tc.Name, "passed", result.Passed)
		if r.observer != nil {
			r.observer.CaseFinished(i, len(cases), result)
		}
	}

	return Aggregate(results)
}

// step runs one case and returns the state the next case starts from
func (r *Runner) step(ctx context.Context, state State, tc TestCase) (Result, State) {
	if tc.RequiresAuth && (!state.Authenticated() || state.Role != tc.AuthRole()) {
		next, err := r.login(ctx, tc.AuthRole())
		if err != nil {
			return failed(tc, err.Error()), state
		}
		state = next
	}

	result, body := r.execute(ctx, state, tc)

	if tc.ID == LoginCaseID && result.Passed {
		if token := tokenField(body); token != "" {
			role, _ := tc.Body["role"].(string)
			state = State{Token: token, Role: session.Role(role)}
		}
	}
	return result, state
}

// login performs the login exchange for role with configured credentials
func (r *Runner) login(ctx context.Context, role session.Role) (State, error) {
	creds, ok := r.credentials[role]
	if !ok {
		return State{}, fmt.Errorf("no credentials configured for role %s", role)
	}

	slog.Debug("Harness logging in", "role", role, "username", creds.Username)
	resp, err := r.client.Login(ctx, &client.LoginRequest{
		Username: creds.Username,
		Password: creds.Password,
		Role:     string(role),
	})
	if err != nil {
		return State{}, fmt.Errorf("cannot log in as %s: %w", role, err)
	}
	return State{Token: resp.BearerToken(), Role: role}, nil
}

// execute issues the case's request and validates the response
func (r *Runner) execute(ctx context.Context, state State, tc TestCase) (Result, interface{}) {
	var body interface{}
	if tc.sendsBody() {
		body = tc.Body
	}

	token := ""
	if tc.RequiresAuth {
		token = state.Token
	}

	resp, err := r.client.DoAuthorized(ctx, tc.Method, tc.Endpoint, body, token)
	if err != nil {
		return failed(tc, fmt.Sprintf("request failed: %v", err)), nil
	}

	var data interface{}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			res := failed(tc, fmt.Sprintf("request failed: invalid JSON response: %v", err))
			res.ActualStatusCode = resp.StatusCode
			return res, nil
		}
	}

	result := Result{
		ID:               tc.ID,
		Name:             tc.Name,
		ActualStatusCode: resp.StatusCode,
		ResponseData:     data,
	}
	if failure := tc.Schema().Validate(resp.StatusCode, data); failure != nil {
		result.ErrorMessage = failure.Error()
		return result, data
	}
	result.Passed = true
	return result, data
}

func tokenField(body interface{}) string {
	obj, ok := body.(map[string]interface{})
	if !ok {
		return ""
	}
	if token, ok := obj["token"].(string); ok && token != "" {
		return token
	}
	token, _ := obj["access_token"].(string)
	return token
}
