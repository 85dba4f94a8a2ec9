// ABOUTME: Login and logout commands
// ABOUTME: Exchange credentials for a token, persist the session and land on the role dashboard

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/study-portal/internal/client"
	"github.com/markalston/study-portal/internal/session"
	"github.com/markalston/study-portal/internal/tui/loginform"
)

var (
	loginUsername string
	loginPassword string
	loginRole     string
	loginLegacy   bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as a student or teacher",
	Long: `Sign in and store the session for later commands.

Missing credentials are prompted for when running in a terminal.

Exit codes:
  0 - Signed in
  1 - Credentials rejected
  2 - Error (connectivity, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout, os.Stderr)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout, os.Stderr)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password")
	loginCmd.Flags().StringVarP(&loginRole, "role", "r", "", "Account role: student or teacher (default student)")
	loginCmd.Flags().BoolVar(&loginLegacy, "legacy-form", false, "Send credentials form-encoded with the role as scope")
}

// promptLogin asks for missing credentials; replaced in tests
var promptLogin = func(answers *loginform.Answers, askRole bool) (*loginform.Answers, error) {
	return loginform.New(answers).Run(askRole)
}

// isTerminal reports whether stdin is interactive; replaced in tests
var isTerminal = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// loginResult is the JSON shape of a successful login
type loginResult struct {
	Username string       `json:"username"`
	Role     session.Role `json:"role"`
	Landing  string       `json:"landing"`
	Title    string       `json:"title"`
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, w, notices io.Writer) int {
	answers, err := collectCredentials()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	a, err := newApp(notices)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.Close()

	bare, err := a.bare()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	req := &client.LoginRequest{
		Username: answers.Username,
		Password: answers.Password,
		Role:     string(answers.Role),
	}
	var resp *client.LoginResponse
	if loginLegacy {
		resp, err = bare.LoginForm(ctx, req)
	} else {
		resp, err = bare.Login(ctx, req)
	}
	if err != nil {
		return loginFailure(w, err)
	}

	role := answers.Role
	if r, err := session.ParseRole(resp.Role); err == nil {
		role = r
	}
	username := resp.Username
	if username == "" {
		username = answers.Username
	}

	if err := a.sess.SaveLoginInfo(ctx, resp.BearerToken(), role); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	info := session.UserInfo{Username: username, UserID: userID(resp.UserID), Role: role}
	if err := a.sess.SaveUserInfo(ctx, info); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	visit, err := a.shell.Navigate(ctx, "/")
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	result := loginResult{Username: username, Role: role, Landing: visit.Path, Title: visit.Title}
	if IsJSONOutput() {
		writeJSON(w, result)
	} else {
		fmt.Fprintf(w, "Logged in as %s (%s)\n", result.Username, result.Role)
		fmt.Fprintf(w, "Landing page: %s (%s)\n", result.Landing, result.Title)
	}
	return 0
}

// collectCredentials merges flags with an interactive prompt
func collectCredentials() (*loginform.Answers, error) {
	answers := &loginform.Answers{Username: loginUsername, Password: loginPassword}
	askRole := loginRole == ""
	if !askRole {
		role, err := session.ParseRole(loginRole)
		if err != nil {
			return nil, err
		}
		answers.Role = role
	}

	if (answers.Username == "" || answers.Password == "") && isTerminal() {
		return promptLogin(answers, askRole)
	}
	if answers.Username == "" || answers.Password == "" {
		return nil, fmt.Errorf("--username and --password are required")
	}
	if answers.Role == session.RoleUnknown {
		answers.Role = session.RoleStudent
	}
	return answers, nil
}

// loginFailure reports a failed login exchange
func loginFailure(w io.Writer, err error) int {
	var authErr *client.AuthExpiredError
	if errors.As(err, &authErr) {
		fmt.Fprintf(w, "Login failed: %s\n", authErr.Message)
		return 1
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Login failed: %s\n", apiErr.Message)
		return 1
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return 2
}

// userID renders the backend's numeric or string id
func userID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return fmt.Sprint(id)
	}
}

// runLogout clears the session and returns exit code
func runLogout(ctx context.Context, w, notices io.Writer) int {
	a, err := newApp(notices)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.Close()

	wasLoggedIn := a.sess.IsLoggedIn(ctx)
	if err := a.pages.Logout(ctx); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]interface{}{"logged_out": wasLoggedIn})
	} else if wasLoggedIn {
		fmt.Fprintln(w, "Logged out")
	} else {
		fmt.Fprintln(w, "Not logged in")
	}
	return 0
}
