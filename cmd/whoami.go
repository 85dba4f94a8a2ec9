// ABOUTME: Whoami command showing the stored session
// ABOUTME: Decodes token claims locally without contacting the backend

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/markalston/study-portal/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Long: `Show the account held by the stored session.

Exit codes:
  0 - Signed in
  1 - Not signed in
  2 - Error`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runWhoami(context.Background(), os.Stdout, os.Stderr)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// identity is what whoami reports
type identity struct {
	LoggedIn  bool         `json:"logged_in"`
	Username  string       `json:"username,omitempty"`
	UserID    string       `json:"user_id,omitempty"`
	Role      session.Role `json:"role,omitempty"`
	Subject   string       `json:"subject,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	Expired   bool         `json:"expired,omitempty"`
}

// runWhoami prints the session identity and returns exit code
func runWhoami(ctx context.Context, w, notices io.Writer) int {
	a, err := newApp(notices)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.Close()

	id := resolveIdentity(ctx, a.sess, time.Now())

	if IsJSONOutput() {
		writeJSON(w, id)
	} else {
		fmt.Fprintln(w, formatIdentityHuman(id))
	}
	if !id.LoggedIn {
		return 1
	}
	return 0
}

// resolveIdentity gathers what the session knows about its owner
func resolveIdentity(ctx context.Context, sess *session.Session, now time.Time) identity {
	token := sess.Token(ctx)
	if token == "" {
		return identity{}
	}

	id := identity{
		LoggedIn: true,
		Username: sess.Username(ctx),
		Role:     sess.GetUserRole(ctx),
	}
	if info := sess.UserInfo(ctx); info != nil {
		id.UserID = info.UserID
		if id.Role == session.RoleUnknown {
			id.Role = info.Role
		}
	}

	claims, err := session.ParseClaims(token)
	if err != nil {
		return id
	}
	id.Subject = claims.Subject
	if id.Role == session.RoleUnknown {
		id.Role = claims.Role
	}
	if !claims.ExpiresAt.IsZero() {
		exp := claims.ExpiresAt
		id.ExpiresAt = &exp
		id.Expired = claims.Expired(now)
	}
	return id
}

// formatIdentityHuman formats the identity for human readability
func formatIdentityHuman(id identity) string {
	if !id.LoggedIn {
		return "Not logged in"
	}

	name := id.Username
	if name == "" {
		name = id.Subject
	}
	if name == "" {
		name = "(unknown user)"
	}
	role := string(id.Role)
	if role == "" {
		role = "unknown role"
	}

	out := fmt.Sprintf("Logged in as %s (%s)", name, role)
	if id.UserID != "" {
		out += fmt.Sprintf("\nUser ID:  %s", id.UserID)
	}
	if id.ExpiresAt != nil {
		state := "valid"
		if id.Expired {
			state = "expired"
		}
		out += fmt.Sprintf("\nExpires:  %s (%s)", id.ExpiresAt.Format(time.RFC3339), state)
	}
	return out
}
