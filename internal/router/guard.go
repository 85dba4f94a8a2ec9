// ABOUTME: Navigation guard deciding every route transition
// ABOUTME: Sets the title, dispatches logged-in users by role and bounces anonymous users

package router

import (
	"context"
	"log/slog"

	"github.com/markalston/study-portal/internal/session"
)

// DefaultTitle is used when the target route has no title
const DefaultTitle = "Study Abroad Service Platform"

// Entry points for redirects out of protected areas
const (
	EntryPoint       = "/"
	LegacyEntryPoint = "../index.html"
)

// Role dashboards
const (
	StudentDashboard = "/student/dashboard"
	TeacherDashboard = "/teacher/dashboard"
)

// Action is the outcome of a guard decision
type Action int

const (
	Proceed Action = iota
	Redirect
)

func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}
	return "proceed"
}

// Decision is what the guard wants done with a transition
type Decision struct {
	Action    Action
	Path      string
	Title     string
	ShowLogin bool
}

// Guard decides route transitions against a session
type Guard struct {
	sess   *session.Session
	signal *Signal
}

// NewGuard creates a guard. A nil signal uses ShowLoginModal.
func NewGuard(sess *session.Session, signal *Signal) *Guard {
	if signal == nil {
		signal = &ShowLoginModal
	}
	return &Guard{sess: sess, signal: signal}
}

// Decide runs for every transition from one route to another. It never
// fails: unreadable session data counts as no session.
func (g *Guard) Decide(ctx context.Context, to, from Route) Decision {
	title := to.Title
	if title == "" {
		title = DefaultTitle
	}

	authenticated := g.sess.Token(ctx) != ""

	var role session.Role
	if info := g.sess.UserInfo(ctx); info != nil {
		role = info.Role
	}

	slog.Debug("Guarding navigation",
		"from", from.Path,
		"to", to.Path,
		"authenticated", authenticated,
		"role", role,
	)

	if authenticated && to.Path == EntryPoint && role != session.RoleUnknown {
		switch role {
		case session.RoleStudent:
			return Decision{Action: Redirect, Path: StudentDashboard, Title: title}
		case session.RoleTeacher:
			return Decision{Action: Redirect, Path: TeacherDashboard, Title: title}
		default:
			return Decision{Action: Proceed, Path: to.Path, Title: title}
		}
	}

	if to.RequiresAuth && !authenticated {
		g.signal.Raise()
		return Decision{Action: Redirect, Path: EntryPoint, Title: title, ShowLogin: true}
	}

	return Decision{Action: Proceed, Path: to.Path, Title: title}
}
