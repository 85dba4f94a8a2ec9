// ABOUTME: Guards for standalone pages outside the routed application
// ABOUTME: Login and role checks that bounce to the entry page, plus logout

package router

import (
	"context"

	"github.com/markalston/study-portal/internal/client"
	"github.com/markalston/study-portal/internal/session"
)

// MsgForbidden is shown when the session holds the wrong role
const MsgForbidden = "You do not have permission to access this page"

// PageGuard checks access for a single page
type PageGuard struct {
	sess      *session.Session
	notifier  client.Notifier
	navigator client.Navigator
}

// NewPageGuard creates a page guard
func NewPageGuard(sess *session.Session, notifier client.Notifier, navigator client.Navigator) *PageGuard {
	return &PageGuard{sess: sess, notifier: notifier, navigator: navigator}
}

// RequireLogin redirects to the entry page unless a token is stored
func (p *PageGuard) RequireLogin(ctx context.Context) bool {
	if !p.sess.IsLoggedIn(ctx) {
		p.navigator.Redirect(LegacyEntryPoint)
		return false
	}
	return true
}

// RequireRole redirects with a notice unless the stored role matches
func (p *PageGuard) RequireRole(ctx context.Context, role session.Role) bool {
	if p.sess.GetUserRole(ctx) != role {
		p.notifier.Notify(MsgForbidden)
		p.navigator.Redirect(LegacyEntryPoint)
		return false
	}
	return true
}

// Logout clears the session and returns to the entry page
func (p *PageGuard) Logout(ctx context.Context) error {
	if err := p.sess.ClearLoginInfo(ctx); err != nil {
		return err
	}
	p.navigator.Redirect(LegacyEntryPoint)
	return nil
}
