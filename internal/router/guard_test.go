// ABOUTME: Tests for the navigation guard decision table
// ABOUTME: Covers role dispatch, anonymous bounces and malformed stored data

package router

import (
	"context"
	"testing"

	"github.com/markalston/study-portal/internal/session"
)

func newGuard(t *testing.T) (*Guard, *session.Session, *session.MemoryStore, *Signal) {
	t.Helper()
	store := session.NewMemoryStore()
	sess := session.New(store)
	signal := &Signal{}
	return NewGuard(sess, signal), sess, store, signal
}

func login(t *testing.T, sess *session.Session, role session.Role) {
	t.Helper()
	ctx := context.Background()
	if err := sess.SaveLoginInfo(ctx, "tok", role); err != nil {
		t.Fatalf("save login: %v", err)
	}
	if err := sess.SaveUserInfo(ctx, session.UserInfo{Username: "u", Role: role}); err != nil {
		t.Fatalf("save user info: %v", err)
	}
}

func route(t *testing.T, p string) Route {
	t.Helper()
	r, ok := NewTable(DefaultRoutes()).Resolve(p)
	if !ok {
		t.Fatalf("route %s not found", p)
	}
	return r
}

func TestGuard_ProtectedRouteWithoutToken(t *testing.T) {
	ctx := context.Background()
	for _, p := range []string{"/student/dashboard", "/student/dashboard/profile", "/teacher/dashboard"} {
		guard, _, _, signal := newGuard(t)

		d := guard.Decide(ctx, route(t, p), route(t, "/"))
		if d.Action != Redirect || d.Path != "/" {
			t.Errorf("%s: expected redirect to /, got %s %s", p, d.Action, d.Path)
		}
		if !d.ShowLogin {
			t.Errorf("%s: expected ShowLogin", p)
		}
		if !signal.Pending() {
			t.Errorf("%s: expected login signal raised", p)
		}
	}
}

func TestGuard_RootDispatchesByRole(t *testing.T) {
	tests := []struct {
		role session.Role
		want string
	}{
		{session.RoleStudent, "/student/dashboard"},
		{session.RoleTeacher, "/teacher/dashboard"},
	}

	for _, tt := range tests {
		guard, sess, _, _ := newGuard(t)
		login(t, sess, tt.role)

		d := guard.Decide(context.Background(), route(t, "/"), Route{})
		if d.Action != Redirect || d.Path != tt.want {
			t.Errorf("role %s: expected redirect to %s, got %s %s", tt.role, tt.want, d.Action, d.Path)
		}
	}
}

func TestGuard_RootWithUnknownRoleProceeds(t *testing.T) {
	ctx := context.Background()
	guard, _, store, _ := newGuard(t)
	store.Set(ctx, session.KeyToken, "tok")

	d := guard.Decide(ctx, route(t, "/"), Route{})
	if d.Action != Proceed || d.Path != "/" {
		t.Errorf("expected proceed to /, got %s %s", d.Action, d.Path)
	}
}

func TestGuard_RootWithUnrecognizedRoleProceeds(t *testing.T) {
	ctx := context.Background()
	guard, _, store, _ := newGuard(t)
	store.Set(ctx, session.KeyToken, "tok")
	store.Set(ctx, session.KeyUserInfo, `{"username":"a","role":"admin"}`)

	d := guard.Decide(ctx, route(t, "/"), Route{})
	if d.Action != Proceed {
		t.Errorf("expected proceed for unrecognized role, got %s %s", d.Action, d.Path)
	}
}

func TestGuard_LegacyTokenAndRole(t *testing.T) {
	ctx := context.Background()
	guard, _, store, _ := newGuard(t)
	store.Set(ctx, session.KeyLegacyToken, "old")
	store.Set(ctx, session.KeyLegacyRole, "student")
	store.Set(ctx, session.KeyLegacyID, "7")

	d := guard.Decide(ctx, route(t, "/"), Route{})
	if d.Action != Redirect || d.Path != "/student/dashboard" {
		t.Errorf("expected legacy session to dispatch to student dashboard, got %s %s", d.Action, d.Path)
	}
}

func TestGuard_MalformedUserInfoDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	guard, _, store, _ := newGuard(t)
	store.Set(ctx, session.KeyToken, "tok")
	store.Set(ctx, session.KeyUserInfo, "{not json")

	d := guard.Decide(ctx, route(t, "/"), Route{})
	if d.Action != Proceed || d.Path != "/" {
		t.Errorf("expected proceed with malformed user info, got %s %s", d.Action, d.Path)
	}

	d = guard.Decide(ctx, route(t, "/teacher/dashboard"), Route{})
	if d.Action != Proceed {
		t.Errorf("expected authenticated user to reach protected route, got %s", d.Action)
	}
}

func TestGuard_PublicRouteProceeds(t *testing.T) {
	guard, _, _, signal := newGuard(t)

	d := guard.Decide(context.Background(), route(t, "/schools"), Route{})
	if d.Action != Proceed || d.Path != "/schools" {
		t.Errorf("expected proceed, got %s %s", d.Action, d.Path)
	}
	if signal.Pending() {
		t.Error("expected no login signal for public route")
	}
}

func TestGuard_Title(t *testing.T) {
	guard, _, _, _ := newGuard(t)
	ctx := context.Background()

	if d := guard.Decide(ctx, route(t, "/schools"), Route{}); d.Title != "School Library" {
		t.Errorf("expected route title, got %q", d.Title)
	}
	if d := guard.Decide(ctx, Route{Path: "/untitled"}, Route{}); d.Title != DefaultTitle {
		t.Errorf("expected default title, got %q", d.Title)
	}
}

func TestSignal_TakeResets(t *testing.T) {
	var s Signal
	if s.Take() {
		t.Error("expected fresh signal to be lowered")
	}
	s.Raise()
	if !s.Take() {
		t.Error("expected raised signal")
	}
	if s.Pending() {
		t.Error("expected Take to reset the signal")
	}
}
