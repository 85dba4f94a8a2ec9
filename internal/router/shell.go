// ABOUTME: Application shell that applies redirects and guard decisions
// ABOUTME: Tracks the current route and title; also the client's Navigator

package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// maxHops bounds redirect chains so a misconfigured table cannot loop
const maxHops = 8

// Visit describes a completed navigation
type Visit struct {
	Requested string
	Path      string
	Title     string
	Redirects []string
	ShowLogin bool
}

// Redirected reports whether the visit ended somewhere other than requested
func (v *Visit) Redirected() bool {
	return v.Path != v.Requested
}

// Shell owns the current location of the application
type Shell struct {
	table  *Table
	guard  *Guard
	signal *Signal

	mu      sync.Mutex
	current Route
	title   string
}

// NewShell creates a shell positioned at the entry point. A nil signal
// uses ShowLoginModal and must match the one given to the guard.
func NewShell(table *Table, guard *Guard, signal *Signal) *Shell {
	if signal == nil {
		signal = &ShowLoginModal
	}
	current, _ := table.Resolve(EntryPoint)
	return &Shell{
		table:   table,
		guard:   guard,
		signal:  signal,
		current: current,
		title:   DefaultTitle,
	}
}

// Navigate moves to target. Static redirects are followed first, then the
// guard runs again on every redirect target until it lets a route through.
func (s *Shell) Navigate(ctx context.Context, target string) (*Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	visit := &Visit{Requested: Clean(target)}
	from := s.current
	p := visit.Requested

	for hop := 0; hop < maxHops; hop++ {
		route, ok := s.table.Resolve(p)
		if !ok {
			return nil, fmt.Errorf("no route matches %q", p)
		}
		if route.Redirect != "" {
			visit.Redirects = append(visit.Redirects, route.Redirect)
			p = route.Redirect
			continue
		}

		decision := s.guard.Decide(ctx, route, from)
		visit.Title = decision.Title
		if decision.Action == Redirect {
			visit.Redirects = append(visit.Redirects, decision.Path)
			p = decision.Path
			continue
		}

		s.current = route
		s.title = decision.Title
		visit.Path = route.Path
		visit.ShowLogin = s.signal.Take()
		slog.Debug("Navigated", "requested", visit.Requested, "path", visit.Path, "redirects", len(visit.Redirects))
		return visit, nil
	}

	return nil, fmt.Errorf("too many redirects navigating to %q", visit.Requested)
}

// Redirect satisfies client.Navigator. Failures are logged since the
// caller is an interceptor with no way to report them.
func (s *Shell) Redirect(target string) {
	if _, err := s.Navigate(context.Background(), target); err != nil {
		slog.Error("Redirect failed", "target", target, "error", err)
	}
}

// Current returns the path of the active route
func (s *Shell) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Path
}

// Title returns the document title of the active route
func (s *Shell) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}
