// ABOUTME: Static route table for the application shell
// ABOUTME: Nested routes are flattened to absolute paths at construction

package router

import (
	"path"
	"strings"
)

// Route is one entry of the navigation table
type Route struct {
	Path         string
	Name         string
	Title        string
	RequiresAuth bool
	Redirect     string
	Children     []Route
}

// DefaultRoutes returns the platform's navigation table
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Name: "Home", Title: "Home"},
		{Path: "/schools", Name: "Schools", Title: "School Library"},
		{Path: "/login", Redirect: "/"},
		{Path: "/register", Redirect: "/"},
		{
			Path:         "/student/dashboard",
			Name:         "StudentDashboard",
			Title:        "Student Center",
			RequiresAuth: true,
			Children: []Route{
				{Path: "profile", Name: "studentProfile", Title: "Student Profile", RequiresAuth: true},
				{Path: "recommendation", Name: "schoolRecommendation", Title: "School Recommendations", RequiresAuth: true},
				{Path: "schools", Name: "schoolSearch", Title: "School Search", RequiresAuth: true},
				{Path: "success-cases", Name: "successCases", Title: "Success Stories", RequiresAuth: true},
				{Path: "training", Name: "trainingAppointment", Title: "Training Appointments", RequiresAuth: true},
			},
		},
		{Path: "/teacher/dashboard", Name: "TeacherDashboard", Title: "Teacher Center", RequiresAuth: true},
	}
}

// Table resolves paths against a flattened route list
type Table struct {
	routes []Route
	byPath map[string]int
}

// NewTable flattens routes. Children resolve relative to their parent and
// inherit its RequiresAuth flag.
func NewTable(routes []Route) *Table {
	t := &Table{byPath: make(map[string]int)}
	t.add("/", false, routes)
	return t
}

func (t *Table) add(parent string, parentAuth bool, routes []Route) {
	for _, r := range routes {
		full := r.Path
		if !strings.HasPrefix(full, "/") {
			full = path.Join(parent, full)
		}
		flat := r
		flat.Path = Clean(full)
		flat.RequiresAuth = r.RequiresAuth || parentAuth
		flat.Children = nil
		if flat.Redirect != "" {
			flat.Redirect = Clean(flat.Redirect)
		}

		t.byPath[flat.Path] = len(t.routes)
		t.routes = append(t.routes, flat)
		t.add(flat.Path, flat.RequiresAuth, r.Children)
	}
}

// Resolve returns the route registered for p
func (t *Table) Resolve(p string) (Route, bool) {
	i, ok := t.byPath[Clean(p)]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Routes returns the flattened table in declaration order
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Clean normalizes a navigation target: query and fragment are dropped,
// the path is made absolute and trailing slashes are removed. The legacy
// multi-page entry point maps to the root.
func Clean(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == LegacyEntryPoint {
		return EntryPoint
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
