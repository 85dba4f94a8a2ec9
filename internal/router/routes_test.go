// ABOUTME: Tests for the route table
// ABOUTME: Verifies flattening, inheritance of auth flags and path cleaning

package router

import "testing"

func TestTable_ResolvesNestedRoutes(t *testing.T) {
	table := NewTable(DefaultRoutes())

	route, ok := table.Resolve("/student/dashboard/training")
	if !ok {
		t.Fatal("expected nested route to resolve")
	}
	if route.Name != "trainingAppointment" {
		t.Errorf("expected trainingAppointment, got %s", route.Name)
	}
	if !route.RequiresAuth {
		t.Error("expected nested route to require auth")
	}
}

func TestTable_ChildrenInheritAuth(t *testing.T) {
	table := NewTable([]Route{
		{Path: "/private", RequiresAuth: true, Children: []Route{{Path: "page"}}},
	})

	route, ok := table.Resolve("/private/page")
	if !ok {
		t.Fatal("expected child route to resolve")
	}
	if !route.RequiresAuth {
		t.Error("expected child to inherit RequiresAuth")
	}
}

func TestTable_StaticRedirects(t *testing.T) {
	table := NewTable(DefaultRoutes())

	for _, p := range []string{"/login", "/register"} {
		route, ok := table.Resolve(p)
		if !ok {
			t.Fatalf("expected %s to resolve", p)
		}
		if route.Redirect != "/" {
			t.Errorf("expected %s to redirect to /, got %q", p, route.Redirect)
		}
	}
}

func TestTable_UnknownPath(t *testing.T) {
	table := NewTable(DefaultRoutes())
	if _, ok := table.Resolve("/admin"); ok {
		t.Error("expected unknown path not to resolve")
	}
}

func TestTable_RoutesIsFlatCopy(t *testing.T) {
	table := NewTable(DefaultRoutes())
	routes := table.Routes()
	if len(routes) != 11 {
		t.Fatalf("expected 11 flattened routes, got %d", len(routes))
	}
	routes[0].Title = "changed"
	if r, _ := table.Resolve("/"); r.Title != "Home" {
		t.Error("expected Routes to return a copy")
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"schools", "/schools"},
		{"/teacher/dashboard/", "/teacher/dashboard"},
		{"/schools?page=2", "/schools"},
		{"/student/dashboard#top", "/student/dashboard"},
		{"../index.html", "/"},
	}

	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
