// ABOUTME: Navigate and routes commands for the application shell
// ABOUTME: Runs the navigation guard against the stored session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markalston/study-portal/internal/router"
)

var navigateCmd = &cobra.Command{
	Use:   "navigate <path>",
	Short: "Resolve where navigating to a path ends up",
	Long: `Navigate to a path as the stored session and show where the guard
lets you land, following any redirects.

Exit codes:
  0 - Navigation completed
  1 - Redirected to sign in
  2 - Error (unknown route)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runNavigate(context.Background(), os.Stdout, os.Stderr, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the application routes",
	Run: func(cmd *cobra.Command, args []string) {
		runRoutes(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(navigateCmd)
	rootCmd.AddCommand(routesCmd)
}

// runNavigate resolves target and returns exit code
func runNavigate(ctx context.Context, w, notices io.Writer, target string) int {
	a, err := newApp(notices)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.Close()

	visit, err := a.shell.Navigate(ctx, target)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]interface{}{
			"requested":  visit.Requested,
			"path":       visit.Path,
			"title":      visit.Title,
			"redirects":  visit.Redirects,
			"show_login": visit.ShowLogin,
		})
	} else {
		fmt.Fprintln(w, formatVisitHuman(visit))
	}

	if visit.ShowLogin {
		return 1
	}
	return 0
}

// formatVisitHuman formats a navigation result for human readability
func formatVisitHuman(v *router.Visit) string {
	chain := append([]string{v.Requested}, v.Redirects...)
	out := fmt.Sprintf("%s\nTitle: %s", strings.Join(chain, " → "), v.Title)
	if v.ShowLogin {
		out += "\nSign in required: run 'study-portal login'"
	}
	return out
}

// runRoutes prints the route table
func runRoutes(w io.Writer) {
	routes := router.NewTable(router.DefaultRoutes()).Routes()

	if IsJSONOutput() {
		out := make([]map[string]interface{}, len(routes))
		for i, r := range routes {
			out[i] = map[string]interface{}{
				"path":          r.Path,
				"name":          r.Name,
				"title":         r.Title,
				"requires_auth": r.RequiresAuth,
				"redirect":      r.Redirect,
			}
		}
		writeJSON(w, out)
		return
	}

	fmt.Fprintln(w, formatRoutesHuman(routes))
}

// formatRoutesHuman renders routes as aligned columns
func formatRoutesHuman(routes []router.Route) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-36s %-24s %s\n", "PATH", "TITLE", "ACCESS")
	for _, r := range routes {
		access := "public"
		switch {
		case r.Redirect != "":
			access = "→ " + r.Redirect
		case r.RequiresAuth:
			access = "sign-in"
		}
		title := r.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(&b, "%-36s %-24s %s\n", r.Path, title, access)
	}
	return strings.TrimRight(b.String(), "\n")
}
