// ABOUTME: Teacher commands: profile, school library and student statistics
// ABOUTME: Require a teacher session and use the canonical client

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/study-portal/internal/client"
	"github.com/markalston/study-portal/internal/session"
)

var (
	schoolPage     int
	schoolPageSize int
)

var teacherCmd = &cobra.Command{
	Use:   "teacher",
	Short: "Teacher center commands",
	Long: `Teacher center commands. A teacher session is required.

Exit codes:
  0 - Success
  1 - Not signed in as a teacher, or the session expired
  2 - Error (connectivity, backend error)`,
}

var teacherProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the teacher profile",
	Run:   teacherRun(showProfile),
}

var teacherSchoolsCmd = &cobra.Command{
	Use:   "schools",
	Short: "List the school library",
	Run:   teacherRun(listSchools),
}

var teacherStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show student statistics",
	Run:   teacherRun(showStats),
}

func init() {
	rootCmd.AddCommand(teacherCmd)
	teacherCmd.AddCommand(teacherProfileCmd, teacherSchoolsCmd, teacherStatsCmd)
	teacherSchoolsCmd.Flags().IntVar(&schoolPage, "page", 1, "Page number")
	teacherSchoolsCmd.Flags().IntVar(&schoolPageSize, "page-size", 10, "Schools per page")
}

// apiFunc is a command body calling the backend
type apiFunc func(ctx context.Context, w io.Writer, c *client.Client) error

// teacherRun adapts fn into a cobra Run requiring a teacher session
func teacherRun(fn apiFunc) func(cmd *cobra.Command, args []string) {
	return roleRun(session.RoleTeacher, fn)
}

func roleRun(role session.Role, fn apiFunc) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAsRole(ctx, os.Stdout, os.Stderr, role, fn)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}
}

// runAsRole checks the session role, runs fn and returns exit code
func runAsRole(ctx context.Context, w, notices io.Writer, role session.Role, fn apiFunc) int {
	a, err := newApp(notices)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.Close()

	if !a.pages.RequireLogin(ctx) {
		fmt.Fprintln(w, "Not logged in: run 'study-portal login'")
		return 1
	}
	if !a.pages.RequireRole(ctx, role) {
		return 1
	}

	if err := fn(ctx, w, a.api()); err != nil {
		return apiExitCode(w, err)
	}
	return 0
}

func showProfile(ctx context.Context, w io.Writer, c *client.Client) error {
	profile, err := c.TeacherProfile(ctx)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		writeJSON(w, profile)
		return nil
	}
	fmt.Fprintln(w, formatProfileHuman(profile))
	return nil
}

func listSchools(ctx context.Context, w io.Writer, c *client.Client) error {
	if schoolPage < 1 || schoolPageSize < 1 {
		return fmt.Errorf("--page and --page-size must be positive")
	}
	page, err := c.SchoolList(ctx, schoolPage, schoolPageSize)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		writeJSON(w, page)
		return nil
	}
	fmt.Fprintln(w, formatSchoolsHuman(page))
	return nil
}

func showStats(ctx context.Context, w io.Writer, c *client.Client) error {
	stats, err := c.StudentStatistics(ctx)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		writeJSON(w, stats)
		return nil
	}
	fmt.Fprintln(w, formatStatsHuman(stats))
	return nil
}

// formatProfileHuman formats a teacher profile for human readability
func formatProfileHuman(p *client.TeacherProfile) string {
	out := fmt.Sprintf(`Name:     %s
Username: %s
Email:    %s
Phone:    %s`, p.Name, p.Username, p.Email, p.Phone)
	if p.Subject != "" {
		out += fmt.Sprintf("\nSubject:  %s", p.Subject)
	}
	return out
}

// formatSchoolsHuman formats a page of schools for human readability
func formatSchoolsHuman(p *client.SchoolPage) string {
	if len(p.Schools) == 0 {
		return "No schools found"
	}
	var b strings.Builder
	for _, s := range p.Schools {
		line := s.Name
		if s.Region != "" {
			line += " (" + s.Region + ")"
		}
		if s.Ranking != nil {
			line += fmt.Sprintf(" #%v", s.Ranking)
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "\nPage %d of %d", p.CurrentPage, p.TotalPages)
	return b.String()
}

// formatStatsHuman formats student statistics for human readability
func formatStatsHuman(s *client.StudentStatistics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total students: %d\n", s.TotalStudents)
	writeSortedMap(&b, "Gender ratio", s.GenderRatio)
	writeSortedMap(&b, "Average scores", s.AvgScores)
	return strings.TrimRight(b.String(), "\n")
}

func writeSortedMap(b *strings.Builder, title string, m map[string]interface{}) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "  %-12s %v\n", k, m[k])
	}
}
