// ABOUTME: Smoke command running the API test suite against the backend
// ABOUTME: Designed for CI/CD pipelines with human, JSON and HTML reports

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/study-portal/internal/harness"
	"github.com/markalston/study-portal/internal/session"
	"github.com/markalston/study-portal/internal/tui/progress"
	"github.com/markalston/study-portal/internal/tui/styles"
	"github.com/markalston/study-portal/logger"
)

var (
	suitePath  string
	htmlReport string
	smokeTUI   bool
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Smoke-test the backend API",
	Long: `Run the API test suite in order and report which cases passed.

Cases that need authentication sign in with the configured test account for
their role (STUDY_PORTAL_TEACHER_USERNAME, STUDY_PORTAL_STUDENT_USERNAME and
the matching _PASSWORD variables). The stored session is never touched.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Error (invalid suite, configuration)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSmoke(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(smokeCmd)
	smokeCmd.Flags().StringVar(&suitePath, "suite", "", "YAML suite file (default: built-in suite)")
	smokeCmd.Flags().StringVar(&htmlReport, "html", "", "Also write an HTML report to this file")
	smokeCmd.Flags().BoolVar(&smokeTUI, "tui", false, "Show live progress while the suite runs")
}

// runSmoke executes the suite and returns exit code
func runSmoke(ctx context.Context, w io.Writer) int {
	a, err := newApp(io.Discard)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.Close()

	creds := a.credentials()
	title := "API smoke test"
	cases := harness.DefaultSuite(creds[session.RoleTeacher])
	if suitePath != "" {
		suite, err := harness.LoadSuite(suitePath)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		cases = suite.Cases
		if suite.Name != "" {
			title = suite.Name
		}
	}

	bare, err := a.bare()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	run := func(ctx context.Context, observer harness.Observer) *harness.Report {
		var opts []harness.Option
		if observer != nil {
			opts = append(opts, harness.WithObserver(observer))
		}
		return harness.NewRunner(bare, creds, opts...).Run(ctx, cases)
	}

	var report *harness.Report
	if smokeTUI {
		report, err = runSmokeTUI(ctx, a.cfg.ConfigDir, title, len(cases), run)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	} else {
		report = run(ctx, nil)
	}

	if htmlReport != "" {
		if err := writeHTMLReport(htmlReport, report); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSmokeJSON(report))
	} else if !smokeTUI {
		fmt.Fprintln(w, formatSmokeHuman(report))
	}

	if !report.AllPassed() {
		return 1
	}
	return 0
}

// runSmokeTUI shows live progress, logging to a file while the view owns the terminal
func runSmokeTUI(ctx context.Context, logDir, title string, total int, run progress.RunFunc) (*harness.Report, error) {
	closer, err := logger.InitFile(logDir)
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	defer closer.Close()

	return progress.Run(ctx, title, total, run)
}

func writeHTMLReport(path string, report *harness.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating HTML report: %w", err)
	}
	if err := harness.WriteHTML(f, report); err != nil {
		f.Close()
		return fmt.Errorf("writing HTML report: %w", err)
	}
	return f.Close()
}

// formatSmokeHuman formats a report for human readability
func formatSmokeHuman(report *harness.Report) string {
	var output string

	for _, r := range report.Details {
		output += fmt.Sprintf("%s %d. %s\n", styles.Mark(r.Passed), r.ID, r.Name)
		if !r.Passed {
			output += fmt.Sprintf("    %s\n", r.ErrorMessage)
		}
	}

	rate := styles.RateStyle(report.PassRate).Render(report.FormattedPassRate() + "%")
	output += fmt.Sprintf("\nResult: %s Passed %d/%d (%s)",
		styles.PassFail(report.AllPassed()), report.PassedTests, report.TotalTests, rate)

	if failures := report.Failures(); len(failures) > 0 {
		output += "\n\nFAILED:"
		for _, r := range failures {
			output += fmt.Sprintf("\n- %s: %s", r.Name, r.ErrorMessage)
		}
	}
	return output
}

// formatSmokeJSON formats a report as JSON
func formatSmokeJSON(report *harness.Report) string {
	status := "passed"
	if !report.AllPassed() {
		status = "failed"
	}

	output := struct {
		Status string `json:"status"`
		*harness.Report
	}{Status: status, Report: report}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
