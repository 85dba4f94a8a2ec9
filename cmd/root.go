// ABOUTME: Root command for the study-portal CLI
// ABOUTME: Handles global flags, logging and configuration

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/markalston/study-portal/config"
	"github.com/markalston/study-portal/logger"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "study-portal",
	Short: "CLI for the Study Abroad Service Platform",
	Long: `study-portal is a command-line client for the Study Abroad Service Platform.

It signs students and teachers in, keeps their session between invocations,
guards navigation to protected areas and smoke-tests the backend API.

Environment Variables:
  STUDY_PORTAL_API_URL            Backend API URL (default: http://localhost:8000)
  STUDY_PORTAL_TIMEOUT            Request timeout in seconds (default: 30)
  STUDY_PORTAL_SESSION_STORE      file, memory or redis (default: file)
  STUDY_PORTAL_SESSION_FILE       Session file path
  STUDY_PORTAL_SESSION_SECRET     Seals the session file when set
  STUDY_PORTAL_REDIS_URL          Redis URL for the redis session store
  STUDY_PORTAL_ALL_PROXY          ssh+socks5://user@host:port?private-key=/path
  LOG_LEVEL, LOG_FORMAT           Logging level and format (text or json)`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides STUDY_PORTAL_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// loadConfig reads the environment and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}
	return cfg, nil
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
