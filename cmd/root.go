// Package cmd implements the CLI commands for iacgate.
package cmd

import (
	"github.com/iacgate/iacgate/internal/audit"
	"github.com/iacgate/iacgate/internal/config"
	"github.com/iacgate/iacgate/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	dryRun     bool
	noAuditLog bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "iacgate",
	Short: "Claude Code hook that audits infrastructure-as-code file writes",
	Long: `iacgate is a PreToolUse/PostToolUse hook for Claude Code that classifies
edited infrastructure files (Terraform, Kubernetes, Dockerfiles, CI
pipelines, ...) and checks them for security misconfigurations, hardcoded
secrets and missing operational safeguards.

Pre-write it blocks edits to state and credential files outright; everything
else is advisory. Post-write it reports findings back to the agent.

When called without a subcommand it reads a JSON payload from stdin and
infers the phase from hook_event_name (use the pre/post subcommands in
settings.json to be explicit):

  "hooks": {
    "PreToolUse": [{
      "matcher": "Edit|Write|MultiEdit",
      "hooks": [{"type": "command", "command": "iacgate pre"}]
    }],
    "PostToolUse": [{
      "matcher": "Edit|Write|MultiEdit",
      "hooks": [{"type": "command", "command": "iacgate post"}]
    }]
  }`,
	// Run the hook by default when no subcommand is given
	RunE:         runAutoPhase,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize before running any command, flush audit afterwards
	cobra.OnInitialize(initApp)
	cobra.OnFinalize(func() { audit.Close() })

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Report the decision on stderr instead of emitting protocol JSON")
	rootCmd.PersistentFlags().BoolVar(&noAuditLog, "no-audit-log", false, "Disable audit logging")
}

// initApp initializes the application (logger, config, audit)
func initApp() {
	logger.Init(logger.Options{Verbose: verbose})
	config.Init()
	audit.Init("", noAuditLog, config.Get().AuditMaxSize)
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// IsDryRun returns whether dry-run mode is enabled
func IsDryRun() bool {
	return dryRun
}
