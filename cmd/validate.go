package cmd

import (
	"fmt"

	"github.com/iacgate/iacgate/internal/checks"
	"github.com/iacgate/iacgate/internal/config"
	"github.com/iacgate/iacgate/internal/engine"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and show the compiled check table",
	Long: `Validate loads the iacgate configuration and displays the deny list,
disabled checks and every registered check.

This is useful for:
- Checking that your config.toml syntax is correct
- Finding the check IDs to disable
- Seeing what will block versus warn`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("failed to load configuration")
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration valid!")
	if err := config.InitError(); err != nil {
		fmt.Fprintf(out, "(running on embedded defaults: %v)\n", err)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Deny list (pre-write, blocking): %d built-in + %d configured\n", len(engine.DenyRules()), len(cfg.DenyGlobs))
	for _, r := range engine.DenyRules() {
		fmt.Fprintf(out, "  - %s\n", r.Glob)
	}
	for _, g := range cfg.DenyGlobs {
		fmt.Fprintf(out, "  - %s (config)\n", g)
	}
	fmt.Fprintln(out)

	all := checks.All()
	fmt.Fprintf(out, "Checks: %d registered, %d disabled\n", len(all), len(cfg.Disabled))
	for _, c := range all {
		state := ""
		if cfg.Disabled[c.ID] {
			state = " (disabled)"
		}
		fmt.Fprintf(out, "  - [%s/%s] %s%s\n", c.Category.Label(), c.Severity, c.ID, state)
	}

	return nil
}
