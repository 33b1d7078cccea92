package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/iacgate/iacgate/internal/hook"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var preCmd = &cobra.Command{
	Use:   "pre",
	Short: "Run the pre-write hook (PreToolUse)",
	Long: `Pre reads a hook payload from stdin and evaluates the write before it
reaches disk. Writes to state and credential files are blocked outright;
everything else produces at most advisory context.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPhase(cmd, hook.PhasePre)
	},
	SilenceUsage: true,
}

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Run the post-write hook (PostToolUse)",
	Long: `Post reads a hook payload from stdin and checks the file that was just
written. Post-write never blocks; findings are reported back to the agent
as a system message.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPhase(cmd, hook.PhasePost)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(preCmd)
	rootCmd.AddCommand(postCmd)
}

// runAutoPhase handles the bare `iacgate` invocation: the phase comes from
// the payload's hook_event_name, defaulting to pre-write.
func runAutoPhase(cmd *cobra.Command, args []string) error {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read hook input: %w", err)
	}

	phase := hook.PhasePre
	if gjson.ValidBytes(raw) && gjson.GetBytes(raw, "hook_event_name").String() == string(hook.PhasePost) {
		phase = hook.PhasePost
	}

	emit(cmd, hook.ProcessBytes(raw, phase))
	return nil
}

// runPhase handles the explicit pre/post subcommands.
func runPhase(cmd *cobra.Command, phase hook.Phase) error {
	result, err := hook.Process(cmd.InOrStdin(), phase)
	if err != nil {
		// Unreadable stdin is the one adapter failure worth a non-zero
		// exit: the hook cannot speak to its host at all.
		return err
	}
	emit(cmd, result)
	return nil
}

// emit writes the protocol response to stdout, or a human-readable summary
// to stderr in dry-run mode. Nothing is written when there is nothing to
// report.
func emit(cmd *cobra.Command, result hook.Result) {
	if dryRun {
		switch {
		case result.Blocked:
			fmt.Fprintf(os.Stderr, "BLOCKED: %s (%s)\n", result.FilePath, result.Reason)
		case len(result.Findings) > 0:
			fmt.Fprintf(os.Stderr, "FINDINGS for %s:\n", result.FilePath)
			for _, f := range result.Findings {
				fmt.Fprintln(os.Stderr, hook.FindingLine(f))
			}
		default:
			fmt.Fprintf(os.Stderr, "CLEAN: %s\n", result.FilePath)
		}
		return
	}

	if result.Output != "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Output)
	}
}
