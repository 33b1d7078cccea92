package cmd

import (
	"fmt"
	"os"

	"github.com/iacgate/iacgate/internal/checks"
	"github.com/iacgate/iacgate/internal/classify"
	"github.com/iacgate/iacgate/internal/engine"
	"github.com/iacgate/iacgate/internal/hook"
	"github.com/iacgate/iacgate/internal/repoctx"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan FILE...",
	Short: "Scan files directly and print findings",
	Long: `Scan runs the check library against the given files without the hook
protocol. Useful for trying out checks and debugging classification:

  iacgate scan main.tf deploy/app.yaml Dockerfile`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	total := 0

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}
		content := string(data)

		cats := classify.File(path, content)
		target := checks.Target{
			Path:    path,
			Content: content,
			Repo:    repoctx.Build(path),
		}
		findings := engine.Run(target, cats)

		fmt.Fprintf(out, "%s (%s)\n", path, catsLabel(cats))
		if len(findings) == 0 {
			fmt.Fprintln(out, "  no findings")
			continue
		}
		for _, f := range findings {
			fmt.Fprintf(out, "  %s\n", hook.FindingLine(f))
		}
		total += len(findings)
	}

	if total > 0 {
		fmt.Fprintf(out, "\n%d finding(s)\n", total)
	}
	return nil
}

func catsLabel(cats []classify.Category) string {
	s := ""
	for i, c := range cats {
		if i > 0 {
			s += ", "
		}
		s += string(c)
	}
	return s
}
