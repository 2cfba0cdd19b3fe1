package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sysx/internal/cleanup"
	"github.com/blackwell-systems/sysx/internal/output"
)

var explainCmd = &cobra.Command{
	Use:   "explain [path]",
	Short: "Show why a path would or would not be cleaned",
	Long: `Evaluate a single path against the cleanup rule set and print the
verdict: which rules match it, whether their age and size thresholds
are met, and what risk classification would grade it.

The path does not have to exist; the rules that would cover it are
listed either way. Nothing is removed.`,
	Example: `  # Why is this rotated log removable?
  sysx explain /var/log/syslog.2.gz

  # Why was this cache directory left alone?
  sysx explain ~/.cache/pip`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	RootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	set := cleanRuleSet()
	e, err := cleanup.Explain(set, cleanup.CollectOpenFiles(ctx), args[0])
	if err != nil {
		return err
	}

	fmt.Print(output.RenderExplanation(e))
	return nil
}
