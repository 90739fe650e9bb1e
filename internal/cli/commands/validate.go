package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/errlink/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an errlink configuration file without running anything.

Checks:
  - YAML syntax
  - color and hyperlinks modes
  - link template tags
  - errorformat definitions
  - webhook URLs and triggers
  - base directory existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Base directory: %s\n", cfg.BaseDir)
	fmt.Fprintf(w, "  Color:          %s\n", cfg.Color)
	fmt.Fprintf(w, "  Hyperlinks:     %s\n", cfg.Hyperlinks)
	fmt.Fprintf(w, "  Link template:  %s\n", cfg.CompiledLinkTemplate())
	fmt.Fprintf(w, "  Errorformat:    %d definition(s)\n", len(cfg.Errorformat))
	fmt.Fprintf(w, "  Webhooks:       %d\n", len(cfg.Webhooks))

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			fmt.Fprintf(w, "  %d. %s [%s]\n", i+1, wh.DisplayName(), wh.Trigger)
		}
	}

	if err := checkBaseDir(cfg.BaseDir); err != nil {
		fmt.Fprintf(w, "\nWarning: %v\n", err)
	}

	return nil
}

func checkBaseDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("base directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("base directory %s is not a directory", dir)
	}
	return nil
}
