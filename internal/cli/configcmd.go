package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ttct configuration",
	Long:  `View and manage ttct configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration with source annotations",
	Long: `Show the fully resolved configuration with annotations indicating
where each value came from.

Configuration is loaded from multiple sources with the following precedence:
  1. Embedded defaults (built into binary)
  2. Global config (~/.config/ttct/config.yaml)
  3. Environment (TTCT_DB_PATH, TTCT_LATENCY_MS, TTCT_AUTOSAVE_DELAY_MS,
     TTCT_TOAST_SECONDS, TTCT_LOGS_DIR)
  4. Local config (.ttct/config.yaml)
  5. CLI flags (highest precedence)`,
	RunE: runConfigShow,
}

var configShowYAML bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowYAML, "yaml", false, "Print the resolved config as YAML")
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if configShowYAML {
		data, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	fmt.Fprintln(out, "# ttct Configuration")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "## Sources (in order of precedence)")
	for _, src := range cfg.Sources() {
		fmt.Fprintf(out, "  - %s\n", src)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Directories")
	fmt.Fprintf(out, "  Global config: %s\n", cfg.ConfigDir())
	if cfg.LocalDir() != "" {
		fmt.Fprintf(out, "  Local config:  %s\n", cfg.LocalDir())
	} else {
		fmt.Fprintf(out, "  Local config:  (none detected)\n")
	}
	fmt.Fprintf(out, "  Logs:          %s\n", cfg.LogsPath())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Store")
	fmt.Fprintf(out, "  db_path:    %s\n", cfg.DatabasePath())
	fmt.Fprintf(out, "  latency_ms: %d\n", cfg.LatencyMs)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Wizard")
	fmt.Fprintf(out, "  autosave_delay_ms: %d\n", cfg.AutosaveDelayMs)
	fmt.Fprintf(out, "  toast_seconds:     %d\n", cfg.ToastSeconds)
	fmt.Fprintf(out, "  ui.style:          %s\n", cfg.UI.Style)
	fmt.Fprintf(out, "  ui.alt_screen:     %t\n", cfg.UI.AltScreen)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Templates")
	summary := "(embedded)"
	if cfg.Templates != nil && cfg.Templates.Summary != "" {
		first, _, _ := strings.Cut(cfg.Templates.Summary, "\n")
		summary = fmt.Sprintf("%d bytes, starts with %q", len(cfg.Templates.Summary), first)
	}
	fmt.Fprintf(out, "  summary: %s\n", summary)

	return nil
}
