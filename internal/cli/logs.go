package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/ttct/internal/progress"
)

var logsShow bool

var logsCmd = &cobra.Command{
	Use:   "logs [request-id]",
	Short: "List session logs",
	Long: `List the session log files, newest first, optionally only those of one
request (id prefixes work). --show prints the newest matching log.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVar(&logsShow, "show", false, "Print the newest matching log")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	isTTY, width := outputIsTTY(out)
	w := NewWriter(out, isTTY, width)

	var prefix string
	if len(args) == 1 {
		prefix = args[0]
	}
	logs, err := progress.FindLogs(cfg.LogsPath(), prefix)
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}
	if len(logs) == 0 {
		w.Printf("Nessun log in %s", cfg.LogsPath())
		return nil
	}

	if logsShow {
		data, err := os.ReadFile(logs[0].Path)
		if err != nil {
			return fmt.Errorf("failed to read log: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	for _, lf := range logs {
		marker := " "
		if lf.Open {
			marker = w.style(toneDone, "*")
		}
		mode := lf.Mode
		if mode == "" {
			mode = "-"
		}
		w.Printf("%s %s  %-3s  %s  %s", marker, lf.Started.Format("2006-01-02 15:04:05"), mode, lf.RequestID, lf.Path)
	}
	return nil
}
