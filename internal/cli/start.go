package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexander-akhmetov/ttct/internal/debug"
	"github.com/alexander-akhmetov/ttct/internal/domain"
	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/store"
	"github.com/alexander-akhmetov/ttct/internal/timing"
	"github.com/alexander-akhmetov/ttct/internal/tui"
)

var startTitle string

var startCmd = &cobra.Command{
	Use:   "start [request-id]",
	Short: "Open the interactive wizard",
	Long: `Open the interactive wizard on a request.

Without an id the most recently updated draft is opened, or a new request
is created when there is none. Ids may be abbreviated to any unique prefix.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&startTitle, "title", "", "Title for a request created by start")
}

func runStart(cmd *cobra.Command, args []string) error {
	timing.Log("cli: start")
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("start needs an interactive terminal; use set/submit from scripts")
	}

	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()

	var ref string
	if len(args) == 1 {
		ref = args[0]
	}
	req, err := pickRequest(ctx, env.st, ref, startTitle)
	if err != nil {
		return err
	}
	timing.Log("cli: request resolved")

	if err := ensureNotOpen(env.cfg.LogsPath(), req.ID); err != nil {
		return err
	}

	log := env.logger(req.ID, "tui")
	defer log.Close()

	err = tui.Run(ctx, tui.Options{
		Store:     env.st,
		RequestID: req.ID,
		Log:       log,
		AltScreen: env.cfg.UI.AltScreen,
		Settings: tui.Settings{
			AutosaveDelay:   env.cfg.AutosaveDelay(),
			ToastDuration:   env.cfg.ToastDuration(),
			Style:           env.cfg.UI.Style,
			SummaryTemplate: env.cfg.Templates.Summary,
		},
	})
	if err != nil && !isCanceled(err) {
		return err
	}
	return nil
}

// ErrRequestOpen is returned when another session is editing the request.
var ErrRequestOpen = errors.New("request is already open in another session")

// ensureNotOpen checks the session logs for a running session on requestID.
// A logs directory that cannot be read does not block the wizard.
func ensureNotOpen(logsDir, requestID string) error {
	lf, err := progress.FindOpenLog(logsDir, requestID)
	if err != nil {
		debug.Logf("cli: scan session logs: %v", err)
		return nil
	}
	if lf != nil {
		return fmt.Errorf("%w: %s (log %s)", ErrRequestOpen, requestID, lf.Path)
	}
	return nil
}

// pickRequest resolves ref, or falls back to the latest draft, or creates a
// new request.
func pickRequest(ctx context.Context, st store.Store, ref, title string) (*domain.Request, error) {
	if ref != "" {
		return resolveRequest(ctx, st, ref)
	}
	reqs, err := st.ListRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	for i := range reqs {
		if !reqs[i].IsSubmitted() {
			return &reqs[i], nil
		}
	}
	req, err := st.CreateRequest(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return req, nil
}
