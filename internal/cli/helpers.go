package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexander-akhmetov/ttct/internal/config"
	"github.com/alexander-akhmetov/ttct/internal/debug"
	"github.com/alexander-akhmetov/ttct/internal/domain"
	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/store"
)

// ErrAmbiguousRequest is returned when an id prefix matches several requests.
var ErrAmbiguousRequest = errors.New("ambiguous request id")

// maxSuggestDistance bounds "did you mean" suggestions.
const maxSuggestDistance = 3

// loadConfig loads the layered config and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyCLIFlags(flagDBPath, flagLatencyMs)
	return cfg, nil
}

// openStore opens the configured database, wrapped with the configured
// latency.
func openStore(cfg *config.Config) (store.Store, error) {
	db, err := store.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store.WithLatency(db, cfg.Latency()), nil
}

// resolveRequest finds a request by full id or by a unique id prefix.
func resolveRequest(ctx context.Context, st store.Store, ref string) (*domain.Request, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("request id is required")
	}
	if _, err := uuid.Parse(ref); err == nil {
		return st.GetRequest(ctx, ref)
	}

	reqs, err := st.ListRequests(ctx)
	if err != nil {
		return nil, err
	}
	var matches []domain.Request
	for _, r := range reqs {
		if strings.HasPrefix(r.ID, strings.ToLower(ref)) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%q: %w", ref, store.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d requests", ErrAmbiguousRequest, ref, len(matches))
	}
}

// progressFor rebuilds the tracker of a request from the store.
func progressFor(ctx context.Context, st store.Store, requestID string) (*progress.Tracker, error) {
	ids, err := store.CompletedSections(ctx, st, requestID)
	if err != nil {
		return nil, err
	}
	t := progress.Initialize()
	t.Restore(ids)
	return t, nil
}

// suggest returns the candidate closest to input, or "" when none is close.
func suggest(input string, candidates []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(input), strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// formatAge renders a timestamp relative to now ("3 minutes ago").
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func requestLabel(r *domain.Request) string {
	if r.Title != "" {
		return r.Title
	}
	return "Richiesta " + r.ShortID()
}

// cmdEnv bundles the config, store and output writer of a command.
type cmdEnv struct {
	cfg *config.Config
	st  store.Store
	w   *Writer
	tty bool
}

func openEnv(cmd *cobra.Command) (*cmdEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	isTTY, width := outputIsTTY(out)
	return &cmdEnv{cfg: cfg, st: st, w: NewWriter(out, isTTY, width), tty: isTTY}, nil
}

func (e *cmdEnv) Close() {
	if err := e.st.Close(); err != nil {
		debug.Logf("cli: close store: %v", err)
	}
}

// runConfig returns the config for a Runner writing to the command output.
func (e *cmdEnv) runConfig(cmd *cobra.Command, log *progress.Logger) RunConfig {
	return RunConfig{
		Store:     e.st,
		Log:       log,
		Out:       cmd.OutOrStdout(),
		IsTTY:     e.tty,
		TermWidth: e.w.width,
	}
}

// logger opens the session log of a request. Failing to open it is not
// fatal; the command runs without a log.
func (e *cmdEnv) logger(requestID, mode string) *progress.Logger {
	log, err := progress.NewLogger(progress.Config{
		LogsDir:   e.cfg.LogsPath(),
		RequestID: requestID,
		Mode:      mode,
	})
	if err != nil {
		debug.Logf("cli: progress logger: %v", err)
		return nil
	}
	return log
}

// outputIsTTY reports whether out is a terminal and its width.
func outputIsTTY(out io.Writer) (bool, int) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return true, 0
	}
	return true, width
}
