package cli

import (
	"errors"
	"fmt"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/ttct/internal/store"
)

var diffCmd = &cobra.Command{
	Use:   "diff <request-id>",
	Short: "Show changes since submission",
	Long: `Show a unified diff between the data submitted to TC and the current
section data of a request.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	req, err := resolveRequest(ctx, env.st, args[0])
	if err != nil {
		return err
	}
	if req.SubmittedSnapshot == "" {
		return errors.New("request was never submitted")
	}

	current, err := store.BuildSnapshot(ctx, env.st, req.ID)
	if err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}

	before, err := normalizeSnapshot([]byte(req.SubmittedSnapshot))
	if err != nil {
		return err
	}
	after, err := normalizeSnapshot(current)
	if err != nil {
		return err
	}

	diff := udiff.Unified("inviata", "attuale", before, after)
	if diff == "" {
		env.w.Printf("Nessuna modifica dall'invio")
		return nil
	}
	env.w.Diff(diff)
	return nil
}

// normalizeSnapshot drops the request status, which always changes on submit, and
// normalizes formatting.
func normalizeSnapshot(snapshot []byte) (string, error) {
	out, err := sjson.DeleteBytes(snapshot, "status")
	if err != nil {
		return "", fmt.Errorf("failed to normalize snapshot: %w", err)
	}
	return string(store.Pretty(out)), nil
}
