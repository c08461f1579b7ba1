package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/ttct/internal/wizard"
)

var submitCmd = &cobra.Command{
	Use:   "submit <request-id>",
	Short: "Submit a request to TC",
	Long: `Submit the request to the International Trade office (TC).

Submission is refused while any required section is incomplete. A
submitted request keeps a snapshot of all section data; "ttct diff"
compares it with later edits.`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
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

	log := env.logger(req.ID, "cli")
	defer log.Close()

	r, err := NewRunner(ctx, req.ID, env.runConfig(cmd, log))
	if err != nil {
		return err
	}

	err = r.Submit(ctx)
	if errors.Is(err, wizard.ErrSubmitBlocked) {
		env.w.Printf("Sezioni obbligatorie mancanti: %s", strings.Join(r.Tracker().MissingRequired(), ", "))
	}
	r.Close(err == nil)
	return err
}
