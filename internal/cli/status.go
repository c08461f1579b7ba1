package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/ttct/internal/wizard"
)

var statusSummary bool

var statusCmd = &cobra.Command{
	Use:   "status <request-id>",
	Short: "Show request progress",
	Long: `Show the progress of a request: which sections are completed, which
required sections are still missing and whether it can be submitted.

With --summary the request is rendered through the summary template
(.ttct/templates/summary.md overrides the built-in one).`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusSummary, "summary", "s", false, "Render the markdown summary with all section data")
}

func runStatus(cmd *cobra.Command, args []string) error {
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
	tr, err := progressFor(ctx, env.st, req.ID)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	if statusSummary {
		md, err := wizard.Summary(ctx, env.st, req.ID, tr.Snapshot(), env.cfg.Templates.Summary)
		if err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
		env.w.Markdown(md)
		return nil
	}

	env.w.Header(req)
	env.w.Printf("Aggiornata %s", formatAge(req.UpdatedAt))
	if req.SubmittedAt != nil {
		env.w.Printf("Inviata %s", formatAge(*req.SubmittedAt))
	}
	env.w.Printf("")
	env.w.Progress(tr.Snapshot())

	if missing := tr.MissingRequired(); len(missing) > 0 {
		env.w.Printf("Sezioni obbligatorie mancanti: %s", strings.Join(missing, ", "))
	} else {
		env.w.Printf("Pronta per l'invio")
	}
	return nil
}
