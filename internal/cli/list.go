package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/ttct/internal/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List requests",
	Long:  `List all requests, most recently updated first, with their progress.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	reqs, err := env.st.ListRequests(ctx)
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}
	if len(reqs) == 0 {
		env.w.Printf("Nessuna richiesta. Creane una con: ttct new")
		return nil
	}

	rows := make([][]string, 0, len(reqs))
	for i := range reqs {
		r := &reqs[i]
		tr, err := progressFor(ctx, env.st, r.ID)
		if err != nil {
			return fmt.Errorf("failed to load progress of %s: %w", r.ShortID(), err)
		}
		rows = append(rows, []string{
			r.ShortID(),
			string(r.Status),
			strconv.Itoa(tr.CompletedSections()) + "/" + strconv.Itoa(domain.TotalSections),
			formatAge(r.UpdatedAt),
			requestLabel(r),
		})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "STATO", "SEZIONI", "AGGIORNATA", "TITOLO").
		Rows(rows...)
	env.w.Printf("%s", t.String())
	return nil
}
