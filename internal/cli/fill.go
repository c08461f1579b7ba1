package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/ttct/internal/fill"
	"github.com/alexander-akhmetov/ttct/internal/section"
)

var (
	fillTemplate bool
	fillOutput   string
)

var fillCmd = &cobra.Command{
	Use:   "fill <request-id> [file]",
	Short: "Fill sections from a markdown file",
	Long: `Enter the values of several sections from a markdown fill file.

Each "## N. Title" heading starts a section; each "- key: value" line
below it sets a field. Blank values are skipped. Every section named in
the file is saved once, as with "set".

--template prints a fill file for the request with its current values,
ready to be edited and applied.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFill,
}

func init() {
	fillCmd.Flags().BoolVar(&fillTemplate, "template", false, "Print a fill file with the current values")
	fillCmd.Flags().StringVarP(&fillOutput, "output", "o", "", "Write the template to file instead of stdout")
}

func runFill(cmd *cobra.Command, args []string) error {
	if !fillTemplate && len(args) < 2 {
		return fmt.Errorf("fill file required (or use --template)")
	}

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

	if fillTemplate {
		values := make(map[string]map[string]string)
		for _, cfg := range section.Catalog() {
			c, err := section.NewForSection(cfg.ID, section.Deps{RequestID: req.ID, Store: env.st})
			if err != nil {
				return err
			}
			if err := c.Load(ctx); err != nil {
				return fmt.Errorf("load section %s: %w", cfg.ID, err)
			}
			values[cfg.ID] = c.Values()
		}
		doc := fill.Render(req.Title, section.Catalog(), values)
		if fillOutput != "" {
			if err := os.WriteFile(fillOutput, []byte(doc), 0o600); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			env.w.Printf("Modello scritto in %s", fillOutput)
			return nil
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	}

	f, err := fill.ParseFile(args[1])
	if err != nil {
		return err
	}
	ids := f.Sections()
	if len(ids) == 0 {
		env.w.Printf("Nessun valore in %s", args[1])
		return nil
	}
	for _, id := range ids {
		if _, ok := section.Lookup(id); !ok {
			return fmt.Errorf("%s: unknown section %q", f.ID(), id)
		}
	}

	log := env.logger(req.ID, "cli")
	defer log.Close()

	r, err := NewRunner(ctx, req.ID, env.runConfig(cmd, log))
	if err != nil {
		return err
	}
	defer r.Close(req.IsSubmitted())

	for _, id := range ids {
		c, err := r.ApplySection(ctx, id, f.Values(id))
		if err != nil {
			return fmt.Errorf("section %s: %w", id, err)
		}
		if c.Validate() {
			env.w.Printf("Sezione %s completata", id)
		} else {
			env.w.Printf("Sezione %s incompleta: %s", id, c.Config().Message())
		}
	}
	env.w.Printf("%s", r.Tracker().ProgressText())
	return nil
}
