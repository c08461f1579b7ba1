package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/ttct/internal/section"
)

// collector asks for missing values; replaced in tests.
var collector Collector = NewTerminalCollector()

var setCmd = &cobra.Command{
	Use:   "set <request-id> <section> <field> [value]",
	Short: "Set a section field",
	Long: `Set one field of a section and save the section.

The section may be given by number or title. Choice fields accept the
option value or its text. Without a value the field is asked for
interactively. An empty value ("") clears the field.

The section is saved as a draft even when incomplete; it counts as
completed once all its required fields are valid.`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
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
	cfg, err := resolveSection(args[1])
	if err != nil {
		return err
	}
	key := args[2]
	f, ok := cfg.Field(key)
	if !ok {
		return unknownFieldError(cfg, key)
	}

	var value string
	if len(args) == 4 {
		value = args[3]
	} else {
		if f.Kind == section.KindChoice {
			value, err = collector.Choose(ctx, f)
		} else {
			value, err = collector.Ask(ctx, f)
		}
		if err != nil {
			return err
		}
	}

	log := env.logger(req.ID, "cli")
	defer log.Close()

	r, err := NewRunner(ctx, req.ID, env.runConfig(cmd, log))
	if err != nil {
		return err
	}
	defer r.Close(req.IsSubmitted())

	c, err := r.Section(ctx, cfg.ID)
	if err != nil {
		return err
	}
	if err := r.SetField(ctx, c, key, value); err != nil {
		return err
	}

	if c.Validate() {
		env.w.Printf("Sezione %s completata", cfg.ID)
	} else {
		env.w.Printf("Sezione %s incompleta: %s", cfg.ID, cfg.Message())
	}
	env.w.Printf("%s", r.Tracker().ProgressText())
	return nil
}

// resolveSection finds a section by number or title.
func resolveSection(arg string) (section.Config, error) {
	if cfg, ok := section.Lookup(arg); ok {
		return cfg, nil
	}
	all := section.Catalog()
	titles := make([]string, len(all))
	for i, cfg := range all {
		if strings.EqualFold(cfg.Title, arg) {
			return cfg, nil
		}
		titles[i] = cfg.Title
	}
	if s := suggest(arg, titles); s != "" {
		return section.Config{}, fmt.Errorf("unknown section %q, did you mean %q?", arg, s)
	}
	return section.Config{}, fmt.Errorf("unknown section %q (use 1-14 or a section title)", arg)
}
