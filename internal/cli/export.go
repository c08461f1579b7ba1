package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/alexander-akhmetov/ttct/internal/store"
)

var (
	exportSubmitted bool
	exportSection   string
	exportOutput    string
)

var exportCmd = &cobra.Command{
	Use:   "export <request-id>",
	Short: "Export request data as JSON",
	Long: `Print all saved section data of a request as one JSON document.

--submitted prints the snapshot stored when the request was submitted
instead of the current data. --section limits the output to one section.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportSubmitted, "submitted", false, "Export the snapshot taken at submission")
	exportCmd.Flags().StringVar(&exportSection, "section", "", "Export only this section")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	var doc []byte
	if exportSubmitted {
		if req.SubmittedSnapshot == "" {
			return errors.New("request was never submitted")
		}
		doc = store.Pretty([]byte(req.SubmittedSnapshot))
	} else {
		doc, err = store.BuildSnapshot(ctx, env.st, req.ID)
		if err != nil {
			return fmt.Errorf("failed to build snapshot: %w", err)
		}
	}

	if exportSection != "" {
		cfg, err := resolveSection(exportSection)
		if err != nil {
			return err
		}
		res := gjson.GetBytes(doc, "sections."+cfg.ID)
		if !res.Exists() {
			return fmt.Errorf("section %s has no saved data", cfg.ID)
		}
		doc = store.Pretty([]byte(res.Raw))
	}

	if exportOutput != "" {
		if err := os.WriteFile(exportOutput, doc, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(doc)
	return err
}
