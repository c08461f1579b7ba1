package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var newQuiet bool

var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new draft request",
	Long: `Create a new draft request and print its id.

The title is a free label shown by "ttct list". Section 1 starts as
completed; every other section starts empty.`,
	RunE: runNew,
}

func init() {
	newCmd.Flags().BoolVarP(&newQuiet, "quiet", "q", false, "Print only the request id")
}

func runNew(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	req, err := env.st.CreateRequest(cmd.Context(), strings.TrimSpace(strings.Join(args, " ")))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if newQuiet {
		env.w.Printf("%s", req.ID)
		return nil
	}
	env.w.Header(req)
	env.w.Printf("Apri il wizard con: ttct start %s", req.ShortID())
	return nil
}
