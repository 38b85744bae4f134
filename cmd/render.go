package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/fitch/internal"
	"github.com/gnoswap-labs/fitch/internal/proof"
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Print a proof file with its goals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := internal.LoadProof(args[0])
		if err != nil {
			return err
		}
		return renderProof(cmd.OutOrStdout(), p)
	},
}

func renderProof(w io.Writer, p *proof.Proof) error {
	if _, err := io.WriteString(w, p.DisplayString()); err != nil {
		return err
	}
	for _, st := range p.VerifyGoals() {
		var err error
		if st.Met {
			_, err = fmt.Fprintf(w, "goal %s: met at line %d\n", st.Goal.Text, st.Line+1)
		} else {
			_, err = fmt.Fprintf(w, "goal %s: not met\n", st.Goal.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
