package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/fitch/internal"
	"github.com/gnoswap-labs/fitch/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the inference rules and the checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRules(cmd.OutOrStdout())
	},
}

func listRules(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tLINES\tSUBPROOFS")
	for _, k := range rules.All() {
		premises, subproofs := k.Arity()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", k.ID(), k.Name(), k.Category(), arity(premises), arity(subproofs))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CHECK\tDEFAULT SEVERITY")
	engine, err := internal.NewEngine(nil)
	if err != nil {
		return err
	}
	for _, name := range internal.CheckNames() {
		fmt.Fprintf(tw, "%s\t%s\n", name, engine.CheckSeverity(name))
	}
	return tw.Flush()
}

func arity(n int) string {
	if n < 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
