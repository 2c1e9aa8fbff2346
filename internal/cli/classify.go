package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"eaccal/internal/category"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify TEXT...",
		Short: "Print the event type a category or title maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, text := range args {
				t := category.Classify(text)
				fmt.Fprintf(out, "%s\t%s\t%s\n", text, t, t.Label())
			}
			return nil
		},
	}
}
