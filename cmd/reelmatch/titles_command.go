package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newTitlesCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "titles [query]",
		Short: "List catalog titles, optionally filtered by a search query",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(cmd.Context(), sessionOptions{})
			if err != nil {
				return err
			}
			list := sess.svc.Titles(strings.Join(args, " "), limit)
			if jsonOutput {
				return writeJSON(cmd, list)
			}

			out := cmd.OutOrStdout()
			if list.Total == 0 {
				fmt.Fprintln(out, "No matching titles")
				return nil
			}
			rows := make([][]string, len(list.Titles))
			for i, title := range list.Titles {
				rows[i] = []string{strconv.Itoa(i + 1), title}
			}
			fmt.Fprintln(out, renderTable([]column{{header: "#", right: true}, {header: "Title"}}, rows, isTerminal(cmd)))
			fmt.Fprintf(out, "%d of %d titles\n", list.Total, sess.set.Catalog.Len())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum titles to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
