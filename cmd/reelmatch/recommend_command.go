package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelmatch/internal/api"
	"reelmatch/internal/services"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var k int
	var jsonOutput bool
	var noMetadata bool
	var refresh bool

	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Show titles most similar to the given title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			sess, err := ctx.openSession(cmd.Context(), sessionOptions{refresh: refresh, metadata: !noMetadata})
			if err != nil {
				return err
			}

			reqCtx := services.WithRequestID(cmd.Context(), services.NewRequestID())
			resp, err := sess.svc.Recommend(reqCtx, title, k)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, resp)
			}
			printRecommendations(cmd, resp)
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "k", "k", 0, "Number of recommendations (defaults to recommend.default_k)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noMetadata, "no-metadata", false, "Skip OMDb lookups and show titles and scores only")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-download remote artifacts even when cached")
	return cmd
}

func printRecommendations(cmd *cobra.Command, resp api.RecommendationResponse) {
	out := cmd.OutOrStdout()
	color := isTerminal(cmd)
	if len(resp.Results) == 0 {
		fmt.Fprintln(out, warningLine(fmt.Sprintf("No recommendations available for %q", resp.Title), color))
		return
	}

	columns := []column{
		{header: "#", right: true},
		{header: "Title", maxWidth: 40},
		{header: "Score", right: true},
	}
	if resp.Enriched {
		columns = append(columns,
			column{header: "Rating", right: true},
			column{header: "Plot", maxWidth: 60},
			column{header: "Poster", maxWidth: 50},
		)
	}

	rows := make([][]string, 0, len(resp.Results))
	for _, card := range resp.Results {
		row := []string{strconv.Itoa(card.Rank), card.Title, formatScore(card.Score)}
		if resp.Enriched && card.Metadata != nil {
			row = append(row, card.Metadata.Rating, card.Metadata.Plot, card.Metadata.PosterURL)
		}
		rows = append(rows, row)
	}
	fmt.Fprintf(out, "Because you picked %q:\n", resp.Title)
	fmt.Fprintln(out, renderTable(columns, rows, color))
}

func formatScore(score *float64) string {
	if score == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*score, 'f', 3, 64)
}
