package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MarcHowardGCE/GameofLifeChallenge/model"
)

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the built-in patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := model.Patterns()
			jsonOut, _ := cmd.Flags().GetBool("json")

			if jsonOut {
				type patternInfo struct {
					Name   string  `json:"name"`
					Width  int     `json:"width"`
					Height int     `json:"height"`
					Rows   [][]int `json:"rows"`
				}
				out := struct {
					Patterns []patternInfo `json:"patterns"`
					Count    int           `json:"count"`
				}{Count: len(patterns)}
				for _, p := range patterns {
					out.Patterns = append(out.Patterns, patternInfo{
						Name:   p.Name,
						Width:  p.Width(),
						Height: p.Height(),
						Rows:   p.Rows,
					})
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
			}

			renderer := &model.TerminalRenderer{Out: cmd.OutOrStdout()}
			fmt.Fprintf(cmd.OutOrStdout(), "Built-in patterns (%d):\n\n", len(patterns))
			for _, p := range patterns {
				grid, err := model.FromRows(p.Rows)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%dx%d)\n", p.Name, p.Width(), p.Height())
				renderer.Display(grid)
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
