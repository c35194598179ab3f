package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notepad/pkg/protocol"
)

var searchTitle string

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the entries of a game",
	Long:  `Case-insensitive substring search over the entries of a game, or of one notepad with --title.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		params := map[string]any{"query": strings.Join(args, " ")}
		if searchTitle != "" {
			params["title"] = searchTitle
		}
		run(protocol.FuncSearch, params)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchTitle, "title", "t", "", "Restrict the search to one notepad")
}
