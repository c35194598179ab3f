package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notepad/pkg/protocol"
)

var addCmd = &cobra.Command{
	Use:     "add [title] [content...]",
	Aliases: []string{"create"},
	Short:   "Add an entry to a notepad",
	Long:    `Append an entry to a notepad, creating the notepad on first use.`,
	Args:    cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(protocol.FuncCreateNote, map[string]any{
			"title":   args[0],
			"content": strings.Join(args[1:], " "),
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
