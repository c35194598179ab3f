package main

import (
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the notes store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()

		var intro introspection.Introspectable = svc
		state := intro.State()
		if jsonOut {
			printJSON(state)
			return
		}
		fmt.Printf("%s: %+v\n", svc.ComponentType(), state)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
