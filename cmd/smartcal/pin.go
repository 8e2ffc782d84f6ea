package main

import (
	"context"

	"github.com/spf13/cobra"
)

var pinCmd = &cobra.Command{
	Use:   "pin <note-id>",
	Short: "Toggle a note in the featured list",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		if _, err := a.Store.ToggleFeatured(ctx, args[0]); err != nil {
			fatal("Failed to toggle featured", err)
		}
	},
}

var featuredCmd = &cobra.Command{
	Use:   "featured",
	Short: "List featured notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		notes := a.Store.FeaturedNotes()
		if listJSON {
			printJSON(notes)
			return
		}
		for _, n := range notes {
			printNoteLine(n)
		}
	},
}

func init() {
	rootCmd.AddCommand(pinCmd, featuredCmd)
	featuredCmd.Flags().BoolVar(&listJSON, "json", false, "Output JSON")
}
