package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/smartcal/internal/ics"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the calendar",
}

func exportWriter() (io.Writer, func()) {
	if exportOutput == "" || exportOutput == "-" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(exportOutput)
	if err != nil {
		fatal("Failed to create output file", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			fatal("Failed to write output file", err)
		}
	}
}

var exportICSCmd = &cobra.Command{
	Use:   "ics",
	Short: "Export notes and reminders as iCalendar",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		snap := a.Store.Snapshot()
		body, err := ics.Export(snap.Notes, snap.Reminders, a.Location(), a.Now())
		if err != nil {
			fatal("Failed to export", err)
		}

		w, done := exportWriter()
		defer done()
		if _, err := io.WriteString(w, body); err != nil {
			fatal("Failed to write", err)
		}
	},
}

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Export the full state as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		w, done := exportWriter()
		defer done()
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(a.Store.Snapshot()); err != nil {
			fatal("Failed to encode JSON", err)
		}
	},
}

var exportYAMLCmd = &cobra.Command{
	Use:   "yaml",
	Short: "Export the full state as YAML",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		w, done := exportWriter()
		defer done()
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(a.Store.Snapshot()); err != nil {
			fatal("Failed to encode YAML", err)
		}
		if err := enc.Close(); err != nil {
			fatal("Failed to encode YAML", err)
		}
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import into the calendar",
}

var importICSCmd = &cobra.Command{
	Use:   "ics <file|->",
	Short: "Import iCalendar events as notes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				fatal("Failed to open calendar", err)
			}
			defer f.Close()
			r = f
		}

		notes, err := ics.Import(r, a.Location())
		if err != nil {
			fatal("Failed to import", err)
		}

		imported, skipped := 0, 0
		for _, n := range notes {
			if _, err := a.Store.Note(n.ID); err == nil {
				skipped++
				continue
			}
			if _, err := a.Store.AddNote(ctx, n); err != nil {
				fmt.Fprintf(os.Stderr, "skipping %q: %v\n", n.Title, err)
				skipped++
				continue
			}
			imported++
		}
		fmt.Printf("Imported %d notes, skipped %d.\n", imported, skipped)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.AddCommand(exportICSCmd, exportJSONCmd, exportYAMLCmd)
	importCmd.AddCommand(importICSCmd)

	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
}
