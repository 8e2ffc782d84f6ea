package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/smartcal/internal/model"
	"github.com/nhle/smartcal/internal/store"
	"github.com/nhle/smartcal/internal/ui/noteform"
)

var (
	noteDate        string
	noteTitle       string
	noteContent     string
	noteEmoji       string
	noteColor       string
	noteCategory    string
	noteRemind      string
	noteNoRemind    bool
	noteFeatured    bool
	noteInteractive bool

	listQuery     string
	listFrom      string
	listTo        string
	listReminders bool
	listFeatured  bool
	listJSON      bool
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage calendar notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a note to a date",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		date, err := resolveDate(a, noteDate)
		if err != nil {
			fatal("Invalid date", err)
		}

		n := model.Note{
			Date:     date,
			Title:    noteTitle,
			Content:  noteContent,
			Emoji:    noteEmoji,
			Color:    noteColor,
			Category: noteCategory,
			Featured: noteFeatured,
		}
		if noteRemind != "" {
			n.ReminderEnabled = true
			n.ReminderTime = noteRemind
		}
		if n.Emoji == "" {
			n.Emoji = model.DefaultEmoji
		}
		if n.Category == "" {
			n.Category = model.DefaultCategory
		}

		if noteInteractive {
			n, err = noteform.Run(n)
			if err != nil {
				fatal("Form aborted", err)
			}
		}
		if err := validate.Struct(n); err != nil {
			fatal("Invalid note", err)
		}

		snap, err := a.Store.AddNote(ctx, n)
		if err != nil {
			fatal("Failed to add note", err)
		}
		fmt.Println(snap.Notes[len(snap.Notes)-1].ID)
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		n, err := a.Store.Note(args[0])
		if err != nil {
			fatal("Failed to load note", err)
		}

		flags := cmd.Flags()
		if flags.Changed("date") {
			if n.Date, err = resolveDate(a, noteDate); err != nil {
				fatal("Invalid date", err)
			}
		}
		if flags.Changed("title") {
			n.Title = noteTitle
		}
		if flags.Changed("content") {
			n.Content = noteContent
		}
		if flags.Changed("emoji") {
			n.Emoji = noteEmoji
		}
		if flags.Changed("color") {
			n.Color = noteColor
		}
		if flags.Changed("category") {
			n.Category = noteCategory
		}
		if flags.Changed("featured") {
			n.Featured = noteFeatured
		}
		if flags.Changed("remind") {
			n.ReminderEnabled = true
			n.ReminderTime = noteRemind
		}
		if noteNoRemind {
			n.ReminderEnabled = false
			n.ReminderTime = ""
		}
		if n.ReminderEnabled && n.ReminderTime == "" {
			n.ReminderTime = model.DefaultReminderTime
		}

		if noteInteractive {
			n, err = noteform.Run(n)
			if err != nil {
				fatal("Form aborted", err)
			}
		}
		if err := validate.Struct(n); err != nil {
			fatal("Invalid note", err)
		}

		if _, err := a.Store.UpdateNote(ctx, n); err != nil {
			fatal("Failed to update note", err)
		}
	},
}

var noteRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a note and its reminder",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		if _, err := a.Store.DeleteNote(ctx, args[0]); err != nil {
			fatal("Failed to delete note", err)
		}
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		f := store.NoteFilter{
			Query:         listQuery,
			Emoji:         noteEmoji,
			Category:      noteCategory,
			From:          listFrom,
			To:            listTo,
			RemindersOnly: listReminders,
			FeaturedOnly:  listFeatured,
		}
		if noteDate != "" {
			date, err := resolveDate(a, noteDate)
			if err != nil {
				fatal("Invalid date", err)
			}
			f.Date = date
		}

		notes := a.Store.Notes(f)
		if listJSON {
			printJSON(notes)
			return
		}
		for _, n := range notes {
			printNoteLine(n)
		}
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		n, err := a.Store.Note(args[0])
		if err != nil {
			fatal("Failed to load note", err)
		}
		if listJSON {
			printJSON(n)
			return
		}
		printNoteLine(n)
		if n.Content != "" {
			fmt.Println()
			fmt.Println(n.Content)
		}
	},
}

func printNoteLine(n model.Note) {
	marks := ""
	if n.Featured {
		marks += " [pinned]"
	}
	if n.ReminderEnabled {
		state := "pending"
		if n.ReminderNotified {
			state = "fired"
		}
		marks += fmt.Sprintf(" [reminder %s %s]", n.ReminderTime, state)
	}
	fmt.Printf("%s  %s  %s %s (%s)%s\n", n.ID, n.Date, n.Emoji, n.Title, n.CategoryOrDefault(), marks)
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fatal("Error encoding JSON", err)
	}
}

func addNoteFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&noteDate, "date", "d", "", "Date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().StringVarP(&noteTitle, "title", "t", "", "Title")
	cmd.Flags().StringVarP(&noteContent, "content", "c", "", "Content")
	cmd.Flags().StringVar(&noteEmoji, "emoji", "", "Emoji tag")
	cmd.Flags().StringVar(&noteColor, "color", "", "Highlight color (red, green, blue, yellow, purple)")
	cmd.Flags().StringVar(&noteCategory, "category", "", "Category")
	cmd.Flags().StringVar(&noteRemind, "remind", "", "Reminder time (HH:MM)")
	cmd.Flags().BoolVar(&noteFeatured, "featured", false, "Pin the note")
	cmd.Flags().BoolVarP(&noteInteractive, "interactive", "i", false, "Edit in a form")
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteAddCmd, noteEditCmd, noteRmCmd, noteListCmd, noteShowCmd)

	addNoteFlags(noteAddCmd)
	addNoteFlags(noteEditCmd)
	noteEditCmd.Flags().BoolVar(&noteNoRemind, "no-remind", false, "Disable the reminder")

	noteListCmd.Flags().StringVarP(&noteDate, "date", "d", "", "Only notes on this date")
	noteListCmd.Flags().StringVar(&listFrom, "from", "", "Earliest date (inclusive)")
	noteListCmd.Flags().StringVar(&listTo, "to", "", "Latest date (inclusive)")
	noteListCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search title and content")
	noteListCmd.Flags().StringVar(&noteEmoji, "emoji", "", "Only notes with this emoji")
	noteListCmd.Flags().StringVar(&noteCategory, "category", "", "Only notes in this category")
	noteListCmd.Flags().BoolVar(&listReminders, "reminders", false, "Only notes with a reminder")
	noteListCmd.Flags().BoolVar(&listFeatured, "featured", false, "Only pinned notes")
	noteListCmd.Flags().BoolVar(&listJSON, "json", false, "Output JSON")

	noteShowCmd.Flags().BoolVar(&listJSON, "json", false, "Output JSON")
}
