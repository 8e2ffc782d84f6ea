package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/smartcal/internal/model"
)

var (
	remTitle    string
	remDate     string
	remTime     string
	remPriority string
	remNoNotify bool
	remNoSound  bool
)

var reminderCmd = &cobra.Command{
	Use:     "reminder",
	Aliases: []string{"rem"},
	Short:   "Manage standalone reminders",
}

var reminderAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Set a reminder for a date and time",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		date, err := resolveDate(a, remDate)
		if err != nil {
			fatal("Invalid date", err)
		}
		r := model.Reminder{
			Title:               remTitle,
			Date:                date,
			Time:                remTime,
			Priority:            model.Priority(remPriority),
			NotificationEnabled: !remNoNotify,
			SoundEnabled:        !remNoSound,
		}
		if err := validate.Struct(r); err != nil {
			fatal("Missing information", err)
		}

		snap, err := a.Store.AddReminder(ctx, r)
		if err != nil {
			fatal("Failed to set reminder", err)
		}
		fmt.Println(snap.Reminders[len(snap.Reminders)-1].ID)
	},
}

var reminderEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a reminder",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		r, err := a.Store.Reminder(args[0])
		if err != nil {
			fatal("Failed to load reminder", err)
		}

		flags := cmd.Flags()
		if flags.Changed("title") {
			r.Title = remTitle
		}
		if flags.Changed("date") {
			if r.Date, err = resolveDate(a, remDate); err != nil {
				fatal("Invalid date", err)
			}
		}
		if flags.Changed("time") {
			r.Time = remTime
		}
		if flags.Changed("priority") {
			r.Priority = model.Priority(remPriority)
		}
		if flags.Changed("no-notify") {
			r.NotificationEnabled = !remNoNotify
		}
		if flags.Changed("no-sound") {
			r.SoundEnabled = !remNoSound
		}
		if err := validate.Struct(r); err != nil {
			fatal("Missing information", err)
		}

		if _, err := a.Store.UpdateReminder(ctx, r); err != nil {
			fatal("Failed to update reminder", err)
		}
	},
}

var reminderRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a reminder",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		if _, err := a.Store.DeleteReminder(ctx, args[0]); err != nil {
			fatal("Failed to delete reminder", err)
		}
	},
}

var reminderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		var reminders []model.Reminder
		if remDate != "" {
			date, err := resolveDate(a, remDate)
			if err != nil {
				fatal("Invalid date", err)
			}
			reminders = a.Store.RemindersOn(date)
		} else {
			reminders = a.Store.Snapshot().Reminders
		}

		if listJSON {
			printJSON(reminders)
			return
		}
		for _, r := range reminders {
			state := "pending"
			if r.Notified {
				state = "fired"
			}
			owner := ""
			if r.Derived() {
				owner = " note:" + r.NoteID
			}
			fmt.Printf("%s  %s %s  %s (%s, %s)%s\n", r.ID, r.Date, r.Time, r.Title, r.Priority, state, owner)
		}
	},
}

func addReminderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&remTitle, "title", "t", "", "Title")
	cmd.Flags().StringVarP(&remDate, "date", "d", "", "Date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().StringVar(&remTime, "time", "", "Time (HH:MM)")
	cmd.Flags().StringVarP(&remPriority, "priority", "p", string(model.PriorityMedium), "Priority (low, medium, high)")
	cmd.Flags().BoolVar(&remNoNotify, "no-notify", false, "Toast only, no desktop notification")
	cmd.Flags().BoolVar(&remNoSound, "no-sound", false, "Do not play a sound")
}

func init() {
	rootCmd.AddCommand(reminderCmd)
	reminderCmd.AddCommand(reminderAddCmd, reminderEditCmd, reminderRmCmd, reminderListCmd)

	addReminderFlags(reminderAddCmd)
	addReminderFlags(reminderEditCmd)

	reminderListCmd.Flags().StringVarP(&remDate, "date", "d", "", "Only reminders on this date")
	reminderListCmd.Flags().BoolVar(&listJSON, "json", false, "Output JSON")
}
