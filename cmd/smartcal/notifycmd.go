package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/smartcal/internal/model"
)

var (
	notifyNoPlatform bool
	notifyNoSound    bool
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification utilities",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test [message]",
	Short: "Fire a test alert through every configured channel",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		perm := a.Dispatcher.RequestPermission(ctx)
		fmt.Printf("Platform notifications: %s\n", perm)

		body := "This is a test notification."
		if len(args) == 1 {
			body = args[0]
		}
		a.Dispatcher.Dispatch(ctx, model.Alert{
			Title:               "Reminder",
			Body:                body,
			NotificationEnabled: !notifyNoPlatform,
			SoundEnabled:        !notifyNoSound,
			FiredAt:             a.Now(),
		})
		a.Dispatcher.WaitSounds()
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)

	notifyTestCmd.Flags().BoolVar(&notifyNoPlatform, "no-notify", false, "Skip the platform notification")
	notifyTestCmd.Flags().BoolVar(&notifyNoSound, "no-sound", false, "Skip the sound")
}
