package main

import (
	"github.com/spf13/cobra"

	"github.com/lone-faerie/mqttmiio/internal/build"
)

type CleanupFunc func() error

var cleanup []CleanupFunc

// AddCleanup registers f to run after any command finishes.
func AddCleanup(f func()) {
	cleanup = append(cleanup, func() error {
		f()
		return nil
	})
}

var RootCommand = &cobra.Command{
	Use:     "mqttmiio [-c config]",
	Short:   "Bridge Xiaomi appliance controls over MQTT",
	Version: build.Version(),
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		for _, f := range cleanup {
			f()
		}
	},
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
}

func init() {
	RootCommand.AddGroup(
		&cobra.Group{ID: "commands", Title: "Commands:"},
	)
}
