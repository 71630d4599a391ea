package main

import (
	"github.com/spf13/cobra"

	"github.com/aimchat/aimchat/cli"
	"github.com/aimchat/aimchat/cli/session"
	"github.com/aimchat/aimchat/configuration"
	"github.com/aimchat/aimchat/store"
)

const configFilepath = "~/.config/aimchat/config.json"

var rootCmd = &cobra.Command{
	Use:     "aimchat",
	Short:   "A terminal chat client for Gemini",
	Version: "1.0",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	// Create store
	store, err := store.New(config.Database)
	if err != nil {
		panic(err)
	}
	// Ensure store is closed when the program exits normally
	defer store.Close()

	rootCmd.AddCommand(session.NewCmd(config, store))
	rootCmd.AddCommand(cli.NewListCmd(store))
	rootCmd.AddCommand(cli.NewDeleteCmd(store))
	rootCmd.Execute()
}
