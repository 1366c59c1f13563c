package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Quillpad CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quillpad",
		Short: "Quillpad - a server-rendered blogging platform",
		Long: `Quillpad is a server-rendered blogging platform with accounts,
sessions, password reset by email, and profile image uploads.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}
