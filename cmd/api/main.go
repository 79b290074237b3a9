package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskpulse/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskpulse",
		Short: "TaskPulse API Server",
		Long:  `TaskPulse tracks scheduled tasks and derives daily and aggregate productivity metrics from them.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
