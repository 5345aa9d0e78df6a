package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/iskaalaman/studyhub/cmd/iskaalaman/commands"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "iskaalaman",
		Short: "ISKAALAMAN study organizer",
		Long:  `ISKAALAMAN keeps a weekly class schedule, a deadline-driven task list, flashcard decks and per-subject notebooks in plain data files.`,
		Run: func(cmd *cobra.Command, args []string) {
			commands.RunShell(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an optional YAML config file")

	// Add commands
	rootCmd.AddCommand(commands.NewRunCommand(&configPath))
	rootCmd.AddCommand(commands.NewTodayCommand(&configPath))
	rootCmd.AddCommand(commands.NewExportCommand(&configPath))
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
