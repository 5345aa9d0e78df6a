package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/iskaalaman/studyhub/internal/adapters/console"
	"github.com/iskaalaman/studyhub/internal/adapters/export"
	"github.com/iskaalaman/studyhub/internal/application"
	"github.com/iskaalaman/studyhub/internal/infrastructure/config"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
)

// Version is the release printed by the version command
var Version = "1.0.0"

// NewRunCommand creates the run command
func NewRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive menu",
		Long:  "Load the schedule, tasks, flashcards and notebooks and start the interactive menu",
		Run: func(cmd *cobra.Command, args []string) {
			RunShell(*configPath)
		},
	}
}

// NewTodayCommand creates the today command
func NewTodayCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print today's classes and due tasks",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runToday(*configPath, os.Stdout); err != nil {
				log.Fatalf("Failed to show today: %v", err)
			}
		},
	}
}

// NewExportCommand creates the export command with subcommands
func NewExportCommand(configPath *string) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export data for other tools",
		Long:  "Export the class schedule as iCalendar or the tasks and flashcards as a workbook",
	}

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Export the class schedule as a weekly recurring iCalendar file",
		Run: func(cmd *cobra.Command, args []string) {
			out, _ := cmd.Flags().GetString("out")
			if err := exportSchedule(*configPath, out, time.Now()); err != nil {
				log.Fatalf("Schedule export failed: %v", err)
			}
		},
	}
	scheduleCmd.Flags().String("out", "schedule.ics", "Output file")

	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Export tasks and flashcards as an xlsx workbook",
		Run: func(cmd *cobra.Command, args []string) {
			out, _ := cmd.Flags().GetString("out")
			if err := exportTasks(*configPath, out); err != nil {
				log.Fatalf("Tasks export failed: %v", err)
			}
		},
	}
	tasksCmd.Flags().String("out", "tasks.xlsx", "Output file")

	exportCmd.AddCommand(scheduleCmd)
	exportCmd.AddCommand(tasksCmd)
	return exportCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print ISKAALAMAN version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ISKAALAMAN v%s\n", Version)
		},
	}
}

// RunShell loads the workspace and runs the interactive menu on stdin/stdout
func RunShell(configPath string) {
	app, appLogger, problems, err := bootstrap(configPath)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer appLogger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shell := console.New(os.Stdin, os.Stdout, console.Services{
		Schedule:  app.Schedule,
		Tasks:     app.Tasks,
		Decks:     app.Decks,
		Notebooks: app.Notebooks,
		Study:     app.Study,
	}, app.Clock, appLogger)
	shell.Warn(problems)

	appLogger.Infow("Starting ISKAALAMAN",
		"data_dir", app.Config().Storage.DataDir,
		"environment", app.Config().App.Environment,
	)

	if err := shell.Run(ctx); err != nil {
		appLogger.Errorw("Shell stopped with error", "error", err)
	}
	if err := app.Close(); err != nil {
		log.Printf("Failed to write metrics: %v", err)
	}
}

func bootstrap(configPath string) (*application.App, *logger.Logger, []error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app, err := application.New(cfg, appLogger)
	if err != nil {
		appLogger.Close()
		return nil, nil, nil, err
	}

	problems := app.Load(context.Background())
	return app, appLogger, problems, nil
}

func warn(w io.Writer, problems []error) {
	for _, p := range problems {
		fmt.Fprintf(w, "warning: %v; using an empty list\n", p)
	}
}

func runToday(configPath string, w io.Writer) error {
	app, appLogger, problems, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer appLogger.Close()
	warn(os.Stderr, problems)

	console.RenderToday(w, app.Schedule, app.Tasks, app.Clock)
	return app.Close()
}

func exportSchedule(configPath, out string, weekOf time.Time) error {
	app, appLogger, problems, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer appLogger.Close()
	warn(os.Stderr, problems)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	classes := app.Schedule.Classes()
	skipped, err := export.WriteScheduleICS(f, classes, weekOf, app.Clock.Now())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	appLogger.Infow("Schedule exported successfully", "path", out, "classes", len(classes)-skipped, "skipped", skipped)
	fmt.Printf("Exported %d class(es) to %s\n", len(classes)-skipped, out)
	if skipped > 0 {
		fmt.Printf("Skipped %d class(es) with invalid times or no days\n", skipped)
	}
	return f.Close()
}

func exportTasks(configPath, out string) error {
	app, appLogger, problems, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer appLogger.Close()
	warn(os.Stderr, problems)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	tasks, decks := app.Tasks.Tasks(), app.Decks.Decks()
	if err := export.WriteTasksWorkbook(f, tasks, decks); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	appLogger.Infow("Tasks exported successfully", "path", out, "tasks", len(tasks), "decks", len(decks))
	fmt.Printf("Exported %d task(s) and %d deck(s) to %s\n", len(tasks), len(decks), out)
	return f.Close()
}
