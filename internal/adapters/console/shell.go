// Package console is the interactive text menu. It reads one answer per line
// from an io.Reader and writes menus and results to an io.Writer.
package console

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/iskaalaman/studyhub/internal/application/services"
	"github.com/iskaalaman/studyhub/internal/domain/calendar"
	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// StudyRunner runs a study session against a presenter
type StudyRunner interface {
	Run(ctx context.Context, deck entities.Deck, mode services.Mode, presenter services.StudyPresenter) (*services.Result, error)
}

// Services groups everything the shell drives
type Services struct {
	Schedule  ports.ScheduleService
	Tasks     ports.TaskService
	Decks     ports.DeckService
	Notebooks ports.NotebookService
	Study     StudyRunner
}

// Shell is the nested menu over the four collections
type Shell struct {
	*prompter
	svc    Services
	clock  calendar.Clock
	style  styles
	logger *logger.Logger
}

// New creates a shell reading answers from in and writing to out
func New(in io.Reader, out io.Writer, svc Services, clock calendar.Clock, logger *logger.Logger) *Shell {
	return &Shell{
		prompter: newPrompter(in, out),
		svc:      svc,
		clock:    clock,
		style:    newStyles(out),
		logger:   logger.WithComponent("console"),
	}
}

// Warn prints load problems before the menu starts
func (s *Shell) Warn(problems []error) {
	for _, err := range problems {
		s.println(s.style.warning.Render("<Warning: " + err.Error() + "; starting with an empty list.>"))
	}
}

// Run shows the main menu until the user exits or the input ends
func (s *Shell) Run(ctx context.Context) error {
	s.logger.Infow("Shell started")
	err := s.mainMenu(ctx)
	if errors.Is(err, errInputClosed) {
		s.println()
		s.logger.Infow("Input closed, leaving shell")
		return nil
	}
	return err
}

func (s *Shell) mainMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.println()
		s.println(s.style.header.Render("ISKAALAMAN Main Menu:"))
		s.println("1. ISKAALAMAN Scheduler and Planner")
		s.println("2. ISKAALAMAN Study Hub")
		s.println("3. Exit")

		choice, err := s.choice("Enter your choice (1-3): ", 1, 3)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = s.plannerMenu(ctx)
		case 2:
			err = s.studyHubMenu(ctx)
		case 3:
			s.println("Exiting ISKAALAMAN. Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// report prints the outcome of a failed operation. It returns true when the
// change was applied in memory despite the error.
func (s *Shell) report(err error) bool {
	var validation *services.ValidationError
	var conflict *entities.ConflictError
	var badDay *calendar.InvalidWeekdayError

	switch {
	case errors.Is(err, entities.ErrNotPersisted):
		s.println(s.style.warning.Render("<Change applied but not saved to disk: " + err.Error() + ">"))
		return true
	case errors.As(err, &conflict):
		s.println(s.style.failure.Render("<Conflict detected with class: " + conflict.Existing.Subject +
			" (" + conflict.Existing.StartTime + " - " + conflict.Existing.EndTime +
			" on " + strings.Join(conflict.Existing.Days, ",") + ")>"))
	case errors.Is(err, entities.ErrInvalidTimeRange):
		s.println(s.style.failure.Render("<Start time must be before end time.>"))
	case errors.As(err, &validation):
		s.println(s.style.failure.Render("<Invalid input: " + strings.Join(validation.Fields, ", ") + ">"))
	case errors.As(err, &badDay):
		s.println(s.style.failure.Render("<" + badDay.Error() + ">"))
	default:
		s.println(s.style.failure.Render("<" + err.Error() + ">"))
	}
	return false
}

// ok reports whether a mutation took effect, printing any error
func (s *Shell) ok(err error) bool {
	if err == nil {
		return true
	}
	return s.report(err)
}

// pickSubject offers the scheduled subjects plus a manual entry. An empty
// manual entry yields fallback.
func (s *Shell) pickSubject(subjects []string, fallback string) (string, error) {
	if len(subjects) == 0 {
		s.println("No subjects available from schedule.")
		subj, err := s.text("Enter Subject: ")
		if err != nil {
			return "", err
		}
		if subj == "" {
			return fallback, nil
		}
		return subj, nil
	}

	s.println("Available Subjects from Schedule:")
	for i, subj := range subjects {
		s.printf("%d. %s\n", i+1, subj)
	}
	other := len(subjects) + 1
	s.printf("%d. Other (Enter manually)\n", other)

	choice, err := s.choice("Choose Subject by number: ", 1, other)
	if err != nil {
		return "", err
	}
	if choice < other {
		return subjects[choice-1], nil
	}

	subj, err := s.text("Enter Subject: ")
	if err != nil {
		return "", err
	}
	if subj == "" {
		return fallback, nil
	}
	return subj, nil
}
