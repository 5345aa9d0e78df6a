package services

import (
	"context"
	"strings"

	"github.com/iskaalaman/studyhub/internal/domain/calendar"
	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
	"github.com/iskaalaman/studyhub/internal/infrastructure/metrics"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// NotebookService handles per-subject notebooks
type NotebookService struct {
	ws           *entities.Workspace
	notebookRepo ports.NotebookRepository
	validator    *Validator
	clock        calendar.Clock
	logger       *logger.Logger
	metrics      *metrics.Recorder
}

// NewNotebookService creates a new notebook service
func NewNotebookService(ws *entities.Workspace, notebookRepo ports.NotebookRepository, validator *Validator, clock calendar.Clock, logger *logger.Logger, metrics *metrics.Recorder) *NotebookService {
	return &NotebookService{
		ws:           ws,
		notebookRepo: notebookRepo,
		validator:    validator,
		clock:        clock,
		logger:       logger.WithComponent("notebooks"),
		metrics:      metrics,
	}
}

// AddNote appends a note to the subject's notebook, creating the notebook on
// first use, then saves all notebooks.
func (s *NotebookService) AddNote(ctx context.Context, req ports.AddNoteRequest) (*entities.Note, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		req.Title = entities.DefaultNoteTitle
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	// Stored lines never keep a trailing carriage return, so CRLF input
	// is folded to LF up front to round-trip unchanged.
	lines := strings.Split(req.Content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
		if lines[i] == entities.ContentEnd {
			return nil, entities.ErrReservedDelimiter
		}
	}
	req.Content = strings.Join(lines, "\n")

	note := entities.Note{
		Title:     req.Title,
		Timestamp: calendar.Timestamp(s.clock),
		Content:   req.Content,
	}

	idx := s.ws.NotebookFor(req.Subject)
	if idx < 0 {
		s.ws.Notebooks = append(s.ws.Notebooks, entities.Notebook{Subject: req.Subject})
		idx = len(s.ws.Notebooks) - 1
		s.logger.Infow("Notebook created", "subject", req.Subject)
	}
	s.ws.Notebooks[idx].Notes = append(s.ws.Notebooks[idx].Notes, note)
	s.logger.Infow("Note saved successfully", "subject", req.Subject, "title", note.Title)

	if err := persist(ctx, s.logger, s.metrics, CollectionNotebooks, len(s.ws.Notebooks), s.save); err != nil {
		return &note, err
	}
	return &note, nil
}

// Notebooks returns a copy of every notebook
func (s *NotebookService) Notebooks() []entities.Notebook {
	return append([]entities.Notebook(nil), s.ws.Notebooks...)
}

// Notes returns the notes of subject, or nil when it has no notebook yet
func (s *NotebookService) Notes(subject string) []entities.Note {
	idx := s.ws.NotebookFor(subject)
	if idx < 0 {
		return nil
	}
	return append([]entities.Note(nil), s.ws.Notebooks[idx].Notes...)
}

// Subjects lists scheduled subjects followed by notebook subjects not
// already among them.
func (s *NotebookService) Subjects(scheduled []string) []string {
	seen := make(map[string]bool, len(scheduled))
	subjects := make([]string, 0, len(scheduled)+len(s.ws.Notebooks))
	for _, subj := range scheduled {
		if !seen[subj] {
			seen[subj] = true
			subjects = append(subjects, subj)
		}
	}
	for _, nb := range s.ws.Notebooks {
		if !seen[nb.Subject] {
			seen[nb.Subject] = true
			subjects = append(subjects, nb.Subject)
		}
	}
	return subjects
}

func (s *NotebookService) save(ctx context.Context) error {
	return s.notebookRepo.Save(ctx, s.ws.Notebooks)
}
