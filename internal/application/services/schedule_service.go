package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/iskaalaman/studyhub/internal/domain/calendar"
	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
	"github.com/iskaalaman/studyhub/internal/infrastructure/metrics"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// NoExclude checks a candidate against every existing class.
const NoExclude = -1

// ScheduleService handles the weekly class schedule
type ScheduleService struct {
	ws        *entities.Workspace
	classRepo ports.ClassRepository
	validator *Validator
	logger    *logger.Logger
	metrics   *metrics.Recorder
}

// NewScheduleService creates a new schedule service
func NewScheduleService(ws *entities.Workspace, classRepo ports.ClassRepository, validator *Validator, logger *logger.Logger, metrics *metrics.Recorder) *ScheduleService {
	return &ScheduleService{
		ws:        ws,
		classRepo: classRepo,
		validator: validator,
		logger:    logger.WithComponent("scheduler"),
		metrics:   metrics,
	}
}

// FindConflict validates a candidate's time range and returns a *entities.ConflictError
// for the first existing class it overlaps. The class at excludeIndex is skipped.
func (s *ScheduleService) FindConflict(candidate entities.ClassEntry, excludeIndex int) error {
	if !candidate.HasValidRange() {
		return entities.ErrInvalidTimeRange
	}

	for i := range s.ws.Classes {
		if i == excludeIndex {
			continue
		}
		existing := &s.ws.Classes[i]

		start, end := existing.Minutes()
		if start == calendar.InvalidMinutes || end == calendar.InvalidMinutes {
			s.logger.Warnw("Skipping class with unparsable times in conflict check",
				"index", i, "subject", existing.Subject,
				"start_time", existing.StartTime, "end_time", existing.EndTime)
			continue
		}

		if candidate.Overlaps(existing) {
			return &entities.ConflictError{Index: i, Existing: *existing}
		}
	}

	return nil
}

// HasConflict reports whether FindConflict rejects the candidate
func (s *ScheduleService) HasConflict(candidate entities.ClassEntry, excludeIndex int) bool {
	return s.FindConflict(candidate, excludeIndex) != nil
}

// AddClass validates and appends a class, then saves the schedule
func (s *ScheduleService) AddClass(ctx context.Context, req ports.AddClassRequest) (*entities.ClassEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	class := entities.ClassEntry{
		Subject:   req.Subject,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Venue:     req.Venue,
		Days:      canonicalDays(req.Days),
	}

	if err := s.FindConflict(class, NoExclude); err != nil {
		return nil, err
	}

	s.ws.Classes = append(s.ws.Classes, class)
	s.logger.Infow("Class added successfully", "subject", class.Subject, "days", class.Days)

	if err := persist(ctx, s.logger, s.metrics, CollectionClasses, len(s.ws.Classes), s.save); err != nil {
		return &class, err
	}
	return &class, nil
}

// EditClass applies the changed fields to the class at index, re-checking it
// against every other class.
func (s *ScheduleService) EditClass(ctx context.Context, index int, req ports.EditClassRequest) (*entities.ClassEntry, error) {
	if index < 0 || index >= len(s.ws.Classes) {
		return nil, fmt.Errorf("class %d: %w", index+1, entities.ErrIndexOutOfRange)
	}
	if req.IsEmpty() {
		return nil, entities.ErrNoChanges
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	updated := s.ws.Classes[index]
	updated.Days = append([]string(nil), updated.Days...)
	if req.Subject != nil {
		updated.Subject = *req.Subject
	}
	if req.StartTime != nil {
		updated.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		updated.EndTime = *req.EndTime
	}
	if req.Venue != nil {
		updated.Venue = *req.Venue
	}
	if req.Days != nil {
		updated.Days = canonicalDays(*req.Days)
	}

	if err := s.FindConflict(updated, index); err != nil {
		return nil, err
	}

	s.ws.Classes[index] = updated
	s.logger.Infow("Class updated successfully", "index", index, "subject", updated.Subject)

	if err := persist(ctx, s.logger, s.metrics, CollectionClasses, len(s.ws.Classes), s.save); err != nil {
		return &updated, err
	}
	return &updated, nil
}

// Classes returns a copy of the schedule
func (s *ScheduleService) Classes() []entities.ClassEntry {
	return append([]entities.ClassEntry(nil), s.ws.Classes...)
}

// ClassesOn returns the classes that meet on day, in schedule order
func (s *ScheduleService) ClassesOn(day string) []entities.ClassEntry {
	var out []entities.ClassEntry
	for i := range s.ws.Classes {
		if s.ws.Classes[i].MeetsOn(day) {
			out = append(out, s.ws.Classes[i])
		}
	}
	return out
}

// Subjects returns the distinct non-empty class subjects, sorted
func (s *ScheduleService) Subjects() []string {
	seen := make(map[string]bool)
	var subjects []string
	for _, c := range s.ws.Classes {
		if c.Subject == "" || seen[c.Subject] {
			continue
		}
		seen[c.Subject] = true
		subjects = append(subjects, c.Subject)
	}
	sort.Strings(subjects)
	return subjects
}

func (s *ScheduleService) save(ctx context.Context) error {
	return s.classRepo.Save(ctx, s.ws.Classes)
}

// canonicalDays removes duplicates and orders days Mon..Sun.
func canonicalDays(days []string) []string {
	seen := make(map[string]bool, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return calendar.SortWeekdays(out)
}
