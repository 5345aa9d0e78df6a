package services

import (
	"context"
	"errors"
	"time"

	"github.com/iskaalaman/studyhub/internal/domain/calendar"
	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
	"github.com/iskaalaman/studyhub/internal/infrastructure/metrics"
)

var errDiskFull = errors.New("disk full")

var testClock = calendar.FixedClock{At: time.Date(2025, 3, 5, 14, 7, 9, 0, time.Local)}

// memRepo records every save and can be told to fail.
type memRepo[T any] struct {
	saved [][]T
	fail  bool
}

func (r *memRepo[T]) Load(ctx context.Context) ([]T, error) {
	if len(r.saved) == 0 {
		return []T{}, nil
	}
	return append([]T(nil), r.saved[len(r.saved)-1]...), nil
}

func (r *memRepo[T]) Save(ctx context.Context, items []T) error {
	if r.fail {
		return errDiskFull
	}
	r.saved = append(r.saved, append([]T(nil), items...))
	return nil
}

func (r *memRepo[T]) saves() int {
	return len(r.saved)
}

type fixture struct {
	ws        *entities.Workspace
	classes   *memRepo[entities.ClassEntry]
	tasks     *memRepo[entities.Task]
	decks     *memRepo[entities.Deck]
	notebooks *memRepo[entities.Notebook]
	metrics   *metrics.Recorder

	schedule *ScheduleService
	taskSvc  *TaskService
	deckSvc  *DeckService
	noteSvc  *NotebookService
}

func newFixture() *fixture {
	f := &fixture{
		ws:        &entities.Workspace{},
		classes:   &memRepo[entities.ClassEntry]{},
		tasks:     &memRepo[entities.Task]{},
		decks:     &memRepo[entities.Deck]{},
		notebooks: &memRepo[entities.Notebook]{},
		metrics:   metrics.New(),
	}
	v := NewValidator()
	log := logger.NewNop()

	f.schedule = NewScheduleService(f.ws, f.classes, v, log, f.metrics)
	f.taskSvc = NewTaskService(f.ws, f.tasks, v, log, f.metrics)
	f.deckSvc = NewDeckService(f.ws, f.decks, v, testClock, log, f.metrics)
	f.noteSvc = NewNotebookService(f.ws, f.notebooks, v, testClock, log, f.metrics)
	return f
}

func strPtr(s string) *string {
	return &s
}
