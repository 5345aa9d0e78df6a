package ports

import (
	"context"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
)

// ScheduleService interface for class schedule operations
type ScheduleService interface {
	AddClass(ctx context.Context, req AddClassRequest) (*entities.ClassEntry, error)
	EditClass(ctx context.Context, index int, req EditClassRequest) (*entities.ClassEntry, error)
	FindConflict(candidate entities.ClassEntry, excludeIndex int) error
	Classes() []entities.ClassEntry
	ClassesOn(day string) []entities.ClassEntry
	Subjects() []string
}

// TaskService interface for task management operations
type TaskService interface {
	AddTask(ctx context.Context, req AddTaskRequest) (*entities.Task, error)
	CompleteTask(ctx context.Context, index int) (*entities.Task, error)
	DeleteTask(ctx context.Context, index int) (*entities.Task, error)
	Tasks() []entities.Task
	PendingOrder() []int
	DueOnOrBefore(today string) []entities.Task
}

// DeckService interface for flashcard deck operations
type DeckService interface {
	CreateDeck(ctx context.Context, req CreateDeckRequest) (*entities.Deck, error)
	AddCard(ctx context.Context, deckIndex int, req AddCardRequest) (*entities.Card, error)
	DeleteDeck(ctx context.Context, index int) (*entities.Deck, error)
	Decks() []entities.Deck
	Deck(index int) (*entities.Deck, error)
}

// NotebookService interface for notebook operations
type NotebookService interface {
	AddNote(ctx context.Context, req AddNoteRequest) (*entities.Note, error)
	Notebooks() []entities.Notebook
	Notes(subject string) []entities.Note
	Subjects(scheduled []string) []string
}

// Request Types

// Schedule related types
type AddClassRequest struct {
	Subject   string   `json:"subject" validate:"required,singleline,max=200"`
	StartTime string   `json:"start_time" validate:"required,clocktime"`
	EndTime   string   `json:"end_time" validate:"required,clocktime"`
	Venue     string   `json:"venue" validate:"singleline,max=200"`
	Days      []string `json:"days" validate:"required,min=1,dive,weekday"`
}

// EditClassRequest carries only the fields being changed; nil keeps the current value.
type EditClassRequest struct {
	Subject   *string   `json:"subject" validate:"omitempty,singleline,max=200"`
	StartTime *string   `json:"start_time" validate:"omitempty,clocktime"`
	EndTime   *string   `json:"end_time" validate:"omitempty,clocktime"`
	Venue     *string   `json:"venue" validate:"omitempty,singleline,max=200"`
	Days      *[]string `json:"days" validate:"omitempty,dive,weekday"`
}

// IsEmpty reports whether the request changes nothing.
func (r EditClassRequest) IsEmpty() bool {
	return r.Subject == nil && r.StartTime == nil && r.EndTime == nil && r.Venue == nil && r.Days == nil
}

// Task related types
type AddTaskRequest struct {
	Name     string           `json:"name" validate:"required,singleline,max=200"`
	Subject  string           `json:"subject" validate:"singleline,max=200"`
	Infos    string           `json:"infos"`
	Deadline string           `json:"deadline" validate:"required,datetime=2006-01-02"`
	Urgency  entities.Urgency `json:"urgency" validate:"required,min=1,max=3"`
}

// Flashcard related types
type CreateDeckRequest struct {
	Subject string `json:"subject" validate:"singleline,max=200"`
	Title   string `json:"title" validate:"singleline,max=200"`

	// Cards are normalized and validated one by one when the deck is built.
	Cards []AddCardRequest `json:"cards" validate:"-"`
}

type AddCardRequest struct {
	Type     entities.CardType `json:"type" validate:"required,cardtype"`
	Question string            `json:"question" validate:"required,singleline"`
	Answer   string            `json:"answer" validate:"required,singleline"`
	Options  []string          `json:"options" validate:"required_if=Type multiple_choice,dive,required,singleline"`
}

// Notebook related types
type AddNoteRequest struct {
	Subject string `json:"subject" validate:"required,singleline,max=200"`
	Title   string `json:"title" validate:"singleline,max=200"`
	Content string `json:"content"`
}
