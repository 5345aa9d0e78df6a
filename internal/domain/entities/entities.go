package entities

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iskaalaman/studyhub/internal/domain/calendar"
)

// Common errors
var (
	ErrInvalidTimeRange     = errors.New("start time must be a valid time before end time")
	ErrNothingToStudy       = errors.New("deck has no cards to study")
	ErrCorruptFile          = errors.New("data file is corrupt")
	ErrNotPersisted         = errors.New("change kept in memory but could not be saved")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrAnswerNotInOptions   = errors.New("answer must be one of the options")
	ErrReservedDelimiter    = errors.New("content line collides with a reserved delimiter")
	ErrTaskAlreadyCompleted = errors.New("task is already completed")
	ErrNoChanges            = errors.New("no changes were made")
	ErrInvalidAnswer        = errors.New("true/false answer must be true or false")
	ErrNoOptions            = errors.New("multiple choice card needs at least one option")
)

// Persisted defaults
const (
	DefaultInfos     = "No info available"
	DefaultDeckSubj  = "General"
	DefaultDeckTitle = "Untitled Deck"
	DefaultNoteTitle = "Untitled Note"
)

// Note content delimiters. A content line equal to ContentEnd cannot be stored.
const (
	ContentStart = "---CONTENT_START---"
	ContentEnd   = "---CONTENT_END---"
)

// Urgency ranks a task; lower values sort first.
type Urgency int

const (
	UrgencyHigh     Urgency = 1
	UrgencyModerate Urgency = 2
	UrgencyLow      Urgency = 3
)

func (u Urgency) IsValid() bool {
	return u >= UrgencyHigh && u <= UrgencyLow
}

func (u Urgency) String() string {
	switch u {
	case UrgencyHigh:
		return "High"
	case UrgencyModerate:
		return "Moderate"
	case UrgencyLow:
		return "Low"
	default:
		return "Unknown"
	}
}

type CardType string

const (
	CardTypeTrueFalse      CardType = "true_false"
	CardTypeIdentification CardType = "identification"
	CardTypeMultipleChoice CardType = "multiple_choice"
)

func (c CardType) IsValid() bool {
	switch c {
	case CardTypeTrueFalse, CardTypeIdentification, CardTypeMultipleChoice:
		return true
	}
	return false
}

// Label is the menu wording for a card type.
func (c CardType) Label() string {
	switch c {
	case CardTypeTrueFalse:
		return "True/False"
	case CardTypeIdentification:
		return "Identification"
	case CardTypeMultipleChoice:
		return "Multiple Choice"
	default:
		return string(c)
	}
}

// ClassEntry is one weekly recurring class slot.
type ClassEntry struct {
	Subject   string   `json:"subject"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Venue     string   `json:"venue"`
	Days      []string `json:"days"`
}

// Task is a deadline-driven to-do item.
type Task struct {
	Name      string  `json:"name"`
	Subject   string  `json:"subject"`
	Infos     string  `json:"infos"`
	Deadline  string  `json:"deadline"`
	Urgency   Urgency `json:"urgency"`
	Completed bool    `json:"completed"`
}

type Card struct {
	Type     CardType `json:"type"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options,omitempty"`
}

type Deck struct {
	Subject   string `json:"subject"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
	Cards     []Card `json:"cards"`
}

type Note struct {
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
}

// Notebook groups the notes of one subject. Subjects are unique across notebooks.
type Notebook struct {
	Subject string `json:"subject"`
	Notes   []Note `json:"notes"`
}

// Workspace is the in-memory state of every collection.
type Workspace struct {
	Classes   []ClassEntry
	Tasks     []Task
	Decks     []Deck
	Notebooks []Notebook
}

// ConflictError names the existing class a candidate overlaps with.
type ConflictError struct {
	Index    int
	Existing ClassEntry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict with %s (%s - %s on %s)",
		e.Existing.Subject, e.Existing.StartTime, e.Existing.EndTime, strings.Join(e.Existing.Days, ", "))
}

// Business logic methods for ClassEntry

// Minutes returns the start and end as minutes after midnight.
func (c *ClassEntry) Minutes() (start, end int) {
	return calendar.TimeToMinutes(c.StartTime), calendar.TimeToMinutes(c.EndTime)
}

// HasValidRange reports whether both times parse and start is before end.
func (c *ClassEntry) HasValidRange() bool {
	start, end := c.Minutes()
	return start != calendar.InvalidMinutes && end != calendar.InvalidMinutes && start < end
}

func (c *ClassEntry) MeetsOn(day string) bool {
	for _, d := range c.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Overlaps reports whether both entries share a weekday and their intervals intersect.
// Touching intervals (one ends when the other starts) do not overlap.
func (c *ClassEntry) Overlaps(other *ClassEntry) bool {
	if !calendar.SharesDay(c.Days, other.Days) {
		return false
	}
	start, end := c.Minutes()
	otherStart, otherEnd := other.Minutes()
	return start < otherEnd && end > otherStart
}

// Business logic methods for Task

func (t *Task) Complete() error {
	if t.Completed {
		return ErrTaskAlreadyCompleted
	}
	t.Completed = true
	return nil
}

// IsDue reports whether a pending task's deadline is on or before today.
// Both dates are "YYYY-MM-DD" so a string compare orders them.
func (t *Task) IsDue(today string) bool {
	return !t.Completed && t.Deadline <= today
}

// Business logic methods for Card

// HasValidAnswer reports whether a multiple choice answer is one of its options.
// Other card types always have a valid answer.
func (c *Card) HasValidAnswer() bool {
	if c.Type != CardTypeMultipleChoice {
		return true
	}
	for _, opt := range c.Options {
		if opt == c.Answer {
			return true
		}
	}
	return false
}

// Business logic methods for Workspace

// NotebookFor returns the index of the notebook for subject, or -1.
func (w *Workspace) NotebookFor(subject string) int {
	for i := range w.Notebooks {
		if w.Notebooks[i].Subject == subject {
			return i
		}
	}
	return -1
}
