package ports

import (
	"context"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
)

// Each repository persists one whole collection. Save overwrites the file;
// Load returns an empty collection with no error when the file does not exist.

// ClassRepository defines persistence for the class schedule
type ClassRepository interface {
	Load(ctx context.Context) ([]entities.ClassEntry, error)
	Save(ctx context.Context, classes []entities.ClassEntry) error
}

// TaskRepository defines persistence for tasks
type TaskRepository interface {
	Load(ctx context.Context) ([]entities.Task, error)
	Save(ctx context.Context, tasks []entities.Task) error
}

// DeckRepository defines persistence for flashcard decks
type DeckRepository interface {
	Load(ctx context.Context) ([]entities.Deck, error)
	Save(ctx context.Context, decks []entities.Deck) error
}

// NotebookRepository defines persistence for notebooks
type NotebookRepository interface {
	Load(ctx context.Context) ([]entities.Notebook, error)
	Save(ctx context.Context, notebooks []entities.Notebook) error
}
