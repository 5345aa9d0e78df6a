package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// NotebookRepositoryImpl stores notebooks in a flat file: count, then per
// notebook subject and note count; per note title, timestamp and the content
// lines written raw between the start and end delimiters.
type NotebookRepositoryImpl struct {
	path string
}

// NewNotebookRepository creates a new notebook repository
func NewNotebookRepository(path string) ports.NotebookRepository {
	return &NotebookRepositoryImpl{path: path}
}

func (r *NotebookRepositoryImpl) Load(ctx context.Context) ([]entities.Notebook, error) {
	notebooks, err := loadFile(ctx, r.path, decodeNotebooks)
	if err != nil {
		return notebooks, fmt.Errorf("load notebooks: %w", err)
	}
	return notebooks, nil
}

func (r *NotebookRepositoryImpl) Save(ctx context.Context, notebooks []entities.Notebook) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var w lineWriter
	w.count(len(notebooks))
	for _, nb := range notebooks {
		w.line(singleLine(nb.Subject))
		w.count(len(nb.Notes))
		for _, note := range nb.Notes {
			w.line(singleLine(note.Title))
			w.line(singleLine(note.Timestamp))
			w.line(entities.ContentStart)
			w.line(note.Content)
			w.line(entities.ContentEnd)
		}
	}

	if err := w.writeTo(r.path); err != nil {
		return fmt.Errorf("save notebooks: %w", err)
	}
	return nil
}

func decodeNotebooks(r *lineReader) ([]entities.Notebook, error) {
	n, err := r.count("notebook count")
	if err != nil {
		return nil, err
	}

	notebooks := make([]entities.Notebook, 0, capHint(n))
	for i := 0; i < n; i++ {
		var nb entities.Notebook
		if nb.Subject, err = r.next("subject"); err != nil {
			return nil, err
		}

		notes, err := r.count("note count")
		if err != nil {
			return nil, err
		}
		nb.Notes = make([]entities.Note, 0, capHint(notes))
		for j := 0; j < notes; j++ {
			note, err := decodeNote(r)
			if err != nil {
				return nil, err
			}
			nb.Notes = append(nb.Notes, note)
		}

		notebooks = append(notebooks, nb)
	}

	return notebooks, nil
}

func decodeNote(r *lineReader) (entities.Note, error) {
	var note entities.Note
	var err error

	if note.Title, err = r.next("note title"); err != nil {
		return note, err
	}
	if note.Timestamp, err = r.next("note timestamp"); err != nil {
		return note, err
	}
	if err := r.expect(entities.ContentStart); err != nil {
		return note, err
	}

	// Content is every line up to the end delimiter; the final line break
	// belongs to the file layout, not the note.
	var content strings.Builder
	for {
		line, err := r.next(entities.ContentEnd)
		if err != nil {
			return note, err
		}
		if line == entities.ContentEnd {
			break
		}
		content.WriteString(line)
		content.WriteByte('\n')
	}
	note.Content = strings.TrimSuffix(content.String(), "\n")

	return note, nil
}
