package repository

import (
	"context"
	"fmt"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// ClassRepositoryImpl stores the class schedule in a flat file:
// count, then per class subject, start, end, venue, day count, days.
type ClassRepositoryImpl struct {
	path string
}

// NewClassRepository creates a new class schedule repository
func NewClassRepository(path string) ports.ClassRepository {
	return &ClassRepositoryImpl{path: path}
}

func (r *ClassRepositoryImpl) Load(ctx context.Context) ([]entities.ClassEntry, error) {
	classes, err := loadFile(ctx, r.path, decodeClasses)
	if err != nil {
		return classes, fmt.Errorf("load classes: %w", err)
	}
	return classes, nil
}

func (r *ClassRepositoryImpl) Save(ctx context.Context, classes []entities.ClassEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var w lineWriter
	w.count(len(classes))
	for _, c := range classes {
		w.line(singleLine(c.Subject))
		w.line(singleLine(c.StartTime))
		w.line(singleLine(c.EndTime))
		w.line(singleLine(c.Venue))
		w.count(len(c.Days))
		for _, day := range c.Days {
			w.line(singleLine(day))
		}
	}

	if err := w.writeTo(r.path); err != nil {
		return fmt.Errorf("save classes: %w", err)
	}
	return nil
}

func decodeClasses(r *lineReader) ([]entities.ClassEntry, error) {
	n, err := r.count("class count")
	if err != nil {
		return nil, err
	}

	classes := make([]entities.ClassEntry, 0, capHint(n))
	for i := 0; i < n; i++ {
		var c entities.ClassEntry
		if c.Subject, err = r.next("subject"); err != nil {
			return nil, err
		}
		if c.StartTime, err = r.next("start time"); err != nil {
			return nil, err
		}
		if c.EndTime, err = r.next("end time"); err != nil {
			return nil, err
		}
		if c.Venue, err = r.next("venue"); err != nil {
			return nil, err
		}

		days, err := r.count("day count")
		if err != nil {
			return nil, err
		}
		c.Days = make([]string, 0, capHint(days))
		for j := 0; j < days; j++ {
			day, err := r.next("day")
			if err != nil {
				return nil, err
			}
			c.Days = append(c.Days, day)
		}

		classes = append(classes, c)
	}

	return classes, nil
}
