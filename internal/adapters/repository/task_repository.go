package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// TaskRepositoryImpl stores tasks in a flat file: count, then per task name,
// subject, infos, deadline, urgency and a 0/1 completed flag.
// Line breaks inside infos are saved as spaces.
type TaskRepositoryImpl struct {
	path string
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(path string) ports.TaskRepository {
	return &TaskRepositoryImpl{path: path}
}

func (r *TaskRepositoryImpl) Load(ctx context.Context) ([]entities.Task, error) {
	tasks, err := loadFile(ctx, r.path, decodeTasks)
	if err != nil {
		return tasks, fmt.Errorf("load tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) Save(ctx context.Context, tasks []entities.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var w lineWriter
	w.count(len(tasks))
	for _, t := range tasks {
		w.line(singleLine(t.Name))
		w.line(singleLine(t.Subject))
		w.line(singleLine(t.Infos))
		w.line(singleLine(t.Deadline))
		w.count(int(t.Urgency))
		if t.Completed {
			w.line("1")
		} else {
			w.line("0")
		}
	}

	if err := w.writeTo(r.path); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func decodeTasks(r *lineReader) ([]entities.Task, error) {
	n, err := r.count("task count")
	if err != nil {
		return nil, err
	}

	tasks := make([]entities.Task, 0, capHint(n))
	for i := 0; i < n; i++ {
		var t entities.Task
		if t.Name, err = r.next("name"); err != nil {
			return nil, err
		}
		if t.Subject, err = r.next("subject"); err != nil {
			return nil, err
		}
		if t.Infos, err = r.next("infos"); err != nil {
			return nil, err
		}
		if t.Deadline, err = r.next("deadline"); err != nil {
			return nil, err
		}

		raw, err := r.next("urgency")
		if err != nil {
			return nil, err
		}
		urgency, convErr := strconv.Atoi(strings.TrimSpace(raw))
		if convErr != nil || !entities.Urgency(urgency).IsValid() {
			return nil, r.corrupt("invalid urgency %q", raw)
		}
		t.Urgency = entities.Urgency(urgency)

		raw, err = r.next("completed")
		if err != nil {
			return nil, err
		}
		switch strings.TrimSpace(raw) {
		case "0":
			t.Completed = false
		case "1":
			t.Completed = true
		default:
			return nil, r.corrupt("invalid completed flag %q", raw)
		}

		tasks = append(tasks, t)
	}

	return tasks, nil
}
