package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
	"github.com/iskaalaman/studyhub/internal/infrastructure/metrics"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// TaskService handles task-related operations
type TaskService struct {
	ws        *entities.Workspace
	taskRepo  ports.TaskRepository
	validator *Validator
	logger    *logger.Logger
	metrics   *metrics.Recorder
}

// NewTaskService creates a new task service
func NewTaskService(ws *entities.Workspace, taskRepo ports.TaskRepository, validator *Validator, logger *logger.Logger, metrics *metrics.Recorder) *TaskService {
	return &TaskService{
		ws:        ws,
		taskRepo:  taskRepo,
		validator: validator,
		logger:    logger.WithComponent("tasks"),
		metrics:   metrics,
	}
}

// PendingOrder returns the indices of unfinished tasks ordered by urgency,
// then by deadline. Ties keep their storage order.
func PendingOrder(tasks []entities.Task) []int {
	order := make([]int, 0, len(tasks))
	for i := range tasks {
		if !tasks[i].Completed {
			order = append(order, i)
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := &tasks[order[a]], &tasks[order[b]]
		if ta.Urgency != tb.Urgency {
			return ta.Urgency < tb.Urgency
		}
		return ta.Deadline < tb.Deadline
	})

	return order
}

// AddTask creates a pending task and saves the task list
func (s *TaskService) AddTask(ctx context.Context, req ports.AddTaskRequest) (*entities.Task, error) {
	req.Infos = strings.TrimSpace(req.Infos)
	if req.Infos == "" || strings.EqualFold(req.Infos, "none") {
		req.Infos = entities.DefaultInfos
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	task := entities.Task{
		Name:      req.Name,
		Subject:   req.Subject,
		Infos:     req.Infos,
		Deadline:  req.Deadline,
		Urgency:   req.Urgency,
		Completed: false,
	}

	s.ws.Tasks = append(s.ws.Tasks, task)
	s.logger.Infow("Task created successfully", "name", task.Name, "deadline", task.Deadline, "urgency", task.Urgency.String())

	if err := persist(ctx, s.logger, s.metrics, CollectionTasks, len(s.ws.Tasks), s.save); err != nil {
		return &task, err
	}
	return &task, nil
}

// CompleteTask marks the task at storage index as completed
func (s *TaskService) CompleteTask(ctx context.Context, index int) (*entities.Task, error) {
	if index < 0 || index >= len(s.ws.Tasks) {
		return nil, fmt.Errorf("task %d: %w", index+1, entities.ErrIndexOutOfRange)
	}

	task := &s.ws.Tasks[index]
	if err := task.Complete(); err != nil {
		return nil, err
	}
	done := *task
	s.logger.Infow("Task completed", "name", done.Name)

	if err := persist(ctx, s.logger, s.metrics, CollectionTasks, len(s.ws.Tasks), s.save); err != nil {
		return &done, err
	}
	return &done, nil
}

// DeleteTask removes the task at storage index
func (s *TaskService) DeleteTask(ctx context.Context, index int) (*entities.Task, error) {
	if index < 0 || index >= len(s.ws.Tasks) {
		return nil, fmt.Errorf("task %d: %w", index+1, entities.ErrIndexOutOfRange)
	}

	removed := s.ws.Tasks[index]
	s.ws.Tasks = append(s.ws.Tasks[:index], s.ws.Tasks[index+1:]...)
	s.logger.Infow("Task deleted successfully", "name", removed.Name)

	if err := persist(ctx, s.logger, s.metrics, CollectionTasks, len(s.ws.Tasks), s.save); err != nil {
		return &removed, err
	}
	return &removed, nil
}

// Tasks returns a copy of every task, completed ones included
func (s *TaskService) Tasks() []entities.Task {
	return append([]entities.Task(nil), s.ws.Tasks...)
}

// PendingOrder returns the display order of unfinished tasks
func (s *TaskService) PendingOrder() []int {
	return PendingOrder(s.ws.Tasks)
}

// DueOnOrBefore returns unfinished tasks whose deadline is today or earlier
func (s *TaskService) DueOnOrBefore(today string) []entities.Task {
	var due []entities.Task
	for i := range s.ws.Tasks {
		if s.ws.Tasks[i].IsDue(today) {
			due = append(due, s.ws.Tasks[i])
		}
	}
	return due
}

func (s *TaskService) save(ctx context.Context) error {
	return s.taskRepo.Save(ctx, s.ws.Tasks)
}
