// Package application wires configuration, repositories and services into the
// single context object the console and the CLI commands work against.
package application

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/iskaalaman/studyhub/internal/adapters/repository"
	"github.com/iskaalaman/studyhub/internal/application/services"
	"github.com/iskaalaman/studyhub/internal/domain/calendar"
	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/infrastructure/config"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
	"github.com/iskaalaman/studyhub/internal/infrastructure/metrics"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// Repositories groups the persistence of the four collections
type Repositories struct {
	Classes   ports.ClassRepository
	Tasks     ports.TaskRepository
	Decks     ports.DeckRepository
	Notebooks ports.NotebookRepository
}

// App owns the workspace and every service that mutates it
type App struct {
	Workspace *entities.Workspace
	Clock     calendar.Clock
	Metrics   *metrics.Recorder

	Schedule  *services.ScheduleService
	Tasks     *services.TaskService
	Decks     *services.DeckService
	Notebooks *services.NotebookService
	Study     *services.StudyService

	config *config.Config
	repos  Repositories
	logger *logger.Logger
}

// New builds an App backed by the flat files named in cfg
func New(cfg *config.Config, appLogger *logger.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repos := Repositories{
		Classes:   repository.NewClassRepository(cfg.Storage.SchedulePath()),
		Tasks:     repository.NewTaskRepository(cfg.Storage.TasksPath()),
		Decks:     repository.NewDeckRepository(cfg.Storage.FlashcardsPath()),
		Notebooks: repository.NewNotebookRepository(cfg.Storage.NotebooksPath()),
	}

	return NewWithRepositories(cfg, repos, calendar.SystemClock{}, appLogger), nil
}

// NewWithRepositories builds an App over the given repositories and clock
func NewWithRepositories(cfg *config.Config, repos Repositories, clock calendar.Clock, appLogger *logger.Logger) *App {
	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.New()
	}

	seed := cfg.Study.ShuffleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ws := &entities.Workspace{}
	validator := services.NewValidator()

	return &App{
		Workspace: ws,
		Clock:     clock,
		Metrics:   recorder,
		Schedule:  services.NewScheduleService(ws, repos.Classes, validator, appLogger, recorder),
		Tasks:     services.NewTaskService(ws, repos.Tasks, validator, appLogger, recorder),
		Decks:     services.NewDeckService(ws, repos.Decks, validator, clock, appLogger, recorder),
		Notebooks: services.NewNotebookService(ws, repos.Notebooks, validator, clock, appLogger, recorder),
		Study:     services.NewStudyService(rand.New(rand.NewSource(seed)), appLogger, recorder),
		config:    cfg,
		repos:     repos,
		logger:    appLogger,
	}
}

// Load reads all four collections. A collection that fails to load starts
// empty; its error is logged and returned so the caller can warn the user.
func (a *App) Load(ctx context.Context) []error {
	var problems []error

	classes, err := a.repos.Classes.Load(ctx)
	problems = a.loaded(services.CollectionClasses, len(classes), err, problems)
	a.Workspace.Classes = classes

	tasks, err := a.repos.Tasks.Load(ctx)
	problems = a.loaded(services.CollectionTasks, len(tasks), err, problems)
	a.Workspace.Tasks = tasks

	decks, err := a.repos.Decks.Load(ctx)
	problems = a.loaded(services.CollectionDecks, len(decks), err, problems)
	a.Workspace.Decks = decks

	notebooks, err := a.repos.Notebooks.Load(ctx)
	problems = a.loaded(services.CollectionNotebooks, len(notebooks), err, problems)
	a.Workspace.Notebooks = notebooks

	return problems
}

func (a *App) loaded(collection string, items int, err error, problems []error) []error {
	if err == nil {
		a.logger.Infow("Collection loaded", "collection", collection, "items", items)
		return problems
	}

	a.Metrics.LoadReset(collection)
	a.logger.WithError(err).Warnw("Collection reset to empty after load failure", "collection", collection)
	return append(problems, fmt.Errorf("%s: %w", collection, err))
}

// Config returns the configuration the App was built with
func (a *App) Config() *config.Config {
	return a.config
}

// Close writes the metrics textfile when metrics are enabled
func (a *App) Close() error {
	if a.Metrics == nil {
		return nil
	}
	if err := a.Metrics.WriteTextfile(a.config.Metrics.Textfile); err != nil {
		a.logger.Errorw("Failed to write metrics", "path", a.config.Metrics.Textfile, "error", err)
		return err
	}
	return nil
}
