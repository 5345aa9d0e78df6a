package services

import (
	"context"
	"fmt"
	"time"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
	"github.com/iskaalaman/studyhub/internal/infrastructure/metrics"
)

// Collection names used in logs and metrics
const (
	CollectionClasses   = "classes"
	CollectionTasks     = "tasks"
	CollectionDecks     = "decks"
	CollectionNotebooks = "notebooks"
)

// persist runs a whole-collection save after an in-memory mutation. On failure
// the mutation stays in memory and the error wraps entities.ErrNotPersisted.
func persist(ctx context.Context, log *logger.Logger, rec *metrics.Recorder, collection string, items int, save func(context.Context) error) error {
	start := time.Now()
	err := save(ctx)
	took := time.Since(start)

	rec.ObserveSave(collection, took, err)
	log.LogPersistence("save", collection, items, took, err)

	if err != nil {
		return fmt.Errorf("%w: %w", entities.ErrNotPersisted, err)
	}
	return nil
}
