package jobs

import (
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogReprice recomputes and caches optimized prices for the
	// whole catalog.
	TaskCatalogReprice = "catalog:reprice"
)

// NewCatalogRepriceTask constructs the reprice task. It carries no payload;
// the handler walks the full catalog.
func NewCatalogRepriceTask() *asynq.Task {
	return asynq.NewTask(TaskCatalogReprice, nil)
}
