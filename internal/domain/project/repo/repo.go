package repo

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/project/model"
	"github.com/google/uuid"
)

type ProjectRepo interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error)

	ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uint, error)

	GetByID(ctx context.Context, id uint, withTasks bool) (model.Project, error)

	Create(ctx context.Context, p *model.Project) error

	Update(ctx context.Context, p *model.Project) error

	// Delete removes the project together with its tasks.
	Delete(ctx context.Context, id uint) error
}

type TaskRepo interface {
	ListByProject(ctx context.Context, projectID uint) ([]model.Task, error)

	Search(ctx context.Context, f model.TaskFilter) ([]model.Task, error)

	CountByStatus(ctx context.Context, projectIDs []uint) (model.StatusCounts, error)

	GetByID(ctx context.Context, id uint) (model.Task, error)

	Create(ctx context.Context, t *model.Task) error

	Update(ctx context.Context, t *model.Task) error

	Delete(ctx context.Context, id uint) error
}
