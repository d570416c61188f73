package postgres

import (
	"context"

	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/project/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresProjectRepo struct {
	db *gorm.DB
}

func NewPostgresProjectRepo(db *gorm.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

func (p *PostgresProjectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	projects := make([]model.Project, 0)
	res := p.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&projects)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListProjects")
	}
	return projects, nil
}

func (p *PostgresProjectRepo) ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uint, error) {
	ids := make([]uint, 0)
	res := p.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListProjectIDs")
	}
	return ids, nil
}

func (p *PostgresProjectRepo) GetByID(ctx context.Context, id uint, withTasks bool) (model.Project, error) {
	var project model.Project
	q := p.db.WithContext(ctx)
	if withTasks {
		q = q.Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	}
	res := q.Where("id = ?", id).First(&project)
	if err := mapFirst(res.Error, "project", "GetProject"); err != nil {
		return model.Project{}, err
	}
	return project, nil
}

func (p *PostgresProjectRepo) Create(ctx context.Context, project *model.Project) error {
	if err := p.db.WithContext(ctx).Create(project).Error; err != nil {
		return customErrors.WrapInternal(err, "CreateProject")
	}
	return nil
}

// Update writes the title, and the description when it is set.
func (p *PostgresProjectRepo) Update(ctx context.Context, project *model.Project) error {
	fields := map[string]any{"title": project.Title}
	if project.Description != nil {
		fields["description"] = *project.Description
	}
	res := p.db.WithContext(ctx).Model(project).Updates(fields)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateProject")
	}
	if res.RowsAffected == 0 {
		return customErrors.NewNotFound("project")
	}
	return nil
}

func (p *PostgresProjectRepo) Delete(ctx context.Context, id uint) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return customErrors.WrapInternal(err, "DeleteProjectTasks")
		}
		res := tx.Delete(&model.Project{}, id)
		if err := res.Error; err != nil {
			return customErrors.WrapInternal(err, "DeleteProject")
		}
		if res.RowsAffected == 0 {
			return customErrors.NewNotFound("project")
		}
		return nil
	})
}
