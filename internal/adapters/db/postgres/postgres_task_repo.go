package postgres

import (
	"context"
	"strings"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/project/model"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostgresTaskRepo struct {
	db *gorm.DB
}

func NewPostgresTaskRepo(db *gorm.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

func (p *PostgresTaskRepo) ListByProject(ctx context.Context, projectID uint) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	res := p.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&tasks)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListTasks")
	}
	return tasks, nil
}

func (p *PostgresTaskRepo) Search(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	q := p.db.WithContext(ctx).Where("project_id = ?", f.ProjectID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	// blank queries are ignored; others are matched as typed
	if strings.TrimSpace(f.Query) != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(f.Query)) + "%"
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\')`, like, like)
	}

	tasks := make([]model.Task, 0)
	if err := q.Order("created_at DESC").Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "SearchTasks")
	}
	return tasks, nil
}

func (p *PostgresTaskRepo) CountByStatus(ctx context.Context, projectIDs []uint) (model.StatusCounts, error) {
	var counts model.StatusCounts
	if len(projectIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		Status string
		N      int64
	}
	res := p.db.WithContext(ctx).
		Model(&model.Task{}).
		Select("status, COUNT(*) AS n").
		Where("project_id IN ?", projectIDs).
		Group("status").
		Scan(&rows)
	if err := res.Error; err != nil {
		return counts, customErrors.WrapInternal(err, "CountTasks")
	}

	for _, r := range rows {
		counts.Total += r.N
		switch r.Status {
		case model.StatusPending:
			counts.Pending = r.N
		case model.StatusInProgress:
			counts.InProgress = r.N
		case model.StatusDone:
			counts.Done = r.N
		}
	}
	return counts, nil
}

func (p *PostgresTaskRepo) GetByID(ctx context.Context, id uint) (model.Task, error) {
	var t model.Task
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&t)
	if err := mapFirst(res.Error, "task", "GetTask"); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (p *PostgresTaskRepo) Create(ctx context.Context, t *model.Task) error {
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	if err := p.db.WithContext(ctx).Create(t).Error; err != nil {
		return customErrors.WrapInternal(err, "CreateTask")
	}
	return nil
}

// Update writes every mutable column of t.
func (p *PostgresTaskRepo) Update(ctx context.Context, t *model.Task) error {
	t.UpdatedAt = time.Now()
	res := p.db.WithContext(ctx).
		Model(t).
		Select("project_id", "title", "description", "priority", "status", "due_date", "updated_at").
		Updates(t)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateTask")
	}
	if res.RowsAffected == 0 {
		return customErrors.NewNotFound("task")
	}
	return nil
}

func (p *PostgresTaskRepo) Delete(ctx context.Context, id uint) error {
	res := p.db.WithContext(ctx).Delete(&model.Task{}, id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteTask")
	}
	if res.RowsAffected == 0 {
		return customErrors.NewNotFound("task")
	}
	return nil
}
