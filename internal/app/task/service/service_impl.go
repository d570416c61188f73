package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/project/model"
	repo "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/project/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const dateOnly = "2006-01-02"

var errProjectHidden = customErrors.WithMessage(customErrors.ErrNotFound, "project not found or access denied")

type Service interface {
	ListByProject(ctx context.Context, owner uuid.UUID, projectID uint) ([]model.Task, error)
	Search(ctx context.Context, owner uuid.UUID, in dto.TaskSearchDTO) ([]model.Task, error)
	Dashboard(ctx context.Context, owner uuid.UUID) (model.Dashboard, error)
	Create(ctx context.Context, owner uuid.UUID, in dto.CreateTaskDTO) (model.Task, error)
	// Update applies the non-nil fields of in. Moving a task to another
	// project requires owning that project too.
	Update(ctx context.Context, owner uuid.UUID, id uint, in dto.UpdateTaskDTO) (model.Task, error)
	Delete(ctx context.Context, owner uuid.UUID, id uint) error
}

type taskService struct {
	projects repo.ProjectRepo
	tasks    repo.TaskRepo
	v        *validator.Validate
}

func New(pr repo.ProjectRepo, tr repo.TaskRepo, v *validator.Validate) Service {
	return &taskService{projects: pr, tasks: tr, v: v}
}

func (s *taskService) ListByProject(ctx context.Context, owner uuid.UUID, projectID uint) ([]model.Task, error) {
	p, err := s.projects.GetByID(ctx, projectID, false)
	switch {
	case customErrors.IsNotFound(err), err == nil && p.OwnerID != owner:
		return nil, errProjectHidden
	case err != nil:
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Search(ctx context.Context, owner uuid.UUID, in dto.TaskSearchDTO) ([]model.Task, error) {
	raw := strings.TrimSpace(in.ProjectID)
	if raw == "" {
		return nil, customErrors.NewInvalidArgument("projectId is required")
	}
	projectID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || projectID == 0 {
		return nil, customErrors.NewInvalidArgument("invalid projectId")
	}
	if err := s.authorize(ctx, owner, uint(projectID)); err != nil {
		return nil, err
	}

	return s.tasks.Search(ctx, model.TaskFilter{
		ProjectID: uint(projectID),
		Query:     in.Q,
		Status:    strings.TrimSpace(in.Status),
		Priority:  strings.TrimSpace(in.Priority),
	})
}

func (s *taskService) Dashboard(ctx context.Context, owner uuid.UUID) (model.Dashboard, error) {
	ids, err := s.projects.ListIDsByOwner(ctx, owner)
	if err != nil {
		return model.Dashboard{}, err
	}
	counts, err := s.tasks.CountByStatus(ctx, ids)
	if err != nil {
		return model.Dashboard{}, err
	}

	d := model.Dashboard{
		TotalTasks:   counts.Total,
		Todo:         counts.Pending,
		InProgress:   counts.InProgress,
		Completed:    counts.Done,
		Pending:      counts.Pending + counts.InProgress,
		ProjectCount: len(ids),
	}
	if counts.Total > 0 {
		d.ProgressPercent = int(math.Round(float64(counts.Done) / float64(counts.Total) * 100))
	}
	return d, nil
}

func (s *taskService) Create(ctx context.Context, owner uuid.UUID, in dto.CreateTaskDTO) (model.Task, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Task{}, customErrors.NewInvalidArgument(err.Error())
	}
	if err := s.authorize(ctx, owner, in.ProjectID); err != nil {
		return model.Task{}, err
	}

	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return model.Task{}, err
	}
	t := model.Task{
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      model.StatusPending,
		DueDate:     due,
	}
	if in.Status != nil {
		t.Status = *in.Status
	}

	if err := s.tasks.Create(ctx, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (s *taskService) Update(ctx context.Context, owner uuid.UUID, id uint, in dto.UpdateTaskDTO) (model.Task, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Task{}, customErrors.NewInvalidArgument(err.Error())
	}
	t, err := s.ownedTask(ctx, owner, id)
	if err != nil {
		return model.Task{}, err
	}

	if in.ProjectID != nil && *in.ProjectID != t.ProjectID {
		if err := s.authorize(ctx, owner, *in.ProjectID); err != nil {
			return model.Task{}, err
		}
		t.ProjectID = *in.ProjectID
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.Priority != nil {
		t.Priority = in.Priority
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.DueDate != nil {
		if t.DueDate, err = parseDueDate(in.DueDate); err != nil {
			return model.Task{}, err
		}
	}

	if err := s.tasks.Update(ctx, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (s *taskService) Delete(ctx context.Context, owner uuid.UUID, id uint) error {
	if _, err := s.ownedTask(ctx, owner, id); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) ownedTask(ctx context.Context, owner uuid.UUID, id uint) (model.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := s.authorize(ctx, owner, t.ProjectID); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// authorize fails with not-found for a missing project and forbidden for a
// project owned by someone else.
func (s *taskService) authorize(ctx context.Context, owner uuid.UUID, projectID uint) error {
	p, err := s.projects.GetByID(ctx, projectID, false)
	if err != nil {
		return err
	}
	if p.OwnerID != owner {
		return customErrors.ErrForbidden
	}
	return nil
}

// parseDueDate accepts RFC3339 or a bare date. An empty string clears the date.
func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*raw)
	for _, layout := range []string{time.RFC3339, dateOnly} {
		if ts, err := time.Parse(layout, v); err == nil {
			ts = ts.UTC()
			return &ts, nil
		}
	}
	return nil, customErrors.NewInvalidArgument("invalid dueDate")
}
