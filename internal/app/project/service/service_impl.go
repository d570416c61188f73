package service

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/project/model"
	repo "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/project/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Service interface {
	List(ctx context.Context, owner uuid.UUID) ([]model.Project, error)
	Create(ctx context.Context, owner uuid.UUID, in dto.ProjectDTO) (model.Project, error)
	Get(ctx context.Context, owner uuid.UUID, id uint) (model.Project, error)
	Update(ctx context.Context, owner uuid.UUID, id uint, in dto.ProjectDTO) (model.Project, error)
	// Delete removes the project and every task in it.
	Delete(ctx context.Context, owner uuid.UUID, id uint) error
}

type projectService struct {
	projects repo.ProjectRepo
	v        *validator.Validate
}

func New(pr repo.ProjectRepo, v *validator.Validate) Service {
	return &projectService{projects: pr, v: v}
}

func (s *projectService) List(ctx context.Context, owner uuid.UUID) ([]model.Project, error) {
	projects, err := s.projects.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].Tasks == nil {
			projects[i].Tasks = []model.Task{}
		}
	}
	return projects, nil
}

func (s *projectService) Create(ctx context.Context, owner uuid.UUID, in dto.ProjectDTO) (model.Project, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Project{}, customErrors.NewInvalidArgument(err.Error())
	}
	p := model.Project{OwnerID: owner, Title: in.Title, Description: in.Description, Tasks: []model.Task{}}
	if err := s.projects.Create(ctx, &p); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

func (s *projectService) Get(ctx context.Context, owner uuid.UUID, id uint) (model.Project, error) {
	return s.owned(ctx, owner, id, true)
}

func (s *projectService) Update(ctx context.Context, owner uuid.UUID, id uint, in dto.ProjectDTO) (model.Project, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Project{}, customErrors.NewInvalidArgument(err.Error())
	}
	if _, err := s.owned(ctx, owner, id, false); err != nil {
		return model.Project{}, err
	}

	if err := s.projects.Update(ctx, &model.Project{ID: id, Title: in.Title, Description: in.Description}); err != nil {
		return model.Project{}, err
	}
	return s.owned(ctx, owner, id, true)
}

func (s *projectService) Delete(ctx context.Context, owner uuid.UUID, id uint) error {
	if _, err := s.owned(ctx, owner, id, false); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}

// owned loads a project and checks that owner may touch it.
func (s *projectService) owned(ctx context.Context, owner uuid.UUID, id uint, withTasks bool) (model.Project, error) {
	p, err := s.projects.GetByID(ctx, id, withTasks)
	switch {
	case customErrors.IsNotFound(err):
		return model.Project{}, customErrors.NewNotFound("project")
	case err != nil:
		return model.Project{}, err
	case p.OwnerID != owner:
		return model.Project{}, customErrors.ErrForbidden
	}
	if p.Tasks == nil {
		p.Tasks = []model.Task{}
	}
	return p, nil
}
