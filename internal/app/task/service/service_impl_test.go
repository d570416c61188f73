package service_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/dto"
	appsvc "github.com/Miraines/MoonyAndStarry/task-service/internal/app/task/service"
	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/project/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

/* ──────────────────────────────── stubs ──────────────────────────────── */

type store struct {
	projects map[uint]model.Project
	tasks    map[uint]model.Task
	nextTask uint
}

func newStore() *store {
	return &store{projects: map[uint]model.Project{}, tasks: map[uint]model.Task{}}
}

type projectRepoStub struct{ *store }

func (r projectRepoStub) ListByOwner(_ context.Context, owner uuid.UUID) ([]model.Project, error) {
	out := make([]model.Project, 0)
	for _, p := range r.projects {
		if p.OwnerID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r projectRepoStub) ListIDsByOwner(ctx context.Context, owner uuid.UUID) ([]uint, error) {
	ps, _ := r.ListByOwner(ctx, owner)
	ids := make([]uint, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (r projectRepoStub) GetByID(_ context.Context, id uint, _ bool) (model.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return model.Project{}, customErrors.NewNotFound("project")
	}
	return p, nil
}

func (r projectRepoStub) Create(_ context.Context, p *model.Project) error {
	r.projects[p.ID] = *p
	return nil
}
func (r projectRepoStub) Update(context.Context, *model.Project) error { return nil }
func (r projectRepoStub) Delete(context.Context, uint) error { return nil }

type taskRepoStub struct{ *store }

func (r taskRepoStub) ListByProject(_ context.Context, projectID uint) ([]model.Task, error) {
	return r.Search(context.Background(), model.TaskFilter{ProjectID: projectID})
}

func (r taskRepoStub) Search(_ context.Context, f model.TaskFilter) ([]model.Task, error) {
	out := make([]model.Task, 0)
	for _, t := range r.tasks {
		if t.ProjectID != f.ProjectID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r taskRepoStub) CountByStatus(_ context.Context, ids []uint) (model.StatusCounts, error) {
	var c model.StatusCounts
	for _, t := range r.tasks {
		for _, id := range ids {
			if t.ProjectID != id {
				continue
			}
			c.Total++
			switch t.Status {
			case model.StatusPending:
				c.Pending++
			case model.StatusInProgress:
				c.InProgress++
			case model.StatusDone:
				c.Done++
			}
		}
	}
	return c, nil
}

func (r taskRepoStub) GetByID(_ context.Context, id uint) (model.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, customErrors.NewNotFound("task")
	}
	return t, nil
}

func (r taskRepoStub) Create(_ context.Context, t *model.Task) error {
	r.nextTask++
	t.ID = r.nextTask
	r.tasks[t.ID] = *t
	return nil
}

func (r taskRepoStub) Update(_ context.Context, t *model.Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return customErrors.NewNotFound("task")
	}
	r.tasks[t.ID] = *t
	return nil
}

func (r taskRepoStub) Delete(_ context.Context, id uint) error {
	if _, ok := r.tasks[id]; !ok {
		return customErrors.NewNotFound("task")
	}
	delete(r.tasks, id)
	return nil
}

/* ──────────────────────────────── helpers ──────────────────────────────── */

type fixture struct {
	svc      appsvc.Service
	st       *store
	owner    uuid.UUID
	stranger uuid.UUID
}

// newFixture seeds project 1 for owner and project 2 for stranger.
func newFixture() fixture {
	st := newStore()
	f := fixture{
		svc:      appsvc.New(projectRepoStub{st}, taskRepoStub{st}, validator.New()),
		st:       st,
		owner:    uuid.New(),
		stranger: uuid.New(),
	}
	st.projects[1] = model.Project{ID: 1, OwnerID: f.owner, Title: "mine"}
	st.projects[2] = model.Project{ID: 2, OwnerID: f.stranger, Title: "theirs"}
	return f
}

func ptr[T any](v T) *T { return &v }

/* ──────────────────────────────── tests ──────────────────────────────── */

func TestTaskService_CreateDefaultsAndDueDate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 1, Title: "a"})
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, task.Status)
	require.Nil(t, task.DueDate)

	task, err = f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 1, Title: "b", DueDate: ptr("2030-05-06")})
	require.NoError(t, err)
	require.Equal(t, time.Date(2030, 5, 6, 0, 0, 0, 0, time.UTC), *task.DueDate)

	task, err = f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 1, Title: "c", DueDate: ptr("2030-05-06T10:00:00+02:00"), Status: ptr("done")})
	require.NoError(t, err)
	require.Equal(t, time.Date(2030, 5, 6, 8, 0, 0, 0, time.UTC), *task.DueDate)
	require.Equal(t, model.StatusDone, task.Status)

	_, err = f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 1, Title: "d", DueDate: ptr("next week")})
	require.True(t, customErrors.IsInvalidArgument(err))
}

func TestTaskService_CreateValidationAndOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 1})
	require.True(t, customErrors.IsInvalidArgument(err))

	_, err = f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 1, Title: "x", Status: ptr("archived")})
	require.True(t, customErrors.IsInvalidArgument(err))

	_, err = f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 2, Title: "x"})
	require.True(t, customErrors.IsForbidden(err))

	_, err = f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 99, Title: "x"})
	require.True(t, customErrors.IsNotFound(err))
}

func TestTaskService_ListByProjectHidesForeignProjects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 1, Title: "a"})
	require.NoError(t, err)

	tasks, err := f.svc.ListByProject(ctx, f.owner, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	for _, id := range []uint{2, 99} {
		_, err = f.svc.ListByProject(ctx, f.owner, id)
		require.True(t, customErrors.IsNotFound(err))
		require.EqualError(t, err, "project not found or access denied")
	}
}

func TestTaskService_Search(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for _, title := range []string{"Write report", "Read REPORT", "Lunch"} {
		_, err := f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 1, Title: title})
		require.NoError(t, err)
	}

	found, err := f.svc.Search(ctx, f.owner, dto.TaskSearchDTO{ProjectID: "1", Q: "report"})
	require.NoError(t, err)
	require.Len(t, found, 2)

	_, err = f.svc.Search(ctx, f.owner, dto.TaskSearchDTO{})
	require.EqualError(t, err, "invalid argument: projectId is required")
	_, err = f.svc.Search(ctx, f.owner, dto.TaskSearchDTO{ProjectID: "abc"})
	require.EqualError(t, err, "invalid argument: invalid projectId")
	_, err = f.svc.Search(ctx, f.owner, dto.TaskSearchDTO{ProjectID: "2"})
	require.True(t, customErrors.IsForbidden(err))
	_, err = f.svc.Search(ctx, f.owner, dto.TaskSearchDTO{ProjectID: "42"})
	require.True(t, customErrors.IsNotFound(err))
}

func TestTaskService_Dashboard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	d, err := f.svc.Dashboard(ctx, f.owner)
	require.NoError(t, err)
	require.Equal(t, model.Dashboard{ProjectCount: 1}, d)

	for _, st := range []string{"pending", "inprogress", "done"} {
		_, err := f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 1, Title: st, Status: ptr(st)})
		require.NoError(t, err)
	}
	f.st.tasks[100] = model.Task{ID: 100, ProjectID: 2, Status: model.StatusDone}

	d, err = f.svc.Dashboard(ctx, f.owner)
	require.NoError(t, err)
	require.Equal(t, model.Dashboard{
		TotalTasks:      3,
		Todo:            1,
		InProgress:      1,
		Completed:       1,
		Pending:         2,
		ProgressPercent: 33,
		ProjectCount:    1,
	}, d)
}

func TestTaskService_UpdatePartialAndMove(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.st.projects[3] = model.Project{ID: 3, OwnerID: f.owner, Title: "second"}

	task, err := f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 1, Title: "a", Description: ptr("d"), DueDate: ptr("2030-01-01")})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, f.owner, task.ID, dto.UpdateTaskDTO{Status: ptr("inprogress")})
	require.NoError(t, err)
	require.Equal(t, "a", updated.Title)
	require.Equal(t, "d", *updated.Description)
	require.Equal(t, model.StatusInProgress, updated.Status)
	require.NotNil(t, updated.DueDate)

	updated, err = f.svc.Update(ctx, f.owner, task.ID, dto.UpdateTaskDTO{ProjectID: ptr(uint(3)), DueDate: ptr("")})
	require.NoError(t, err)
	require.Equal(t, uint(3), updated.ProjectID)
	require.Nil(t, updated.DueDate)

	_, err = f.svc.Update(ctx, f.owner, task.ID, dto.UpdateTaskDTO{ProjectID: ptr(uint(2))})
	require.True(t, customErrors.IsForbidden(err))
	require.Equal(t, uint(3), f.st.tasks[task.ID].ProjectID)

	_, err = f.svc.Update(ctx, f.stranger, task.ID, dto.UpdateTaskDTO{Title: ptr("mine now")})
	require.True(t, customErrors.IsForbidden(err))

	_, err = f.svc.Update(ctx, f.owner, 999, dto.UpdateTaskDTO{Title: ptr("x")})
	require.EqualError(t, err, "task not found")

	_, err = f.svc.Update(ctx, f.owner, task.ID, dto.UpdateTaskDTO{Status: ptr("later")})
	require.True(t, customErrors.IsInvalidArgument(err))
}

func TestTaskService_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	task, err := f.svc.Create(ctx, f.owner, dto.CreateTaskDTO{ProjectID: 1, Title: "a"})
	require.NoError(t, err)

	require.True(t, customErrors.IsForbidden(f.svc.Delete(ctx, f.stranger, task.ID)))
	require.NoError(t, f.svc.Delete(ctx, f.owner, task.ID))
	require.True(t, customErrors.IsNotFound(f.svc.Delete(ctx, f.owner, task.ID)))
}
