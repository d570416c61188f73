package postgres

import (
	"context"
	"testing"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/project/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T, repo *PostgresProjectRepo, owner uuid.UUID, title string) *model.Project {
	t.Helper()
	p := &model.Project{OwnerID: owner, Title: title}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPostgresTaskRepo_CreateDefaultsStatus(t *testing.T) {
	db := setupDB(t)
	p := seedProject(t, NewPostgresProjectRepo(db), uuid.New(), "P")
	tasks := NewPostgresTaskRepo(db)

	task := &model.Task{ProjectID: p.ID, Title: "no status"}
	require.NoError(t, tasks.Create(context.Background(), task))
	require.Equal(t, model.StatusPending, task.Status)

	got, err := tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, got.Status)
}

func TestPostgresTaskRepo_Search(t *testing.T) {
	db := setupDB(t)
	p := seedProject(t, NewPostgresProjectRepo(db), uuid.New(), "P")
	other := seedProject(t, NewPostgresProjectRepo(db), uuid.New(), "Other")
	tasks := NewPostgresTaskRepo(db)
	ctx := context.Background()

	high := "high"
	for _, task := range []*model.Task{
		{ProjectID: p.ID, Title: "Write REPORT", Status: model.StatusPending, Priority: &high},
		{ProjectID: p.ID, Title: "Review", Description: strPtr("the quarterly report"), Status: model.StatusDone},
		{ProjectID: p.ID, Title: "100% done", Status: model.StatusInProgress},
		{ProjectID: other.ID, Title: "report elsewhere"},
	} {
		require.NoError(t, tasks.Create(ctx, task))
	}

	found, err := tasks.Search(ctx, model.TaskFilter{ProjectID: p.ID, Query: "report"})
	require.NoError(t, err)
	require.Len(t, found, 2)

	found, err = tasks.Search(ctx, model.TaskFilter{ProjectID: p.ID, Query: "Report", Status: model.StatusDone})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Review", found[0].Title)

	found, err = tasks.Search(ctx, model.TaskFilter{ProjectID: p.ID, Priority: "high"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	// wildcards in the query are matched literally
	found, err = tasks.Search(ctx, model.TaskFilter{ProjectID: p.ID, Query: "%"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "100% done", found[0].Title)

	found, err = tasks.Search(ctx, model.TaskFilter{ProjectID: p.ID})
	require.NoError(t, err)
	require.Len(t, found, 3)

	found, err = tasks.Search(ctx, model.TaskFilter{ProjectID: p.ID, Query: "   "})
	require.NoError(t, err)
	require.Len(t, found, 3, "blank query is ignored")
}

func TestPostgresTaskRepo_SearchKeepsSurroundingSpaces(t *testing.T) {
	db := setupDB(t)
	p := seedProject(t, NewPostgresProjectRepo(db), uuid.New(), "P")
	tasks := NewPostgresTaskRepo(db)
	ctx := context.Background()

	require.NoError(t, tasks.Create(ctx, &model.Task{ProjectID: p.ID, Title: "Write docs"}))
	require.NoError(t, tasks.Create(ctx, &model.Task{ProjectID: p.ID, Title: "docs first"}))

	found, err := tasks.Search(ctx, model.TaskFilter{ProjectID: p.ID, Query: " docs"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Write docs", found[0].Title)
}

func TestPostgresTaskRepo_CountByStatus(t *testing.T) {
	db := setupDB(t)
	projects := NewPostgresProjectRepo(db)
	a := seedProject(t, projects, uuid.New(), "A")
	b := seedProject(t, projects, uuid.New(), "B")
	tasks := NewPostgresTaskRepo(db)
	ctx := context.Background()

	for _, task := range []*model.Task{
		{ProjectID: a.ID, Title: "1"},
		{ProjectID: a.ID, Title: "2", Status: model.StatusDone},
		{ProjectID: b.ID, Title: "3", Status: model.StatusInProgress},
		{ProjectID: b.ID, Title: "4", Status: model.StatusDone},
	} {
		require.NoError(t, tasks.Create(ctx, task))
	}

	counts, err := tasks.CountByStatus(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	require.Equal(t, model.StatusCounts{Total: 4, Pending: 1, InProgress: 1, Done: 2}, counts)

	counts, err = tasks.CountByStatus(ctx, []uint{a.ID})
	require.NoError(t, err)
	require.Equal(t, model.StatusCounts{Total: 2, Pending: 1, Done: 1}, counts)

	counts, err = tasks.CountByStatus(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, counts.Total)
}

func TestPostgresTaskRepo_UpdateAndDelete(t *testing.T) {
	db := setupDB(t)
	projects := NewPostgresProjectRepo(db)
	a := seedProject(t, projects, uuid.New(), "A")
	b := seedProject(t, projects, uuid.New(), "B")
	tasks := NewPostgresTaskRepo(db)
	ctx := context.Background()

	task := &model.Task{ProjectID: a.ID, Title: "draft", Description: strPtr("d")}
	require.NoError(t, tasks.Create(ctx, task))

	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	task.Title = "final"
	task.Status = model.StatusDone
	task.ProjectID = b.ID
	task.Description = nil
	task.DueDate = &due
	require.NoError(t, tasks.Update(ctx, task))

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, "final", got.Title)
	require.Equal(t, model.StatusDone, got.Status)
	require.Equal(t, b.ID, got.ProjectID)
	require.Nil(t, got.Description)
	require.NotNil(t, got.DueDate)
	require.True(t, due.Equal(*got.DueDate))

	require.NoError(t, tasks.Delete(ctx, task.ID))
	require.True(t, customErrors.IsNotFound(tasks.Delete(ctx, task.ID)))
	require.True(t, customErrors.IsNotFound(tasks.Update(ctx, &model.Task{ID: task.ID, Title: "ghost", Status: model.StatusPending})))
}
