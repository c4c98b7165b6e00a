package database

import (
	"context"
	"sync"
	"testing"

	"schedulsy-api/internal/models"
	"schedulsy-api/internal/testutil"
	"schedulsy-api/internal/tracker"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestTaskRepository_StoreScenario(t *testing.T) {
	ctx := context.Background()
	store := tracker.NewStore(NewTaskRepository(newTestDB(t), "sess-1"))

	first, err := store.Add(ctx, "Write report")
	require.NoError(t, err)
	_, err = store.Add(ctx, "Call client")
	require.NoError(t, err)
	toggled, err := store.ToggleCompletion(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, toggled.Status)

	m, err := store.Metrics(ctx)
	require.NoError(t, err)
	require.Equal(t, tracker.Metrics{TotalCount: 2, CompletedCount: 1, PendingCount: 1, CompletionPercentage: 50}, m)

	tasks, err := store.Tasks(ctx)
	require.NoError(t, err)
	require.Equal(t, "Write report", tasks[0].Title)
	require.Equal(t, "Call client", tasks[1].Title)
}

func TestTaskRepository_ValidationLeavesTableUntouched(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := tracker.NewStore(NewTaskRepository(db, "sess-1"))

	_, err := store.Add(ctx, "   ")
	require.ErrorIs(t, err, tracker.ErrValidation)

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestTaskRepository_ToggleUnknownID(t *testing.T) {
	ctx := context.Background()
	store := tracker.NewStore(NewTaskRepository(newTestDB(t), "sess-1"))
	task, err := store.Add(ctx, "Write report")
	require.NoError(t, err)

	_, err = store.ToggleCompletion(ctx, "nonexistent")
	require.ErrorIs(t, err, tracker.ErrNotFound)

	got, err := store.Task(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, task, got)
}

func TestTaskRepository_ScopesBySession(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mine := tracker.NewStore(NewTaskRepository(db, "sess-1"))
	theirs := tracker.NewStore(NewTaskRepository(db, "sess-2"))

	task, err := mine.Add(ctx, "Write report")
	require.NoError(t, err)

	_, err = theirs.ToggleCompletion(ctx, task.ID)
	require.ErrorIs(t, err, tracker.ErrNotFound)
	require.ErrorIs(t, theirs.Remove(ctx, task.ID), tracker.ErrNotFound)

	tasks, err := theirs.Tasks(ctx)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestTaskRepository_RemoveAndOrder(t *testing.T) {
	ctx := context.Background()
	store := tracker.NewStore(NewTaskRepository(newTestDB(t), "sess-1"))
	a, _ := store.Add(ctx, "a")
	b, _ := store.Add(ctx, "b")
	c, _ := store.Add(ctx, "c")

	require.NoError(t, store.Remove(ctx, b.ID))
	d, err := store.Add(ctx, "d")
	require.NoError(t, err)

	tasks, err := store.Tasks(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{a.ID, c.ID, d.ID}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestTaskRepository_PreservesOptionalFields(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestDB(t), "sess-1")
	desc := "quarterly numbers"
	minutes := 90
	_, err := repo.Append(ctx, models.Task{
		ID:                "t-1",
		Title:             "Write report",
		Description:       &desc,
		Status:            models.StatusInProgress,
		Priority:          models.PriorityUrgent,
		EstimatedDuration: &minutes,
	})
	require.NoError(t, err)

	got, err := tracker.NewStore(repo).ToggleCompletion(ctx, "t-1")
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, got.Status)
	require.Equal(t, models.PriorityUrgent, got.Priority)
	require.Equal(t, "quarterly numbers", *got.Description)
	require.Equal(t, 90, *got.EstimatedDuration)
	require.Nil(t, got.DueDate)
}

func TestTaskRepository_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestDB(t), "sess-1")

	_, err := repo.Append(ctx, models.Task{ID: "t-1", Title: "x", Status: "done", Priority: models.PriorityMedium})
	require.Error(t, err)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestTaskRepository_ConcurrentToggles(t *testing.T) {
	ctx := context.Background()
	store := tracker.NewStore(NewTaskRepository(newTestDB(t), "sess-1"))
	task, err := store.Add(ctx, "Write report")
	require.NoError(t, err)

	errs := make(chan error, 100)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := store.ToggleCompletion(ctx, task.ID); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := store.Task(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, got.Status)
}

func TestTaskRepository_DiscardDropsOnlyItsSession(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mine := NewTaskRepository(db, "sess-1")
	theirs := NewTaskRepository(db, "sess-2")

	_, err := tracker.NewStore(mine).Add(ctx, "mine")
	require.NoError(t, err)
	_, err = tracker.NewStore(theirs).Add(ctx, "theirs")
	require.NoError(t, err)

	require.NoError(t, mine.Discard(ctx))

	left, err := mine.List(ctx)
	require.NoError(t, err)
	require.Empty(t, left)
	other, err := theirs.List(ctx)
	require.NoError(t, err)
	require.Len(t, other, 1)
}

func TestTaskRepository_ManagerCloseDiscardsRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	stores := tracker.NewManager(NewTaskBackendFactory(db), 0)

	_, err := stores.Open("sess-1").Add(ctx, "Write report")
	require.NoError(t, err)
	stores.Close("sess-1")

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Where("session_id = ?", "sess-1").Count(&count).Error)
	require.Zero(t, count)
}
