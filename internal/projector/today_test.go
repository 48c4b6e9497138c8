package projector

import (
	"testing"
	"time"

	"github.com/abira1/Toi-Task/internal/models"
	"github.com/stretchr/testify/require"
)

func TestVisibleToday_ExcludesStaleCompleted(t *testing.T) {
	// Noon keeps the whole scenario inside one calendar day.
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	staleCompletion := now.Add(-13 * time.Hour)

	tasks := []models.Task{
		{
			ID:          "stale-done",
			CreatedAt:   now.Add(-time.Hour),
			Completed:   true,
			CompletedAt: &staleCompletion,
		},
		{
			ID:        "still-open",
			CreatedAt: now.Add(-2 * time.Hour),
		},
	}

	visible := VisibleToday(tasks, now)
	require.Len(t, visible, 1)
	require.Equal(t, "still-open", visible[0].ID)
}

func TestVisibleToday_KeepsRecentlyCompleted(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)

	tasks := []models.Task{
		{ID: "fresh-done", CreatedAt: now.Add(-3 * time.Hour), Completed: true, CompletedAt: &recent},
	}
	require.Len(t, VisibleToday(tasks, now), 1)
}

func TestVisibleToday_ExcludesOtherDays(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{ID: "yesterday", CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "today", CreatedAt: now.Add(-time.Hour)},
	}

	visible := VisibleToday(tasks, now)
	require.Len(t, visible, 1)
	require.Equal(t, "today", visible[0].ID)
}

func TestSortForHome_IncompleteFirstThenNewest(t *testing.T) {
	now := time.Now()
	done := now.Add(-time.Minute)

	tasks := []models.Task{
		{ID: "done-new", CreatedAt: now, Completed: true, CompletedAt: &done},
		{ID: "open-old", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "open-new", CreatedAt: now.Add(-time.Hour)},
	}

	sorted := SortForHome(tasks)
	require.Equal(t, "open-new", sorted[0].ID)
	require.Equal(t, "open-old", sorted[1].ID)
	require.Equal(t, "done-new", sorted[2].ID)
}
