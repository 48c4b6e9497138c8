package projector

import (
	"sort"
	"time"

	"github.com/abira1/Toi-Task/internal/models"
)

// Completed tasks drop out of the visible feed once they have been
// done for this long.
const completedVisibleFor = 12 * time.Hour

// VisibleToday filters the derived list down to the home feed: tasks
// created on the current calendar day, minus completed tasks whose
// completion is older than twelve hours.
func VisibleToday(tasks []models.Task, now time.Time) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !sameDay(t.CreatedAt, now) {
			continue
		}
		if t.Completed && t.CompletedAt != nil && now.Sub(*t.CompletedAt) > completedVisibleFor {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortForHome orders the feed for display: incomplete first, then
// newest first within each group.
func SortForHome(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
