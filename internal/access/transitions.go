package access

import "github.com/hearthhub/hearthhub/internal/models"

// statusTransitions is the allowed status transition table, kept as data
// so policy can be tightened without touching call sites. Every transition
// is currently permitted, including re-opening completed items and
// re-entering the same status.
var statusTransitions = map[models.Status][]models.Status{
	models.StatusPending:    {models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusCancelled},
	models.StatusInProgress: {models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted:  {models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusCancelled},
	models.StatusCancelled:  {models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusCancelled},
}

// CanTransition reports whether a todo may move from one status to another.
func CanTransition(from, to models.Status) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
