package cli

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
)

// ResolveHabit finds a habit by id, unique id prefix, or case-insensitive title.
// Inactive habits are included so they can be restored or inspected.
func (c *Context) ResolveHabit(ctx context.Context, ref string) (models.HabitSummary, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.HabitSummary{}, apperrors.Invalid("habit", "is required")
	}

	all, err := c.Habits.List(ctx, c.Owner, true)
	if err != nil {
		return models.HabitSummary{}, err
	}

	var byTitle, byPrefix []models.HabitSummary
	for _, h := range all {
		if h.ID == ref {
			return h, nil
		}
		if strings.EqualFold(h.Title, ref) {
			byTitle = append(byTitle, h)
		}
		if strings.HasPrefix(h.ID, ref) {
			byPrefix = append(byPrefix, h)
		}
	}

	for _, matches := range [][]models.HabitSummary{byTitle, byPrefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return models.HabitSummary{}, fmt.Errorf("%q matches %d habits, use the habit id instead", ref, len(matches))
		}
	}
	return models.HabitSummary{}, apperrors.NotFound("habit", ref)
}

// ShortID is the id prefix shown in listings
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
