package chore

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/week"
)

// EnsureWeek creates one pending instance for every active template of the
// family that has no instance in the week starting at weekStart. The
// assignee is copied from the template, so later reassignment leaves
// existing instances alone. Calling it again for the same week creates
// nothing; a concurrent caller that wins the insert race is counted by that
// caller only.
func (s *Service) EnsureWeek(ctx context.Context, familyID string, weekStart time.Time) (int, error) {
	ws := s.weeks.Normalize(weekStart)

	templates, err := s.store.ListActiveTemplates(ctx, familyID)
	if err != nil {
		return 0, fmt.Errorf("ensure week: %w", err)
	}
	if len(templates) == 0 {
		return 0, nil
	}

	existing, err := s.store.InstanceTemplateIDs(ctx, familyID, ws, week.End(ws))
	if err != nil {
		return 0, fmt.Errorf("ensure week: %w", err)
	}

	created := 0
	now := s.now()
	for _, t := range templates {
		if _, ok := existing[t.ID]; ok {
			continue
		}
		ok, err := s.store.InsertInstance(ctx, &model.ChoreInstance{
			ID:           s.ids(),
			FamilyID:     familyID,
			TemplateID:   t.ID,
			AssignedToID: t.AssignedToID,
			WeekStart:    ws,
			Status:       model.ChorePending,
			CreatedAt:    now,
		})
		if err != nil {
			return created, fmt.Errorf("ensure week: %w", err)
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		s.metrics.Materialized(created)
		s.logger.Info("materialized chores", "family_id", familyID, "week", ws.Format("2006-01-02"), "created", created)
	}
	return created, nil
}
