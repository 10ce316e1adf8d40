package chore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/week"
)

// Summary tallies one week of chores.
type Summary struct {
	Total            int             `json:"total"`
	Pending          int             `json:"pending"`
	AwaitingApproval int             `json:"awaiting_approval"`
	Approved         int             `json:"approved"`
	Rejected         int             `json:"rejected"`
	Earned           decimal.Decimal `json:"earned"`
	Potential        decimal.Decimal `json:"potential"`
	// Progress is the percentage of chores done (awaiting approval or
	// approved), rounded to the nearest whole number.
	Progress int `json:"progress"`
}

func Summarize(chores []model.WeeklyChore) Summary {
	s := Summary{Total: len(chores), Earned: decimal.Zero, Potential: decimal.Zero}
	for _, c := range chores {
		switch c.Status {
		case model.ChorePending:
			s.Pending++
		case model.ChoreAwaitingApproval:
			s.AwaitingApproval++
		case model.ChoreApproved:
			s.Approved++
			s.Earned = s.Earned.Add(c.Value)
		case model.ChoreRejected:
			s.Rejected++
		}
		s.Potential = s.Potential.Add(c.Value)
	}
	if s.Total > 0 {
		done := decimal.NewFromInt(int64(s.Approved + s.AwaitingApproval))
		s.Progress = int(done.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(s.Total))).Round(0).IntPart())
	}
	return s
}

// DueOn reports whether a chore restricted to days is scheduled on t's
// weekday. Chores without a day restriction are due every day.
func DueOn(days model.Weekdays, t time.Time) bool {
	return days.Contains(week.DayIndex(t))
}

// DueToday filters chores still pending that are scheduled on today's
// weekday.
func DueToday(chores []model.WeeklyChore, today time.Time) []model.WeeklyChore {
	var out []model.WeeklyChore
	for _, c := range chores {
		if c.Status == model.ChorePending && DueOn(c.DaysOfWeek, today) {
			out = append(out, c)
		}
	}
	return out
}
