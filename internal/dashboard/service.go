// Package dashboard assembles the user's activity summary from note
// creation history.
package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/noteforge/noteforge/internal/activity"
)

// Store is the persistence surface the dashboard needs.
type Store interface {
	CountNotes(ctx context.Context, userID int64) (int64, error)
	CountNotesBetween(ctx context.Context, userID int64, from, to time.Time) (int64, error)
	ListCreationTimes(ctx context.Context, userID int64) ([]time.Time, error)
}

// Service computes dashboard summaries.
type Service struct {
	store Store

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a dashboard service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Summary is the dashboard payload: lifetime and current-month note
// counts, the consecutive-day writing streak, and a per-day activity
// heat map over a calendar year.
type Summary struct {
	UserID            int64           `json:"userId"`
	TotalNotes        int64           `json:"totalNotes"`
	ThisMonthNotes    int64           `json:"thisMonthNotes"`
	CurrentStreakDays int             `json:"currentStreakDays"`
	Activity          []activity.Item `json:"activity"`
}

// Summarize builds the dashboard for a user. The heat map covers the
// given calendar year; zero means the current UTC year. The three
// queries are independent and run concurrently.
func (s *Service) Summarize(ctx context.Context, userID int64, year int) (*Summary, error) {
	now := s.now().UTC()
	if year == 0 {
		year = now.Year()
	}
	monthFrom, monthTo := activity.MonthBounds(now)
	yearFrom, yearTo := activity.YearWindow(year)

	summary := &Summary{UserID: userID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.store.CountNotes(gctx, userID)
		summary.TotalNotes = total
		return err
	})
	g.Go(func() error {
		month, err := s.store.CountNotesBetween(gctx, userID, monthFrom, monthTo)
		summary.ThisMonthNotes = month
		return err
	})
	g.Go(func() error {
		times, err := s.store.ListCreationTimes(gctx, userID)
		if err != nil {
			return err
		}
		summary.CurrentStreakDays = activity.CurrentStreak(times)
		summary.Activity = activity.PerDay(times, yearFrom, yearTo)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
