package holiday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxParallelYears bounds concurrent source requests during an import.
const maxParallelYears = 3

// ImportSummary describes the outcome of an import run.
type ImportSummary struct {
	Added       int
	Duplicates  int
	Skipped     int
	FailedYears map[int]error
}

// Service orchestrates fetching holidays from a source and adding them to a collection.
type Service struct {
	collection Collection
	source     Source
	logger     *slog.Logger
}

// NewService creates a new import Service.
func NewService(collection Collection, source Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		collection: collection,
		source:     source,
		logger:     logger,
	}
}

type yearResult struct {
	year    int
	records []Record
	err     error
}

// Import fetches every year from the source concurrently and adds the results to the
// collection in year order. A failing year is logged and recorded in the summary;
// the remaining years are still imported.
func (s *Service) Import(ctx context.Context, years []int) (ImportSummary, error) {
	summary := ImportSummary{FailedYears: make(map[int]error)}
	if s.source == nil {
		return summary, errors.New("no holiday source configured")
	}

	results := make([]yearResult, len(years))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelYears)
	for i, year := range years {
		g.Go(func() error {
			records, err := s.source.Holidays(gctx, year)
			results[i] = yearResult{year: year, records: records, err: err}
			// Per-year failures are collected, never propagated.
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		if res.err != nil {
			err := res.err
			if !errors.Is(err, ErrExternal) {
				err = fmt.Errorf("%w: %v", ErrExternal, err)
			}
			s.logger.Warn("holiday import failed for year", "source", s.source.Name(), "year", res.year, "error", err)
			summary.FailedYears[res.year] = err
			continue
		}

		for _, rec := range res.records {
			added, err := s.collection.Add(rec)
			switch {
			case err != nil:
				s.logger.Debug("skipping malformed holiday", "source", s.source.Name(), "year", res.year, "error", err)
				summary.Skipped++
			case added:
				s.logger.Debug("holiday added", "name", rec.Name, "date", rec.DateString())
				summary.Added++
			default:
				summary.Duplicates++
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	s.logger.Info("holiday import completed",
		"source", s.source.Name(),
		"added", summary.Added,
		"duplicates", summary.Duplicates,
		"failed_years", len(summary.FailedYears),
	)
	return summary, nil
}

// YearWindow returns the calendar years from now.Year()-back to now.Year()+ahead inclusive.
func YearWindow(now time.Time, back, ahead int) []int {
	if back < 0 {
		back = 0
	}
	if ahead < 0 {
		ahead = 0
	}
	years := make([]int, 0, back+ahead+1)
	for y := now.Year() - back; y <= now.Year()+ahead; y++ {
		years = append(years, y)
	}
	return years
}
