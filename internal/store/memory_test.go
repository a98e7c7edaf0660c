package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/i474232898/holiday-planner/internal/holiday"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(name string, date time.Time) holiday.Record {
	return holiday.Record{Name: name, Date: date}
}

func names(records []holiday.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestAdd_DeduplicatesExactNameAndDate(t *testing.T) {
	s := NewHolidayStore()

	added, err := s.Add(rec("Christmas", day(2022, 12, 25)))
	if err != nil || !added {
		t.Fatalf("first Add() = %v, %v", added, err)
	}

	added, err = s.Add(rec("Christmas", day(2022, 12, 25)))
	if err != nil {
		t.Fatalf("unexpected error on duplicate: %v", err)
	}
	if added {
		t.Error("expected duplicate to be reported as already present")
	}
	if s.Count() != 1 {
		t.Errorf("expected count 1, got %d", s.Count())
	}

	// Different case or different day is a different holiday.
	if added, _ := s.Add(rec("christmas", day(2022, 12, 25))); !added {
		t.Error("expected case-sensitive identity")
	}
	if added, _ := s.Add(rec("Christmas", day(2023, 12, 25))); !added {
		t.Error("expected different date to be a new record")
	}
	if s.Count() != 3 {
		t.Errorf("expected count 3, got %d", s.Count())
	}
}

func TestAdd_NormalizesTimeOfDay(t *testing.T) {
	s := NewHolidayStore()
	if _, err := s.Add(rec("Christmas", time.Date(2022, 12, 25, 9, 15, 0, 0, time.UTC))); err != nil {
		t.Fatal(err)
	}
	if added, _ := s.Add(rec("Christmas", day(2022, 12, 25))); added {
		t.Error("expected same calendar day to be a duplicate")
	}
}

func TestAdd_RejectsMalformed(t *testing.T) {
	s := NewHolidayStore()

	if _, err := s.Add(rec("", day(2022, 12, 25))); !errors.Is(err, holiday.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank name, got %v", err)
	}
	if _, err := s.Add(rec("Christmas", time.Time{})); !errors.Is(err, holiday.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero date, got %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("expected empty store, got %d", s.Count())
	}
}

func TestFind(t *testing.T) {
	s := NewHolidayStore()
	_, _ = s.Add(rec("Christmas", day(2022, 12, 25)))

	got, err := s.Find("Christmas", day(2022, 12, 25))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Christmas" || got.DateString() != "2022-12-25" {
		t.Errorf("Find() = %+v", got)
	}

	if _, err := s.Find("Christmas", day(2022, 12, 26)); !errors.Is(err, holiday.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Find("Xmas", day(2022, 12, 25)); !errors.Is(err, holiday.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	s := NewHolidayStore()
	_, _ = s.Add(rec("Christmas", day(2022, 12, 25)))

	if err := s.Remove("Christmas", day(2022, 12, 26)); !errors.Is(err, holiday.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.Count() != 1 {
		t.Fatalf("expected count unchanged, got %d", s.Count())
	}

	if err := s.Remove("Christmas", day(2022, 12, 25)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("expected count 0, got %d", s.Count())
	}
	if _, err := s.Find("Christmas", day(2022, 12, 25)); !errors.Is(err, holiday.ErrNotFound) {
		t.Errorf("expected removed record to be gone, got %v", err)
	}
}

func TestRemove_LastMatchWins(t *testing.T) {
	s := NewHolidayStore()
	// Duplicates cannot come through Add; seed them directly.
	s.records = []holiday.Record{
		rec("Christmas", day(2022, 12, 25)),
		rec("Boxing Day", day(2022, 12, 26)),
		rec("Christmas", day(2022, 12, 25)),
		rec("New Year's Eve", day(2022, 12, 31)),
	}

	if err := s.Remove("Christmas", day(2022, 12, 25)); err != nil {
		t.Fatal(err)
	}

	want := []string{"Christmas", "Boxing Day", "New Year's Eve"}
	if diff := cmp.Diff(want, names(s.All())); diff != "" {
		t.Errorf("unexpected records after remove (-want +got):\n%s", diff)
	}
}

func TestReplace(t *testing.T) {
	s := NewHolidayStore()
	_, _ = s.Add(rec("Xmas", day(2022, 12, 25)))
	_, _ = s.Add(rec("Boxing Day", day(2022, 12, 26)))

	if err := s.Replace("Xmas", day(2022, 12, 25), rec("Christmas", day(2022, 12, 25))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Christmas", "Boxing Day"}, names(s.All())); diff != "" {
		t.Errorf("replace should keep position (-want +got):\n%s", diff)
	}

	err := s.Replace("Christmas", day(2022, 12, 25), rec("Boxing Day", day(2022, 12, 26)))
	if !errors.Is(err, holiday.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	err = s.Replace("Missing", day(2022, 1, 1), rec("Anything", day(2022, 1, 1)))
	if !errors.Is(err, holiday.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Replacing a record with itself is not a conflict.
	if err := s.Replace("Boxing Day", day(2022, 12, 26), rec("Boxing Day", day(2022, 12, 26))); err != nil {
		t.Errorf("unexpected error on self-replace: %v", err)
	}
	if s.Count() != 2 {
		t.Errorf("expected count 2, got %d", s.Count())
	}
}

func TestFilterByWeek_ISOBoundaries(t *testing.T) {
	s := NewHolidayStore()
	_, _ = s.Add(rec("New Year's Day", day(2022, 1, 1))) // ISO 2021-W52
	_, _ = s.Add(rec("MLK Day", day(2022, 1, 17)))       // ISO 2022-W03

	got, err := s.FilterByWeek(2022, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected week 1 of 2022 to be empty, got %v", names(got))
	}

	got, _ = s.FilterByWeek(2022, 3)
	if diff := cmp.Diff([]string{"MLK Day"}, names(got)); diff != "" {
		t.Errorf("week 3 mismatch (-want +got):\n%s", diff)
	}

	got, _ = s.FilterByWeek(2021, 52)
	if diff := cmp.Diff([]string{"New Year's Day"}, names(got)); diff != "" {
		t.Errorf("week 52 of 2021 mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterByWeek_PreservesOrderAndWeek53(t *testing.T) {
	s := NewHolidayStore()
	_, _ = s.Add(rec("New Year's Eve", day(2020, 12, 31)))
	_, _ = s.Add(rec("Christmas", day(2020, 12, 25)))
	_, _ = s.Add(rec("Day After Christmas", day(2020, 12, 28)))

	got, err := s.FilterByWeek(2020, 53)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"New Year's Eve", "Day After Christmas"}, names(got)); diff != "" {
		t.Errorf("week 53 mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterByWeek_RejectsOutOfRange(t *testing.T) {
	s := NewHolidayStore()
	for _, week := range []int{0, 54, -1} {
		if _, err := s.FilterByWeek(2022, week); !errors.Is(err, holiday.ErrInvalidInput) {
			t.Errorf("week %d: expected ErrInvalidInput, got %v", week, err)
		}
	}
}

func TestLoad_UsesAddPolicy(t *testing.T) {
	s := NewHolidayStore()
	n, err := s.Load([]holiday.Record{
		rec("Christmas", day(2022, 12, 25)),
		rec("Christmas", day(2022, 12, 25)),
		rec("Boxing Day", day(2022, 12, 26)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || s.Count() != 2 {
		t.Errorf("expected 2 loaded, got n=%d count=%d", n, s.Count())
	}

	if _, err := s.Load([]holiday.Record{rec("", day(2022, 1, 1))}); !errors.Is(err, holiday.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestYearRangeAndFilterByYear(t *testing.T) {
	s := NewHolidayStore()
	if _, _, ok := s.YearRange(); ok {
		t.Error("expected no range for empty store")
	}

	_, _ = s.Add(rec("B", day(2023, 5, 1)))
	_, _ = s.Add(rec("A", day(2020, 5, 1)))
	_, _ = s.Add(rec("C", day(2021, 5, 1)))

	min, max, ok := s.YearRange()
	if !ok || min != 2020 || max != 2023 {
		t.Errorf("YearRange() = %d, %d, %v", min, max, ok)
	}

	if diff := cmp.Diff([]string{"C"}, names(s.FilterByYear(2021))); diff != "" {
		t.Errorf("FilterByYear mismatch (-want +got):\n%s", diff)
	}
}

func TestYearRange_IncludesISOYears(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		min, max int
	}{
		// 2030-12-31 is in ISO week 1 of 2031.
		{"late december", day(2030, 12, 31), 2030, 2031},
		// 2021-01-01 is in ISO week 53 of 2020.
		{"early january", day(2021, 1, 1), 2020, 2021},
		{"mid year", day(2022, 6, 1), 2022, 2022},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewHolidayStore()
			_, _ = s.Add(rec("Holiday", tt.date))
			min, max, ok := s.YearRange()
			if !ok || min != tt.min || max != tt.max {
				t.Errorf("YearRange() = %d, %d, %v; want %d, %d", min, max, ok, tt.min, tt.max)
			}
		})
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	s := NewHolidayStore()
	_, _ = s.Add(rec("Christmas", day(2022, 12, 25)))

	all := s.All()
	all[0].Name = "Changed"

	if _, err := s.Find("Christmas", day(2022, 12, 25)); err != nil {
		t.Errorf("mutating All() result changed the store: %v", err)
	}
}

func TestRoundTripThroughCodec(t *testing.T) {
	s := NewHolidayStore()
	_, _ = s.Add(rec("Christmas", day(2022, 12, 25)))
	_, _ = s.Add(rec("MLK Day", day(2022, 1, 17)))

	data, err := holiday.MarshalJSON(s.All())
	if err != nil {
		t.Fatal(err)
	}
	records, err := holiday.UnmarshalJSON(data)
	if err != nil {
		t.Fatal(err)
	}

	restored := NewHolidayStore()
	if _, err := restored.Load(records); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.All(), restored.All()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
