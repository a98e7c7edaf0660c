package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/i474232898/holiday-planner/internal/holiday"
)

// HolidayStore is an ordered, deduplicated, concurrency-safe collection of holidays.
// Insertion order is kept for display; identity is the (name, date) pair.
type HolidayStore struct {
	mu      sync.RWMutex
	records []holiday.Record
}

// NewHolidayStore creates an empty HolidayStore.
func NewHolidayStore() *HolidayStore {
	return &HolidayStore{}
}

// Add appends rec unless a record with the same name and date is already stored.
// added is false for an exact duplicate; err is set only for a malformed record.
func (s *HolidayStore) Add(rec holiday.Record) (added bool, err error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}
	rec.Date = holiday.Day(rec.Date)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(rec.Name, rec.Date) >= 0 {
		return false, nil
	}
	s.records = append(s.records, rec)
	return true, nil
}

// Load adds every record through Add and returns how many were new.
// It stops at the first malformed record.
func (s *HolidayStore) Load(records []holiday.Record) (int, error) {
	n := 0
	for _, rec := range records {
		added, err := s.Add(rec)
		if err != nil {
			return n, err
		}
		if added {
			n++
		}
	}
	return n, nil
}

// Find returns the record with exactly this name on this day.
func (s *HolidayStore) Find(name string, date time.Time) (holiday.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(name, date)
	if i < 0 {
		return holiday.Record{}, fmt.Errorf("%w: %q on %s", holiday.ErrNotFound, name, date.Format(holiday.DateLayout))
	}
	return s.records[i], nil
}

// Remove deletes one record with exactly this name on this day.
// If several match, the last one in iteration order is removed.
func (s *HolidayStore) Remove(name string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lastIndexLocked(name, date)
	if i < 0 {
		return fmt.Errorf("%w: %q on %s", holiday.ErrNotFound, name, date.Format(holiday.DateLayout))
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return nil
}

// Replace swaps the record identified by (oldName, oldDate) for rec, keeping its position.
// The new identity is checked against every other stored record.
func (s *HolidayStore) Replace(oldName string, oldDate time.Time, rec holiday.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	rec.Date = holiday.Day(rec.Date)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lastIndexLocked(oldName, oldDate)
	if i < 0 {
		return fmt.Errorf("%w: %q on %s", holiday.ErrNotFound, oldName, oldDate.Format(holiday.DateLayout))
	}
	for j, r := range s.records {
		if j != i && r.Matches(rec.Name, rec.Date) {
			return fmt.Errorf("%w: %q on %s", holiday.ErrDuplicate, rec.Name, rec.DateString())
		}
	}
	s.records[i] = rec
	return nil
}

// FilterByWeek returns the records in ISO week `week` of ISO year `year`, in stored order.
func (s *HolidayStore) FilterByWeek(year, week int) ([]holiday.Record, error) {
	if week < 1 || week > 53 {
		return nil, fmt.Errorf("%w: week must be between 1 and 53, got %d", holiday.ErrInvalidInput, week)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []holiday.Record{}
	for _, r := range s.records {
		y, w := r.ISOWeek()
		if y == year && w == week {
			result = append(result, r)
		}
	}
	return result, nil
}

// FilterByYear returns the records dated in calendar year `year`, in stored order.
func (s *HolidayStore) FilterByYear(year int) []holiday.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []holiday.Record{}
	for _, r := range s.records {
		if r.Date.Year() == year {
			result = append(result, r)
		}
	}
	return result
}

// Count returns the number of stored records.
func (s *HolidayStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// All returns a copy of the stored records in iteration order.
func (s *HolidayStore) All() []holiday.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]holiday.Record, len(s.records))
	copy(out, s.records)
	return out
}

// YearRange returns the smallest and largest year present, counting both the calendar
// year and the ISO year of each record so every week FilterByWeek can match is inside it.
// ok is false for an empty store.
func (s *HolidayStore) YearRange() (min, max int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, r := range s.records {
		isoYear, _ := r.ISOWeek()
		lo, hi := r.Date.Year(), isoYear
		if hi < lo {
			lo, hi = hi, lo
		}
		if i == 0 || lo < min {
			min = lo
		}
		if i == 0 || hi > max {
			max = hi
		}
	}
	return min, max, len(s.records) > 0
}

func (s *HolidayStore) indexLocked(name string, date time.Time) int {
	for i, r := range s.records {
		if r.Matches(name, date) {
			return i
		}
	}
	return -1
}

func (s *HolidayStore) lastIndexLocked(name string, date time.Time) int {
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].Matches(name, date) {
			return i
		}
	}
	return -1
}
