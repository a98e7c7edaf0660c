package holiday

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the on-disk and user-facing date format.
const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// "required" accepts whitespace-only strings; names must carry text.
	err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		panic(fmt.Sprintf("holiday: register notblank validation: %v", err))
	}
	return v
}

// Record is a single named holiday on a calendar day.
// Date is always midnight UTC so equality compares calendar days.
type Record struct {
	Name string `validate:"notblank"`
	Date time.Time
}

// NewRecord builds a Record from a name and a YYYY-MM-DD date string.
func NewRecord(name, date string) (Record, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Record{}, err
	}
	r := Record{Name: name, Date: d}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// ParseDate parses a YYYY-MM-DD string into a calendar day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not formatted as YYYY-MM-DD", ErrInvalidInput, s)
	}
	return d, nil
}

// Day truncates t to its calendar day in t's own location and returns it as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate reports whether the record is well formed.
func (r Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: holiday name cannot be blank", ErrInvalidInput)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: holiday date cannot be zero", ErrInvalidInput)
	}
	return nil
}

// Matches reports whether the record has exactly this name and falls on this day.
func (r Record) Matches(name string, date time.Time) bool {
	return r.Name == name && r.Date.Equal(Day(date))
}

// DateString returns the record's date as YYYY-MM-DD.
func (r Record) DateString() string {
	return r.Date.Format(DateLayout)
}

// ISOWeek returns the ISO-8601 year and week number of the record's date.
func (r Record) ISOWeek() (year, week int) {
	return r.Date.ISOWeek()
}

func (r Record) String() string {
	return r.Name
}

// WeeksInYear returns the number of ISO weeks (52 or 53) in the given ISO year.
func WeeksInYear(year int) int {
	// Dec 28 always falls in the last ISO week of its year.
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}
