package sources

import (
	"context"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/i474232898/holiday-planner/internal/holiday"
)

// CalendarSource produces US federal holidays offline from rickar/cal.
type CalendarSource struct {
	holidays []*cal.Holiday
}

// NewCalendarSource creates a source for the US federal holiday set.
func NewCalendarSource() *CalendarSource {
	return &CalendarSource{
		holidays: []*cal.Holiday{
			us.NewYear,
			us.MlkDay,
			us.PresidentsDay,
			us.MemorialDay,
			us.Juneteenth,
			us.IndependenceDay,
			us.LaborDay,
			us.ColumbusDay,
			us.VeteransDay,
			us.ThanksgivingDay,
			us.ChristmasDay,
		},
	}
}

func (s *CalendarSource) Name() string {
	return "calendar"
}

// Holidays returns the actual (not observed) date of each holiday in year.
func (s *CalendarSource) Holidays(ctx context.Context, year int) ([]holiday.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records := make([]holiday.Record, 0, len(s.holidays))
	for _, h := range s.holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			// Not observed in this year (e.g. Juneteenth before 2021).
			continue
		}
		records = append(records, holiday.Record{Name: h.Name, Date: holiday.Day(actual)})
	}
	return records, nil
}
