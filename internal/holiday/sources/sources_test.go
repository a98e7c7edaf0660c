package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/i474232898/holiday-planner/internal/common"
	"github.com/i474232898/holiday-planner/internal/holiday"
)

const holidayPage = `<!DOCTYPE html>
<html><body>
<table id="holidays-table" class="table">
  <thead><tr><th>Date</th><th>Name</th><th>Type</th></tr></thead>
  <tbody>
    <tr id="tr1" class="showrow"><th class="nw">Jan 1</th><td class="nw">Saturday</td><td><a href="/holidays/us/new-year-day">New Year's Day</a></td><td>Federal Holiday</td></tr>
    <tr class="hol-sep"><td colspan="4"></td></tr>
    <tr id="tr2" class="showrow"><th class="nw">Jan 17</th><td class="nw">Monday</td><td><a href="/holidays/us/martin-luther-king-day">Martin Luther King Jr. Day</a></td><td>Federal Holiday</td></tr>
    <tr id="tr3" class="showrow"><th class="nw">Feb 31</th><td class="nw">Nope</td><td><a href="/broken">Broken Day</a></td><td>Observance</td></tr>
    <tr id="tr4" class="showrow"><th class="nw">Dec 25</th><td class="nw">Sunday</td><td><a href="/holidays/us/christmas-day">Christmas Day</a></td><td>Federal Holiday</td></tr>
  </tbody>
</table>
</body></html>`

var noRetry = common.BackoffConfig{MaxRetries: 0, InitialInterval: time.Millisecond}

func TestParseHolidayTable(t *testing.T) {
	records, skipped, err := ParseHolidayTable(strings.NewReader(holidayPage), 2022)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, r := range records {
		got = append(got, r.Name+"@"+r.DateString())
	}
	want := []string{
		"New Year's Day@2022-01-01",
		"Martin Luther King Jr. Day@2022-01-17",
		"Christmas Day@2022-12-25",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if skipped != 2 {
		t.Errorf("expected separator and invalid rows to be skipped, got %d", skipped)
	}
}

func TestParseHolidayTable_MissingTable(t *testing.T) {
	_, _, err := ParseHolidayTable(strings.NewReader("<html><body><p>rate limited</p></body></html>"), 2022)
	if !errors.Is(err, holiday.ErrExternal) {
		t.Fatalf("expected ErrExternal, got %v", err)
	}
}

func TestTimeAndDateSource_FetchesYear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/holidays/us/2022" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(holidayPage))
	}))
	defer srv.Close()

	src := NewTimeAndDateSource(common.HTTPClientConfig{Client: srv.Client(), Backoff: noRetry}, srv.URL+"/holidays/us/", nil)
	records, err := src.Holidays(context.Background(), 2022)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestTimeAndDateSource_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewTimeAndDateSource(common.HTTPClientConfig{Client: srv.Client(), Backoff: noRetry}, srv.URL+"/", nil)
	_, err := src.Holidays(context.Background(), 2022)
	if !errors.Is(err, holiday.ErrExternal) {
		t.Fatalf("expected ErrExternal, got %v", err)
	}
}

func TestCalendarSource(t *testing.T) {
	src := NewCalendarSource()
	records, err := src.Holidays(context.Background(), 2022)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 11 {
		t.Errorf("expected 11 federal holidays in 2022, got %d", len(records))
	}

	dates := make(map[string]bool)
	for _, r := range records {
		if err := r.Validate(); err != nil {
			t.Errorf("invalid record %+v: %v", r, err)
		}
		dates[r.DateString()] = true
	}
	for _, want := range []string{"2022-01-01", "2022-01-17", "2022-07-04", "2022-11-24", "2022-12-25"} {
		if !dates[want] {
			t.Errorf("expected a holiday on %s", want)
		}
	}
}

func TestCalendarSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewCalendarSource().Holidays(ctx, 2022); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
