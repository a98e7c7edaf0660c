package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/net/html"

	"github.com/i474232898/holiday-planner/internal/common"
	"github.com/i474232898/holiday-planner/internal/holiday"
)

// DefaultTimeAndDateURL lists US holidays; the year is appended to it.
const DefaultTimeAndDateURL = "https://www.timeanddate.com/holidays/us/"

// rowDateLayouts are tried in order against "<th class=nw> text + year".
var rowDateLayouts = []string{"Jan 2 2006", "2 Jan 2006", "January 2 2006"}

// TimeAndDateSource scrapes the holidays table of timeanddate.com.
type TimeAndDateSource struct {
	name    string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewTimeAndDateSource creates a scraper for baseURL (the year is appended).
func NewTimeAndDateSource(httpCfg common.HTTPClientConfig, baseURL string, logger *slog.Logger) *TimeAndDateSource {
	if baseURL == "" {
		baseURL = DefaultTimeAndDateURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TimeAndDateSource{
		name:    "timeanddate",
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: common.NewBreaker("timeanddate"),
		logger:  logger,
	}
}

func (s *TimeAndDateSource) Name() string {
	return s.name
}

// Holidays downloads and parses the table for one year.
func (s *TimeAndDateSource) Holidays(ctx context.Context, year int) ([]holiday.Record, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, s.baseURL+strconv.Itoa(year), nil)
	}

	resp, err := common.DoWithResilience(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %d: %v", holiday.ErrExternal, year, err)
	}
	defer resp.Body.Close()

	records, skipped, err := ParseHolidayTable(resp.Body, year)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		s.logger.Debug("skipped unparseable holiday rows", "source", s.name, "year", year, "rows", skipped)
	}
	return records, nil
}

// ParseHolidayTable extracts holidays from the page's table#holidays-table.
// Rows without a date cell or a linked name are skipped and counted.
func ParseHolidayTable(r io.Reader, year int) (records []holiday.Record, skipped int, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: parse holiday page: %v", holiday.ErrExternal, err)
	}

	table := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "table" && attr(n, "id") == "holidays-table"
	})
	if table == nil {
		return nil, 0, fmt.Errorf("%w: holidays table not found", holiday.ErrExternal)
	}
	body := findNode(table, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "tbody"
	})
	if body == nil {
		return nil, 0, fmt.Errorf("%w: holidays table has no body", holiday.ErrExternal)
	}

	for row := body.FirstChild; row != nil; row = row.NextSibling {
		if row.Type != html.ElementNode || row.Data != "tr" {
			continue
		}
		rec, ok := parseRow(row, year)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func parseRow(row *html.Node, year int) (holiday.Record, bool) {
	dateCell := findNode(row, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "th" && hasClass(n, "nw")
	})
	link := findNode(row, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a"
	})
	if dateCell == nil || link == nil {
		return holiday.Record{}, false
	}

	name := strings.TrimSpace(text(link))
	dateText := strings.Join(strings.Fields(text(dateCell)), " ")
	if name == "" || dateText == "" {
		return holiday.Record{}, false
	}

	for _, layout := range rowDateLayouts {
		d, err := time.Parse(layout, fmt.Sprintf("%s %d", dateText, year))
		if err == nil {
			return holiday.Record{Name: name, Date: d}, true
		}
	}
	return holiday.Record{}, false
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
