package holiday

import "fmt"

// Format renders a record for display as "Name (YYYY-MM-DD)", followed by
// " - <weather>" when the weather mapping has an entry for its date.
func Format(r Record, weather map[string]string) string {
	date := r.DateString()
	if desc, ok := weather[date]; ok {
		return fmt.Sprintf("%s (%s) - %s", r.Name, date, desc)
	}
	return fmt.Sprintf("%s (%s)", r.Name, date)
}

// FormatAll renders each record with Format, preserving order.
func FormatAll(records []Record, weather map[string]string) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, Format(r, weather))
	}
	return out
}
