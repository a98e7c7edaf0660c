package holiday

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// recordJSON is the wire shape of a Record: {"name": "...", "date": "YYYY-MM-DD"}.
type recordJSON struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// legacyFile is the historical {"holidays": [...]} envelope. A nil Holidays means the
// key was absent or null.
type legacyFile struct {
	Holidays *[]json.RawMessage `json:"holidays"`
}

// MarshalJSON encodes the record with a YYYY-MM-DD date.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{Name: r.Name, Date: r.DateString()})
}

// UnmarshalJSON decodes and validates a record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rec, err := NewRecord(raw.Name, raw.Date)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// MarshalJSON encodes records as a bare JSON array, the canonical on-disk format.
func MarshalJSON(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// UnmarshalJSON decodes either a bare array of records or the historical
// {"holidays": [...]} envelope.
func UnmarshalJSON(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty holiday file", ErrInvalidInput)
	}

	var raws []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decode holiday array: %w", err)
		}
	case '{':
		var env legacyFile
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode holiday envelope: %w", err)
		}
		if env.Holidays == nil {
			return nil, fmt.Errorf("%w: holiday object has no \"holidays\" list", ErrInvalidInput)
		}
		raws = *env.Holidays
	default:
		return nil, fmt.Errorf("%w: holiday file must be a JSON array or object", ErrInvalidInput)
	}

	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		var rec Record
		if err := rec.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("holiday #%d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
