package isotime

import (
	"encoding/json"
	"fmt"
	"time"
)

// legacyLayout covers zone-less ISO-8601 strings found in documents
// written by the previous generation of tooling. They are read as UTC.
const legacyLayout = "2006-01-02T15:04:05.999999999"

// Time wraps time.Time with tolerant ISO-8601 JSON decoding. It always
// marshals as RFC 3339 in UTC.
type Time struct {
	time.Time
}

func New(t time.Time) Time {
	return Time{Time: t.UTC()}
}

func Now() Time {
	return New(time.Now())
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Parse accepts RFC 3339 timestamps and the zone-less legacy layout.
func Parse(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(legacyLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return ts.UTC(), nil
}
