package storage

import (
	"database/sql/driver"
	"strconv"
	"strings"
	"time"

	"modernc.org/sqlite"
)

// eventMonthFunc is the SQL name of the month extractor used in every
// per-month query.
const eventMonthFunc = "event_month"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(eventMonthFunc, 1, eventMonth)
}

// eventMonth returns the calendar month of a publication date as an
// integer, or NULL when the value carries no recognisable month.
func eventMonth(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	var raw string
	switch v := args[0].(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return nil, nil
	}

	if m, ok := parseMonth(raw); ok {
		return int64(m), nil
	}
	return nil, nil
}

// timestampLayouts are the offset-carrying forms SQLite's date functions
// accept. Those are normalised to UTC before the month is read.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04Z07:00",
}

// parseMonth extracts the month from dates such as "2024-03-15",
// "2024-3-15", "2024/03/15" or "2024-03-31T23:00:00-05:00". Zero padding is
// irrelevant: "3" and "03" both yield 3. The leading field must be a
// four-digit year, so day-first dates never match.
func parseMonth(raw string) (int, bool) {
	s := strings.TrimSpace(raw)

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return int(t.UTC().Month()), true
		}
	}

	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) < 2 || len(parts[0]) != 4 {
		return 0, false
	}
	if _, err := strconv.Atoi(parts[0]); err != nil {
		return 0, false
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, false
	}
	return month, true
}
