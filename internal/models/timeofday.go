package models

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/cockroachdb/errors"
)

// DefaultTimezone is the civil time zone of the stations served by the upstream.
const DefaultTimezone = "Australia/Adelaide"

const (
	timestampLayoutFractional = "2006-01-02T15:04:05.999999"
	timestampLayout           = "2006-01-02T15:04:05"
	timeOfDayLayout           = "15:04"
)

// LoadLocation resolves a time zone name, falling back to DefaultTimezone when
// name is empty.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrapf(ErrConfiguration, "unknown time zone %q: %v", name, err)
	}
	return loc, nil
}

// ParseTimestamp accepts the two shapes the upstream emits, with and without
// fractional seconds.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{timestampLayoutFractional, timestampLayout} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrMalformedTimestamp, "%q", value)
}

func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayoutFractional)
}

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "hh:mm". A blank value means "no value" and yields nil.
func ParseTimeOfDay(value string) (*TimeOfDay, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.Parse(timeOfDayLayout, value)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedTime, "%q", value)
	}
	return &TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// SinceMidnight is the offset of t from the start of the day.
func (t TimeOfDay) SinceMidnight() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	if parsed == nil {
		return errors.Wrap(ErrMalformedTime, "empty time of day")
	}
	*t = *parsed
	return nil
}

// SinceMidnight returns the wall-clock offset of t from midnight in t's own location.
func SinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// Window is a single day's opening hours. Either end may be unset, in which
// case the station is closed all day.
type Window struct {
	Open  *TimeOfDay `json:"open"`
	Close *TimeOfDay `json:"close"`
}

func (w Window) IsSet() bool {
	return w.Open != nil && w.Close != nil
}

// Contains reports whether the wall-clock offset falls in [Open, Close].
// Windows that wrap past midnight are not supported.
func (w Window) Contains(offset time.Duration) bool {
	if !w.IsSet() {
		return false
	}
	return w.Open.SinceMidnight() <= offset && offset <= w.Close.SinceMidnight()
}

// OpeningHours holds one Window per weekday, indexed by time.Weekday.
type OpeningHours [7]Window

func (h OpeningHours) On(day time.Weekday) Window {
	return h[day]
}

func (h OpeningHours) MarshalJSON() ([]byte, error) {
	byName := make(map[string]Window, len(h))
	for day, w := range h {
		byName[time.Weekday(day).String()] = w
	}
	return json.Marshal(byName)
}
