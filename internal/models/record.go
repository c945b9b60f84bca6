package models

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is one raw upstream object, keyed by wire field code.
type Record map[string]jsoniter.RawMessage

// FieldTable maps wire field codes to the attribute names used in errors and
// documentation. Wire codes never leave this package.
type FieldTable map[string]string

func (ft FieldTable) name(code string) string {
	if name, ok := ft[code]; ok {
		return name
	}
	return code
}

// fields reads a Record through a FieldTable.
type fields struct {
	rec   Record
	table FieldTable
}

func (f fields) malformed(code string, raw []byte) error {
	return errors.Wrapf(ErrMalformedField, "%s (%s): %s", f.table.name(code), code, string(raw))
}

// raw returns the trimmed raw value and whether it is present and non-null.
func (f fields) raw(code string) ([]byte, bool) {
	v, ok := f.rec[code]
	if !ok {
		return nil, false
	}
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil, false
	}
	return v, true
}

// scalar returns the textual content of a string or number value.
func (f fields) scalar(code string) (string, bool, error) {
	raw, ok := f.raw(code)
	if !ok {
		return "", false, nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false, f.malformed(code, raw)
		}
		return s, true, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw), true, nil
	default:
		return "", false, f.malformed(code, raw)
	}
}

func (f fields) Int(code string) (int, error) {
	v, err := f.OptionalInt(code)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, errors.Wrapf(ErrMalformedField, "%s (%s): missing", f.table.name(code), code)
	}
	return *v, nil
}

func (f fields) OptionalInt(code string) (*int, error) {
	s, ok, err := f.scalar(code)
	if err != nil || !ok {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return &i, nil
	}
	// numbers such as 4.0 are integral even though they carry a fraction
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return nil, f.malformed(code, f.rec[code])
	}
	i := int(d.IntPart())
	return &i, nil
}

func (f fields) String(code string) (string, error) {
	s, _, err := f.scalar(code)
	return s, err
}

func (f fields) Float(code string) (float64, error) {
	s, ok, err := f.scalar(code)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.Wrapf(ErrMalformedField, "%s (%s): missing", f.table.name(code), code)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, f.malformed(code, f.rec[code])
	}
	return v, nil
}

func (f fields) Decimal(code string) (decimal.Decimal, error) {
	s, ok, err := f.scalar(code)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, errors.Wrapf(ErrMalformedField, "%s (%s): missing", f.table.name(code), code)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, f.malformed(code, f.rec[code])
	}
	return d, nil
}

func (f fields) Timestamp(code string, loc *time.Location) (time.Time, error) {
	s, ok, err := f.scalar(code)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseTimestamp(s, loc)
	if err != nil || !ok {
		return time.Time{}, errors.Wrapf(ErrMalformedTimestamp, "%s (%s): %q", f.table.name(code), code, s)
	}
	return t, nil
}

func (f fields) TimeOfDay(code string) (*TimeOfDay, error) {
	raw, ok := f.raw(code)
	if !ok {
		return nil, nil
	}
	if raw[0] != '"' {
		return nil, errors.Wrapf(ErrMalformedTime, "%s (%s): %s", f.table.name(code), code, string(raw))
	}
	s, _, err := f.scalar(code)
	if err != nil {
		return nil, err
	}
	t, err := ParseTimeOfDay(s)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedTime, "%s (%s): %q", f.table.name(code), code, s)
	}
	return t, nil
}

// recordBuilder writes normalized values back into wire form.
type recordBuilder Record

func (b recordBuilder) set(code string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		// only plain strings and numbers are ever written
		panic(err)
	}
	b[code] = raw
}

func (b recordBuilder) setRaw(code string, raw string) {
	b[code] = jsoniter.RawMessage(raw)
}

func (b recordBuilder) setTimeOfDay(code string, t *TimeOfDay) {
	if t == nil {
		b.set(code, "")
		return
	}
	b.set(code, t.String())
}
