package models

import (
	"encoding/json"
	"strconv"
)

// DateField is the mandatory key on every time series record.
const DateField = "date"

// Record is one sample in a metric series. Values are scalars: strings,
// numbers (float64 from JSON, int64 from Firestore) or booleans.
type Record map[string]any

// Date returns the raw date string of the record.
func (r Record) Date() (string, bool) {
	return r.String(DateField)
}

// String returns the value for key when it is a string.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Float returns the value for key as a float64 for any numeric kind.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// Clone returns a shallow copy; values are scalars so the copy shares nothing.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneRecords copies a slice of records.
func CloneRecords(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
