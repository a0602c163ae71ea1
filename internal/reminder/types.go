package reminder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// DateLayout is the on-disk format of a reminder's due date.
const DateLayout = "2006-01-02"

// Reminder represents a dated reminder item and its per-category
// notification cooldowns.
type Reminder struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	Completed       bool   `json:"completed"`
	CompletedAt     Stamp  `json:"completedAt"`
	LastHowlTime    Stamp  `json:"last_howl_time"`
	LastTodayHowl   Stamp  `json:"last_today_howl"`
	LastOverdueHowl Stamp  `json:"last_overdue_howl"`

	// extra holds keys howler does not know about, and stamp keys whose
	// stored value is not a string, so they survive a save.
	extra map[string]json.RawMessage
	// raw is the stored form of a record that could not be decoded.
	raw json.RawMessage
}

// record is Reminder without its JSON methods.
type record Reminder

var stampKeys = []string{"completedAt", "last_howl_time", "last_today_howl", "last_overdue_howl"}

var knownKeys = map[string]bool{
	"id":                true,
	"title":             true,
	"date":              true,
	"completed":         true,
	"completedAt":       true,
	"last_howl_time":    true,
	"last_today_howl":   true,
	"last_overdue_howl": true,
}

// Malformed builds the placeholder for a stored record that could not be
// decoded. The record is written back unchanged; ID and Title are filled
// when they can be read.
func Malformed(data []byte) Reminder {
	var head struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	_ = json.Unmarshal(data, &head)
	return Reminder{
		ID:    head.ID,
		Title: head.Title,
		raw:   append(json.RawMessage(nil), data...),
	}
}

// IsMalformed reports whether the record could not be decoded.
func (r Reminder) IsMalformed() bool {
	return r.raw != nil
}

// Complete marks the reminder done at t.
func (r *Reminder) Complete(t time.Time) {
	r.Completed = true
	r.CompletedAt = NewStamp(t)
}

// Reopen clears the completion state.
func (r *Reminder) Reopen() {
	r.Completed = false
	r.CompletedAt = ""
	delete(r.extra, "completedAt")
}

// DueDate parses Date in loc.
func (r Reminder) DueDate(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, r.Date, loc)
}

func (r Reminder) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}

	data, err := json.Marshal(record(r))
	if err != nil {
		return nil, err
	}

	set := map[string]bool{
		"completedAt":       r.CompletedAt.IsSet(),
		"last_howl_time":    r.LastHowlTime.IsSet(),
		"last_today_howl":   r.LastTodayHowl.IsSet(),
		"last_overdue_howl": r.LastOverdueHowl.IsSet(),
	}

	keys := make([]string, 0, len(r.extra))
	for k := range r.extra {
		if !set[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return data, nil
	}
	sort.Strings(keys)

	var overrides []string
	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	for _, k := range keys {
		if knownKeys[k] {
			// An unset stamp key already holds null; replace it below.
			overrides = append(overrides, k)
			continue
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(r.extra[k])
	}
	buf.WriteByte('}')

	if len(overrides) == 0 {
		return buf.Bytes(), nil
	}
	return replaceNulls(buf.Bytes(), overrides, r.extra)
}

// replaceNulls swaps the null written for each stamp key in keys with the
// value kept in extra. Key order is preserved.
func replaceNulls(data []byte, keys []string, extra map[string]json.RawMessage) ([]byte, error) {
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		field := append(append(name, ':'), "null"...)
		i := bytes.Index(data, field)
		if i < 0 {
			return nil, fmt.Errorf("encode reminder: stamp key %s missing", k)
		}
		value := append(append(append([]byte{}, name...), ':'), extra[k]...)
		data = append(data[:i:i], append(value, data[i+len(field):]...)...)
	}
	return data, nil
}

func (r *Reminder) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("reminder is not an object")
	}

	for _, k := range []string{"id", "title", "date", "completed"} {
		if v, ok := fields[k]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return fmt.Errorf("reminder field %s is null", k)
		}
	}

	var extra map[string]json.RawMessage
	keep := func(k string, v json.RawMessage) {
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = append(json.RawMessage(nil), v...)
	}
	for k, v := range fields {
		if !knownKeys[k] {
			keep(k, v)
		}
	}
	for _, k := range stampKeys {
		if v, ok := fields[k]; ok && !isTextOrNull(v) {
			keep(k, v)
			delete(fields, k)
		}
	}

	cleaned, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	var rec record
	if err := json.Unmarshal(cleaned, &rec); err != nil {
		return err
	}
	*r = Reminder(rec)
	r.extra = extra
	return nil
}

func isTextOrNull(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && (v[0] == '"' || bytes.Equal(v, []byte("null")))
}

// Stamp is a nullable timestamp kept in its stored text form. An empty
// Stamp encodes as JSON null. Text that fails to parse is preserved as-is
// and reads as unset.
type Stamp string

var stampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// NewStamp formats t for storage.
func NewStamp(t time.Time) Stamp {
	return Stamp(t.Format(time.RFC3339Nano))
}

// IsSet reports whether the stamp holds any value.
func (s Stamp) IsSet() bool {
	return s != ""
}

// Time parses the stamp. Naive values (no offset) are read in loc.
func (s Stamp) Time(loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range stampLayouts {
		if t, err := time.ParseInLocation(layout, string(s), loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s Stamp) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

func (s *Stamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("timestamp must be a string or null: %w", err)
	}
	*s = Stamp(str)
	return nil
}
