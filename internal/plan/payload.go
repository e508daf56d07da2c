package plan

import (
	"encoding/json"
	"strconv"

	"github.com/skillvault/skillvault/internal/model"
)

// Entry is a single skill entry as it appears in a backup payload. Legacy
// payloads carry bare name strings; those decode with an empty Source, which
// the Normalizer later substitutes with the configured default. Entry is the
// single conversion boundary for the two wire shapes; everything past
// Normalize operates on model.Record only.
type Entry struct {
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
}

// UnmarshalJSON accepts either a bare string (legacy) or an object form.
// Object fields are coerced to strings; values that cannot be coerced
// decode as empty and are filtered by the Normalizer rather than failing.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*e = Entry{Name: name}
		return nil
	}

	var obj struct {
		Name   any `json:"name"`
		Source any `json:"source"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*e = Entry{Name: coerceString(obj.Name), Source: coerceString(obj.Source)}
	return nil
}

// coerceString converts loosely-typed JSON values to strings. Absent and
// null values become empty strings.
func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// Payload is one side of a sync: the serialized skill set plus the time it
// was last written. An empty UpdatedAt means no remote payload exists yet.
type Payload struct {
	Skills    []Entry `json:"skills"`
	UpdatedAt string  `json:"updatedAt"`
}

// UnmarshalJSON decodes a payload tolerantly: entries that fail to decode
// are dropped rather than failing the whole document.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw struct {
		Skills    []json.RawMessage `json:"skills"`
		UpdatedAt string            `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.UpdatedAt = raw.UpdatedAt
	p.Skills = make([]Entry, 0, len(raw.Skills))
	for _, msg := range raw.Skills {
		var e Entry
		if err := json.Unmarshal(msg, &e); err != nil {
			continue
		}
		p.Skills = append(p.Skills, e)
	}
	return nil
}

// EntriesFromRecords converts canonical records back to payload entries.
// Encoded payloads always use the object form; the legacy string form is
// read-only compatibility.
func EntriesFromRecords(records []model.Record) []Entry {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{Name: r.Name, Source: r.Source}
	}
	return entries
}

// NewPayload builds an upload payload from canonical records stamped with
// the supplied timestamp.
func NewPayload(records []model.Record, updatedAt string) *Payload {
	return &Payload{Skills: EntriesFromRecords(records), UpdatedAt: updatedAt}
}
