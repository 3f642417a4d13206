package domain

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"

	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
)

// RawRecord is one element of a robot export, kept exactly as delivered.
// Key order is preserved so exports can reproduce the source column order.
type RawRecord struct {
	keys   []string
	values map[string]gjson.Result
}

// ParseRawRecords decodes a JSON array export. Elements that are not objects
// become empty records; dropping them is up to the loader.
func ParseRawRecords(data []byte) ([]RawRecord, error) {
	if !gjson.ValidBytes(data) {
		return nil, apperrors.ErrInvalidJSON
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, apperrors.ErrNotArray
	}

	elems := doc.Array()
	out := make([]RawRecord, 0, len(elems))
	for _, elem := range elems {
		out = append(out, rawRecordFromResult(elem))
	}
	return out, nil
}

// ParseRawRecord decodes a single JSON object.
func ParseRawRecord(data []byte) (RawRecord, error) {
	if !gjson.ValidBytes(data) {
		return RawRecord{}, apperrors.ErrInvalidJSON
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return RawRecord{}, apperrors.ErrNotObject
	}
	return rawRecordFromResult(doc), nil
}

func rawRecordFromResult(obj gjson.Result) RawRecord {
	rec := RawRecord{values: make(map[string]gjson.Result)}
	if !obj.IsObject() {
		return rec
	}
	obj.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if _, seen := rec.values[k]; !seen {
			rec.keys = append(rec.keys, k)
		}
		rec.values[k] = value
		return true
	})
	return rec
}

// Keys returns the record's keys in source order.
func (r RawRecord) Keys() []string {
	return r.keys
}

// Len returns the number of keys.
func (r RawRecord) Len() int {
	return len(r.keys)
}

// Has reports whether key is present, including explicit nulls.
func (r RawRecord) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Text coerces a value to a string: absent and null are "", strings are
// returned verbatim and any other JSON value uses its literal text.
func (r RawRecord) Text(key string) string {
	v, ok := r.values[key]
	if !ok {
		return ""
	}
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	default:
		return v.Raw
	}
}

// MarshalJSON re-emits the record with its original key order and values.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		raw := r.values[k].Raw
		if raw == "" {
			raw = "null"
		}
		buf.WriteString(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts a JSON object.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	rec, err := ParseRawRecord(data)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}
