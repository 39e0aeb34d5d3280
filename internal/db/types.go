package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ImageURLs is a thin wrapper around []string that implements
// sql.Scanner and driver.Valuer so it works transparently with jsonb columns.
//
// Stored values are not always clean: older rows carry nested arrays
// (["a", ["b", "c"]]) and the odd non-string element. Scan flattens
// nesting, keeps only strings, and degrades malformed JSON to an empty
// slice instead of failing the row. A broken image list must never
// drop a whole feed page.
type ImageURLs []string

// Scan implements sql.Scanner
func (u *ImageURLs) Scan(src interface{}) error {
	if u == nil {
		return fmt.Errorf("dbtypes: Scan on nil *ImageURLs")
	}
	if src == nil {
		*u = ImageURLs{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("dbtypes: cannot scan type %T into ImageURLs", src)
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// malformed stored JSON: degrade, don't error
		*u = ImageURLs{}
		return nil
	}
	*u = flattenStrings(decoded, nil)
	return nil
}

func flattenStrings(v interface{}, out []string) []string {
	switch t := v.(type) {
	case string:
		out = append(out, t)
	case []interface{}:
		for _, e := range t {
			out = flattenStrings(e, out)
		}
	}
	// numbers, objects, null are skipped
	return out
}

// Value implements driver.Valuer
// Marshals the slice to JSON (works well with jsonb columns).
func (u ImageURLs) Value() (driver.Value, error) {
	if u == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(u))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// First returns the first URL or "" when the list is empty.
func (u ImageURLs) First() string {
	if len(u) == 0 {
		return ""
	}
	return u[0]
}
