package sheet

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is the remote form of a character: field ID to string value.
// The spreadsheet sends every cell as a string, but hand-edited sheets may
// hold raw numbers or booleans, so decoding accepts any scalar.
type Record map[string]string

// UnmarshalJSON decodes a JSON object of scalars. Numbers keep their literal
// decimal text, booleans become "true"/"false" and nulls are dropped.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Record, len(raw))
	for key, msg := range raw {
		s, keep, err := scalarString(msg)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if keep {
			out[key] = s
		}
	}
	*r = out
	return nil
}

func scalarString(msg json.RawMessage) (string, bool, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return "", false, nil
	}
	switch msg[0] {
	case '"':
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(msg, &b); err != nil {
			return "", false, err
		}
		if b {
			return "true", true, nil
		}
		return "false", true, nil
	case '{', '[':
		return "", false, fmt.Errorf("unsupported value %s", string(msg))
	default:
		var n json.Number
		if err := json.Unmarshal(msg, &n); err != nil {
			return "", false, err
		}
		return n.String(), true, nil
	}
}

// Clone returns an independent copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
