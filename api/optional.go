package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// OptionalBytes is a JSON field holding binary data as a base64 string,
// where "key absent", "key null", and "key set" all mean different things.
// encoding/json only invokes UnmarshalJSON when the key is present, so the
// zero value is the "absent" state.
type OptionalBytes struct {
	Present bool
	Valid   bool
	Data    []byte
}

// Bytes wraps raw data in the "set" state.
func Bytes(data []byte) OptionalBytes {
	return OptionalBytes{Present: true, Valid: true, Data: data}
}

// Null is the "present but explicitly null" state.
func Null() OptionalBytes {
	return OptionalBytes{Present: true}
}

func (o *OptionalBytes) UnmarshalJSON(raw []byte) error {
	o.Present = true

	var encoded *string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return fmt.Errorf("image must be a base64 string or null: %w", err)
	}

	if encoded == nil {
		o.Valid = false
		o.Data = nil
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(*encoded)
	if err != nil {
		return fmt.Errorf("failed to decode base64 image data: %w", err)
	}

	o.Valid = true
	o.Data = data
	return nil
}

func (o OptionalBytes) MarshalJSON() ([]byte, error) {
	if !o.Present || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(o.Data))
}
