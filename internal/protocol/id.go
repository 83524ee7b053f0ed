package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a server-assigned identifier. The server may send it as a JSON string
// or a JSON number; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts strings and numbers
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier text
func (id ID) String() string {
	return string(id)
}
