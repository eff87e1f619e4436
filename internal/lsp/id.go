package lsp

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ID is a JSON-RPC request id. Clients may send a number or a string; the
// id is echoed back in the form it was received. IDs are comparable and can
// key a map.
type ID struct {
	raw string
}

func NewID(n int) ID {
	return ID{raw: strconv.Itoa(n)}
}

// NewStringID returns the id a client sent as a JSON string.
func NewStringID(s string) ID {
	raw, _ := json.Marshal(s)
	return ID{raw: string(raw)}
}

func (id ID) String() string {
	return id.raw
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.raw == "" {
		return []byte("null"), nil
	}
	return []byte(id.raw), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NewStringID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("request id must be a number or a string")
	}
	if _, err := n.Int64(); err != nil {
		return errors.New("request id must be an integer")
	}
	id.raw = n.String()
	return nil
}
