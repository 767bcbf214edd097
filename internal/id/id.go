package id

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ID identifies a todo. It holds either an integer (sequence policy) or a
// string (uuid policy); callers should treat it as opaque.
type ID struct {
	n int64
	s string
}

// FromInt returns an integer ID.
func FromInt(n int64) ID {
	return ID{n: n}
}

// FromString returns a string ID.
func FromString(s string) ID {
	return ID{s: s}
}

// Int returns the integer value and whether the ID is integer-shaped.
func (i ID) Int() (int64, bool) {
	if i.s != "" {
		return 0, false
	}
	return i.n, true
}

func (i ID) IsZero() bool {
	return i.s == "" && i.n == 0
}

func (i ID) String() string {
	if i.s != "" {
		return i.s
	}
	return strconv.FormatInt(i.n, 10)
}

// MarshalJSON writes integer IDs as JSON numbers and string IDs as JSON strings.
func (i ID) MarshalJSON() ([]byte, error) {
	if i.s != "" {
		return json.Marshal(i.s)
	}
	return []byte(strconv.FormatInt(i.n, 10)), nil
}

func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		*i = FromString(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*i = FromInt(n)
	return nil
}

func (i ID) MarshalYAML() (any, error) {
	if i.s != "" {
		return i.s, nil
	}
	return i.n, nil
}

func (i *ID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid id at line %d: expected a scalar", node.Line)
	}
	if node.Tag == "!!int" {
		n, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", node.Value, err)
		}
		*i = FromInt(n)
		return nil
	}
	*i = FromString(node.Value)
	return nil
}
