package govern

import (
	"bytes"
	"encoding/json"
)

// Check is one rule outcome. Checks preserve evaluation order so the
// verdict is reproducible byte-for-byte across runs.
type Check struct {
	Key string
	OK  bool
}

type Checks []Check

func (c *Checks) add(key string, ok bool) {
	*c = append(*c, Check{Key: key, OK: ok})
}

// Get reports the outcome recorded for key, if any.
func (c Checks) Get(key string) (bool, bool) {
	for _, check := range c {
		if check.Key == key {
			return check.OK, true
		}
	}
	return false, false
}

// MarshalJSON encodes checks as a JSON object in evaluation order.
func (c Checks) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for index, check := range c {
		if index > 0 {
			buffer.WriteByte(',')
		}
		key, err := json.Marshal(check.Key)
		if err != nil {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')
		if check.OK {
			buffer.WriteString("true")
		} else {
			buffer.WriteString("false")
		}
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// Verdict is the immutable result of one validation run. It is constructed
// fresh per call and carries no reference to the container.
type Verdict struct {
	Package  string   `json:"package,omitempty"`
	Valid    bool     `json:"valid"`
	Checks   Checks   `json:"checks"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
