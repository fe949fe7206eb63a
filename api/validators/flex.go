package validators

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexValue accepts a JSON number or string and keeps its text, so ids and
// quantities can be sent either way.
type FlexValue string

func (f *FlexValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected number or string: %w", err)
	}
	*f = FlexValue(n.String())
	return nil
}

func (f FlexValue) String() string {
	return string(f)
}
