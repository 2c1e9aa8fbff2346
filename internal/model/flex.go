package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString decodes any JSON scalar into its text form. Spreadsheet cells
// come back as strings, numbers or booleans depending on how they were typed,
// and null or missing cells become the empty string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		// Objects and arrays have no meaningful text form for a cell.
		*f = ""
		return nil
	}
	*f = FlexString(data)
	return nil
}

// String returns the raw text.
func (f FlexString) String() string {
	return string(f)
}

// Trimmed returns the text without surrounding whitespace.
func (f FlexString) Trimmed() string {
	return strings.TrimSpace(string(f))
}
