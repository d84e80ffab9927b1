package mysql

import (
	"encoding/json"
	"strings"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// validJSON ensures details is valid json; invalid input is wrapped as a string field
func validJSON(details []byte) string {
	if strings.TrimSpace(string(details)) == "" {
		return "{}"
	}
	if json.Valid(details) {
		return string(details)
	}
	b, _ := json.Marshal(map[string]string{"raw": string(details)})
	return string(b)
}
