package postgres

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

// validJSON returns details as-is when it is valid JSON, "{}" when empty,
// and wraps anything else as {"raw": ...}.
func validJSON(details []byte) string {
	if len(strings.TrimSpace(string(details))) == 0 {
		return "{}"
	}
	if json.Valid(details) {
		return string(details)
	}
	b, _ := json.Marshal(map[string]string{"raw": string(details)})
	return string(b)
}
