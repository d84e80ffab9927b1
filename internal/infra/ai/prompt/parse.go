package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
)

// stripFences removes a surrounding markdown code fence, e.g. ```json ... ```.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseResult decodes model text into a Result. Anything that is not a JSON object of
// the expected shape is ErrMalformedResponse.
func ParseResult(text string) (analysis.Result, error) {
	var out analysis.Result
	body := stripFences(text)
	if body == "" {
		return out, fmt.Errorf("%w: empty text", analysis.ErrMalformedResponse)
	}
	if !strings.HasPrefix(body, "{") {
		return out, fmt.Errorf("%w: not a JSON object", analysis.ErrMalformedResponse)
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(&out); err != nil {
		return analysis.Result{}, fmt.Errorf("%w: %v", analysis.ErrMalformedResponse, err)
	}
	return out, nil
}
