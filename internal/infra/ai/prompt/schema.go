package prompt

import "encoding/json"

// Type names follow JSON Schema (lowercase). Providers convert as needed.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeInteger = "integer"
)

// Schema is a provider-neutral description of the expected model output.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// MarshalJSON lets a *Schema be used where a json.Marshaler is expected.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	return json.Marshal((*plain)(s))
}

func str() *Schema { return &Schema{Type: TypeString} }

func list(desc string, item *Schema) *Schema {
	return &Schema{Type: TypeArray, Description: desc, Items: item}
}

func object(props map[string]*Schema) *Schema {
	return &Schema{Type: TypeObject, Properties: props}
}

// ResponseSchema returns a fresh copy of the career analysis schema. Counts in the
// descriptions are hints for the model; the parser does not enforce them. No key is
// required: readers tolerate any missing substructure.
func ResponseSchema() *Schema {
	return object(map[string]*Schema{
		"score": {Type: TypeInteger, Description: "A job readiness score from 0 to 100."},
		"feedback": object(map[string]*Schema{
			"positive": list("3 positive feedback points about the user's profile.", str()),
			"negative": list("3 constructive, actionable areas for improvement.", str()),
		}),
		"projectSuggestions": list("3 creative and relevant project ideas.", object(map[string]*Schema{
			"title":       str(),
			"description": str(),
		})),
		"improvementPoints": list("4 actionable steps to improve their overall profile (e.g., READMEs, contributing to OS).", str()),
		"roadmap": object(map[string]*Schema{
			"weekly": list("A 7-day plan with a task for each day (Mon-Sun).", object(map[string]*Schema{
				"day":  str(),
				"task": str(),
			})),
			"monthly": list("4 high-level goals for the user to achieve within a month.", str()),
		}),
	})
}
