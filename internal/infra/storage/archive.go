package storage

import (
	"encoding/json"
	"fmt"
)

const contentTypeJSON = "application/json"

func encode(doc any) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode archive document: %w", err)
	}
	return b, nil
}
