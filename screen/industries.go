package screen

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadIndustries reads an industry classification file: a JSON object
// mapping industry name to a list of symbol codes.
func LoadIndustries(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read industries: %w", err)
	}

	out := make(map[string][]string)
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse industries %s: %w", path, err)
	}
	return out, nil
}
