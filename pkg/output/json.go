package output

import (
	"encoding/json"
)

// GenerateJSONReport renders the full report as a single JSON document.
func GenerateJSONReport(r Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
