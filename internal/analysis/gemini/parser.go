package gemini

import (
	"encoding/json"
	"strings"

	"github.com/DevVaradPatil/resume-analyzer/internal/analysis/domain"
)

// ParseReport extracts the JSON object from a model completion. Models
// routinely wrap the payload in markdown fences or surround it with
// prose despite being told not to.
func ParseReport(raw string) (domain.Report, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, domain.ErrMalformedResponse
	}

	var report domain.Report
	if err := json.Unmarshal([]byte(text[start:end+1]), &report); err != nil {
		return nil, domain.ErrMalformedResponse
	}
	return report, nil
}
