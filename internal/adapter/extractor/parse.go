package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/AIworks24/calendar-agent/internal/domain"
)

// decodeRecord pulls the first JSON object out of a completion and unmarshals
// it. Models wrap their JSON in prose or emit it slightly broken (trailing
// commas, unquoted keys, truncated output), so a failed parse goes through a
// repair pass before giving up.
func decodeRecord(content string) (*domain.EventRecord, error) {
	raw, ok := firstJSONObject(content)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrExtractionFormat, excerpt([]byte(content)))
	}

	var record domain.EventRecord
	if err := json.Unmarshal([]byte(raw), &record); err == nil {
		return &record, nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: repair failed: %v", domain.ErrExtractionFormat, err)
	}
	record = domain.EventRecord{}
	if err := json.Unmarshal([]byte(repaired), &record); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFormat, err)
	}
	return &record, nil
}

// firstJSONObject returns the first balanced JSON object in s. An opening
// brace with no matching close returns the remaining text so the repair pass
// can finish it.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth, inString, escaped := 0, false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return s[start:], true
}
