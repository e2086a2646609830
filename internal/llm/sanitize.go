package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// SanitizeInference repairs near-miss model output so the overall document
// can still validate:
//   - renames known synonyms (answer/result -> value)
//   - coerces a numeric or boolean "value" to its string form
//   - trims whitespace and drops empty optionals
//   - removes unknown keys (additionalProperties = false friendliness)
func SanitizeInference(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var dropped []string
	rename := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}
	rename("answer", "value")
	rename("result", "value")
	rename("field_value", "value")

	switch t := m["value"].(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			m["value"] = "unknown"
			dropped = append(dropped, "value(empty)")
		} else {
			m["value"] = s
		}
	case float64:
		m["value"] = fmt.Sprintf("%v", t)
		dropped = append(dropped, "value(number)")
	case bool:
		if t {
			m["value"] = "Yes"
		} else {
			m["value"] = "No"
		}
		dropped = append(dropped, "value(bool)")
	case nil:
		m["value"] = "unknown"
		dropped = append(dropped, "value(null)")
	}

	allowed := map[string]struct{}{"value": {}, "confidence": {}}
	for k := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.infer.sanitize_applied", "dropped", dropped)
	}
	return out, dropped, nil
}
