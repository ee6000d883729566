// internal/common/llm/json.go
package llm

import "strings"

// CleanJSON strips the decoration models wrap around JSON output. It
// removes markdown code fences and clips to the outermost object or array
// so a strict decoder sees only the payload.
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	firstObj := strings.Index(s, "{")
	firstArr := strings.Index(s, "[")
	start, end := -1, -1
	switch {
	case firstArr >= 0 && (firstObj < 0 || firstArr < firstObj):
		start = firstArr
		end = strings.LastIndex(s, "]")
	case firstObj >= 0:
		start = firstObj
		end = strings.LastIndex(s, "}")
	}
	if start >= 0 && end > start {
		s = s[start : end+1]
	}

	return s
}
