package llm

import "strings"

// CleanJSON strips markdown fences and surrounding prose from model output
// and returns the first complete JSON object or array. It returns "" when no
// balanced value is found.
func CleanJSON(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.IndexByte(response, '{')
	arrStart := strings.IndexByte(response, '[')

	start, open, closing := -1, byte(0), byte(0)
	switch {
	case objStart != -1 && (arrStart == -1 || objStart < arrStart):
		start, open, closing = objStart, '{', '}'
	case arrStart != -1:
		start, open, closing = arrStart, '[', ']'
	default:
		return ""
	}

	end := findMatching(response, start, open, closing)
	if end == -1 {
		return ""
	}
	return response[start : end+1]
}

// findMatching returns the index of the delimiter closing the one at start,
// ignoring delimiters inside string literals.
func findMatching(s string, start int, open, closing byte) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
