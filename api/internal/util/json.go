package util

import (
	"errors"
	"strings"
)

var (
	ErrNoJSONObject     = errors.New("no JSON object found in response")
	ErrUnbalancedBraces = errors.New("unbalanced braces in JSON response")
)

// StripCodeFences снимает обёртку ```json … ``` или ``` … ```, если ответ с неё начинается.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	var rest string
	switch {
	case strings.HasPrefix(s, "```json"):
		rest = strings.TrimPrefix(s, "```json")
	case strings.HasPrefix(s, "```"):
		rest = strings.TrimPrefix(s, "```")
	default:
		return s
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, "```")
	return strings.TrimSpace(rest)
}

// ExtractJSONObject возвращает подстроку от первой '{' до парной ей '}'.
// Скобки считаются по глубине; текст до и после объекта отбрасывается.
// Скобки внутри строковых литералов отдельно не обрабатываются.
func ExtractJSONObject(s string) (string, error) {
	cleaned := StripCodeFences(s)

	first := strings.IndexByte(cleaned, '{')
	if first == -1 {
		return "", ErrNoJSONObject
	}

	depth := 0
	for i := first; i < len(cleaned); i++ {
		switch cleaned[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return cleaned[first : i+1], nil
			}
		}
	}
	return "", ErrUnbalancedBraces
}
