// Package validate проверяет наличие обязательных полей в ответе модели.
// Проверяется только присутствие ключа, не тип и не диапазон.
package validate

import (
	"encoding/json"
	"fmt"
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
	}
	return "missing required field: " + e.Field
}

// Missing: ошибка отсутствующего поля.
func Missing(field string) *ValidationError {
	return &ValidationError{Field: field}
}

// Fields возвращает ошибку на первом отсутствующем ключе верхнего уровня.
func Fields(obj map[string]json.RawMessage, names ...string) error {
	for _, n := range names {
		if _, ok := obj[n]; !ok {
			return Missing(n)
		}
	}
	return nil
}

// Nested выполняет ту же проверку внутри вложенного объекта parent.
// Отсутствующий parent или parent, не являющийся объектом, — ошибка с именем parent.
func Nested(obj map[string]json.RawMessage, parent string, names ...string) error {
	raw, ok := obj[parent]
	if !ok {
		return Missing(parent)
	}
	var sub map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sub); err != nil || sub == nil {
		return &ValidationError{Field: parent, Reason: "expected an object"}
	}
	for _, n := range names {
		if _, ok := sub[n]; !ok {
			return Missing(parent + "." + n)
		}
	}
	return nil
}
