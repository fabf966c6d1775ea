package fruit

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Text: описательное поле ответа модели. Принимает строку, число, bool или массив;
// не-строки сохраняются как их JSON-текст, массивы склеиваются через ", ".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case b[0] == '[':
		var l List
		if err := l.UnmarshalJSON(b); err != nil {
			return err
		}
		*t = Text(strings.Join(l, ", "))
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*t = Text(buf.String())
	}
	return nil
}

// List: список строк из ответа модели. Одиночное значение становится списком из одного элемента.
type List []string

func (l *List) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] != '[' {
		var t Text
		if err := t.UnmarshalJSON(b); err != nil {
			return err
		}
		if t == "" {
			*l = nil
			return nil
		}
		*l = List{string(t)}
		return nil
	}

	var items []Text
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	out := make(List, 0, len(items))
	for _, it := range items {
		out = append(out, string(it))
	}
	*l = out
	return nil
}
