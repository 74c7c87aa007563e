package planning

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry - именованная запись ресурса в порядке, заданном бэкендом.
type Entry[T any] struct {
	Key   string
	Value T
}

// Ordered - JSON-объект именованных записей с сохранением порядка ключей.
// Значения null и скалярные поля (например, агрегаты total_price) пропускаются.
type Ordered[T any] []Entry[T]

// UnmarshalJSON разбирает объект, сохраняя порядок ключей.
func (o *Ordered[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected json object, got %v", tok)
	}

	out := make(Ordered[T], 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}

		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}

		var value T
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		out = append(out, Entry[T]{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = out
	return nil
}

// MarshalJSON записывает объект в исходном порядке ключей.
func (o Ordered[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Text - отображаемое значение, которое бэкенд может прислать строкой или числом.
type Text string

// UnmarshalJSON принимает строку, число, bool или null.
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*t = ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(trimmed)
	}
	return nil
}
