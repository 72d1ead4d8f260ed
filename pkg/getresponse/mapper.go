package getresponse

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// field maps one wire key onto an attribute of E. apply is only called for
// keys that are present with a non-null value. A failing strict field rejects
// the record; any other failing field is left unset.
type field[E any] struct {
	key    string
	strict bool
	apply  func(e *E, v any, logger *zap.Logger) error
}

// mapping is the declarative description of how an entity is read from a
// payload: the required id key, a constructor and the optional fields.
type mapping[E any] struct {
	entity string
	idKey  string
	init   func(id string, raw map[string]any) E
	fields []field[E]
}

func (m *mapping[E]) one(raw map[string]any, logger *zap.Logger) (E, error) {
	var zero E

	id, err := m.id(raw)
	if err != nil {
		return zero, err
	}

	e := m.init(id, raw)
	for _, f := range m.fields {
		v, ok := raw[f.key]
		if !ok || v == nil {
			continue
		}
		if err := f.apply(&e, v, logger); err != nil {
			if f.strict {
				return zero, fmt.Errorf("%s %s: field %q: %w", m.entity, id, f.key, err)
			}
			logger.Debug("Skipping unreadable field",
				zap.String("entity", m.entity),
				zap.String("id", id),
				zap.String("field", f.key),
				zap.Error(err))
		}
	}
	return e, nil
}

func (m *mapping[E]) id(raw map[string]any) (string, error) {
	v, ok := raw[m.idKey]
	if !ok || v == nil {
		return "", fmt.Errorf("%s: %w: %q not in payload", m.entity, ErrMissingID, m.idKey)
	}
	var id string
	if err := decodeValue(v, &id); err != nil {
		return "", fmt.Errorf("%s: %q: %w", m.entity, m.idKey, err)
	}
	if id == "" {
		return "", fmt.Errorf("%s: %w: %q is empty", m.entity, ErrMissingID, m.idKey)
	}
	return id, nil
}

func (m *mapping[E]) many(items []any, logger *zap.Logger) ([]E, error) {
	out := make([]E, 0, len(items))
	for i, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: item %d is %T, not an object", m.entity, i, item)
		}
		e, err := m.one(raw, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// object maps a decoded JSON object.
func (m *mapping[E]) object(payload any, logger *zap.Logger) (E, error) {
	raw, ok := payload.(map[string]any)
	if !ok {
		var zero E
		return zero, fmt.Errorf("%s: expected a JSON object, got %T", m.entity, payload)
	}
	return m.one(raw, logger)
}

// list maps a decoded JSON array.
func (m *mapping[E]) list(payload any, logger *zap.Logger) ([]E, error) {
	items, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a JSON array, got %T", m.entity, payload)
	}
	return m.many(items, logger)
}

// optional reads a value of type T, converting loosely typed input
// ("42" into an int, "false" into a bool).
func optional[E, T any](key string, dst func(*E) *Opt[T]) field[E] {
	return field[E]{
		key: key,
		apply: func(e *E, v any, _ *zap.Logger) error {
			var out T
			if err := decodeValue(v, &out); err != nil {
				return err
			}
			*dst(e) = Some(out)
			return nil
		},
	}
}

// integer reads a whole number. Fractional values are refused rather than
// truncated.
func integer[E any](key string, dst func(*E) *Opt[int]) field[E] {
	return field[E]{
		key: key,
		apply: func(e *E, v any, _ *zap.Logger) error {
			n, err := toInt(v)
			if err != nil {
				return err
			}
			*dst(e) = Some(n)
			return nil
		},
	}
}

// timestamp reads an API date-time. An empty string leaves the field unset.
// A value that is not a date-time rejects the record.
func timestamp[E any](key string, dst func(*E) *Opt[time.Time]) field[E] {
	return field[E]{
		key:    key,
		strict: true,
		apply: func(e *E, v any, _ *zap.Logger) error {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("expected a date-time string, got %T", v)
			}
			if s == "" {
				return nil
			}
			t, err := ParseTime(s)
			if err != nil {
				return err
			}
			*dst(e) = Some(t)
			return nil
		},
	}
}

// nested reads a value with its own mapping.
func nested[E, T any](key string, dst func(*E) *Opt[T], build func(any, *zap.Logger) (T, error)) field[E] {
	return field[E]{
		key: key,
		apply: func(e *E, v any, logger *zap.Logger) error {
			out, err := build(v, logger)
			if err != nil {
				return err
			}
			*dst(e) = Some(out)
			return nil
		},
	}
}

func decodeValue(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
