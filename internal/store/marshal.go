package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/ida/internal/trace"
)

// marshalAttrs converts event attributes to canonical JSON TEXT for storage.
func marshalAttrs(attrs map[string]any) (string, error) {
	if len(attrs) == 0 {
		return "{}", nil
	}
	data, err := trace.MarshalCanonical(attrs)
	if err != nil {
		return "", fmt.Errorf("marshal attrs: %w", err)
	}
	return string(data), nil
}

// unmarshalAttrs parses attribute JSON. Numbers decode as int64, the only
// numeric type canonical JSON admits, so re-encoding is byte-identical.
func unmarshalAttrs(data string) (map[string]any, error) {
	if data == "" || data == "{}" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal attrs: %w", err)
	}
	out, err := integers(raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal attrs: %w", err)
	}
	return out.(map[string]any), nil
}

func integers(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %s", val)
		}
		return n, nil
	case []any:
		for i := range val {
			item, err := integers(val[i])
			if err != nil {
				return nil, err
			}
			val[i] = item
		}
		return val, nil
	case map[string]any:
		for k := range val {
			item, err := integers(val[k])
			if err != nil {
				return nil, err
			}
			val[k] = item
		}
		return val, nil
	default:
		return v, nil
	}
}

// marshalConfig stores bridge settings as canonical JSON.
func marshalConfig(cfg map[string]any) (string, error) {
	data, err := trace.MarshalCanonical(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}
