package server

import (
	"github.com/bytedance/sonic"
)

const (
	fieldText       = "text"
	fieldSourceLang = "source_lang"
	fieldTargetLang = "target_lang"
)

// decodePayload accepts only a non-empty JSON object. Anything else, including
// a body that does not parse, counts as a missing payload.
func decodePayload(body []byte) (map[string]any, *APIError) {
	if len(body) == 0 {
		return nil, errMissingPayload
	}
	var payload map[string]any
	if err := sonic.ConfigStd.Unmarshal(body, &payload); err != nil {
		return nil, errMissingPayload
	}
	if len(payload) == 0 {
		return nil, errMissingPayload
	}
	return payload, nil
}

// requireFields pulls the named fields out of payload as strings. Absent and
// falsy values (null, "", false, 0, [], {}) are reported together as missing.
// A truthy value of the wrong type is only reported once nothing is missing.
func requireFields(payload map[string]any, names []string) (map[string]string, *APIError) {
	values := make(map[string]string, len(names))
	var missing []string
	var invalid *APIError

	for _, name := range names {
		raw, ok := payload[name]
		if !ok || isFalsy(raw) {
			missing = append(missing, name)
			continue
		}
		s, ok := raw.(string)
		if !ok {
			if invalid == nil {
				invalid = errInvalidField(name)
			}
			continue
		}
		values[name] = s
	}

	if len(missing) > 0 {
		return nil, errMissingFields(missing)
	}
	if invalid != nil {
		return nil, invalid
	}
	return values, nil
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
