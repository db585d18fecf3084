package utils

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// PrepareBody encodes body for the given content type. Raw []byte bodies pass
// through unchanged; form encoding accepts maps only.
func PrepareBody(body any, bodyType string) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}
	ct := strings.ToLower(strings.TrimSpace(bodyType))
	if ct == "" {
		ct = "application/json"
	}
	if raw, ok := body.([]byte); ok {
		return raw, ct, nil
	}
	switch ct {
	case "application/json":
		buf, err := json.Marshal(body)
		return buf, "application/json", err
	case "application/x-www-form-urlencoded":
		vals := url.Values{}
		switch m := body.(type) {
		case map[string]any:
			for k, v := range m {
				vals.Set(k, fmt.Sprintf("%v", v))
			}
		case map[string]string:
			for k, v := range m {
				vals.Set(k, v)
			}
		default:
			return nil, "", fmt.Errorf("form body must be a map, got %T", body)
		}
		return []byte(vals.Encode()), "application/x-www-form-urlencoded", nil
	default:
		return nil, "", fmt.Errorf("unsupported body_type: %s", bodyType)
	}
}
