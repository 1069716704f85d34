package order

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoIdentify means the order service answered without an order identifier,
// which is treated as a protocol failure.
var ErrNoIdentify = errors.New("order service response carries no identify")

// ParseOrderIdentify normalizes the order service response shapes into the
// order identify. Deployed order services answer with the identify at
// different nesting levels, so one precedence order is applied here instead
// of optional chaining at call sites:
//
//  1. identify
//  2. data.identify
//  3. data.order.identify
//  4. order.identify
//
// The first non-empty match wins. Numeric identifies are accepted and
// stringified.
func ParseOrderIdentify(body []byte) (string, error) {
	var resp struct {
		Identify json.RawMessage `json:"identify"`
		Data     *struct {
			Identify json.RawMessage `json:"identify"`
			Order    *struct {
				Identify json.RawMessage `json:"identify"`
			} `json:"order"`
		} `json:"data"`
		Order *struct {
			Identify json.RawMessage `json:"identify"`
		} `json:"order"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode order service response: %w", err)
	}

	candidates := []json.RawMessage{resp.Identify}
	if resp.Data != nil {
		candidates = append(candidates, resp.Data.Identify)
		if resp.Data.Order != nil {
			candidates = append(candidates, resp.Data.Order.Identify)
		}
	}
	if resp.Order != nil {
		candidates = append(candidates, resp.Order.Identify)
	}

	for _, raw := range candidates {
		if id := decodeIdentify(raw); id != "" {
			return id, nil
		}
	}
	return "", ErrNoIdentify
}

func decodeIdentify(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
