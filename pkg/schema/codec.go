package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/triprules/pkg/domain"
)

// Encode serializes rules in the v1 persisted shape.
func Encode(rules domain.TripRules) (string, error) {
	data, err := json.Marshal(rules)
	if err != nil {
		return "", fmt.Errorf("failed to marshal rules: %w", err)
	}
	return string(data), nil
}

// Decode parses a persisted v1 value.
// Foreign shapes (unknown fields, wrong types, non-objects) return domain.ErrPersistenceCorrupt.
func Decode(data string) (domain.TripRules, error) {
	var rules domain.TripRules

	trimmed := bytes.TrimSpace([]byte(data))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return rules, fmt.Errorf("%w: trip rules is not a JSON object", domain.ErrPersistenceCorrupt)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rules); err != nil {
		return domain.TripRules{}, fmt.Errorf("%w: %v", domain.ErrPersistenceCorrupt, err)
	}
	if dec.More() {
		return domain.TripRules{}, fmt.Errorf("%w: trailing data after trip rules", domain.ErrPersistenceCorrupt)
	}
	return rules, nil
}
