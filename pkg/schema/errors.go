package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldErrors maps a TripRules field (by its JSON name) to a human readable message.
// An empty set means the rules are valid.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	keys := e.Fields()
	if len(keys) == 1 {
		return fmt.Sprintf("field %q: %s", keys[0], e[keys[0]])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(keys))
	for i, k := range keys {
		fmt.Fprintf(&b, "  %d. field %q: %s\n", i+1, k, e[k])
	}
	return b.String()
}

// Fields returns the failing field names in a stable order.
func (e FieldErrors) Fields() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsFieldErrors extracts FieldErrors from err, if any.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
