package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"storyweave/internal/store"
)

// sanitizeText trims, repairs invalid UTF-8 and drops control characters
// other than newline and tab.
func sanitizeText(s string) string {
	s = strings.ToValidUTF8(s, "�")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// parseImageRef accepts a positive integer in any of the shapes a decoded
// request body can carry. nil and the empty string clear the reference.
func parseImageRef(value any) (*int64, error) {
	var n int64
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *int64:
		if v == nil {
			return nil, nil
		}
		n = *v
	case int:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 {
			return nil, fmt.Errorf("image reference %v is not an integer", v)
		}
		n = int64(v)
	case json.Number:
		parsed, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("image reference %q is not an integer", v)
		}
		n = parsed
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("image reference %q is not an integer", v)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("image reference of type %T is not supported", value)
	}
	if n <= 0 {
		return nil, fmt.Errorf("image reference %d must be positive", n)
	}
	return &n, nil
}

func fieldValue(field store.Field, value any) (store.FieldValue, error) {
	if field.IsImageRef() {
		ref, err := parseImageRef(value)
		if err != nil {
			return store.FieldValue{}, err
		}
		return store.RefValue(ref), nil
	}

	switch v := value.(type) {
	case nil:
		return store.TextValue(""), nil
	case string:
		return store.TextValue(sanitizeText(v)), nil
	default:
		return store.FieldValue{}, fmt.Errorf("%s must be text, got %T", field, value)
	}
}
