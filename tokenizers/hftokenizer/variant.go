package hftokenizer

import (
	"fmt"
)

// Pattern used by the Replace normalizer and the Split pre-tokenizer: exactly one of String or Regex is
// usually set.
type Pattern struct {
	String string `mapstructure:"String"`
	Regex  string `mapstructure:"Regex"`
}

// IsRegex returns whether the pattern is a regular expression, as opposed to a literal string.
func (p Pattern) IsRegex() bool { return p.Regex != "" }

// variantObject returns the object and its "type" for a normalizer or pre-tokenizer value.
// isNull is true if raw is a JSON null (or absent).
func variantObject(key string, raw any) (obj map[string]any, typeName string, isNull bool, err error) {
	if raw == nil {
		return nil, "", true, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, "", false, schemaViolationf(key, "expected an object or null, got %s", kindOf(raw))
	}
	rawType, found := obj["type"]
	if !found {
		return nil, "", false, missingKey(key + ".type")
	}
	typeName, ok = rawType.(string)
	if !ok {
		return nil, "", false, schemaViolationf(key+".type", "expected a string, got %s", kindOf(rawType))
	}
	return obj, typeName, false, nil
}

// variantChildren returns the children of a "Sequence" variant, stored under childrenKey.
func variantChildren(key string, obj map[string]any, childrenKey string) ([]any, error) {
	rawChildren, found := obj[childrenKey]
	if !found || rawChildren == nil {
		return nil, missingKey(key + "." + childrenKey)
	}
	children, ok := rawChildren.([]any)
	if !ok {
		return nil, schemaViolationf(key+"."+childrenKey, "expected an array, got %s", kindOf(rawChildren))
	}
	return children, nil
}

func childKey(key, childrenKey string, index int) string {
	return fmt.Sprintf("%s.%s[%d]", key, childrenKey, index)
}

// cloneTree returns a deep copy of a value of the document tree.
func cloneTree(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return cloneObject(value)
	case []any:
		arr := make([]any, len(value))
		for ii, item := range value {
			arr[ii] = cloneTree(item)
		}
		return arr
	default:
		return v
	}
}

func cloneObject(obj map[string]any) map[string]any {
	cloned := make(map[string]any, len(obj))
	for key, value := range obj {
		cloned[key] = cloneTree(value)
	}
	return cloned
}
