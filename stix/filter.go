package stix

import "strings"

// Op is a filter comparison operator.
type Op string

const (
	// OpEq matches when the field equals the value.
	OpEq Op = "="

	// OpNeq matches when some value at the field differs from the value.
	OpNeq Op = "!="

	// OpContains matches when the string field contains the value as a
	// substring.
	OpContains Op = "contains"

	// OpExists matches on field presence: value true requires a non-empty
	// field, value false requires the field to be absent or empty.
	OpExists Op = "exists"
)

// Filter is one (field path, operator, value) predicate. Field paths use
// dots to descend into nested documents; list fields are flattened, so a
// predicate holds when any element satisfies it.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// NewFilter builds a filter predicate.
func NewFilter(field string, op Op, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Matches evaluates the filter against an object's raw document.
func (f Filter) Matches(obj *Object) bool {
	path := strings.Split(f.Field, ".")
	if f.Op == OpExists {
		want, _ := f.Value.(bool)
		return exists(obj.raw, path) == want
	}
	return eval(obj.raw, path, f)
}

// eval walks the document along path, flattening lists, and applies the
// leaf comparison once the path is exhausted.
func eval(value any, path []string, f Filter) bool {
	if list, ok := value.([]any); ok {
		for _, elem := range list {
			if eval(elem, path, f) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 {
		return compare(value, f)
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return false
	}
	child, ok := doc[path[0]]
	if !ok {
		return false
	}
	return eval(child, path[1:], f)
}

func compare(actual any, f Filter) bool {
	switch f.Op {
	case OpEq:
		return equalValue(actual, f.Value)
	case OpNeq:
		return !equalValue(actual, f.Value)
	case OpContains:
		s, ok := actual.(string)
		sub, ok2 := f.Value.(string)
		return ok && ok2 && strings.Contains(s, sub)
	default:
		return false
	}
}

func equalValue(actual, expected any) bool {
	switch want := expected.(type) {
	case string:
		got, ok := actual.(string)
		return ok && got == want
	case bool:
		got, ok := actual.(bool)
		return ok && got == want
	case int:
		got, ok := actual.(float64)
		return ok && got == float64(want)
	case float64:
		got, ok := actual.(float64)
		return ok && got == want
	default:
		return false
	}
}

// exists walks the path and reports whether a non-empty value sits at the
// end of it.
func exists(value any, path []string) bool {
	if len(path) == 0 {
		switch v := value.(type) {
		case nil:
			return false
		case []any:
			return len(v) > 0
		case map[string]any:
			return len(v) > 0
		case string:
			return v != ""
		default:
			return true
		}
	}
	switch v := value.(type) {
	case []any:
		for _, elem := range v {
			if exists(elem, path) {
				return true
			}
		}
		return false
	case map[string]any:
		child, ok := v[path[0]]
		if !ok {
			return false
		}
		return exists(child, path[1:])
	default:
		return false
	}
}
