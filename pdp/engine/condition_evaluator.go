// pdp/engine/condition_evaluator.go
package engine

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/toolgate/api/model"
	pdp_model "github.com/toolgate/api/pdp/model"
)

// ConditionEvaluator matches a structured condition set against an attribute
// map. No expression language: a condition key is a dotted attribute path and
// its expected value is a scalar, a list, or an operator object.
type ConditionEvaluator struct{}

func NewConditionEvaluator() *ConditionEvaluator {
	return &ConditionEvaluator{}
}

// Evaluate returns matched iff every condition key matches (logical AND).
// Keys are checked in sorted order so the first failing key cited in the
// reason is deterministic. Internal panics are caught and reported as a
// non-match; conditions fail closed without aborting the wider evaluation.
func (ce *ConditionEvaluator) Evaluate(conditions model.ConditionMap, attrs map[string]interface{}) (result pdp_model.ConditionEvaluationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = pdp_model.ConditionEvaluationResult{
				Matched: false,
				Reason:  fmt.Sprintf("condition evaluation failed: %v", r),
			}
		}
	}()

	if len(conditions) == 0 {
		return pdp_model.ConditionEvaluationResult{Matched: true, Reason: "no conditions"}
	}

	keys := make([]string, 0, len(conditions))
	for k := range conditions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		expected := conditions[key]
		actual, found := resolvePath(attrs, key)

		if !ce.matchValue(expected, actual, found) {
			return pdp_model.ConditionEvaluationResult{
				Matched: false,
				Reason:  fmt.Sprintf("condition %q not met (got %v)", key, actual),
			}
		}
	}

	return pdp_model.ConditionEvaluationResult{Matched: true, Reason: "all conditions met"}
}

// matchValue applies the expected-value precedence: list membership, operator
// object ($in / $eq), then strict equality.
func (ce *ConditionEvaluator) matchValue(expected, actual interface{}, found bool) bool {
	switch exp := expected.(type) {
	case []interface{}:
		return found && containsValue(exp, actual)
	case []string:
		return found && containsValue(toInterfaceSlice(exp), actual)
	case map[string]interface{}:
		if in, ok := exp["$in"]; ok {
			list, ok := toSlice(in)
			return ok && found && containsValue(list, actual)
		}
		if eq, ok := exp["$eq"]; ok {
			return found && equalValues(eq, actual)
		}
		return found && equalValues(expected, actual)
	default:
		return found && equalValues(expected, actual)
	}
}

// resolvePath walks a dot-separated path through nested maps. A missing
// segment means the attribute is absent.
func resolvePath(attrs map[string]interface{}, path string) (interface{}, bool) {
	segments := strings.Split(path, ".")
	var current interface{} = attrs
	for _, seg := range segments {
		switch node := current.(type) {
		case map[string]interface{}:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func containsValue(list []interface{}, v interface{}) bool {
	for _, item := range list {
		if equalValues(item, v) {
			return true
		}
	}
	return false
}

// equalValues is strict equality with numeric widening, since JSON decoding
// yields float64 while native contexts may carry ints.
func equalValues(a, b interface{}) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case []string:
		return toInterfaceSlice(s), true
	}
	return nil, false
}

func toInterfaceSlice(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func normalize(v interface{}) interface{} {
	if s, ok := v.([]string); ok {
		return toInterfaceSlice(s)
	}
	return v
}
