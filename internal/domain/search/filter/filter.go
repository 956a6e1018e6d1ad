// Package filter describes tag pre-filters applied to vector search.
package filter

import "fmt"

// MaxValuesPerCondition bounds the alternatives of a single tag condition.
const MaxValuesPerCondition = 512

// Expression is a conjunction of tag conditions. The zero value filters nothing.
type Expression struct {
	must []Condition
}

// NewExpression combines conditions with AND semantics.
func NewExpression(must ...Condition) Expression {
	return Expression{must: must}
}

// Must returns the conditions.
func (e Expression) Must() []Condition { return e.must }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.must) == 0 }

// Condition matches documents whose tag field equals any of its values.
type Condition struct {
	key    string
	values []string
}

// NewAnyOf creates a tag condition. Empty and repeated values are dropped.
func NewAnyOf(key string, values ...string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}

	seen := make(map[string]struct{}, len(values))
	uniq := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}

	if len(uniq) == 0 {
		return Condition{}, fmt.Errorf("at least one value is required for key %q", key)
	}
	if len(uniq) > MaxValuesPerCondition {
		return Condition{}, fmt.Errorf("too many values for key %q (max %d)", key, MaxValuesPerCondition)
	}
	return Condition{key: key, values: uniq}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Values returns the accepted tag values.
func (c Condition) Values() []string { return c.values }
