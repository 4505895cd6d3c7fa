// Package filter evaluates recursive boolean condition trees against JSON
// documents.
package filter

import (
	"math"
	"reflect"
	"strings"

	"github.com/gramdex/gramdex/model"
)

// Combinator node types.
const (
	TypeAnd = "AND"
	TypeOr  = "OR"
	TypeNot = "NOT"
)

// Condition is a single typed predicate against a dot-notation property.
// Dispatch happens on the declared Type, not on the actual JSON tag of the
// resolved value; a mismatching value falls back to the type's zero value
// and usually fails the predicate.
type Condition struct {
	Property  string      `json:"property"`
	Type      string      `json:"type"`      // string | number | array | boolean | null
	Operation string      `json:"operation"` // varies by type, e.g. "=", "?", ">", "<", "length"
	Value     interface{} `json:"value"`
}

// Tree is a recursive boolean filter. A node with a Children list is a
// combinator (AND, OR, NOT); a node without one is a leaf holding a
// Condition. NOT evaluates only its first child.
type Tree struct {
	Type      string     `json:"type,omitempty"`
	Children  []Tree     `json:"children,omitempty"`
	Condition *Condition `json:"condition,omitempty"`
}

// Matches reports whether doc satisfies the tree. Unknown combinators,
// missing conditions, and unknown type/operation pairs all evaluate false.
func (t *Tree) Matches(doc model.Document) bool {
	if t.Children != nil {
		switch t.Type {
		case TypeAnd:
			for i := range t.Children {
				if !t.Children[i].Matches(doc) {
					return false
				}
			}
			return true
		case TypeOr:
			for i := range t.Children {
				if t.Children[i].Matches(doc) {
					return true
				}
			}
			return false
		case TypeNot:
			if len(t.Children) == 0 {
				return false
			}
			return !t.Children[0].Matches(doc)
		}
		return false
	}

	if t.Condition == nil {
		return false
	}
	return t.Condition.matches(doc)
}

func (c *Condition) matches(doc model.Document) bool {
	value := doc.Lookup(c.Property)

	switch c.Type {
	case "string":
		target, _ := value.(string)
		want, _ := c.Value.(string)
		switch c.Operation {
		case "=":
			return target == want
		case "?":
			return strings.Contains(target, want)
		}

	case "number":
		target := toFloat(value)
		want := toFloat(c.Value)
		switch c.Operation {
		case "=":
			return math.Abs(target-want) < 1e-6
		case ">":
			return target > want
		case "<":
			return target < want
		}

	case "array":
		target, _ := value.([]interface{})
		switch c.Operation {
		case "?":
			for _, el := range target {
				if reflect.DeepEqual(el, c.Value) {
					return true
				}
			}
			return false
		case "length":
			return len(target) == int(toFloat(c.Value))
		}

	case "boolean":
		if c.Operation == "=" {
			target, _ := value.(bool)
			want, _ := c.Value.(bool)
			return target == want
		}

	case "null":
		if c.Operation == "=" {
			return value == nil
		}
	}

	return false
}

// toFloat coerces a decoded JSON value to float64, defaulting to 0 for
// anything that is not a number. encoding/json always decodes numbers as
// float64; the integer cases cover conditions built directly in Go.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
