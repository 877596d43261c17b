package resolver

import (
	"time"
)

// DefaultDateLayout renders timestamps as "2024-03-05 14:07 PM": 24-hour clock
// followed by the 12-hour day-half marker.
const DefaultDateLayout = "2006-01-02 15:04 PM"

// Rule rewrites a field value after it is read. Rules are evaluated in
// registration order and the first one whose Match returns true wins.
type Rule struct {
	Name  string
	Match func(v any) bool
	Apply func(v any) any
}

// TypeRule builds a Rule matching values of dynamic type T.
func TypeRule[T any](name string, apply func(T) any) Rule {
	return Rule{
		Name: name,
		Match: func(v any) bool {
			_, ok := v.(T)
			return ok
		},
		Apply: func(v any) any {
			return apply(v.(T))
		},
	}
}

// TimeRule formats time.Time and non-nil *time.Time values with layout.
func TimeRule(layout string) Rule {
	if layout == "" {
		layout = DefaultDateLayout
	}
	return Rule{
		Name: "time",
		Match: func(v any) bool {
			switch t := v.(type) {
			case time.Time:
				return true
			case *time.Time:
				return t != nil
			}
			return false
		},
		Apply: func(v any) any {
			switch t := v.(type) {
			case time.Time:
				return t.Format(layout)
			case *time.Time:
				return t.Format(layout)
			}
			return v
		},
	}
}

// DefaultRules returns the rules a Resolver uses when none are configured
func DefaultRules() []Rule {
	return []Rule{TimeRule(DefaultDateLayout)}
}

func applyRules(rules []Rule, v any) any {
	for _, rule := range rules {
		if rule.Match(v) {
			return rule.Apply(v)
		}
	}
	return v
}
