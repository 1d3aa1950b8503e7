package screen

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldPath addresses a record field as "entity.field", the dot notation used
// by payload keys and field descriptors. Parsing it once at configuration time
// keeps payload extraction type-checked instead of string-concatenated.
type FieldPath struct {
	Entity Entity
	Field  string
}

// ParseFieldPath splits a dot-notation reference such as "task.name".
func ParseFieldPath(s string) (FieldPath, error) {
	entity, field, ok := strings.Cut(s, ".")
	if !ok || entity == "" || field == "" || strings.Contains(field, ".") {
		return FieldPath{}, fmt.Errorf("invalid field path %q: want entity.field", s)
	}
	return FieldPath{Entity: Entity(entity), Field: field}, nil
}

// MustFieldPath parses a field path and panics on error. Intended for
// screen configuration executed once at startup.
func MustFieldPath(s string) FieldPath {
	p, err := ParseFieldPath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p FieldPath) String() string {
	return string(p.Entity) + "." + p.Field
}

// Rule is a small composable validation predicate attached to a field
// descriptor. Check receives the payload value (nil when absent) and returns
// a human-readable message on failure.
type Rule struct {
	Name  string
	Check func(value any) error
}

// Required fails on absent values and empty strings.
func Required() Rule {
	return Rule{
		Name: "required",
		Check: func(value any) error {
			if value == nil {
				return fmt.Errorf("value is required")
			}
			if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
				return fmt.Errorf("value is required")
			}
			return nil
		},
	}
}

// MaxLength fails string values longer than n runes. Absent values pass.
func MaxLength(n int) Rule {
	return Rule{
		Name: fmt.Sprintf("maxLength:%d", n),
		Check: func(value any) error {
			s, ok := value.(string)
			if !ok {
				return nil
			}
			if utf8.RuneCountInString(s) > n {
				return fmt.Errorf("value exceeds %d characters", n)
			}
			return nil
		},
	}
}

// OneOf fails string values outside the allowed set. Absent values pass.
func OneOf(allowed ...string) Rule {
	return Rule{
		Name: "oneOf:" + strings.Join(allowed, "|"),
		Check: func(value any) error {
			s, ok := value.(string)
			if !ok {
				return nil
			}
			for _, a := range allowed {
				if s == a {
					return nil
				}
			}
			return fmt.Errorf("value must be one of %s", strings.Join(allowed, ", "))
		},
	}
}

// Pattern fails string values that do not match the anchored expression.
// Absent values pass. Panics on an invalid expression; patterns belong to
// screen configuration executed once at startup.
func Pattern(expr string) Rule {
	re := regexp.MustCompile("^(?:" + expr + ")$")
	return Rule{
		Name: "pattern:" + expr,
		Check: func(value any) error {
			s, ok := value.(string)
			if !ok || s == "" {
				return nil
			}
			if !re.MatchString(s) {
				return fmt.Errorf("value must match %s", expr)
			}
			return nil
		},
	}
}

// Boolean fails values that are present but not bool. Absent values pass.
func Boolean() Rule {
	return Rule{
		Name: "boolean",
		Check: func(value any) error {
			if value == nil {
				return nil
			}
			if _, ok := value.(bool); !ok {
				return fmt.Errorf("value must be true or false")
			}
			return nil
		},
	}
}

// FieldDescriptor declaratively describes a single input: where it writes,
// how it is presented, and which rules gate submission. Descriptors are
// constructed once per screen and never mutated afterwards.
type FieldDescriptor struct {
	Path        FieldPath `json:"path"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder,omitempty"`
	HelpText    string    `json:"help_text,omitempty"`
	Rules       []Rule    `json:"-"`
}

// RuleNames lists the attached rule identifiers, e.g. for rendering hints.
func (d FieldDescriptor) RuleNames() []string {
	names := make([]string, 0, len(d.Rules))
	for _, r := range d.Rules {
		names = append(names, r.Name)
	}
	return names
}

// Validate evaluates the descriptor's rules in order against a payload value
// and returns the first failure, or nil when all rules pass.
func (d FieldDescriptor) Validate(value any) *ValidationError {
	for _, rule := range d.Rules {
		if err := rule.Check(value); err != nil {
			return &ValidationError{Field: d.Path.String(), Rule: rule.Name, Message: err.Error()}
		}
	}
	return nil
}
