package screen_test

import (
	"strings"
	"testing"

	"panelcore/pkg/screen"
)

func TestParseFieldPath(t *testing.T) {
	path, err := screen.ParseFieldPath("task.name")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if path.Entity != "task" || path.Field != "name" {
		t.Fatalf("unexpected path %+v", path)
	}
	if path.String() != "task.name" {
		t.Fatalf("round trip mismatch: %s", path)
	}

	for _, bad := range []string{"", "task", ".name", "task.", "task.a.b"} {
		if _, err := screen.ParseFieldPath(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRequiredRule(t *testing.T) {
	fd := screen.FieldDescriptor{
		Path:  screen.MustFieldPath("task.name"),
		Label: "Name",
		Rules: []screen.Rule{screen.Required(), screen.MaxLength(255)},
	}

	if verr := fd.Validate("Buy milk"); verr != nil {
		t.Fatalf("valid value rejected: %v", verr)
	}
	verr := fd.Validate(nil)
	if verr == nil {
		t.Fatalf("expected required failure for nil")
	}
	if verr.Field != "task.name" || verr.Rule != "required" {
		t.Fatalf("unexpected error detail %+v", verr)
	}
	if verr := fd.Validate("   "); verr == nil {
		t.Fatalf("expected required failure for blank string")
	}
}

func TestMaxLengthRule(t *testing.T) {
	fd := screen.FieldDescriptor{
		Path:  screen.MustFieldPath("task.name"),
		Rules: []screen.Rule{screen.MaxLength(5)},
	}
	if verr := fd.Validate("short"); verr != nil {
		t.Fatalf("boundary value rejected: %v", verr)
	}
	verr := fd.Validate("too long")
	if verr == nil {
		t.Fatalf("expected maxLength failure")
	}
	if verr.Rule != "maxLength:5" {
		t.Fatalf("unexpected rule name %s", verr.Rule)
	}
	// Absent values are the required rule's concern, not maxLength's.
	if verr := fd.Validate(nil); verr != nil {
		t.Fatalf("nil should pass maxLength: %v", verr)
	}
}

func TestOneOfAndBooleanRules(t *testing.T) {
	status := screen.FieldDescriptor{
		Path:  screen.MustFieldPath("task.status"),
		Rules: []screen.Rule{screen.OneOf("open", "done")},
	}
	if verr := status.Validate("open"); verr != nil {
		t.Fatalf("allowed value rejected: %v", verr)
	}
	if verr := status.Validate("archived"); verr == nil {
		t.Fatalf("expected oneOf failure")
	} else if !strings.HasPrefix(verr.Rule, "oneOf:") {
		t.Fatalf("unexpected rule name %s", verr.Rule)
	}

	active := screen.FieldDescriptor{
		Path:  screen.MustFieldPath("task.active"),
		Rules: []screen.Rule{screen.Boolean()},
	}
	if verr := active.Validate(true); verr != nil {
		t.Fatalf("bool rejected: %v", verr)
	}
	if verr := active.Validate("yes"); verr == nil {
		t.Fatalf("expected boolean failure for string")
	}
}

func TestPatternRule(t *testing.T) {
	slug := screen.FieldDescriptor{
		Path:  screen.MustFieldPath("task.slug"),
		Rules: []screen.Rule{screen.Pattern(`[a-z0-9-]+`)},
	}
	if verr := slug.Validate("weekly-report-3"); verr != nil {
		t.Fatalf("matching value rejected: %v", verr)
	}
	if verr := slug.Validate("Weekly Report"); verr == nil {
		t.Fatalf("expected pattern failure")
	} else if !strings.HasPrefix(verr.Rule, "pattern:") {
		t.Fatalf("unexpected rule name %s", verr.Rule)
	}
	// The match is anchored over the whole value, not a substring.
	if verr := slug.Validate("ok/../nope"); verr == nil {
		t.Fatalf("expected anchored pattern failure")
	}
	if verr := slug.Validate(""); verr != nil {
		t.Fatalf("absent value should pass: %v", verr)
	}
}

func TestRuleNames(t *testing.T) {
	fd := screen.FieldDescriptor{
		Path:  screen.MustFieldPath("task.name"),
		Rules: []screen.Rule{screen.Required(), screen.MaxLength(255)},
	}
	names := fd.RuleNames()
	if len(names) != 2 || names[0] != "required" || names[1] != "maxLength:255" {
		t.Fatalf("unexpected rule names %v", names)
	}
}
