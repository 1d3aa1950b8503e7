package screen_test

import (
	"testing"

	"panelcore/pkg/screen"
)

func TestNavRegistryMenuOrder(t *testing.T) {
	nav := screen.NewNavRegistry()
	entries := []screen.MenuEntry{
		{Label: "Dashboard", Route: "dashboard", Icon: "home"},
		{Label: "Tasks", Route: "tasks", Icon: "check"},
		{Label: "Archived", Route: "tasks/archived", Parent: "tasks"},
	}
	for _, e := range entries {
		if err := nav.Register(e); err != nil {
			t.Fatalf("register %s: %v", e.Route, err)
		}
	}

	menu := nav.Menu()
	if len(menu) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(menu))
	}
	for i, e := range entries {
		if menu[i].Route != e.Route {
			t.Fatalf("insertion order lost at %d: %s", i, menu[i].Route)
		}
	}
}

func TestNavRegistryRejectsBadEntries(t *testing.T) {
	nav := screen.NewNavRegistry()
	if err := nav.Register(screen.MenuEntry{Label: "x"}); err == nil {
		t.Fatalf("expected empty route rejection")
	}
	if err := nav.Register(screen.MenuEntry{Route: "a", Parent: "a"}); err == nil {
		t.Fatalf("expected self-parent rejection")
	}
	if err := nav.Register(screen.MenuEntry{Route: "child", Parent: "missing"}); err == nil {
		t.Fatalf("expected unregistered parent rejection")
	}
	if err := nav.Register(screen.MenuEntry{Route: "a"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := nav.Register(screen.MenuEntry{Route: "a"}); err == nil {
		t.Fatalf("expected duplicate route rejection")
	}
}

func TestBreadcrumbTrail(t *testing.T) {
	nav := screen.NewNavRegistry()
	for _, e := range []screen.MenuEntry{
		{Label: "Settings", Route: "settings"},
		{Label: "Team", Route: "settings/team", Parent: "settings"},
		{Label: "Members", Route: "settings/team/members", Parent: "settings/team"},
	} {
		if err := nav.Register(e); err != nil {
			t.Fatalf("register %s: %v", e.Route, err)
		}
	}

	trail, err := nav.Breadcrumbs("settings/team/members")
	if err != nil {
		t.Fatalf("breadcrumbs: %v", err)
	}
	want := []string{"settings", "settings/team", "settings/team/members"}
	if len(trail) != len(want) {
		t.Fatalf("expected %d crumbs, got %d", len(want), len(trail))
	}
	for i, route := range want {
		if trail[i].Route != route {
			t.Fatalf("crumb %d: want %s got %s", i, route, trail[i].Route)
		}
	}

	if _, err := nav.Breadcrumbs("unknown"); err == nil {
		t.Fatalf("expected error for unknown route")
	}
}
