package rules

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	set := Default()
	if err := set.Validate(); err != nil {
		t.Fatalf("Default().Validate() failed: %v", err)
	}
	if len(set.Protected) == 0 {
		t.Error("Default() has empty protected list")
	}
	if !set.RequiresRoot() {
		t.Error("Default() should contain at least one root-only category")
	}
}

func TestDefaultCategoryOrder(t *testing.T) {
	want := []Category{Cache, Logs, TempFiles, PackageLeftovers, Trash, CrashReports}
	got := Default().Categories()

	if len(got) != len(want) {
		t.Fatalf("Categories() returned %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Set{
		Specs: []Spec{
			{Category: Cache, Rules: []Rule{{Pattern: "/tmp/x/*"}}},
		},
	}

	tests := []struct {
		name    string
		set     Set
		wantErr bool
	}{
		{"valid set", valid, false},
		{"no categories", Set{}, true},
		{
			"empty category name",
			Set{Specs: []Spec{{Rules: []Rule{{Pattern: "/a/*"}}}}},
			true,
		},
		{
			"duplicate category",
			Set{Specs: []Spec{
				{Category: Cache, Rules: []Rule{{Pattern: "/a/*"}}},
				{Category: Cache, Rules: []Rule{{Pattern: "/b/*"}}},
			}},
			true,
		},
		{
			"category without rules",
			Set{Specs: []Spec{{Category: Logs}}},
			true,
		},
		{
			"empty pattern",
			Set{Specs: []Spec{{Category: Cache, Rules: []Rule{{Pattern: ""}}}}},
			true,
		},
		{
			"relative pattern",
			Set{Specs: []Spec{{Category: Cache, Rules: []Rule{{Pattern: "tmp/*"}}}}},
			true,
		},
		{
			"negative age",
			Set{Specs: []Spec{{Category: Cache, Rules: []Rule{{Pattern: "/a/*", MinAge: -time.Hour}}}}},
			true,
		},
		{
			"negative size",
			Set{Specs: []Spec{{Category: Cache, Rules: []Rule{{Pattern: "/a/*", MinSize: -1}}}}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
			if tt.wantErr && err != nil && !errors.Is(err, ErrInvalidRuleSet) {
				t.Errorf("Validate() error %v is not ErrInvalidRuleSet", err)
			}
		})
	}
}

func TestForCategories(t *testing.T) {
	set := Set{
		Specs: []Spec{
			{Category: Cache, Rules: []Rule{{Pattern: "/a/*"}}},
			{Category: Logs, Rules: []Rule{{Pattern: "/b/*"}}},
			{Category: TempFiles, Rules: []Rule{{Pattern: "/c/*"}}},
		},
		Protected: []string{"/"},
	}

	t.Run("empty selects all", func(t *testing.T) {
		got, err := set.ForCategories(nil)
		if err != nil {
			t.Fatalf("ForCategories(nil) failed: %v", err)
		}
		if len(got.Specs) != 3 {
			t.Errorf("ForCategories(nil) returned %d specs, want 3", len(got.Specs))
		}
	})

	t.Run("preserves declaration order", func(t *testing.T) {
		// Requested in reverse; result must still follow declaration order.
		got, err := set.ForCategories([]string{"temp-files", "cache"})
		if err != nil {
			t.Fatalf("ForCategories() failed: %v", err)
		}
		if len(got.Specs) != 2 {
			t.Fatalf("ForCategories() returned %d specs, want 2", len(got.Specs))
		}
		if got.Specs[0].Category != Cache || got.Specs[1].Category != TempFiles {
			t.Errorf("ForCategories() order = [%s, %s], want [cache, temp-files]",
				got.Specs[0].Category, got.Specs[1].Category)
		}
	})

	t.Run("keeps protected list", func(t *testing.T) {
		got, err := set.ForCategories([]string{"logs"})
		if err != nil {
			t.Fatalf("ForCategories() failed: %v", err)
		}
		if len(got.Protected) != 1 {
			t.Errorf("ForCategories() dropped the protected list")
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := set.ForCategories([]string{"registry"})
		if err == nil {
			t.Fatal("ForCategories() = nil, want error for unknown category")
		}
		if !errors.Is(err, ErrInvalidRuleSet) {
			t.Errorf("ForCategories() error %v is not ErrInvalidRuleSet", err)
		}
	})
}

func TestIsProtected(t *testing.T) {
	set := Set{
		Protected: []string{"/", "/etc", "/usr", "/srv/*/secrets"},
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/etc", true},
		{"/etc/passwd", true},
		{"/usr/lib/libc.so", true},
		{"/etcetera", false},
		{"/tmp/file", false},
		{"/home/user/.cache/app", false},
		{"/srv/prod/secrets", true},
		{"/srv/prod/public", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := set.IsProtected(tt.path); got != tt.want {
				t.Errorf("IsProtected(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSpecLookup(t *testing.T) {
	set := Default()

	spec, ok := set.Spec(PackageLeftovers)
	if !ok {
		t.Fatal("Spec(PackageLeftovers) not found in default set")
	}
	if !spec.Caution {
		t.Error("package-leftovers should be marked caution")
	}

	if _, ok := set.Spec(Category("nope")); ok {
		t.Error("Spec() found a category that does not exist")
	}
}

func TestDefaultPatternsAbsolute(t *testing.T) {
	for _, spec := range Default().Specs {
		for _, r := range spec.Rules {
			if !filepath.IsAbs(r.Pattern) {
				t.Errorf("category %s: pattern %q is not absolute", spec.Category, r.Pattern)
			}
		}
	}
}
