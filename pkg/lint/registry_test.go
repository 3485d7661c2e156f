package lint

import (
	"testing"

	"github.com/specvital/avalint/pkg/domain"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	// When
	r := NewRegistry()

	// Then
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if len(r.GetRules()) != 0 {
		t.Error("new registry should be empty")
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("should keep rules sorted by name", func(t *testing.T) {
		t.Parallel()

		// Given
		r := NewRegistry()

		// When
		r.Register(&Rule{Name: "use-t-well"})
		r.Register(&Rule{Name: "assertion-arguments"})

		// Then
		rules := r.GetRules()
		if len(rules) != 2 {
			t.Fatalf("len(rules) = %d, want 2", len(rules))
		}
		if rules[0].Name != "assertion-arguments" {
			t.Errorf("rules[0].Name = %q, want %q", rules[0].Name, "assertion-arguments")
		}
	})

	t.Run("should panic on duplicate names", func(t *testing.T) {
		t.Parallel()

		// Given
		r := NewRegistry()
		r.Register(&Rule{Name: "no-only-test"})

		// Then
		defer func() {
			if recover() == nil {
				t.Error("expected panic for duplicate rule")
			}
		}()

		// When
		r.Register(&Rule{Name: "no-only-test"})
	})
}

func TestRegistry_GetRules_ReturnsCopy(t *testing.T) {
	t.Parallel()

	// Given
	r := NewRegistry()
	r.Register(&Rule{Name: "a"})

	// When
	rules := r.GetRules()
	rules[0] = &Rule{Name: "mutated"}

	// Then
	if r.GetRules()[0].Name != "a" {
		t.Error("GetRules should return a copy")
	}
}

func TestRegistry_FindByName(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(&Rule{Name: "no-skip-test", Severity: domain.SeverityError})

	if got := r.FindByName("no-skip-test"); got == nil || got.Severity != domain.SeverityError {
		t.Errorf("FindByName(no-skip-test) = %v", got)
	}
	if got := r.FindByName("missing"); got != nil {
		t.Errorf("FindByName(missing) = %v, want nil", got)
	}
}

func TestRegistry_Clear(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(&Rule{Name: "a"})
	r.Clear()

	if len(r.GetRules()) != 0 {
		t.Error("Clear should remove all rules")
	}
}
