package plan

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// testLibrary builds a library of bare single-widget masters.
func testLibrary(t *testing.T, names ...string) *Library {
	t.Helper()

	masters := make([]*Master, len(names))
	for i, name := range names {
		masters[i] = &Master{
			Name: name,
			Widgets: []*Widget{{
				ID:       "title",
				Type:     TypeText,
				Content:  name,
				Position: Position{W: 100, H: 100},
			}},
		}
	}

	lib, err := NewLibrary(masters...)
	if err != nil {
		t.Fatal(err)
	}

	return lib
}

func TestValidateOrder(t *testing.T) {
	lib := testLibrary(t, "page")

	tests := []struct {
		name    string
		order   []string
		wantErr error
	}{
		{
			name:  "empty order uses declaration order",
			order: nil,
		},
		{
			name:  "matching set in any order",
			order: []string{"notes", "cover"},
		},
		{
			name:    "missing kind",
			order:   []string{"cover"},
			wantErr: ErrOrderMismatch,
		},
		{
			name:    "unknown kind",
			order:   []string{"cover", "notes", "extra"},
			wantErr: ErrOrderMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Plan{
				Sections: []*Section{
					{Kind: "cover", Master: "page", Generate: GenerateOnce},
					{Kind: "notes", Master: "page", Generate: GenerateCount, Count: 2},
				},
				Order: tt.order,
			}

			err := p.Validate(lib)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateDuplicateKind(t *testing.T) {
	lib := testLibrary(t, "page")

	p := &Plan{Sections: []*Section{
		{Kind: "notes", Master: "page", Generate: GenerateOnce},
		{Kind: "days", Master: "page", Generate: GenerateOnce},
		{Kind: "notes", Master: "page", Generate: GenerateCount, Count: 2},
	}}

	if err := p.Validate(lib); !errors.Is(err, ErrDuplicateKind) {
		t.Fatalf("expected duplicate kind error, got %v", err)
	}

	// Nested sections may reuse a top-level kind; only top-level
	// addressing is by kind.
	nested := &Plan{Sections: []*Section{
		{
			Kind: "months", Master: "page", Generate: GenerateOnce,
			Nested: []*Section{
				{Kind: "notes", Master: "page", Generate: GenerateOnce},
			},
		},
		{Kind: "notes", Master: "page", Generate: GenerateOnce},
	}}

	if err := nested.Validate(lib); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateUnknownMaster(t *testing.T) {
	lib := testLibrary(t, "daily_page", "weekly_page")

	p := &Plan{Sections: []*Section{
		{Kind: "days", Master: "daly_page", Generate: GenerateOnce},
	}}

	err := p.Validate(lib)
	if !errors.Is(err, ErrUnknownMaster) {
		t.Fatalf("expected unknown master error, got %v", err)
	}
}

func TestValidateDepth(t *testing.T) {
	lib := testLibrary(t, "page")

	leaf := &Section{Kind: "d4", Master: "page", Generate: GenerateOnce}
	p := &Plan{Sections: []*Section{{
		Kind: "d1", Master: "page", Generate: GenerateOnce,
		Nested: []*Section{{
			Kind: "d2", Master: "page", Generate: GenerateOnce,
			Nested: []*Section{{
				Kind: "d3", Master: "page", Generate: GenerateOnce,
				Nested: []*Section{leaf},
			}},
		}},
	}}}

	err := p.Validate(lib)
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected depth error, got %v", err)
	}

	// Trimming the fourth level brings the plan within bounds.
	p.Sections[0].Nested[0].Nested[0].Nested = nil

	if err := p.Validate(lib); err != nil {
		t.Fatalf("unexpected error at depth 3: %v", err)
	}
}

func TestValidateScopeCollision(t *testing.T) {
	lib := testLibrary(t, "page")

	tests := []struct {
		name    string
		plan    *Plan
		wantErr bool
	}{
		{
			name: "child reuses parent context variable",
			plan: &Plan{Sections: []*Section{{
				Kind: "projects", Master: "page", Generate: GenerateOnce,
				Context: map[string]any{"label": "P"},
				Nested: []*Section{{
					Kind: "tasks", Master: "page", Generate: GenerateOnce,
					Context: map[string]any{"label": "T"},
				}},
			}}},
			wantErr: true,
		},
		{
			name: "grandchild collides with grandparent",
			plan: &Plan{Sections: []*Section{{
				Kind: "a", Master: "page", Generate: GenerateOnce,
				Context: map[string]any{"topic": "x"},
				Nested: []*Section{{
					Kind: "b", Master: "page", Generate: GenerateOnce,
					Nested: []*Section{{
						Kind: "c", Master: "page", Generate: GenerateOnce,
						Counters: map[string]Counter{"topic": {Start: 1}},
					}},
				}},
			}}},
			wantErr: true,
		},
		{
			name: "counter collides with sibling context in same section",
			plan: &Plan{Sections: []*Section{{
				Kind: "a", Master: "page", Generate: GenerateOnce,
				Counters: map[string]Counter{"n": {Start: 1}},
				Nested: []*Section{{
					Kind: "b", Master: "page", Generate: GenerateOnce,
					Context: map[string]any{"n": 0},
				}},
			}}},
			wantErr: true,
		},
		{
			name: "siblings may reuse a name",
			plan: &Plan{Sections: []*Section{{
				Kind: "parent", Master: "page", Generate: GenerateOnce,
				Nested: []*Section{
					{
						Kind: "left", Master: "page", Generate: GenerateOnce,
						Context: map[string]any{"label": "L"},
					},
					{
						Kind: "right", Master: "page", Generate: GenerateOnce,
						Context: map[string]any{"label": "R"},
					},
				},
			}}},
		},
		{
			name: "top-level sections are independent scopes",
			plan: &Plan{Sections: []*Section{
				{
					Kind: "one", Master: "page", Generate: GenerateOnce,
					Context: map[string]any{"year": 2026},
				},
				{
					Kind: "two", Master: "page", Generate: GenerateOnce,
					Context: map[string]any{"year": 2027},
				},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate(lib)
			if tt.wantErr {
				if !errors.Is(err, ErrScopeCollision) {
					t.Errorf("expected scope collision, got %v", err)
				}

				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateScopeCollisionNamesChain(t *testing.T) {
	lib := testLibrary(t, "page")

	p := &Plan{Sections: []*Section{{
		Kind: "projects", Master: "page", Generate: GenerateOnce,
		Context: map[string]any{"title": "x"},
		Nested: []*Section{{
			Kind: "tasks", Master: "page", Generate: GenerateOnce,
			Nested: []*Section{{
				Kind: "steps", Master: "page", Generate: GenerateOnce,
				Context: map[string]any{"title": "y"},
			}},
		}},
	}}}

	err := p.Validate(lib)
	if err == nil {
		t.Fatal("expected scope collision")
	}

	if !strings.Contains(err.Error(), "ancestor") {
		t.Errorf("error should describe the ancestor collision: %v", err)
	}
}

func TestValidateDatedSections(t *testing.T) {
	lib := testLibrary(t, "page")

	p := &Plan{Sections: []*Section{
		{Kind: "days", Master: "page", Generate: GenerateEachDay},
	}}

	if err := p.Validate(lib); !errors.Is(err, ErrMissingDates) {
		t.Fatalf("expected missing dates, got %v", err)
	}

	// Calendar defaults satisfy the requirement.
	p.Calendar = Calendar{
		StartDate: MakeDate(2026, time.January, 1),
		EndDate:   MakeDate(2026, time.January, 31),
	}

	if err := p.Validate(lib); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDestIDs(t *testing.T) {
	reg := newRegistry()

	for _, id := range []string{
		"day:2026-01-01",
		"notes:page:001",
		"home_index-2",
	} {
		if err := reg.register(id, Destination{Page: 1, Widget: "w"}); err != nil {
			t.Fatal(err)
		}
	}

	if err := validateDestIDs(reg); err != nil {
		t.Fatalf("canonical ids rejected: %v", err)
	}

	bad := newRegistry()
	for _, id := range []string{
		"day:{date}",  // residual token
		"Day:2026",    // uppercase
		":leading",    // bad first character
		"x",           // too short
		"spaced out",  // illegal character
		"good:enough", // control entry, must not be reported
	} {
		if err := bad.register(id, Destination{Page: 1, Widget: "w"}); err != nil {
			t.Fatal(err)
		}
	}

	err := validateDestIDs(bad)
	if !errors.Is(err, ErrBadDestID) {
		t.Fatalf("expected canonical-form error, got %v", err)
	}

	ee := &Error{}
	if !errors.As(err, &ee) {
		t.Fatal("expected *Error")
	}

	if got := len(ee.Bullets()); got != 5 {
		t.Errorf("expected 5 violations reported, got %d: %v", got, ee.Bullets())
	}
}

func TestRegistryDuplicate(t *testing.T) {
	reg := newRegistry()

	if err := reg.register("day:2026-01-01", Destination{Page: 1, Widget: "a"}); err != nil {
		t.Fatal(err)
	}

	err := reg.register("day:2026-01-01", Destination{Page: 2, Widget: "b"})
	if !errors.Is(err, ErrDuplicateDest) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}
