package plan

import (
	"errors"
	"testing"
)

func TestResolveBind(t *testing.T) {
	ctx := testContext(map[string]any{
		"index":        7,
		"year":         2026,
		"month_padded": "02",
		"date":         "2026-02-14",
		"target":       "Notes:Index",
	})

	tests := []struct {
		name string
		expr string
		want string
	}{
		{
			name: "empty means no binding",
			expr: "",
			want: "",
		},
		{
			name: "whitespace means no binding",
			expr: "   ",
			want: "",
		},
		{
			name: "notes literal pads to three digits",
			expr: "notes(7)",
			want: "notes:page:007",
		},
		{
			name: "notes variable argument",
			expr: "notes(@index)",
			want: "notes:page:007",
		},
		{
			name: "year function",
			expr: "year(@year)",
			want: "year:2026",
		},
		{
			name: "month with token argument",
			expr: "month({year}-{month_padded})",
			want: "month:2026-02",
		},
		{
			name: "day function",
			expr: "day(@date)",
			want: "day:2026-02-14",
		},
		{
			name: "section function",
			expr: "section(goals)",
			want: "section:goals",
		},
		{
			name: "unrecognized function is generic",
			expr: "habit(water)",
			want: "habit:water",
		},
		{
			name: "suffix appended without marker",
			expr: "day(@date)#overlay",
			want: "day:2026-02-14overlay",
		},
		{
			name: "bare variable lowercased",
			expr: "@target",
			want: "notes:index",
		},
		{
			name: "skeleton with tokens",
			expr: "day:{date}",
			want: "day:2026-02-14",
		},
		{
			name: "skeleton verbatim",
			expr: "home:index",
			want: "home:index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveBind(tt.expr, ctx)
			if err != nil {
				t.Fatalf("resolveBind(%q): unexpected error: %v", tt.expr, err)
			}

			if got != tt.want {
				t.Errorf("resolveBind(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestResolveBindErrors(t *testing.T) {
	ctx := testContext(map[string]any{"index": 7})

	tests := []struct {
		name string
		expr string
	}{
		{name: "notes with non-numeric argument", expr: "notes(cover)"},
		{name: "unknown variable", expr: "@missing"},
		{name: "uppercase rejected", expr: "Day(@index)"},
		{name: "spaces rejected", expr: "day of week"},
		{name: "unbalanced parenthesis", expr: "notes(7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := resolveBind(tt.expr, ctx); !errors.Is(err, ErrBadBind) {
				t.Errorf("resolveBind(%q): expected grammar error, got %v", tt.expr, err)
			}
		})
	}
}

func TestResolveBindNoRescan(t *testing.T) {
	// A variable value carrying token-shaped text is substituted once and
	// never re-scanned; the residue is left for integrity validation to
	// reject.
	ctx := testContext(map[string]any{
		"target": "sec:{x}",
		"title":  "x@index",
		"x":      1,
		"index":  7,
	})

	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "variable form", expr: "@target", want: "sec:{x}"},
		{name: "skeleton form", expr: "{title}", want: "x@index"},
		{name: "function argument", expr: "section({title})", want: "section:x@index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveBind(tt.expr, ctx)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("resolveBind(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestResolveBindDeterministic(t *testing.T) {
	ctx := testContext(map[string]any{"date": "2026-07-04"})

	first, err := resolveBind("day(@date)", ctx)
	if err != nil {
		t.Fatal(err)
	}

	for range 10 {
		got, err := resolveBind("day(@date)", ctx)
		if err != nil {
			t.Fatal(err)
		}

		if got != first {
			t.Fatalf("expected stable output, got %q then %q", first, got)
		}
	}
}

func TestBindWidget(t *testing.T) {
	ctx := testContext(map[string]any{"date": "2026-02-14"})

	link := &Widget{
		ID:         "jump",
		Type:       TypeInternalLink,
		Properties: Props{PropBind: "day(@date)"},
	}

	if err := bindWidget(link, ctx); err != nil {
		t.Fatal(err)
	}

	if link.ToDest != "day:2026-02-14" {
		t.Errorf("to_dest = %q", link.ToDest)
	}

	if link.Properties.Has(PropBind) {
		t.Error("bind property should be removed after resolution")
	}

	// Non-interactive widgets drop the bind without resolving it, so an
	// invalid expression on a text widget is not an error.
	text := &Widget{
		ID:         "label",
		Type:       TypeText,
		Properties: Props{PropBind: "Not A Bind"},
	}

	if err := bindWidget(text, ctx); err != nil {
		t.Fatal(err)
	}

	if text.ToDest != "" {
		t.Errorf("text to_dest = %q", text.ToDest)
	}
}
