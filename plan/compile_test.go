package plan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func discard() Option {
	return WithLogger(slog.New(slog.DiscardHandler))
}

func compilePlan(t *testing.T, lib *Library, p *Plan, opts ...Option) *Document {
	t.Helper()

	doc, err := Compile(context.Background(), lib, p, append(opts, discard())...)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	return doc
}

func TestCompileNestedInterleaving(t *testing.T) {
	lib, err := NewLibrary(
		&Master{Name: "cover", Widgets: []*Widget{{
			ID: "title", Type: TypeText, Content: "Cover",
			Position: Position{W: 100, H: 100},
		}}},
		&Master{Name: "project", Widgets: []*Widget{{
			ID: "title", Type: TypeText, Content: "Project {index}",
			Position: Position{W: 100, H: 100},
		}}},
		&Master{Name: "task", Widgets: []*Widget{{
			ID: "title", Type: TypeText, Content: "Task {index}",
			Position: Position{W: 100, H: 100},
		}}},
	)
	if err != nil {
		t.Fatal(err)
	}

	p := &Plan{Sections: []*Section{
		{Kind: "cover", Master: "cover", Generate: GenerateOnce},
		{
			Kind: "projects", Master: "project", Generate: GenerateCount, Count: 5,
			Nested: []*Section{
				{Kind: "tasks", Master: "task", Generate: GenerateCount, Count: 10},
			},
		},
	}}

	doc := compilePlan(t, lib, p)

	if doc.Stats.TotalPages != 56 {
		t.Errorf("total pages = %d, want 56", doc.Stats.TotalPages)
	}

	if est := p.EstimatePages(); est != doc.Stats.TotalPages {
		t.Errorf("estimate %d disagrees with actual %d", est, doc.Stats.TotalPages)
	}

	want := map[string]int{"cover": 1, "projects": 5, "tasks": 50}
	for kind, pages := range want {
		if got := doc.Stats.PagesPerSection[kind]; got != pages {
			t.Errorf("pages for %s = %d, want %d", kind, got, pages)
		}
	}

	// Child pages follow their parent instance: project 1 on page 2, its
	// ten task pages on 3..12, project 2 immediately after on page 13.
	pageOf := func(content string) int {
		for _, w := range doc.Widgets {
			if w.Content == content {
				return w.Page
			}
		}

		t.Fatalf("no widget with content %q", content)

		return 0
	}

	if got := pageOf("Project 1"); got != 2 {
		t.Errorf("project 1 on page %d, want 2", got)
	}

	if got := pageOf("Project 2"); got != 13 {
		t.Errorf("project 2 on page %d, want 13", got)
	}

	if got := pageOf("Task 10"); got != 12 {
		t.Errorf("first task 10 on page %d, want 12", got)
	}

	// Widget ids embed their page, keeping them globally unique across
	// instances of the same master.
	seen := make(map[string]bool, len(doc.Widgets))
	for _, w := range doc.Widgets {
		if seen[w.ID] {
			t.Fatalf("duplicate widget id %q", w.ID)
		}

		seen[w.ID] = true
	}
}

func yearLibrary(t *testing.T) *Library {
	t.Helper()

	lib, err := NewLibrary(
		&Master{Name: "year_page", Widgets: []*Widget{
			{
				ID: "here", Type: TypeAnchor,
				Properties: Props{PropDestID: "year:{year}"},
			},
			{
				ID: "cal", Type: TypeCalendarYear,
				Position: Position{W: 300, H: 400},
			},
		}},
		&Master{Name: "month_page", Widgets: []*Widget{
			{
				ID: "here", Type: TypeAnchor,
				Properties: Props{PropDestID: "month:{year}-{month_padded}"},
			},
			{
				ID: "cal", Type: TypeCalendarMonth,
				Position: Position{W: 350, H: 300},
			},
		}},
		&Master{Name: "day_page", Widgets: []*Widget{
			{
				ID: "here", Type: TypeAnchor,
				Properties: Props{PropDestID: "day:{date}"},
			},
			{
				ID: "title", Type: TypeText, Content: "{date_long}",
				Position: Position{W: 200, H: 50},
			},
		}},
	)
	if err != nil {
		t.Fatal(err)
	}

	return lib
}

func TestCompileFullYear(t *testing.T) {
	p := &Plan{
		Calendar: Calendar{
			StartDate: MakeDate(2026, time.January, 1),
			EndDate:   MakeDate(2026, time.December, 31),
		},
		Sections: []*Section{
			{
				Kind: "year", Master: "year_page", Generate: GenerateOnce,
				Context: map[string]any{"year": 2026},
			},
			{Kind: "months", Master: "month_page", Generate: GenerateEachMonth},
			{Kind: "days", Master: "day_page", Generate: GenerateEachDay},
		},
	}

	doc := compilePlan(t, yearLibrary(t), p)

	if doc.Stats.TotalPages != 378 {
		t.Errorf("total pages = %d, want 378", doc.Stats.TotalPages)
	}

	if est := p.EstimatePages(); est != doc.Stats.TotalPages {
		t.Errorf("estimate %d disagrees with actual %d", est, doc.Stats.TotalPages)
	}

	if got := doc.Stats.PagesPerSection["days"]; got != 365 {
		t.Errorf("day pages = %d, want 365", got)
	}

	if got := len(doc.Navigation.NamedDestinations); got != 378 {
		t.Errorf("destinations = %d, want 378", got)
	}

	if doc.Navigation.NamedDestinations[0].Name != "year:2026" {
		t.Errorf("first destination = %q", doc.Navigation.NamedDestinations[0].Name)
	}

	// Compiled anchors carry their resolved destination, not the raw
	// template text.
	if got := doc.Widgets[0].Properties.Str(PropDestID); got != "year:2026" {
		t.Errorf("anchor dest_id = %q", got)
	}

	// The year destination exists, so its outline targets it directly.
	if len(doc.Navigation.Outlines) != 1 || doc.Navigation.Outlines[0].Dest != "year:2026" {
		t.Errorf("outlines = %+v", doc.Navigation.Outlines)
	}

	countLinks := func(prefix string) int {
		n := 0
		for _, link := range doc.Navigation.Links {
			if strings.HasPrefix(link.ToDest, prefix) {
				n++
			}
		}

		return n
	}

	if got := countLinks("month:"); got != 12 {
		t.Errorf("month links = %d, want 12", got)
	}

	if got := countLinks("day:2026-02-"); got != 28 {
		t.Errorf("february day links = %d, want 28", got)
	}

	if got := countLinks("day:2026-12-"); got != 31 {
		t.Errorf("december day links = %d, want 31", got)
	}

	// Every departing link resolves to a registered destination and every
	// compiled id is canonical; Compile would have failed otherwise. Spot
	// check the first day destination's page: year, then 12 months, then
	// January 1st.
	for _, dest := range doc.Navigation.NamedDestinations {
		if dest.Name == "day:2026-01-01" {
			if dest.Page != 14 {
				t.Errorf("day:2026-01-01 on page %d, want 14", dest.Page)
			}

			return
		}
	}

	t.Error("day:2026-01-01 not registered")
}

func TestCompileOutlines(t *testing.T) {
	lib, err := NewLibrary(
		&Master{Name: "home", Widgets: []*Widget{{
			ID: "here", Type: TypeAnchor,
			Properties: Props{PropDestID: "home:index"},
		}}},
		&Master{Name: "month_page", Widgets: []*Widget{{
			ID: "here", Type: TypeAnchor,
			Properties: Props{PropDestID: "month:{year}-{month_padded}"},
		}}},
		&Master{Name: "notes_page", Widgets: []*Widget{{
			ID: "here", Type: TypeAnchor,
			Properties: Props{PropDestID: "notes:page:{index:03d}"},
		}}},
	)
	if err != nil {
		t.Fatal(err)
	}

	p := &Plan{
		Calendar: Calendar{
			StartDate: MakeDate(2026, time.November, 1),
			EndDate:   MakeDate(2027, time.February, 28),
		},
		Sections: []*Section{
			{Kind: "home", Master: "home", Generate: GenerateOnce},
			{Kind: "months", Master: "month_page", Generate: GenerateEachMonth},
			{Kind: "notes", Master: "notes_page", Generate: GenerateCount, Count: 3},
		},
	}

	doc := compilePlan(t, lib, p)

	outlines := doc.Navigation.Outlines
	if len(outlines) != 4 {
		t.Fatalf("expected 4 top-level outlines, got %d: %+v", len(outlines), outlines)
	}

	if outlines[0].Title != "Home" || outlines[0].Dest != "home:index" {
		t.Errorf("outline 0 = %+v", outlines[0])
	}

	// Years sort ascending even though no year: destination exists; the
	// months contribute their year groups.
	if outlines[1].Title != "2026" || outlines[2].Title != "2027" {
		t.Errorf("year outlines = %q, %q", outlines[1].Title, outlines[2].Title)
	}

	// With no year:YYYY destinations registered, each year group targets
	// its first month so the bookmark resolves.
	if outlines[1].Dest != "month:2026-11" || outlines[2].Dest != "month:2027-01" {
		t.Errorf("year dests = %q, %q", outlines[1].Dest, outlines[2].Dest)
	}

	if got := len(outlines[1].Children); got != 2 {
		t.Fatalf("2026 children = %d, want 2", got)
	}

	if outlines[1].Children[0].Dest != "month:2026-11" {
		t.Errorf("first 2026 month = %+v", outlines[1].Children[0])
	}

	if outlines[3].Title != "Notes" || outlines[3].Dest != "notes:page:001" {
		t.Errorf("notes outline = %+v", outlines[3])
	}
}

func TestCompileLinkList(t *testing.T) {
	lib, err := NewLibrary(
		&Master{Name: "index", Widgets: []*Widget{{
			ID: "toc", Type: TypeLinkList,
			Position: Position{W: 200, H: 300},
			Properties: Props{
				PropCount: 3,
				PropBind:  "notes(@index)",
				"label":   "Note {index_padded}",
			},
		}}},
		&Master{Name: "notes_page", Widgets: []*Widget{{
			ID: "here", Type: TypeAnchor,
			Properties: Props{PropDestID: "notes:page:{index:03d}"},
		}}},
	)
	if err != nil {
		t.Fatal(err)
	}

	p := &Plan{Sections: []*Section{
		{Kind: "index", Master: "index", Generate: GenerateOnce},
		{Kind: "notes", Master: "notes_page", Generate: GenerateCount, Count: 3},
	}}

	doc := compilePlan(t, lib, p)

	if got := len(doc.Navigation.Links); got != 3 {
		t.Fatalf("expected 3 links, got %d", got)
	}

	for i, link := range doc.Navigation.Links {
		want := fmt.Sprintf("notes:page:%03d", i+1)
		if link.ToDest != want {
			t.Errorf("link %d -> %q, want %q", i, link.ToDest, want)
		}
	}
}

func TestCompileFailures(t *testing.T) {
	anchor := func(dest string) *Master {
		return &Master{Name: "page", Widgets: []*Widget{{
			ID: "here", Type: TypeAnchor,
			Properties: Props{PropDestID: dest},
		}}}
	}

	tests := []struct {
		name    string
		master  *Master
		section *Section
		opts    []Option
		wantErr error
	}{
		{
			name:    "duplicate destination across pages",
			master:  anchor("home:index"),
			section: &Section{Kind: "s", Master: "page", Generate: GenerateCount, Count: 2},
			wantErr: ErrDuplicateDest,
		},
		{
			name:    "unresolved token in destination",
			master:  anchor("day:{date}"),
			section: &Section{Kind: "s", Master: "page", Generate: GenerateOnce},
			wantErr: ErrBadDestID,
		},
		{
			name: "link to unregistered destination",
			master: &Master{Name: "page", Widgets: []*Widget{{
				ID: "jump", Type: TypeInternalLink,
				Position:   Position{W: 100, H: 100},
				Properties: Props{PropBind: "section(nowhere)"},
			}}},
			section: &Section{Kind: "s", Master: "page", Generate: GenerateOnce},
			wantErr: ErrUnknownDest,
		},
		{
			name: "malformed bind aborts the page",
			master: &Master{Name: "page", Widgets: []*Widget{{
				ID: "jump", Type: TypeInternalLink,
				Position:   Position{W: 100, H: 100},
				Properties: Props{PropBind: "Not A Bind"},
			}}},
			section: &Section{Kind: "s", Master: "page", Generate: GenerateOnce},
			wantErr: ErrBadBind,
		},
		{
			name:   "substituted destination keeps token residue",
			master: anchor("{title}"),
			section: &Section{
				Kind: "s", Master: "page", Generate: GenerateOnce,
				Context: map[string]any{"title": "x@index"},
			},
			wantErr: ErrBadDestID,
		},
		{
			name: "substituted link target keeps token residue",
			master: &Master{Name: "page", Widgets: []*Widget{{
				ID: "jump", Type: TypeInternalLink,
				Position:   Position{W: 100, H: 100},
				Properties: Props{PropBind: "@target"},
			}}},
			section: &Section{
				Kind: "s", Master: "page", Generate: GenerateOnce,
				Context: map[string]any{"target": "day:@index"},
			},
			wantErr: ErrBadDestID,
		},
		{
			name:    "page budget exceeded",
			master:  anchor("s:{index:03d}"),
			section: &Section{Kind: "s", Master: "page", Generate: GenerateCount, Count: 20},
			opts:    []Option{WithPageBudget(10)},
			wantErr: ErrPageBudget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := NewLibrary(tt.master)
			if err != nil {
				t.Fatal(err)
			}

			p := &Plan{Sections: []*Section{tt.section}}

			_, err = Compile(context.Background(), lib, p, append(tt.opts, discard())...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCompileTouchAdvisory(t *testing.T) {
	lib, err := NewLibrary(&Master{Name: "page", Widgets: []*Widget{
		{
			ID: "here", Type: TypeAnchor,
			Properties: Props{PropDestID: "home:index"},
		},
		{
			ID: "tiny", Type: TypeInternalLink,
			Position:   Position{W: 20, H: 20},
			Properties: Props{PropBind: "home:index"},
		},
	}})
	if err != nil {
		t.Fatal(err)
	}

	p := &Plan{Sections: []*Section{
		{Kind: "s", Master: "page", Generate: GenerateOnce},
	}}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	doc, err := Compile(context.Background(), lib, p,
		WithLogger(logger),
		WithDevice(Profile{Name: "tablet", MinTouch: 44}),
	)
	if err != nil {
		t.Fatalf("advisory must not fail the compile: %v", err)
	}

	if doc.Stats.TotalPages != 1 {
		t.Errorf("total pages = %d", doc.Stats.TotalPages)
	}

	if !strings.Contains(buf.String(), "touch target below device minimum") {
		t.Errorf("expected advisory warning, log was: %s", buf.String())
	}
}
