package plan

import (
	"sort"
	"strings"
)

// FitHorizontal is the default fit mode for named destinations: the
// viewer fits the page width at the destination's vertical position.
const FitHorizontal = "fith"

// NamedDestination is one resolvable navigation target in the output.
type NamedDestination struct {
	Name string  `json:"name" yaml:"name"`
	Page int     `json:"page" yaml:"page"`
	X    float64 `json:"x"    yaml:"x"`
	Y    float64 `json:"y"    yaml:"y"`
	Fit  string  `json:"fit"  yaml:"fit"`
}

// Outline is one entry of the document's bookmark tree, at most two
// levels deep.
type Outline struct {
	Title    string    `json:"title"              yaml:"title"`
	Dest     string    `json:"dest"               yaml:"dest"`
	Children []Outline `json:"children,omitempty" yaml:"children,omitempty"`
}

// Link is one internal-link record derived from a compiled widget with a
// resolved destination.
type Link struct {
	FromWidget string  `json:"from_widget"       yaml:"from_widget"`
	ToDest     string  `json:"to_dest"           yaml:"to_dest"`
	Padding    float64 `json:"padding,omitempty" yaml:"padding,omitempty"`
}

// Navigation carries all navigation metadata synthesized from the
// destination registry and the compiled widget list.
type Navigation struct {
	NamedDestinations []NamedDestination `json:"named_destinations" yaml:"named_destinations"`
	Outlines          []Outline          `json:"outlines"           yaml:"outlines"`
	Links             []Link             `json:"links"              yaml:"links"`
}

// buildNavigation derives named destinations, the outline tree, and
// internal-link records. The registry is the only source of targets;
// widgets contribute the link records.
func buildNavigation(reg *registry, widgets []*Widget) Navigation {
	nav := Navigation{
		NamedDestinations: make([]NamedDestination, 0, len(reg.order)),
	}

	for _, id := range reg.order {
		dest := reg.entries[id]
		nav.NamedDestinations = append(nav.NamedDestinations, NamedDestination{
			Name: id,
			Page: dest.Page,
			X:    dest.X,
			Y:    dest.Y,
			Fit:  FitHorizontal,
		})
	}

	nav.Outlines = buildOutlines(reg)

	for _, w := range widgets {
		if w.ToDest == "" {
			continue
		}

		nav.Links = append(nav.Links, Link{
			FromWidget: w.ID,
			ToDest:     w.ToDest,
			Padding:    w.Properties.Float(PropPadding, 0),
		})
	}

	return nav
}

// buildOutlines synthesizes the two-level bookmark tree:
//
//	home:index            top level, when present
//	year:YYYY             top level, one per year; a year group with no
//	                      registered year destination targets its first
//	                      month instead
//	  month:YYYY-MM       nested under its year, sorted chronologically
//	Notes                 top level, first notes:page:* destination
func buildOutlines(reg *registry) []Outline {
	var outlines []Outline

	if _, ok := reg.lookup("home:index"); ok {
		outlines = append(outlines, Outline{Title: "Home", Dest: "home:index"})
	}

	years := make(map[string][]string)
	anchored := make(map[string]bool)

	var (
		yearIDs []string
		notes   string
	)

	for _, id := range reg.order {
		switch {
		case strings.HasPrefix(id, "year:"):
			year := strings.TrimPrefix(id, "year:")
			anchored[year] = true

			if _, seen := years[year]; !seen {
				years[year] = nil

				yearIDs = append(yearIDs, year)
			}

		case strings.HasPrefix(id, "month:"):
			suffix := strings.TrimPrefix(id, "month:")

			year, _, ok := strings.Cut(suffix, "-")
			if !ok {
				continue
			}

			if _, seen := years[year]; !seen {
				yearIDs = append(yearIDs, year)
			}

			years[year] = append(years[year], suffix)

		case notes == "" && strings.HasPrefix(id, "notes:page:"):
			notes = id
		}
	}

	sort.Strings(yearIDs)

	for _, year := range yearIDs {
		entry := Outline{Title: year, Dest: "year:" + year}

		// Month suffixes (YYYY-MM) string-sort chronologically.
		sort.Strings(years[year])

		// A year group synthesized purely from months has no year:YYYY
		// destination of its own; point it at its first month so the
		// bookmark always resolves.
		if !anchored[year] && len(years[year]) > 0 {
			entry.Dest = "month:" + years[year][0]
		}

		for _, suffix := range years[year] {
			entry.Children = append(entry.Children, Outline{
				Title: suffix,
				Dest:  "month:" + suffix,
			})
		}

		outlines = append(outlines, entry)
	}

	if notes != "" {
		outlines = append(outlines, Outline{Title: "Notes", Dest: notes})
	}

	return outlines
}
