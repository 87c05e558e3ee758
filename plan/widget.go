package plan

import (
	"math"
	"strconv"
)

// Leaf and composite widget types the compiler itself recognizes. Masters
// may use any other type; the compiler passes unrecognized types through
// untouched after token resolution.
const (
	TypeText          = "text"
	TypeAnchor        = "anchor"
	TypeInternalLink  = "internal_link"
	TypeTapZone       = "tap_zone"
	TypeGrid          = "grid"
	TypeCalendarYear  = "calendar_year"
	TypeCalendarMonth = "calendar_month"
	TypeLinkList      = "link_list"
)

// Property keys read by the compiler. Everything else in a widget's
// Properties map is user-authored and carried through verbatim.
const (
	PropBind           = "bind"
	PropDestID         = "dest_id"
	PropLabels         = "labels"
	PropDestinations   = "destinations"
	PropCount          = "count"
	PropColumns        = "columns"
	PropRows           = "rows"
	PropCols           = "cols"
	PropGap            = "gap"
	PropOrientation    = "orientation"
	PropItemHeight     = "item_height"
	PropHighlightIndex = "highlight_index"
	PropData           = "data"
	PropDataSource     = "data_source"
	PropCell           = "cell"
	PropStartWeekOn    = "start_week_on"
	PropPadding        = "padding"
)

// Position is a widget's box on the page, in points.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Props is a widget's open property map. It stays schemaless for forward
// compatibility; the typed accessors cover the handful of keys the
// compiler reads.
type Props map[string]any

// Str returns the named property as a string, or "" when absent or not
// string-like.
func (p Props) Str(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Int returns the named property as an int, or fallback when absent or
// not numeric.
func (p Props) Int(key string, fallback int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return fallback
}

// Float returns the named property as a float64, or fallback.
func (p Props) Float(key string, fallback float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}

	return fallback
}

// Strs returns the named property as a string slice. Non-string elements
// are stringified with the same rules as [Props.Str].
func (p Props) Strs(key string) []string {
	items, ok := p[key].([]any)
	if !ok {
		if ss, ok := p[key].([]string); ok {
			return ss
		}

		return nil
	}

	out := make([]string, len(items))
	for i, item := range items {
		out[i] = Props{"v": item}.Str("v")
	}

	return out
}

// List returns the named property as a raw slice.
func (p Props) List(key string) []any {
	items, _ := p[key].([]any)

	return items
}

// Map returns the named property as a nested map.
func (p Props) Map(key string) map[string]any {
	m, _ := p[key].(map[string]any)

	return m
}

// Has reports whether the property is present.
func (p Props) Has(key string) bool {
	_, ok := p[key]

	return ok
}

// Widget is one node of a master's widget tree. In master templates the
// content, properties, and styling may carry tokens and bind expressions;
// compiled widgets are fully resolved and carry an assigned page.
type Widget struct {
	ID         string         `json:"id"                  yaml:"id"`
	Type       string         `json:"type"                yaml:"type"`
	Position   Position       `json:"position"            yaml:"position"`
	Content    string         `json:"content,omitempty"   yaml:"content,omitempty"`
	Properties Props          `json:"properties,omitempty" yaml:"properties,omitempty"`
	Styling    map[string]any `json:"styling,omitempty"   yaml:"styling,omitempty"`

	// Page and ToDest are populated during compilation; masters never
	// carry them.
	Page   int    `json:"page,omitempty"    yaml:"page,omitempty"`
	ToDest string `json:"to_dest,omitempty" yaml:"to_dest,omitempty"`
}

// Composite reports whether the widget expands into leaf widgets at
// compile time.
func (w *Widget) Composite() bool {
	switch w.Type {
	case TypeGrid, TypeCalendarYear, TypeCalendarMonth, TypeLinkList:
		return true
	default:
		return false
	}
}

// Interactive reports whether the widget type participates in link
// resolution and the touch-target advisory.
func (w *Widget) Interactive() bool {
	switch w.Type {
	case TypeInternalLink, TypeTapZone:
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of the widget and its open maps.
func (w *Widget) Clone() *Widget {
	c := *w

	if w.Properties != nil {
		m, _ := cloneValue(map[string]any(w.Properties)).(map[string]any)
		c.Properties = Props(m)
	}

	if w.Styling != nil {
		c.Styling, _ = cloneValue(w.Styling).(map[string]any)
	}

	return &c
}

// cloneValue deep-copies the JSON-ish value shapes produced by YAML
// decoding: maps, slices, and scalars.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}

		return m
	case Props:
		return cloneValue(map[string]any(t))
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}

		return s
	default:
		return v
	}
}

// subdivide returns the box of the cell at (col, row) when the parent box
// is split into an evenly gapped cols x rows grid.
func subdivide(box Position, cols, rows, col, row int, gap float64) Position {
	if cols < 1 {
		cols = 1
	}

	if rows < 1 {
		rows = 1
	}

	w := (box.W - float64(cols-1)*gap) / float64(cols)
	h := (box.H - float64(rows-1)*gap) / float64(rows)

	return Position{
		X: box.X + float64(col)*(w+gap),
		Y: box.Y + float64(row)*(h+gap),
		W: math.Max(w, 0),
		H: math.Max(h, 0),
	}
}
