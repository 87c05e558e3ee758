package plan

import (
	"log/slog"
	"strings"
	"time"
)

// MaxDepth is the maximum nesting depth of the section tree.
const MaxDepth = 3

// Generate selects how a section enumerates instances of its master.
type Generate int

const (
	// GenerateOnce produces a single instance.
	GenerateOnce Generate = iota

	// GenerateCount produces a fixed number of instances.
	GenerateCount

	// GenerateEachDay produces one instance per day in the date range.
	GenerateEachDay

	// GenerateEachWeek produces one instance per distinct ISO week in the
	// date range, keyed by the week's Monday.
	GenerateEachWeek

	// GenerateEachMonth produces one instance per calendar month touched by
	// the date range.
	GenerateEachMonth
)

// String returns the canonical name of the generate mode.
func (g Generate) String() string {
	switch g {
	case GenerateOnce:
		return "once"
	case GenerateCount:
		return "count"
	case GenerateEachDay:
		return "each_day"
	case GenerateEachWeek:
		return "each_week"
	case GenerateEachMonth:
		return "each_month"
	default:
		return "unknown"
	}
}

// Dated reports whether the mode derives instances from a date range.
func (g Generate) Dated() bool {
	switch g {
	case GenerateEachDay, GenerateEachWeek, GenerateEachMonth:
		return true
	default:
		return false
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so generate modes can
// be written as plain strings in plan documents.
func (g *Generate) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "once", "":
		*g = GenerateOnce
	case "count":
		*g = GenerateCount
	case "each_day", "day":
		*g = GenerateEachDay
	case "each_week", "week":
		*g = GenerateEachWeek
	case "each_month", "month":
		*g = GenerateEachMonth
	default:
		return ErrBadGenerate.With(slog.String("generate", string(text)))
	}

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (g Generate) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// DateLayout is the wire format for all dates in plan documents.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	time.Time
}

// MakeDate constructs a Date from year, month, and day in UTC.
func MakeDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalText implements encoding.TextUnmarshaler using [DateLayout].
func (d *Date) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*d = Date{}

		return nil
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return ErrMissingDates.Wrap(err).
			With(slog.String("date", s))
	}

	*d = Date{t}

	return nil
}

// MarshalText implements encoding.TextMarshaler using [DateLayout].
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return nil, nil
	}

	return []byte(d.Format(DateLayout)), nil
}

// Counter describes a per-instance numeric variable. The n-th instance
// (0-indexed within its own section) receives start + n*step.
type Counter struct {
	Start float64 `json:"start"          yaml:"start"`
	Step  float64 `json:"step,omitempty" yaml:"step,omitempty"`
}

// At returns the counter value for the n-th (0-indexed) instance,
// rendered as an int when the result is whole.
func (c Counter) At(n int) any {
	step := c.Step
	if step == 0 {
		step = 1
	}

	v := c.Start + float64(n)*step
	if v == float64(int64(v)) {
		return int(v)
	}

	return v
}

// Section is one node of the plan tree. It selects a master, a generate
// mode, and the variables scoped to its instances.
type Section struct {
	Kind         string             `json:"kind"                     yaml:"kind"`
	Master       string             `json:"master"                   yaml:"master"`
	Generate     Generate           `json:"generate"                 yaml:"generate"`
	Count        int                `json:"count,omitempty"          yaml:"count,omitempty"`
	StartDate    Date               `json:"start_date,omitempty"     yaml:"start_date,omitempty"`
	EndDate      Date               `json:"end_date,omitempty"       yaml:"end_date,omitempty"`
	PagesPerItem int                `json:"pages_per_item,omitempty" yaml:"pages_per_item,omitempty"`
	Context      map[string]any     `json:"context,omitempty"        yaml:"context,omitempty"`
	Counters     map[string]Counter `json:"counters,omitempty"       yaml:"counters,omitempty"`
	Nested       []*Section         `json:"nested,omitempty"         yaml:"nested,omitempty"`
}

// Vars returns the sorted set of variable names this section introduces:
// its static context keys plus its counter names.
func (s *Section) Vars() []string {
	names := make(map[string]struct{}, len(s.Context)+len(s.Counters))

	for name := range s.Context {
		names[name] = struct{}{}
	}

	for name := range s.Counters {
		names[name] = struct{}{}
	}

	return sortedSet(names)
}

// dates returns the effective date range for a dated section, falling back
// to the plan calendar defaults.
func (s *Section) dates(cal Calendar) (start, end Date, ok bool) {
	start, end = s.StartDate, s.EndDate
	if start.IsZero() || end.IsZero() {
		start, end = cal.StartDate, cal.EndDate
	}

	return start, end, !start.IsZero() && !end.IsZero()
}

// Calendar holds plan-wide date defaults for dated sections that do not
// declare their own range.
type Calendar struct {
	StartDate Date `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate   Date `json:"end_date,omitempty"   yaml:"end_date,omitempty"`
}

// DefaultLocale is assumed when a plan does not declare one.
const DefaultLocale = "en"

// Plan describes how masters are instantiated into an ordered, possibly
// nested sequence of pages.
type Plan struct {
	Calendar Calendar   `json:"calendar,omitempty" yaml:"calendar,omitempty"`
	Sections []*Section `json:"sections"           yaml:"sections"`
	Order    []string   `json:"order,omitempty"    yaml:"order,omitempty"`
	Locale   string     `json:"locale,omitempty"   yaml:"locale,omitempty"`
}

// locale returns the plan locale or [DefaultLocale].
func (p *Plan) locale() string {
	if p.Locale == "" {
		return DefaultLocale
	}

	return p.Locale
}

// section returns the top-level section with the given kind.
func (p *Plan) section(kind string) (*Section, bool) {
	for _, s := range p.Sections {
		if s.Kind == kind {
			return s, true
		}
	}

	return nil, false
}

// order returns the effective top-level emission order: the explicit Order
// when present, otherwise declaration order.
func (p *Plan) order() []string {
	if len(p.Order) > 0 {
		return p.Order
	}

	kinds := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		kinds[i] = s.Kind
	}

	return kinds
}
