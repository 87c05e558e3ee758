package plan

import (
	"fmt"
	"maps"
	"time"
)

// Context is the per-instance variable snapshot consumed by token and
// bind resolution. It is created during enumeration and discarded when
// the compile call returns; nothing mutates it after construction.
type Context struct {
	vars   map[string]any
	locale string
}

// makeContext builds an empty context for the given locale.
func makeContext(locale string) *Context {
	return &Context{
		vars:   map[string]any{"locale": locale},
		locale: locale,
	}
}

// Lookup returns the named variable.
func (c *Context) Lookup(name string) (any, bool) {
	v, ok := c.vars[name]

	return v, ok
}

// Locale returns the context's locale tag.
func (c *Context) Locale() string { return c.locale }

// Vars returns a copy of the variable map, primarily for diagnostics and
// expression environments.
func (c *Context) Vars() map[string]any {
	return maps.Clone(c.vars)
}

// child returns a copy with the given variables added. Existing names are
// overwritten; scope validation guarantees parent and child never collide.
func (c *Context) child(vars map[string]any) *Context {
	next := &Context{
		vars:   maps.Clone(c.vars),
		locale: c.locale,
	}

	maps.Copy(next.vars, vars)

	return next
}

// withIndex returns a copy carrying the 1-based instance index for count
// sections.
func (c *Context) withIndex(index int) *Context {
	return c.child(map[string]any{
		"index":        index,
		"index_padded": fmt.Sprintf("%03d", index),
	})
}

// withSubpage returns a copy carrying the 1-based subpage number for
// sections with pages_per_item > 1.
func (c *Context) withSubpage(n int) *Context {
	return c.child(map[string]any{"subpage": n})
}

// withDate returns a copy populated with the date and derived-date fields
// for one enumerated day, week, or month instance.
func (c *Context) withDate(t time.Time) *Context {
	return c.child(map[string]any{
		"date":         t.Format(DateLayout),
		"date_long":    dateLong(c.locale, t),
		"year":         t.Year(),
		"month":        int(t.Month()),
		"month_padded": fmt.Sprintf("%02d", int(t.Month())),
		"month_name":   monthName(c.locale, t.Month()),
		"day":          t.Day(),
		"day_padded":   fmt.Sprintf("%02d", t.Day()),
		"weekday":      weekdayName(c.locale, t.Weekday()),
	})
}

// withISOWeek returns a copy carrying the ISO week number for each_week
// instances. The context date fields refer to the week's Monday.
func (c *Context) withISOWeek(monday time.Time) *Context {
	_, week := monday.ISOWeek()

	return c.withDate(monday).child(map[string]any{
		"iso_week": week,
	})
}

// withCounters returns a copy carrying the values of each counter for the
// n-th (0-indexed) instance of the section.
func (c *Context) withCounters(counters map[string]Counter, n int) *Context {
	if len(counters) == 0 {
		return c
	}

	vars := make(map[string]any, len(counters))
	for name, counter := range counters {
		vars[name] = counter.At(n)
	}

	return c.child(vars)
}
