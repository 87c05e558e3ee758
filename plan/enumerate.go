package plan

import (
	"iter"
	"log/slog"
)

// Enumerate expands the section into its ordered sequence of binding
// contexts, including subpage replay for sections with pages_per_item > 1.
// The sequence is lazy, finite, and restartable; the date-range check runs
// up front so iteration itself cannot fail.
//
// Nested sections are not descended here: the orchestrator interleaves
// children per parent instance so page numbers stay contiguous.
func (s *Section) Enumerate(cal Calendar, locale string) (iter.Seq[*Context], error) {
	instances, err := s.instances(cal, makeContext(locale))
	if err != nil {
		return nil, err
	}

	return s.subpages(instances), nil
}

// instances yields one context per enumerated instance of the section,
// before subpage replay. base supplies the variables inherited from the
// enclosing scope.
func (s *Section) instances(cal Calendar, base *Context) (iter.Seq[*Context], error) {
	// Static context variables are visible to every instance.
	scoped := base.child(s.Context)

	switch s.Generate {
	case GenerateOnce:
		return func(yield func(*Context) bool) {
			yield(scoped.withIndex(1).withCounters(s.Counters, 0))
		}, nil

	case GenerateCount:
		if s.Count < 1 {
			return nil, ErrBadCount.
				With(
					slog.String("section", s.Kind),
					slog.Int("count", s.Count),
				)
		}

		return func(yield func(*Context) bool) {
			for n := range s.Count {
				if !yield(scoped.withIndex(n + 1).withCounters(s.Counters, n)) {
					return
				}
			}
		}, nil

	case GenerateEachDay, GenerateEachWeek, GenerateEachMonth:
		start, end, ok := s.dates(cal)
		if !ok {
			return nil, ErrMissingDates.
				With(slog.String("section", s.Kind))
		}

		return s.datedInstances(scoped, start, end), nil

	default:
		return nil, ErrBadGenerate.
			With(slog.String("section", s.Kind))
	}
}

// datedInstances yields contexts for the date-generating modes. The date
// presence check has already passed.
func (s *Section) datedInstances(scoped *Context, start, end Date) iter.Seq[*Context] {
	return func(yield func(*Context) bool) {
		n := 0

		emit := func(ctx *Context) bool {
			ok := yield(ctx.withCounters(s.Counters, n))
			n++

			return ok
		}

		switch s.Generate {
		case GenerateEachDay:
			for d := range days(start.Time, end.Time) {
				if !emit(scoped.withDate(d)) {
					return
				}
			}

		case GenerateEachWeek:
			for monday := range weeks(start.Time, end.Time) {
				if !emit(scoped.withISOWeek(monday)) {
					return
				}
			}

		case GenerateEachMonth:
			for first := range months(start.Time, end.Time) {
				if !emit(scoped.withDate(first)) {
					return
				}
			}
		}
	}
}

// subpages replays each instance context once per subpage when the section
// declares pages_per_item > 1, tagging each replay with its 1-based
// subpage number.
func (s *Section) subpages(instances iter.Seq[*Context]) iter.Seq[*Context] {
	per := s.PagesPerItem
	if per <= 1 {
		return instances
	}

	return func(yield func(*Context) bool) {
		for ctx := range instances {
			for n := 1; n <= per; n++ {
				if !yield(ctx.withSubpage(n)) {
					return
				}
			}
		}
	}
}
