package plan

import "log/slog"

// DefaultPageBudget caps the closed-form page estimate before any page is
// generated, so runaway plans are rejected instead of compiled.
const DefaultPageBudget = 2000

// EstimatePages returns the closed-form page-count estimate for the whole
// plan: per section, instance count times pages per item, plus each
// nested child's estimate replayed once per parent instance.
func (p *Plan) EstimatePages() int {
	total := 0
	for _, s := range p.Sections {
		total += estimateSection(s, p.Calendar)
	}

	return total
}

// estimateSection returns the estimated pages for one section subtree.
func estimateSection(s *Section, cal Calendar) int {
	instances := estimateInstances(s, cal)

	per := s.PagesPerItem
	if per < 1 {
		per = 1
	}

	nested := 0
	for _, child := range s.Nested {
		nested += estimateSection(child, cal)
	}

	return instances * (per + nested)
}

// estimateInstances sizes one section's enumeration without materializing
// contexts.
func estimateInstances(s *Section, cal Calendar) int {
	switch s.Generate {
	case GenerateOnce:
		return 1

	case GenerateCount:
		if s.Count < 1 {
			return 0
		}

		return s.Count

	case GenerateEachDay, GenerateEachWeek, GenerateEachMonth:
		start, end, ok := s.dates(cal)
		if !ok {
			return 0
		}

		switch s.Generate {
		case GenerateEachDay:
			return count(days(start.Time, end.Time))
		case GenerateEachWeek:
			return count(weeks(start.Time, end.Time))
		default:
			return count(months(start.Time, end.Time))
		}

	default:
		return 0
	}
}

// checkBudget rejects the plan when its estimate exceeds the ceiling.
func (p *Plan) checkBudget(budget int) error {
	if budget <= 0 {
		budget = DefaultPageBudget
	}

	estimate := p.EstimatePages()
	if estimate > budget {
		return ErrPageBudget.
			With(
				slog.Int("estimate", estimate),
				slog.Int("budget", budget),
			)
	}

	return nil
}
