package plan

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
)

// canonicalDest is the final form every destination id and link target
// must satisfy: lowercase, token-free, restricted characters.
var canonicalDest = regexp.MustCompile(`^[a-z0-9][a-z0-9:_-]{1,127}$`)

// Validate runs every grammar-time check on the plan against the library:
// order/kind agreement, nesting depth, master references, date presence
// for dated sections, and ancestor-aware scope collisions. It must pass
// before enumeration begins.
func (p *Plan) Validate(lib *Library) error {
	err := p.validateKinds()
	if err != nil {
		return err
	}

	err = p.validateOrder()
	if err != nil {
		return err
	}

	for _, s := range p.Sections {
		err := p.validateSection(s, lib, nil, nil)
		if err != nil {
			return err
		}
	}

	return nil
}

// validateKinds checks that top-level section kinds are unique: the
// emission order addresses sections by kind, so a duplicate would compile
// one section twice and shadow the other.
func (p *Plan) validateKinds() error {
	seen := make(map[string]struct{}, len(p.Sections))

	for _, s := range p.Sections {
		if _, dup := seen[s.Kind]; dup {
			return ErrDuplicateKind.
				With(slog.String("section", s.Kind))
		}

		seen[s.Kind] = struct{}{}
	}

	return nil
}

// validateOrder checks that an explicit top-level order is exactly the set
// of top-level section kinds.
func (p *Plan) validateOrder() error {
	if len(p.Order) == 0 {
		return nil
	}

	kinds := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		kinds[i] = s.Kind
	}

	want := slices.Sorted(slices.Values(kinds))
	got := slices.Sorted(slices.Values(p.Order))

	if !slices.Equal(want, got) {
		return ErrOrderMismatch.
			With(
				slog.String("order", strings.Join(p.Order, ",")),
				slog.String("sections", strings.Join(kinds, ",")),
			)
	}

	return nil
}

// validateSection checks one section and recurses into its children,
// carrying the ancestor chain (kinds) and the ancestor variable sets
// forward so collisions are detected against the full chain, not just the
// immediate parent.
func (p *Plan) validateSection(
	s *Section,
	lib *Library,
	chain []string,
	ancestorVars []map[string]struct{},
) error {
	if len(chain) >= MaxDepth {
		return ErrDepthExceeded.
			With(
				slog.String("section", s.Kind),
				slog.String("chain", strings.Join(append(chain, s.Kind), " > ")),
				slog.Int("max", MaxDepth),
			)
	}

	err := p.validateMasterRef(s, lib)
	if err != nil {
		return err
	}

	if s.Generate == GenerateCount && s.Count < 1 {
		return ErrBadCount.
			With(
				slog.String("section", s.Kind),
				slog.Int("count", s.Count),
			)
	}

	if s.Generate.Dated() {
		if _, _, ok := s.dates(p.Calendar); !ok {
			return ErrMissingDates.
				With(slog.String("section", s.Kind))
		}
	}

	err = checkScopeCollision(s, chain, ancestorVars)
	if err != nil {
		return err
	}

	vars := make(map[string]struct{}, len(s.Context)+len(s.Counters))
	for _, name := range s.Vars() {
		vars[name] = struct{}{}
	}

	childChain := append(slices.Clone(chain), s.Kind)
	childVars := append(slices.Clone(ancestorVars), vars)

	// Sibling sections are independent scopes; each child restarts from
	// the same ancestor sets.
	for _, child := range s.Nested {
		err := p.validateSection(child, lib, childChain, childVars)
		if err != nil {
			return err
		}
	}

	return nil
}

// validateMasterRef checks the section's master reference, suggesting the
// closest known names when it is unknown.
func (p *Plan) validateMasterRef(s *Section, lib *Library) error {
	if _, ok := lib.Lookup(s.Master); ok {
		return nil
	}

	err := ErrUnknownMaster.
		With(
			slog.String("section", s.Kind),
			slog.String("master", s.Master),
		)

	if suggestions := lib.Suggest(s.Master, 3); len(suggestions) > 0 {
		err = err.With(slog.String("did_you_mean", strings.Join(suggestions, ", ")))
	}

	return err
}

// checkScopeCollision reports any variable the section introduces that is
// already bound anywhere in its ancestor chain.
func checkScopeCollision(
	s *Section,
	chain []string,
	ancestorVars []map[string]struct{},
) error {
	for _, name := range s.Vars() {
		for _, vars := range ancestorVars {
			if _, exists := vars[name]; exists {
				return ErrScopeCollision.
					With(
						slog.String("variable", name),
						slog.String("section", s.Kind),
						slog.String("chain", strings.Join(append(chain, s.Kind), " > ")),
					)
			}
		}
	}

	return nil
}

// validateOutput runs the unconditional post-compile passes. Any failure
// aborts the whole compilation; only the touch-target check is advisory.
func validateOutput(doc *Document, reg *registry, device Device, logger *slog.Logger) error {
	err := validateDestIDs(reg)
	if err != nil {
		return err
	}

	err = validateLinks(doc, reg)
	if err != nil {
		return err
	}

	adviseTouchTargets(doc, device, logger)

	return nil
}

// validateDestIDs checks that every registered destination id is in
// canonical form and free of residual token characters.
func validateDestIDs(reg *registry) error {
	var bullets []string

	for _, id := range reg.ids() {
		if strings.ContainsAny(id, "{}@") {
			bullets = append(bullets,
				fmt.Sprintf("destination %q contains unresolved tokens (widget %s)",
					id, reg.entries[id].Widget))

			continue
		}

		if !canonicalDest.MatchString(id) {
			bullets = append(bullets,
				fmt.Sprintf("destination %q is not canonical (widget %s)",
					id, reg.entries[id].Widget))
		}
	}

	if len(bullets) > 0 {
		return ErrBadDestID.Bullet(bullets...)
	}

	return nil
}

// validateLinks checks that every resolved to_dest is canonical and
// targets a registered destination, enumerating every offending widget.
func validateLinks(doc *Document, reg *registry) error {
	var (
		badForm []string
		missing []string
	)

	for _, w := range doc.Widgets {
		if w.ToDest == "" {
			continue
		}

		if strings.ContainsAny(w.ToDest, "{}@") || !canonicalDest.MatchString(w.ToDest) {
			badForm = append(badForm, offender(w))

			continue
		}

		if _, ok := reg.lookup(w.ToDest); !ok {
			missing = append(missing, offender(w))
		}
	}

	if len(badForm) > 0 {
		return ErrBadDestID.Bullet(badForm...)
	}

	if len(missing) > 0 {
		return ErrUnknownDest.Bullet(missing...)
	}

	return nil
}

// offender renders one violating widget with enough context to act on
// without re-running the compile.
func offender(w *Widget) string {
	content := w.Content
	if len(content) > 32 {
		content = content[:32] + "..."
	}

	return fmt.Sprintf("widget %s (%s) on page %d -> %q (content %q)",
		w.ID, w.Type, w.Page, w.ToDest, content)
}

// adviseTouchTargets warns about interactive widgets smaller than the
// device minimum touch size. Advisory only; never fatal.
func adviseTouchTargets(doc *Document, device Device, logger *slog.Logger) {
	minSize := DefaultMinTouch
	if device != nil {
		minSize = device.MinTouchSize()
	}

	for _, w := range doc.Widgets {
		if !w.Interactive() {
			continue
		}

		if w.Position.W < minSize || w.Position.H < minSize {
			logger.Warn("touch target below device minimum",
				slog.String("widget", w.ID),
				slog.Int("page", w.Page),
				slog.Float64("w", w.Position.W),
				slog.Float64("h", w.Position.H),
				slog.Float64("min", minSize),
			)
		}
	}
}
