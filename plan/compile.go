package plan

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// Option applies a configuration option to a compile call.
type Option func(config) config

// config holds the per-call compile configuration.
type config struct {
	device Device
	logger *slog.Logger
	budget int
}

// apply applies multiple options to a config.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithDevice supplies a device profile for the touch-target advisory.
func WithDevice(d Device) Option {
	return func(c config) config {
		c.device = d

		return c
	}
}

// WithPageBudget overrides [DefaultPageBudget] for the pre-generation
// page-count gate.
func WithPageBudget(n int) Option {
	return func(c config) config {
		c.budget = n

		return c
	}
}

// WithLogger supplies the logger used for advisory warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c config) config {
		c.logger = l

		return c
	}
}

// Stats summarizes one compilation.
type Stats struct {
	TotalPages      int            `json:"total_pages"       yaml:"total_pages"`
	TotalWidgets    int            `json:"total_widgets"     yaml:"total_widgets"`
	PagesPerSection map[string]int `json:"pages_per_section" yaml:"pages_per_section"`
}

// Document is the fully compiled output: an ordered, page-numbered,
// token-free widget list with navigation metadata and statistics. It is
// handed to an external rendering pipeline as-is.
type Document struct {
	Widgets    []*Widget  `json:"widgets"    yaml:"widgets"`
	Navigation Navigation `json:"navigation" yaml:"navigation"`
	Stats      Stats      `json:"stats"      yaml:"stats"`
}

// Compile transforms the plan and master library into a Document. The
// whole transformation is synchronous and in-memory; all mutable state
// (destination registry, page counter) is scoped to this one call.
//
// Validation is fail-fast: structural and scope checks run before
// enumeration, the page budget gate runs before any page is generated,
// and the post-compile integrity passes abort the call rather than
// return a partial document.
func Compile(_ context.Context, lib *Library, p *Plan, opts ...Option) (*Document, error) {
	cfg := apply(config{}, opts...)
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	err := p.Validate(lib)
	if err != nil {
		return nil, err
	}

	err = p.checkBudget(cfg.budget)
	if err != nil {
		return nil, err
	}

	c := &compiler{
		lib:     lib,
		plan:    p,
		cfg:     cfg,
		reg:     newRegistry(),
		perKind: make(map[string]int),
	}

	for _, kind := range p.order() {
		s, ok := p.section(kind)
		if !ok {
			// Validate guarantees order and sections agree.
			continue
		}

		err := c.compileSection(s, makeContext(p.locale()))
		if err != nil {
			return nil, err
		}
	}

	doc := &Document{
		Widgets: c.widgets,
		Stats: Stats{
			TotalPages:      c.page,
			TotalWidgets:    len(c.widgets),
			PagesPerSection: c.perKind,
		},
	}

	doc.Navigation = buildNavigation(c.reg, c.widgets)

	err = validateOutput(doc, c.reg, cfg.device, cfg.logger)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("compilation complete",
		slog.Int("pages", doc.Stats.TotalPages),
		slog.Int("widgets", doc.Stats.TotalWidgets),
		slog.Int("destinations", len(doc.Navigation.NamedDestinations)),
		slog.Int("links", len(doc.Navigation.Links)),
	)

	return doc, nil
}

// compiler carries the mutable state of one compile call.
type compiler struct {
	lib     *Library
	plan    *Plan
	cfg     config
	reg     *registry
	widgets []*Widget
	perKind map[string]int
	page    int
}

// compileSection assembles every page of one section, descending into
// nested sections after each parent instance so child pages immediately
// follow their parent and page numbers stay contiguous.
func (c *compiler) compileSection(s *Section, base *Context) error {
	master, ok := c.lib.Lookup(s.Master)
	if !ok {
		// Already rejected by Validate; kept as a defensive stop.
		return ErrUnknownMaster.
			With(slog.String("section", s.Kind), slog.String("master", s.Master))
	}

	instances, err := s.instances(c.plan.Calendar, base)
	if err != nil {
		return WrapError(err).
			With(slog.String("section", s.Kind))
	}

	per := s.PagesPerItem
	if per < 1 {
		per = 1
	}

	for instCtx := range instances {
		for sub := 1; sub <= per; sub++ {
			pageCtx := instCtx
			if s.PagesPerItem > 1 {
				pageCtx = instCtx.withSubpage(sub)
			}

			err := c.assemblePage(s, master, pageCtx)
			if err != nil {
				return err
			}
		}

		for _, child := range s.Nested {
			err := c.compileSection(child, instCtx)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// assemblePage instantiates one page of a master under the given context:
// token resolution, anchor registration, composite expansion, and bind
// resolution, in widget order.
func (c *compiler) assemblePage(s *Section, master *Master, ctx *Context) error {
	c.page++
	c.perKind[s.Kind]++

	page := c.page

	for _, tmpl := range master.Widgets {
		w := tmpl.Clone()
		w.Page = page

		resolveWidget(w, ctx)

		if w.Composite() {
			leaves, err := expandComposite(w, ctx, page)
			if err != nil {
				return WrapError(err).
					With(
						slog.String("master", master.Name),
						slog.String("widget", tmpl.ID),
						slog.Int("page", page),
					)
			}

			c.widgets = append(c.widgets, leaves...)

			continue
		}

		w.ID = strconv.Itoa(page) + "_" + tmpl.ID

		if w.Type == TypeAnchor {
			err := c.registerAnchor(w, ctx)
			if err != nil {
				return WrapError(err).
					With(
						slog.String("master", master.Name),
						slog.String("widget", tmpl.ID),
						slog.Int("page", page),
					)
			}
		}

		err := bindWidget(w, ctx)
		if err != nil {
			return WrapError(err).
				With(
					slog.String("master", master.Name),
					slog.Int("page", page),
				)
		}

		c.widgets = append(c.widgets, w)
	}

	return nil
}

// registerAnchor records an anchor widget's destination. This is the
// dest_id property's single substitution pass; the resolved, lowercased
// id replaces the raw text in the compiled widget.
func (c *compiler) registerAnchor(w *Widget, ctx *Context) error {
	id := strings.ToLower(resolveString(w.Properties.Str(PropDestID), ctx))
	if id == "" {
		return nil
	}

	w.Properties[PropDestID] = id

	return c.reg.register(id, Destination{
		Page:   w.Page,
		X:      w.Position.X,
		Y:      w.Position.Y,
		Widget: w.ID,
	})
}
