package plan

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/expr-lang/expr"
)

// Composite widgets expand into concrete leaf widgets at compile time.
// Every generated leaf receives a globally unique id of the form
// <page>_<parentWidgetID>_<itemIndex> and a fully resolved destination.

// expandComposite dispatches expansion by widget type. The returned
// widgets replace the composite in the compiled page.
func expandComposite(w *Widget, ctx *Context, page int) ([]*Widget, error) {
	switch w.Type {
	case TypeGrid:
		return expandGrid(w, ctx, page)
	case TypeCalendarYear:
		return expandCalendarYear(w, ctx, page)
	case TypeCalendarMonth:
		return expandCalendarMonth(w, ctx, page)
	case TypeLinkList:
		return expandLinkList(w, ctx, page)
	default:
		return nil, NewError(KindStructure, "not a composite widget type").
			With(slog.String("widget", w.ID), slog.String("type", w.Type))
	}
}

// itemID builds the globally unique id for one expanded item.
func itemID(page int, parent string, index int) string {
	return fmt.Sprintf("%d_%s_%d", page, parent, index)
}

// gridItems materializes the data source of a grid widget: either an
// explicit sequence under "data", or a "data_source" expression evaluated
// with the instance variables and a built-in range function in scope.
func gridItems(w *Widget, ctx *Context) ([]any, error) {
	if w.Properties.Has(PropData) {
		return w.Properties.List(PropData), nil
	}

	source := strings.TrimSpace(w.Properties.Str(PropDataSource))
	if source == "" {
		return nil, nil
	}

	env := ctx.Vars()
	env["range"] = rangeList

	out, err := expr.Eval(resolveString(source, ctx), env)
	if err != nil {
		return nil, ErrBadDataSource.Wrap(err).
			With(
				slog.String("widget", w.ID),
				slog.String("data_source", source),
			)
	}

	items, err := anySlice(out)
	if err != nil {
		return nil, WrapError(err).
			With(
				slog.String("widget", w.ID),
				slog.String("data_source", source),
			)
	}

	return items, nil
}

// rangeList implements the range(a,b) / range(b) data-source builtin:
// range(b) counts 1..b, range(a,b) counts a..b, both inclusive.
func rangeList(args ...int) ([]any, error) {
	var lo, hi int

	switch len(args) {
	case 1:
		lo, hi = 1, args[0]
	case 2:
		lo, hi = args[0], args[1]
	default:
		return nil, ErrBadDataSource.
			With(slog.Int("args", len(args)))
	}

	if hi < lo {
		return []any{}, nil
	}

	out := make([]any, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		out = append(out, n)
	}

	return out, nil
}

// anySlice normalizes an evaluated data source into a []any.
func anySlice(v any) ([]any, error) {
	switch t := v.(type) {
	case []any:
		return t, nil
	case []int:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}

		return out, nil
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}

		return out, nil
	case []float64:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}

		return out, nil
	default:
		return nil, ErrBadDataSource.
			With(slog.String("result", fmt.Sprintf("%T", v)))
	}
}

// expandGrid clones the cell template once per data item, capped at
// rows*cols, substituting cell_value and cell_index into a fresh per-cell
// context and positioning cells by equal subdivision of the widget box.
func expandGrid(w *Widget, ctx *Context, page int) ([]*Widget, error) {
	items, err := gridItems(w, ctx)
	if err != nil {
		return nil, err
	}

	rows := w.Properties.Int(PropRows, 1)
	cols := w.Properties.Int(PropCols, 1)
	gap := w.Properties.Float(PropGap, 0)
	cell := w.Properties.Map(PropCell)

	if len(items) > rows*cols {
		items = items[:rows*cols]
	}

	leaves := make([]*Widget, 0, len(items))

	for i, item := range items {
		cellCtx := ctx.child(map[string]any{
			"cell_value": item,
			"cell_index": i,
		})

		leaf, err := leafFromTemplate(cell, cellCtx)
		if err != nil {
			return nil, WrapError(err).
				With(slog.String("widget", w.ID))
		}

		leaf.ID = itemID(page, w.ID, i)
		leaf.Page = page
		leaf.Position = subdivide(w.Position, cols, rows, i%cols, i/cols, gap)

		leaves = append(leaves, leaf)
	}

	return leaves, nil
}

// leafFromTemplate builds one leaf widget from a cell template map,
// resolving its content tokens and bind expression in the given context.
func leafFromTemplate(tmpl map[string]any, ctx *Context) (*Widget, error) {
	leaf := &Widget{Type: TypeInternalLink}

	if tmpl != nil {
		t := Props(tmpl)

		if s := t.Str("type"); s != "" {
			leaf.Type = s
		}

		leaf.Content = resolveString(t.Str("content"), ctx)

		if styling := t.Map("styling"); styling != nil {
			leaf.Styling = resolveValue(cloneValue(styling), ctx).(map[string]any)
		}

		if t.Has(PropBind) {
			dest, err := resolveBind(t.Str(PropBind), ctx)
			if err != nil {
				return nil, err
			}

			leaf.ToDest = dest
		}
	}

	return leaf, nil
}

// expandCalendarYear always emits 12 month cells in a 3x4 grid, each an
// internal link bound to month:YYYY-MM.
func expandCalendarYear(w *Widget, ctx *Context, page int) ([]*Widget, error) {
	year, ok := ctx.Lookup("year")
	if !ok {
		return nil, ErrMissingDates.
			With(
				slog.String("widget", w.ID),
				slog.String("need", "year"),
			)
	}

	const cols, rows = 3, 4

	gap := w.Properties.Float(PropGap, 0)
	y := toInt(year)

	leaves := make([]*Widget, 0, 12)

	for i := range 12 {
		month := time.Month(i + 1)

		leaves = append(leaves, &Widget{
			ID:       itemID(page, w.ID, i),
			Type:     TypeInternalLink,
			Page:     page,
			Content:  monthName(ctx.Locale(), month),
			Position: subdivide(w.Position, cols, rows, i%cols, i/cols, gap),
			ToDest:   fmt.Sprintf("month:%04d-%02d", y, i+1),
			Styling:  cloneStyling(w.Styling),
		})
	}

	return leaves, nil
}

// expandCalendarMonth emits one cell per day of the month on a 7-column
// grid, offset by start_week_on. Rows beyond 6 are dropped.
func expandCalendarMonth(w *Widget, ctx *Context, page int) ([]*Widget, error) {
	year, okYear := ctx.Lookup("year")
	month, okMonth := ctx.Lookup("month")

	if !okYear || !okMonth {
		return nil, ErrMissingDates.
			With(
				slog.String("widget", w.ID),
				slog.String("need", "year, month"),
			)
	}

	const cols, maxRows = 7, 6

	y, m := toInt(year), time.Month(toInt(month))
	total := daysInMonth(y, m)
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	offset := weekColumn(first.Weekday(), w.Properties.Str(PropStartWeekOn))
	rows := (offset + total + cols - 1) / cols

	if rows > maxRows {
		rows = maxRows
	}

	gap := w.Properties.Float(PropGap, 0)
	leaves := make([]*Widget, 0, total)

	for day := 1; day <= total; day++ {
		slot := offset + day - 1

		row := slot / cols
		if row >= maxRows {
			break
		}

		leaves = append(leaves, &Widget{
			ID:       itemID(page, w.ID, day-1),
			Type:     TypeInternalLink,
			Page:     page,
			Content:  fmt.Sprintf("%d", day),
			Position: subdivide(w.Position, cols, rows, slot%cols, row, gap),
			ToDest:   fmt.Sprintf("day:%04d-%02d-%02d", y, int(m), day),
			Styling:  cloneStyling(w.Styling),
		})
	}

	return leaves, nil
}

// weekColumn returns the grid column of a weekday given the configured
// first day of the week ("monday" by default, "sunday" accepted).
func weekColumn(day time.Weekday, startOn string) int {
	switch strings.ToLower(strings.TrimSpace(startOn)) {
	case "sunday":
		return int(day)
	default:
		return (int(day) + 6) % 7
	}
}

// expandLinkList emits one internal link per item from either parallel
// labels/destinations arrays or a count with a single bind template.
func expandLinkList(w *Widget, ctx *Context, page int) ([]*Widget, error) {
	labels := w.Properties.Strs(PropLabels)
	dests := w.Properties.Strs(PropDestinations)

	var n int

	switch {
	case len(labels) > 0 || len(dests) > 0:
		if len(labels) != len(dests) {
			return nil, ErrLengthMismatch.
				With(
					slog.String("widget", w.ID),
					slog.Int("labels", len(labels)),
					slog.Int("destinations", len(dests)),
				)
		}

		n = len(labels)

	default:
		n = w.Properties.Int(PropCount, 0)
	}

	if n == 0 {
		return nil, nil
	}

	cols := w.Properties.Int(PropColumns, 1)
	if cols < 1 {
		cols = 1
	}

	rows := (n + cols - 1) / cols
	gap := w.Properties.Float(PropGap, 0)
	vertical := strings.EqualFold(w.Properties.Str(PropOrientation), "vertical")
	itemHeight := w.Properties.Float(PropItemHeight, 0)
	highlight := w.Properties.Int(PropHighlightIndex, 0)
	bindTmpl := w.Properties.Str(PropBind)

	leaves := make([]*Widget, 0, n)

	for i := range n {
		itemCtx := ctx.child(map[string]any{
			"index":        i + 1,
			"index_padded": fmt.Sprintf("%03d", i+1),
		})

		var (
			label  string
			dest   string
			err    error
			source string
		)

		if len(labels) > 0 {
			label = resolveString(labels[i], itemCtx)
			source = dests[i]
		} else {
			label = resolveString(w.Properties.Str("label"), itemCtx)
			source = bindTmpl
		}

		dest, err = resolveBind(source, itemCtx)
		if err != nil {
			return nil, WrapError(err).
				With(slog.String("widget", w.ID), slog.Int("item", i))
		}

		col, row := i%cols, i/cols
		if vertical {
			col, row = i/rows, i%rows
		}

		pos := subdivide(w.Position, cols, rows, col, row, gap)
		if itemHeight > 0 {
			pos.Y = w.Position.Y + float64(row)*(itemHeight+gap)
			pos.H = itemHeight
		}

		leaf := &Widget{
			ID:       itemID(page, w.ID, i),
			Type:     TypeInternalLink,
			Page:     page,
			Content:  label,
			Position: pos,
			ToDest:   dest,
			Styling:  cloneStyling(w.Styling),
		}

		if highlight == i+1 {
			if leaf.Styling == nil {
				leaf.Styling = make(map[string]any, 1)
			}

			leaf.Styling["highlight"] = true
		}

		leaves = append(leaves, leaf)
	}

	return leaves, nil
}

// cloneStyling deep-copies a styling map, preserving nil.
func cloneStyling(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	return cloneValue(m).(map[string]any)
}
