package plan

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Bind expressions resolve a widget property into a destination id.
// Three forms are accepted:
//
//	func(arg)        with optional #suffix; arg is a literal, an @var
//	                 reference, or token-bearing text
//	@var             a bare variable reference
//	skeleton         a destination id with embedded tokens, limited to
//	                 the characters [a-z0-9:_-{}@]
//
// Anything else is a grammar error naming the expression. Results are
// lowercased; canonical-form enforcement happens post-compile.

// bindKind enumerates the recognized bind functions. Keeping this a sum
// type makes the canonicalization switch exhaustive instead of a string
// match with a fallback branch.
type bindKind int

const (
	bindNotes bindKind = iota
	bindYear
	bindMonth
	bindDay
	bindSection
	bindGeneric
)

// bindKindOf maps a function name to its kind.
func bindKindOf(name string) bindKind {
	switch name {
	case "notes":
		return bindNotes
	case "year":
		return bindYear
	case "month":
		return bindMonth
	case "day":
		return bindDay
	case "section":
		return bindSection
	default:
		return bindGeneric
	}
}

var (
	bindFuncPattern = regexp.MustCompile(
		`^([a-z][a-z0-9_]*)\(([^()]*)\)(?:#([A-Za-z0-9:_\-]+))?$`,
	)
	bindVarPattern      = regexp.MustCompile(`^@([A-Za-z_][A-Za-z0-9_]*)$`)
	bindSkeletonPattern = regexp.MustCompile(`^[a-z0-9:_\-{}@]+$`)
)

// resolveBind canonicalizes a bind expression into a destination id using
// the given context. An empty or whitespace-only expression means "no
// binding" and yields ("", nil).
func resolveBind(expr string, ctx *Context) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", nil
	}

	if m := bindFuncPattern.FindStringSubmatch(expr); m != nil {
		name, arg, suffix := m[1], m[2], m[3]

		id, err := canonicalize(bindKindOf(name), name, resolveString(strings.TrimSpace(arg), ctx))
		if err != nil {
			return "", WrapError(err).
				With(slog.String("bind", expr))
		}

		// The suffix is appended verbatim, without the '#' marker.
		return strings.ToLower(id + suffix), nil
	}

	if m := bindVarPattern.FindStringSubmatch(expr); m != nil {
		value, ok := ctx.Lookup(m[1])
		if !ok {
			return "", ErrBadBind.
				With(
					slog.String("bind", expr),
					slog.String("unknown", m[1]),
				)
		}

		return strings.ToLower(stringify(value)), nil
	}

	if bindSkeletonPattern.MatchString(expr) {
		return strings.ToLower(resolveString(expr, ctx)), nil
	}

	return "", ErrBadBind.
		With(slog.String("bind", expr))
}

// canonicalize renders a function-form bind into its destination id.
func canonicalize(kind bindKind, name, arg string) (string, error) {
	switch kind {
	case bindNotes:
		n := toInt(arg)
		if n == 0 && strings.TrimSpace(arg) != "0" {
			return "", ErrBadBind.
				With(slog.String("arg", arg))
		}

		return fmt.Sprintf("notes:page:%03d", n), nil

	case bindYear, bindMonth, bindDay, bindSection:
		return name + ":" + arg, nil

	case bindGeneric:
		return name + ":" + arg, nil

	default:
		return "", ErrBadBind.
			With(slog.String("func", name))
	}
}

// bindWidget resolves a leaf widget's bind property into its ToDest field,
// removing the property afterwards. Composite widgets keep their bind for
// per-item resolution during expansion.
func bindWidget(w *Widget, ctx *Context) error {
	if w.Composite() || !w.Properties.Has(PropBind) {
		return nil
	}

	expr := w.Properties.Str(PropBind)
	delete(w.Properties, PropBind)

	if !w.Interactive() {
		return nil
	}

	dest, err := resolveBind(expr, ctx)
	if err != nil {
		return WrapError(err).
			With(slog.String("widget", w.ID))
	}

	w.ToDest = dest

	return nil
}
