package plan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Token substitution supports two independent grammars that coexist in the
// same string:
//
//	{name}  {name:format}   brace form
//	@name   @name:format    at form
//
// Both resolve against the current Context. Unknown names are left
// verbatim. Substitution is a single left-to-right pass: a substituted
// value is never re-scanned for further tokens.
//
// A format spec ending in 'd' formats the value as an integer, one ending
// in 'f' as a real number, anything else as a string with that spec.
var tokenPattern = regexp.MustCompile(
	`\{([A-Za-z_][A-Za-z0-9_]*)(?::([^{}]+))?\}` +
		`|@([A-Za-z_][A-Za-z0-9_]*)(?::([A-Za-z0-9.+\-]+))?`,
)

// resolveString substitutes all brace and at tokens in s from ctx.
func resolveString(s string, ctx *Context) string {
	if !strings.ContainsAny(s, "{@") {
		return s
	}

	return tokenPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := tokenPattern.FindStringSubmatch(match)

		name, format := sub[1], sub[2]
		if name == "" {
			name, format = sub[3], sub[4]
		}

		value, ok := ctx.Lookup(name)
		if !ok {
			return match
		}

		return formatToken(value, format)
	})
}

// formatToken renders a resolved token value according to its format spec.
func formatToken(value any, format string) string {
	if format == "" {
		return stringify(value)
	}

	switch {
	case strings.HasSuffix(format, "d"):
		return fmt.Sprintf("%"+format, toInt(value))

	case strings.HasSuffix(format, "f"):
		return fmt.Sprintf("%"+format, toFloat(value))

	case strings.HasSuffix(format, "s"):
		return fmt.Sprintf("%"+format, stringify(value))

	default:
		return fmt.Sprintf("%"+format+"s", stringify(value))
	}
}

// stringify renders a token value without a format spec.
func stringify(value any) string {
	switch v := value.(type) {
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
		return fmt.Sprint(v)
	}
}

// toInt coerces a token value to an integer for 'd' format specs.
func toInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))

		return n
	default:
		return 0
	}
}

// toFloat coerces a token value to a float for 'f' format specs.
func toFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)

		return f
	default:
		return 0
	}
}

// resolveValue substitutes tokens through an arbitrary structured value:
// strings directly, maps and slices recursively, everything else verbatim.
func resolveValue(value any, ctx *Context) any {
	switch v := value.(type) {
	case string:
		return resolveString(v, ctx)

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = resolveValue(e, ctx)
		}

		return out

	case Props:
		return Props(resolveValue(map[string]any(v), ctx).(map[string]any))

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = resolveValue(e, ctx)
		}

		return out

	default:
		return v
	}
}

// resolveWidget substitutes tokens through a widget's content, styling,
// and properties, in place. Composite widget properties are skipped: they
// are substituted later, per expanded item, so per-item variables like
// cell_value are still unbound here. The bind and dest_id properties keep
// their raw text: each gets its one substitution pass during bind
// resolution and anchor registration, so a substituted value carrying
// token-shaped text is never re-scanned.
func resolveWidget(w *Widget, ctx *Context) {
	w.Content = resolveString(w.Content, ctx)

	if w.Styling != nil {
		w.Styling = resolveValue(w.Styling, ctx).(map[string]any)
	}

	if w.Properties != nil && !w.Composite() {
		resolved := resolveValue(w.Properties, ctx).(Props)

		for _, key := range []string{PropBind, PropDestID} {
			if raw, ok := w.Properties[key]; ok {
				resolved[key] = raw
			}
		}

		w.Properties = resolved
	}
}
