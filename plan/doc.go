// Package plan compiles a library of parametric page masters plus a plan
// describing how to enumerate and link them into a fully resolved,
// page-numbered document with navigation metadata.
//
// # Pipeline
//
// A compile call is a synchronous, in-memory transformation:
//
//  1. Structural validation: section order, nesting depth, master
//     references, date presence, and ancestor-aware variable scoping.
//  2. Page budget gate: a closed-form page estimate rejects runaway plans
//     before any page is generated.
//  3. Assembly: sections are enumerated into per-instance binding
//     contexts; each instance stamps its master's widgets onto a fresh
//     page, resolving tokens, registering anchors, expanding composite
//     widgets, and canonicalizing bind expressions. Nested sections are
//     assembled immediately after each parent instance so page numbers
//     stay contiguous.
//  4. Navigation synthesis: named destinations, a two-level outline
//     tree, and internal-link records are derived from the destination
//     registry and the compiled widgets.
//  5. Integrity passes: canonical destination ids, uniqueness, and link
//     resolution abort the call on failure; the touch-target check only
//     warns.
//
// # Tokens
//
// Widget content, properties, and styling may carry two placeholder
// grammars, substituted together in one left-to-right pass:
//
//	{name}  {name:format}
//	@name   @name:format
//
// Unknown names are left verbatim. Format specs ending in 'd' format as
// integers, 'f' as reals, anything else as strings.
//
// # Binds
//
// Interactive widgets may carry a bind expression resolving to a
// destination id:
//
//	notes(7)           -> notes:page:007
//	month({date})      -> month:2026-01-05
//	@home_dest         -> value of home_dest
//	day:{date}         -> day:2026-01-05
//
// Destination ids are lowercased and must end up canonical:
// ^[a-z0-9][a-z0-9:_-]{1,127}$ with no residual token characters.
package plan
