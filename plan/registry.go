package plan

import "log/slog"

// Destination is one registered navigation target: where a destination id
// lands and which anchor widget created it.
type Destination struct {
	Page   int     `json:"page"   yaml:"page"`
	X      float64 `json:"x"      yaml:"x"`
	Y      float64 `json:"y"      yaml:"y"`
	Widget string  `json:"widget" yaml:"widget"`
}

// registry is the single source of truth for navigation targets. Entries
// are created only by anchor widgets as they are instantiated; ids must be
// unique across the whole compile.
type registry struct {
	entries map[string]Destination
	order   []string
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]Destination)}
}

// register records a destination, rejecting duplicate ids.
func (r *registry) register(id string, dest Destination) error {
	if prev, exists := r.entries[id]; exists {
		return ErrDuplicateDest.
			With(
				slog.String("dest", id),
				slog.Int("page", dest.Page),
				slog.Int("first_page", prev.Page),
				slog.String("widget", dest.Widget),
				slog.String("first_widget", prev.Widget),
			)
	}

	r.entries[id] = dest
	r.order = append(r.order, id)

	return nil
}

// lookup returns the destination registered under id.
func (r *registry) lookup(id string) (Destination, bool) {
	dest, ok := r.entries[id]

	return dest, ok
}

// ids returns all registered ids in registration order.
func (r *registry) ids() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)

	return out
}
