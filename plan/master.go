package plan

import (
	"log/slog"

	"github.com/sahilm/fuzzy"
)

// Master is a named, parametric page template. Its widget content,
// properties, and styling may contain tokens and bind expressions.
type Master struct {
	Name    string    `json:"name"    yaml:"name"`
	Widgets []*Widget `json:"widgets" yaml:"widgets"`
}

// Library is a name-keyed collection of masters, preserving declaration
// order.
type Library struct {
	masters map[string]*Master
	names   []string
}

// NewLibrary builds a library from masters, rejecting duplicate names.
func NewLibrary(masters ...*Master) (*Library, error) {
	lib := &Library{
		masters: make(map[string]*Master, len(masters)),
		names:   make([]string, 0, len(masters)),
	}

	for _, m := range masters {
		err := lib.Add(m)
		if err != nil {
			return nil, err
		}
	}

	return lib, nil
}

// Add inserts a master, rejecting duplicate names.
func (l *Library) Add(m *Master) error {
	if _, exists := l.masters[m.Name]; exists {
		return ErrDuplicateName.
			With(slog.String("master", m.Name))
	}

	l.masters[m.Name] = m
	l.names = append(l.names, m.Name)

	return nil
}

// Lookup returns the master with the given name.
func (l *Library) Lookup(name string) (*Master, bool) {
	m, ok := l.masters[name]

	return m, ok
}

// Names returns master names in declaration order.
func (l *Library) Names() []string {
	names := make([]string, len(l.names))
	copy(names, l.names)

	return names
}

// Len returns the number of masters in the library.
func (l *Library) Len() int { return len(l.names) }

// Suggest returns the closest known master names to an unknown reference,
// best match first. Used to enrich unknown-master diagnostics.
func (l *Library) Suggest(name string, limit int) []string {
	matches := fuzzy.Find(name, l.names)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}

	return out
}
