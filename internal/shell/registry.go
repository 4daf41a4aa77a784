package shell

import (
	"fmt"

	"github.com/devconsole/devcon/internal/errors"
)

// Handler executes one command. args is the raw argument string with
// the command name and surrounding whitespace stripped.
type Handler func(s *Session, args string)

// Entry is one registered command. Hidden entries stay invocable but do
// not appear in listings.
type Entry struct {
	Name    string
	Hidden  bool
	Handler Handler
}

// Registry is an insertion-ordered collection of commands with unique
// names. It is populated at startup and read-only afterwards.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Add registers a command. Names must be unique.
func (r *Registry) Add(name string, hidden bool, handler Handler) error {
	if _, exists := r.index[name]; exists {
		return errors.New(errors.ErrShell,
			fmt.Sprintf("Command '%s' is already registered", name),
			"Command names must be unique")
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, Entry{Name: name, Hidden: hidden, Handler: handler})
	return nil
}

// MustAdd registers a command and panics on a duplicate name. Intended
// for the static builtin table, where a duplicate is a programming error.
func (r *Registry) MustAdd(name string, hidden bool, handler Handler) {
	if err := r.Add(name, hidden, handler); err != nil {
		panic(err)
	}
}

// Len returns the total number of entries, hidden included.
func (r *Registry) Len() int {
	return len(r.entries)
}

// At returns the entry at position i in registration order.
func (r *Registry) At(i int) Entry {
	return r.entries[i]
}

// VisibleCount returns the number of non-hidden entries.
func (r *Registry) VisibleCount() int {
	count := 0
	for _, e := range r.entries {
		if !e.Hidden {
			count++
		}
	}
	return count
}

// Lookup finds a command by exact name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}
