// Package numbering assigns sequence numbers to equations, figures, tables
// and listings once the whole document is known.
//
// Numbered objects are built before their number exists: a Slot renders a
// placeholder run inside a SEQ field, and the Registry fills every slot in
// document order in a second pass.
package numbering

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ByLCY/docflow/wordml"
)

// Placeholder is the slot text before assignment.
const Placeholder = "?"

var (
	ErrAlreadyAssigned = errors.New("number already assigned")
	ErrDuplicateLabel  = errors.New("duplicate label")
	ErrUnknownLabel    = errors.New("unknown label")
)

// Slot is a number that is filled in later.
type Slot struct {
	run *wordml.Run
	n   int
}

// NewSlot returns an unassigned slot.
func NewSlot() *Slot {
	return &Slot{run: &wordml.Run{Text: Placeholder}}
}

// Run is the run displaying the number. It is shared, so assignment
// updates every element that already holds it.
func (s *Slot) Run() *wordml.Run { return s.run }

// Field wraps the slot run in a SEQ field of the category so that the word
// processor can renumber on update.
func (s *Slot) Field(category string) *wordml.FieldSimple {
	return &wordml.FieldSimple{
		Instr:    fmt.Sprintf(`SEQ %s \* ARABIC`, category),
		Children: []wordml.Element{s.run},
	}
}

// Assign sets the number. A slot can be assigned once.
func (s *Slot) Assign(n int) error {
	if s.n != 0 {
		return fmt.Errorf("%w: %d", ErrAlreadyAssigned, s.n)
	}
	if n < 1 {
		return fmt.Errorf("invalid number %d", n)
	}
	s.n = n
	s.run.Text = strconv.Itoa(n)
	return nil
}

// Number returns the assigned number.
func (s *Slot) Number() (int, bool) { return s.n, s.n != 0 }

// Target is a numbered object.
type Target interface {
	Category() string
	// Label is the cross-reference name, empty when unreferenced.
	Label() string
	AssignNumber(n int) error
}

// Registry holds targets in document order. It does not own them.
type Registry struct {
	targets []Target
	labels  map[string]Target
	numbers map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{labels: map[string]Target{}}
}

// Register appends t. Labels must be unique across categories.
func (r *Registry) Register(t Target) error {
	if l := t.Label(); l != "" {
		if _, ok := r.labels[l]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		r.labels[l] = t
	}
	r.targets = append(r.targets, t)
	return nil
}

// Len is the number of registered targets.
func (r *Registry) Len() int { return len(r.targets) }

// Assign numbers each category 1, 2, 3... in registration order and
// returns the numbers of labelled targets.
func (r *Registry) Assign() (map[string]int, error) {
	counters := map[string]int{}
	numbers := map[string]int{}
	for _, t := range r.targets {
		counters[t.Category()]++
		n := counters[t.Category()]
		if err := t.AssignNumber(n); err != nil {
			return nil, fmt.Errorf("%s %q: %w", t.Category(), t.Label(), err)
		}
		if l := t.Label(); l != "" {
			numbers[l] = n
		}
	}
	r.numbers = numbers
	return numbers, nil
}

// Lookup returns the number of a labelled target after Assign.
func (r *Registry) Lookup(label string) (int, error) {
	n, ok := r.numbers[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return n, nil
}
