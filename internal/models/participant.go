package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrEmptyRoster        = errors.New("roster must have at least one participant")
)

// DefaultParticipants is the roster used when none is configured.
var DefaultParticipants = []string{"Alice", "Bob", "Charlie", "Dana"}

// Participant identifies a member of the roster.
// Values should come from Roster.Parse; a bare conversion skips validation.
type Participant string

// String returns the participant's name.
func (p Participant) String() string { return string(p) }

// Roster is the fixed, known-in-advance set of participants.
// It is built once at start-up and never changes afterwards.
type Roster struct {
	// members keeps the configured order for display (form options, CLI).
	members []Participant
	index   map[string]Participant
}

// NewRoster builds a roster from the given names.
// Names are trimmed; empty names and duplicates are rejected.
func NewRoster(names ...string) (*Roster, error) {
	if len(names) == 0 {
		return nil, ErrEmptyRoster
	}

	r := &Roster{
		members: make([]Participant, 0, len(names)),
		index:   make(map[string]Participant, len(names)),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("participant name cannot be empty")
		}
		if _, dup := r.index[name]; dup {
			return nil, fmt.Errorf("duplicate participant %q", name)
		}
		p := Participant(name)
		r.members = append(r.members, p)
		r.index[name] = p
	}
	return r, nil
}

// DefaultRoster returns a roster of DefaultParticipants.
func DefaultRoster() *Roster {
	r, err := NewRoster(DefaultParticipants...)
	if err != nil {
		panic(err)
	}
	return r
}

// Members returns a copy of the participants in configured order.
func (r *Roster) Members() []Participant {
	out := make([]Participant, len(r.members))
	copy(out, r.members)
	return out
}

// Len returns the number of participants.
func (r *Roster) Len() int { return len(r.members) }

// Parse validates name against the roster.
func (r *Roster) Parse(name string) (Participant, error) {
	p, ok := r.index[strings.TrimSpace(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownParticipant, name)
	}
	return p, nil
}

// Contains reports whether p belongs to the roster.
func (r *Roster) Contains(p Participant) bool {
	_, ok := r.index[string(p)]
	return ok
}
