// Package fsm validates status transitions against an explicit table.
package fsm

import "fmt"

// TransitionError reports a move the table does not allow.
type TransitionError[S ~string] struct {
	From S
	To   S
}

func (e *TransitionError[S]) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// Machine is an immutable transition table over states of type S.
type Machine[S ~string] struct {
	states      map[S]struct{}
	transitions map[S]map[S]struct{}
}

// New builds a Machine. Every state that appears as a source or target is a known state;
// extra terminal states can be listed in terminals.
func New[S ~string](transitions map[S][]S, terminals ...S) *Machine[S] {
	m := &Machine[S]{
		states:      make(map[S]struct{}),
		transitions: make(map[S]map[S]struct{}, len(transitions)),
	}
	for from, tos := range transitions {
		m.states[from] = struct{}{}
		set := make(map[S]struct{}, len(tos))
		for _, to := range tos {
			set[to] = struct{}{}
			m.states[to] = struct{}{}
		}
		m.transitions[from] = set
	}
	for _, s := range terminals {
		m.states[s] = struct{}{}
	}
	return m
}

// Valid reports whether s is a known state.
func (m *Machine[S]) Valid(s S) bool {
	_, ok := m.states[s]
	return ok
}

// Can reports whether from -> to is allowed.
func (m *Machine[S]) Can(from, to S) bool {
	_, ok := m.transitions[from][to]
	return ok
}

// Transition returns a *TransitionError when from -> to is not allowed.
func (m *Machine[S]) Transition(from, to S) error {
	if !m.Can(from, to) {
		return &TransitionError[S]{From: from, To: to}
	}
	return nil
}

// Terminal reports whether no transition leaves s.
func (m *Machine[S]) Terminal(s S) bool {
	return len(m.transitions[s]) == 0
}

// Next lists the states reachable from s in one step.
func (m *Machine[S]) Next(s S) []S {
	out := make([]S, 0, len(m.transitions[s]))
	for to := range m.transitions[s] {
		out = append(out, to)
	}
	return out
}
