package workflow

import (
	"context"
	"fmt"
)

// GuardFunc evaluates whether a transition should be allowed. A nil
// return permits the transition; the returned error is propagated to
// the caller of Fire unchanged so guards can report domain errors.
type GuardFunc func(ctx context.Context) error

// Machine tracks the current lifecycle state and validates transitions.
// Each (state, trigger) pair maps to exactly one target state with an
// optional guard.
type Machine struct {
	current     State
	transitions map[State]map[Trigger]transition
}

type transition struct {
	toState State
	guard   GuardFunc
}

// Builder configures the transition table for a Machine
type Builder struct {
	transitions map[State]map[Trigger]transition
}

// NewBuilder creates an empty state machine builder
func NewBuilder() *Builder {
	return &Builder{transitions: make(map[State]map[Trigger]transition)}
}

// Permit allows trigger to move from state to toState
func (b *Builder) Permit(from State, trigger Trigger, to State) *Builder {
	return b.PermitIf(from, trigger, to, nil)
}

// PermitIf allows trigger to move from state to toState when guard passes
func (b *Builder) PermitIf(from State, trigger Trigger, to State, guard GuardFunc) *Builder {
	if !from.IsValid() {
		panic(fmt.Sprintf("invalid source state: %s", from))
	}
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", to))
	}
	if _, ok := b.transitions[from]; !ok {
		b.transitions[from] = make(map[Trigger]transition)
	}
	b.transitions[from][trigger] = transition{toState: to, guard: guard}
	return b
}

// Build creates a machine positioned at initial. The transition table is
// copied so the builder can be reused safely.
func (b *Builder) Build(initial State) (*Machine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, initial)
	}

	table := make(map[State]map[Trigger]transition, len(b.transitions))
	for from, byTrigger := range b.transitions {
		copied := make(map[Trigger]transition, len(byTrigger))
		for trg, t := range byTrigger {
			copied[trg] = t
		}
		table[from] = copied
	}

	return &Machine{current: initial, transitions: table}, nil
}

// State returns the current state
func (m *Machine) State() State {
	return m.current
}

// CanFire returns true if the trigger has a configured transition from
// the current state. Guards are not evaluated.
func (m *Machine) CanFire(trigger Trigger) bool {
	byTrigger, ok := m.transitions[m.current]
	if !ok {
		return false
	}
	_, ok = byTrigger[trigger]
	return ok
}

// Fire attempts to execute the trigger, transitioning to the new state
// if the transition is configured and its guard passes
func (m *Machine) Fire(ctx context.Context, trigger Trigger) error {
	byTrigger, ok := m.transitions[m.current]
	if !ok {
		return fmt.Errorf("%w: cannot fire %s from terminal or unconfigured state %s", ErrInvalidTransition, trigger, m.current)
	}

	t, ok := byTrigger[trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire %s from state %s", ErrInvalidTransition, trigger, m.current)
	}

	if t.guard != nil {
		if err := t.guard(ctx); err != nil {
			return err
		}
	}

	m.current = t.toState
	return nil
}

// PermittedTriggers returns all triggers configured from the current state
func (m *Machine) PermittedTriggers() []Trigger {
	byTrigger, ok := m.transitions[m.current]
	if !ok {
		return nil
	}
	triggers := make([]Trigger, 0, len(byTrigger))
	for trg := range byTrigger {
		triggers = append(triggers, trg)
	}
	return triggers
}
