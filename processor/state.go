package processor

import (
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle of one definition within a run.
type State int

const (
	Pending State = iota
	Fetching
	FailedRetryable
	Succeeded
	FailedTerminal
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fetching:
		return "fetching"
	case FailedRetryable:
		return "failed_retryable"
	case Succeeded:
		return "succeeded"
	case FailedTerminal:
		return "failed_terminal"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is allowed.
func (s State) Terminal() bool { return s == Succeeded || s == FailedTerminal }

var ErrIllegalTransition = errors.New("illegal state transition")

var transitions = map[State][]State{
	Pending:         {Fetching, FailedTerminal},
	Fetching:        {Succeeded, FailedRetryable, FailedTerminal},
	FailedRetryable: {Fetching, FailedTerminal},
}

// machine tracks the state of a single definition.
type machine struct {
	mu      sync.Mutex
	code    string
	state   State
	history []State
	// illegal holds every rejected transition.
	illegal []error
}

func newMachine(code string) *machine {
	return &machine{code: code, state: Pending, history: []State{Pending}}
}

func (m *machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// To moves the machine to next or returns ErrIllegalTransition.
func (m *machine) To(next State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, allowed := range transitions[m.state] {
		if allowed == next {
			m.state = next
			m.history = append(m.history, next)
			return nil
		}
	}
	err := fmt.Errorf("%w: %s %s -> %s", ErrIllegalTransition, m.code, m.state, next)
	m.illegal = append(m.illegal, err)
	return err
}

// Annotate appends the rejected transitions, if any, to a failure cause.
func (m *machine) Annotate(cause string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, err := range m.illegal {
		cause = fmt.Sprintf("%s (%v)", cause, err)
	}
	return cause
}

// History returns every state visited, in order.
func (m *machine) History() []State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]State(nil), m.history...)
}
