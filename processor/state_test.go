package processor

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMachineRetryPath(t *testing.T) {
	m := newMachine("A")
	for _, s := range []State{Fetching, FailedRetryable, Fetching, Succeeded} {
		if err := m.To(s); err != nil {
			t.Fatalf("To(%s): %v", s, err)
		}
	}
	want := []State{Pending, Fetching, FailedRetryable, Fetching, Succeeded}
	if diff := cmp.Diff(want, m.History()); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestMachineTerminalStatesAreFinal(t *testing.T) {
	tests := []struct {
		name string
		path []State
	}{
		{"after success", []State{Fetching, Succeeded}},
		{"after terminal failure", []State{Fetching, FailedTerminal}},
		{"stopped while pending", []State{FailedTerminal}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine("A")
			for _, s := range tt.path {
				if err := m.To(s); err != nil {
					t.Fatalf("To(%s): %v", s, err)
				}
			}
			if !m.State().Terminal() {
				t.Fatalf("expected terminal state, got %s", m.State())
			}
			if err := m.To(Fetching); !errors.Is(err, ErrIllegalTransition) {
				t.Fatalf("expected ErrIllegalTransition, got %v", err)
			}
		})
	}
}

func TestMachineRejectsSkippingFetch(t *testing.T) {
	m := newMachine("A")
	if err := m.To(Succeeded); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
	if m.State() != Pending {
		t.Fatalf("state changed on illegal transition: %s", m.State())
	}
}

func TestMachineAnnotateKeepsRejectedTransitions(t *testing.T) {
	m := newMachine("A")
	if got := m.Annotate("boom"); got != "boom" {
		t.Fatalf("clean machine should not change the cause, got %q", got)
	}

	// A retry mark before any attempt is illegal.
	err := m.To(FailedRetryable)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
	if err := m.To(FailedTerminal); err != nil {
		t.Fatalf("To(FailedTerminal): %v", err)
	}
	got := m.Annotate("provider unavailable")
	if !strings.HasPrefix(got, "provider unavailable (") || !strings.Contains(got, "pending -> failed_retryable") {
		t.Fatalf("rejected transition missing from cause: %q", got)
	}
}
