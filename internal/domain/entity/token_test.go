package entity

import "testing"

func TestTokenStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from TokenStatus
		to   TokenStatus
		want bool
	}{
		{TokenStatusCreated, TokenStatusInProgress, true},
		{TokenStatusCreated, TokenStatusCancelled, true},
		{TokenStatusCreated, TokenStatusEnteredInError, true},
		{TokenStatusCreated, TokenStatusCompleted, false},
		{TokenStatusInProgress, TokenStatusCompleted, true},
		{TokenStatusInProgress, TokenStatusCancelled, true},
		{TokenStatusInProgress, TokenStatusEnteredInError, true},
		{TokenStatusInProgress, TokenStatusCreated, false},
		{TokenStatusCompleted, TokenStatusCancelled, false},
		{TokenStatusCancelled, TokenStatusInProgress, false},
		{TokenStatusEnteredInError, TokenStatusCreated, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTokenStatusIsTerminal(t *testing.T) {
	terminal := []TokenStatus{TokenStatusCompleted, TokenStatusCancelled, TokenStatusEnteredInError}
	open := []TokenStatus{TokenStatusCreated, TokenStatusInProgress}

	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("expected %s to be open", s)
		}
	}
}
