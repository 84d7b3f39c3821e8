package usecase

import (
	"fmt"

	"github.com/foodbuddy/backend/internal/domain"
)

// CompareFlow tracks the two-product comparison flow:
//
//	idle -> awaiting-second-item -> comparing -> showing-result -> idle
//
// A failure while comparing returns the flow to idle. It is not safe for
// concurrent use; callers serialize access per flow.
type CompareFlow struct {
	state domain.CompareState
	err   error
}

// NewCompareFlow creates a flow in the idle state
func NewCompareFlow() *CompareFlow {
	return &CompareFlow{state: domain.CompareIdle}
}

// State returns the current state
func (f *CompareFlow) State() domain.CompareState {
	return f.state
}

// Err returns the failure that last reset the flow, if any
func (f *CompareFlow) Err() error {
	return f.err
}

// Request enters compare mode
func (f *CompareFlow) Request() error {
	return f.transition(domain.CompareIdle, domain.CompareAwaitingItem)
}

// Submit records that the second product was submitted
func (f *CompareFlow) Submit() error {
	return f.transition(domain.CompareAwaitingItem, domain.CompareComparing)
}

// Resolve records that both analyses completed
func (f *CompareFlow) Resolve() error {
	return f.transition(domain.CompareComparing, domain.CompareShowingResult)
}

// Fail resets a comparing flow to idle and keeps the error
func (f *CompareFlow) Fail(err error) error {
	if tErr := f.transition(domain.CompareComparing, domain.CompareIdle); tErr != nil {
		return tErr
	}
	f.err = err
	return nil
}

// Exit returns to idle from any state but comparing
func (f *CompareFlow) Exit() error {
	if f.state == domain.CompareComparing {
		return fmt.Errorf("%w: cannot exit while comparing", domain.ErrInvalidTransition)
	}
	f.state = domain.CompareIdle
	return nil
}

func (f *CompareFlow) transition(from, to domain.CompareState) error {
	if f.state != from {
		return fmt.Errorf("%w: %s -> %s (current %s)", domain.ErrInvalidTransition, from, to, f.state)
	}
	f.state = to
	if to != domain.CompareIdle {
		f.err = nil
	}
	return nil
}
