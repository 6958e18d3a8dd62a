package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

// Lifecycle events.
const (
	EventClose  = "close"
	EventCancel = "cancel"
)

var ErrInvalidTransition = errors.New("invalid_booking_transition")

func newLifecycle(current string) *fsm.FSM {
	return fsm.NewFSM(
		current,
		fsm.Events{
			{Name: EventClose, Src: []string{StatusOpen}, Dst: StatusClosed},
			{Name: EventCancel, Src: []string{StatusOpen}, Dst: StatusCancelled},
		},
		fsm.Callbacks{},
	)
}

// Transition validates a lifecycle event against the current status and
// returns the resulting status. A closed booking never transitions again.
func Transition(current, event string) (string, error) {
	machine := newLifecycle(current)
	if err := machine.Event(context.Background(), event); err != nil {
		return "", fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, current)
	}
	return machine.Current(), nil
}
