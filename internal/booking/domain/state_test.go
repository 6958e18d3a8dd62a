package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionOpenToClosed(t *testing.T) {
	next, err := Transition(StatusOpen, EventClose)
	assert.NoError(t, err)
	assert.Equal(t, StatusClosed, next)
}

func TestTransitionClosedIsTerminal(t *testing.T) {
	_, err := Transition(StatusClosed, EventClose)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Transition(StatusClosed, EventCancel)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionCancelled(t *testing.T) {
	next, err := Transition(StatusOpen, EventCancel)
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, next)

	_, err = Transition(StatusCancelled, EventClose)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
