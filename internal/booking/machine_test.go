package booking_test

import (
	"testing"

	"booking-admin-service/internal/booking"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	for _, raw := range []string{"accept", "start", "complete", "cancel"} {
		action, err := booking.ParseAction(raw)
		assert.NoError(t, err)
		assert.Equal(t, booking.Action(raw), action)
	}

	for _, raw := range []string{"", "approve", "ACCEPT", "cancel "} {
		_, err := booking.ParseAction(raw)
		assert.True(t, errors.Is(err, booking.ErrUnknownAction), "raw %q", raw)
	}
}

func TestPlan_TransitionTable(t *testing.T) {
	tests := []struct {
		name           string
		current        booking.Status
		action         booking.Action
		to             booking.Status
		activityAction string
	}{
		{"accept from pending", booking.StatusPending, booking.ActionAccept, booking.StatusAccepted, "accepted"},
		{"start from accepted", booking.StatusAccepted, booking.ActionStart, booking.StatusInProgress, "in_progress"},
		{"complete from in progress", booking.StatusInProgress, booking.ActionComplete, booking.StatusCompleted, "completed"},
		{"cancel from pending", booking.StatusPending, booking.ActionCancel, booking.StatusCancelled, "cancelled"},
		{"cancel from accepted", booking.StatusAccepted, booking.ActionCancel, booking.StatusCancelled, "cancelled"},
		{"cancel from in progress", booking.StatusInProgress, booking.ActionCancel, booking.StatusCancelled, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transition, err := booking.Plan(tt.current, tt.action)

			assert.NoError(t, err)
			assert.Equal(t, tt.current, transition.From)
			assert.Equal(t, tt.to, transition.To)
			assert.Equal(t, tt.activityAction, transition.ActivityAction)
			assert.NotEmpty(t, transition.Description)
		})
	}
}

func TestPlan_RejectsInvalidTransitions(t *testing.T) {
	tests := []struct {
		current booking.Status
		action  booking.Action
	}{
		{booking.StatusAccepted, booking.ActionAccept},
		{booking.StatusInProgress, booking.ActionAccept},
		{booking.StatusCompleted, booking.ActionAccept},
		{booking.StatusCancelled, booking.ActionAccept},
		{booking.StatusPending, booking.ActionStart},
		{booking.StatusInProgress, booking.ActionStart},
		{booking.StatusCompleted, booking.ActionStart},
		{booking.StatusPending, booking.ActionComplete},
		{booking.StatusAccepted, booking.ActionComplete},
		{booking.StatusCompleted, booking.ActionComplete},
		{booking.StatusCompleted, booking.ActionCancel},
		{booking.StatusCancelled, booking.ActionCancel},
	}

	for _, tt := range tests {
		_, err := booking.Plan(tt.current, tt.action)
		assert.True(t, errors.Is(err, booking.ErrInvalidTransition), "%s from %s", tt.action, tt.current)
	}
}

func TestPlan_UnknownAction(t *testing.T) {
	_, err := booking.Plan(booking.StatusPending, booking.Action("approve"))
	assert.True(t, errors.Is(err, booking.ErrUnknownAction))
}

// COMPLETED is only reachable through ACCEPTED and IN_PROGRESS in that order.
func TestPlan_NoShortcutToCompleted(t *testing.T) {
	for _, current := range []booking.Status{booking.StatusPending, booking.StatusAccepted, booking.StatusCancelled} {
		_, err := booking.Plan(current, booking.ActionComplete)
		assert.Error(t, err, "complete from %s", current)
	}
}
