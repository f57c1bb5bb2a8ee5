package booking

import (
	"github.com/pkg/errors"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAccepted   Status = "ACCEPTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// PaymentStatus is the booking-side mirror of the payment record's status,
// PENDING while no payment exists.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentHeld       PaymentStatus = "HELD"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

// Action is the closed set of admin/provider actions on a booking.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrUnknownAction     = errors.New("unknown action")
	ErrInvalidTransition = errors.New("invalid transition")
)

func ParseAction(raw string) (Action, error) {
	switch Action(raw) {
	case ActionAccept, ActionStart, ActionComplete, ActionCancel:
		return Action(raw), nil
	default:
		return "", errors.Wrapf(ErrUnknownAction, "%q", raw)
	}
}

// Transition is a validated step of the booking lifecycle, carrying the
// activity tag and description that go into the audit trail.
type Transition struct {
	Action         Action
	From           Status
	To             Status
	ActivityAction string
	Description    string
}

func (s Status) terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Plan validates action against the current status and returns the resulting
// transition. It never mutates anything; the orchestrator owns persistence.
func Plan(current Status, action Action) (Transition, error) {
	switch action {
	case ActionAccept:
		if current != StatusPending {
			return Transition{}, invalid(current, action)
		}
		return Transition{
			Action:         action,
			From:           current,
			To:             StatusAccepted,
			ActivityAction: "accepted",
			Description:    "Booking has been accepted by provider",
		}, nil

	case ActionStart:
		if current != StatusAccepted {
			return Transition{}, invalid(current, action)
		}
		return Transition{
			Action:         action,
			From:           current,
			To:             StatusInProgress,
			ActivityAction: "in_progress",
			Description:    "Service has been started by provider",
		}, nil

	case ActionComplete:
		if current != StatusInProgress {
			return Transition{}, invalid(current, action)
		}
		return Transition{
			Action:         action,
			From:           current,
			To:             StatusCompleted,
			ActivityAction: "completed",
			Description:    "Service has been completed by provider",
		}, nil

	case ActionCancel:
		if current.terminal() {
			return Transition{}, invalid(current, action)
		}
		return Transition{
			Action:         action,
			From:           current,
			To:             StatusCancelled,
			ActivityAction: "cancelled",
			Description:    "Booking has been cancelled",
		}, nil

	default:
		return Transition{}, errors.Wrapf(ErrUnknownAction, "%q", action)
	}
}

func invalid(current Status, action Action) error {
	return errors.Wrapf(ErrInvalidTransition, "cannot %s a booking in status %s", action, current)
}
