package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// transitions lists where each status may move next. Completed and canceled
// are terminal.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusCompleted, StatusCanceled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition returns an invalid_state error unless from may become to.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.Field(httperr.CodeInvalidState, "status",
		fmt.Sprintf("A %s appointment cannot be marked %s.", from, to))
}

func InitialStatus() Status {
	return StatusScheduled
}
