package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// moveTo applies a status change and stamps the matching timestamp.
func moveTo(ap *models.Appointment, to Status, now time.Time) error {
	from := Status(ap.Status)
	if from == to && from.Terminal() {
		return httperr.Field(httperr.CodeInvalidState, "status",
			fmt.Sprintf("The appointment is already %s.", from))
	}
	if err := CanTransition(from, to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusCanceled:
		ap.CanceledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	}
	return nil
}

// Cancel frees the appointment's capacity; canceled lines are no longer
// counted by the availability check.
func Cancel(ap *models.Appointment, now time.Time) error {
	return moveTo(ap, StatusCanceled, now)
}

func Complete(ap *models.Appointment, now time.Time) error {
	return moveTo(ap, StatusCompleted, now)
}
