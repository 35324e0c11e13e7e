package appointment

import (
	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

const (
	groomingID  = 40
	bathID      = 41
	otherShopID = 42
)

// seededRepo has one business open Mondays 09:00-17:00 with a 30 minute
// single-capacity grooming service and a 60 minute bath for two.
func seededRepo() *memRepo {
	r := newMemRepo()

	r.businesses[1] = models.Business{ID: 1, BusinessOwnerID: 10, Timezone: "UTC"}
	r.businesses[2] = models.Business{ID: 2, BusinessOwnerID: 11, Timezone: "UTC"}

	r.owners[20] = models.PetOwner{ID: 20}
	r.owners[21] = models.PetOwner{ID: 21}

	r.pets[30] = models.Pet{ID: 30, PetOwnerID: 20, Name: "Firulais"}
	r.pets[31] = models.Pet{ID: 31, PetOwnerID: 20, Name: "Michi"}
	r.pets[32] = models.Pet{ID: 32, PetOwnerID: 21, Name: "Rocky"}

	r.services[groomingID] = models.Service{ID: groomingID, BusinessID: 1, Name: "Grooming", Duration: 30, MaxServicesSimultaneously: 1}
	r.services[bathID] = models.Service{ID: bathID, BusinessID: 1, Name: "Bath", Duration: 60, MaxServicesSimultaneously: 2}
	r.services[otherShopID] = models.Service{ID: otherShopID, BusinessID: 2, Name: "Walk", Duration: 30, MaxServicesSimultaneously: 5}

	r.week[schedule.Monday] = []schedule.Interval{{Open: 9 * 60, Close: 17 * 60}}

	return r
}

var (
	ownerActor    = auth.Principal{ID: 20, Role: auth.RolePetOwner}
	staffActor    = auth.Principal{ID: 5, Role: auth.RoleStaff, BusinessID: 1}
	bizOwnerActor = auth.Principal{ID: 10, Role: auth.RoleBusinessOwner}
)

// 2026-10-19 is a Monday, 2026-10-20 a Tuesday.
const (
	mondayAt1600 = "2026-10-19 16:00:00"
	mondayAt1645 = "2026-10-19 16:45:00"
	tuesdayAt10  = "2026-10-20 10:00:00"
)

func booking(at string, lines ...LineInput) CreateAppointmentInput {
	return CreateAppointmentInput{
		Actor:           ownerActor,
		BusinessID:      1,
		PetOwnerID:      20,
		AppointmentTime: at,
		Lines:           lines,
	}
}
