package auth

import (
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

type Role string

const (
	RolePetOwner      Role = "pet_owner"
	RoleBusinessOwner Role = "business_owner"
	RoleStaff         Role = "staff"
)

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	switch r {
	case RolePetOwner, RoleBusinessOwner, RoleStaff:
		return r, true
	}
	return "", false
}

type Capability string

const (
	CapBookAppointment          Capability = "book_appointment"
	CapManagePets               Capability = "manage_pets"
	CapViewOwnAppointments      Capability = "view_own_appointments"
	CapManageBusiness           Capability = "manage_business"
	CapViewBusinessAppointments Capability = "view_business_appointments"
	CapManageAppointments       Capability = "manage_appointments"
	CapManageShifts             Capability = "manage_shifts"
)

var capabilities = map[Role]map[Capability]bool{
	RolePetOwner: {
		CapBookAppointment:     true,
		CapManagePets:          true,
		CapViewOwnAppointments: true,
	},
	RoleBusinessOwner: {
		CapManageBusiness:           true,
		CapViewBusinessAppointments: true,
		CapManageAppointments:       true,
	},
	RoleStaff: {
		CapBookAppointment:          true,
		CapViewBusinessAppointments: true,
		CapManageAppointments:       true,
		CapManageShifts:             true,
	},
}

func Can(role Role, c Capability) bool {
	return capabilities[role][c]
}

// Principal is the authenticated caller. BusinessID is only set for staff.
// TokenID and ExpiresAt describe the token it was read from.
type Principal struct {
	ID         uint
	Role       Role
	BusinessID uint

	TokenID   string
	ExpiresAt time.Time
}

func (p Principal) Can(c Capability) bool {
	return Can(p.Role, c)
}

// ManagesBusiness reports whether p acts on behalf of b: its owner or one of
// its staff.
func (p Principal) ManagesBusiness(b *models.Business) bool {
	switch p.Role {
	case RoleBusinessOwner:
		return b.BusinessOwnerID == p.ID
	case RoleStaff:
		return p.BusinessID == b.ID
	}
	return false
}
