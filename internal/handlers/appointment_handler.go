package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/dto"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	availability *ucAppointment.CheckAvailability
	slots        *ucAppointment.ListSlots
	list         *ucAppointment.ListAppointments
	cancel       *ucAppointment.CancelAppointment
	complete     *ucAppointment.CompleteAppointment
}

func NewAppointmentHandler(repo domain.Repository, sink audit.Sink) *AppointmentHandler {
	return &AppointmentHandler{
		create:       ucAppointment.NewCreateAppointment(repo, sink),
		availability: ucAppointment.NewCheckAvailability(repo),
		slots:        ucAppointment.NewListSlots(repo),
		list:         ucAppointment.NewListAppointments(repo),
		cancel:       ucAppointment.NewCancelAppointment(repo, sink),
		complete:     ucAppointment.NewCompleteAppointment(repo, sink),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type PetServiceRequest struct {
	PetID     uint `json:"pet_id" binding:"required"`
	ServiceID uint `json:"service_id" binding:"required"`
}

type CreateAppointmentRequest struct {
	BusinessID      uint                `json:"business_id" binding:"required"`
	PetOwnerID      uint                `json:"pet_owner_id"`
	AppointmentTime string              `json:"appointment_time" binding:"required"`
	PetsServices    []PetServiceRequest `json:"pets_services" binding:"required,min=1,dive"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := principal(c)
	if req.PetOwnerID == 0 && actor.Role == auth.RolePetOwner {
		req.PetOwnerID = actor.ID
	}

	lines := make([]ucAppointment.LineInput, 0, len(req.PetsServices))
	for _, ps := range req.PetsServices {
		lines = append(lines, ucAppointment.LineInput{PetID: ps.PetID, ServiceID: ps.ServiceID})
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Actor:           actor,
		BusinessID:      req.BusinessID,
		PetOwnerID:      req.PetOwnerID,
		AppointmentTime: req.AppointmentTime,
		Lines:           lines,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// AVAILABILITY
// ======================================================

// Availability answers whether one service can be booked at a start time.
// A negative answer is still a 200 carrying the reason.
func (h *AppointmentHandler) Availability(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	at := c.Query("appointment_time")
	if at == "" {
		respondError(c, httperr.Field(httperr.CodeValidation, "appointment_time", "The appointment_time is required."))
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ServiceID:       serviceID,
		AppointmentTime: at,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *AppointmentHandler) Slots(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		respondError(c, httperr.Field(httperr.CodeValidation, "date", "The date is required."))
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), domain.SlotsInput{
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// LIST
// ======================================================

// List returns the caller's appointments. Business owners and staff pass
// business_id; staff default to their own business.
func (h *AppointmentHandler) List(c *gin.Context) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}

	var businessID uint
	if v := c.Query("business_id"); v != "" {
		id, ok := parseID(v)
		if !ok {
			respondError(c, httperr.Field(httperr.CodeValidation, "business_id", "The business_id must be a positive integer."))
			return
		}
		businessID = id
	}

	res, err := h.list.Execute(c.Request.Context(), ucAppointment.ListAppointmentsInput{
		Actor:      principal(c),
		BusinessID: businessID,
		Date:       c.Query("date"),
		Status:     c.Query("status"),
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Paginated(c, dto.FromAppointments(res.Items), res.Page, res.PerPage, res.Total)
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, ap)
}
