package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// StaffScheduleHandler manages the weekly shifts of staff members. Staff edit
// their own shifts and the business owner can read them.
type StaffScheduleHandler struct {
	db    *gorm.DB
	audit audit.Sink
}

func NewStaffScheduleHandler(db *gorm.DB, sink audit.Sink) *StaffScheduleHandler {
	return &StaffScheduleHandler{db: db, audit: sink}
}

type shiftsResponse struct {
	StaffID    uint          `json:"staff_id"`
	BusinessID uint          `json:"business_id"`
	Schedule   []dayResponse `json:"schedule"`
}

func shiftRows(staffID uint, week schedule.Week) []models.StaffSchedule {
	var rows []models.StaffSchedule
	eachInterval(week, func(d schedule.Weekday, iv schedule.Interval) {
		rows = append(rows, models.StaffSchedule{
			StaffID:   staffID,
			Weekday:   int(d),
			StartTime: iv.Open.String(),
			EndTime:   iv.Close.String(),
		})
	})
	return rows
}

// checkShifts rejects any shift that does not fit inside the business hours
// of its day. req must already have passed buildWeek.
func checkShifts(req ScheduleRequest, week, opening schedule.Week) error {
	for i, day := range req.Schedule {
		wd, _ := schedule.ParseWeekday(day.DayOfWeek)
		for _, iv := range week[wd] {
			if !opening.Covers(wd, iv) {
				return httperr.Field(httperr.CodeValidation, fmt.Sprintf("schedule.%d.time_slots", i),
					fmt.Sprintf("The %s shift %s-%s is outside the business hours.", wd.Display("en"), iv.Open, iv.Close))
			}
		}
	}
	return nil
}

// requestedShifts binds and validates a shift request against the caller's
// business hours.
func (h *StaffScheduleHandler) requestedShifts(c *gin.Context, businessID uint) (ScheduleRequest, schedule.Week, bool) {
	var req ScheduleRequest
	if !bindJSON(c, &req) {
		return req, nil, false
	}

	week, err := buildWeek(req)
	if err != nil {
		respondError(c, err)
		return req, nil, false
	}

	opening, ok := loadWeek[models.BusinessSchedule](c, h.db, "business_id", businessID)
	if !ok {
		return req, nil, false
	}
	if err := checkShifts(req, week, opening); err != nil {
		respondError(c, err)
		return req, nil, false
	}
	return req, week, true
}

func renderShifts(c *gin.Context, staffID, businessID uint, week schedule.Week) shiftsResponse {
	return shiftsResponse{
		StaffID:    staffID,
		BusinessID: businessID,
		Schedule:   renderDays(week, c.DefaultQuery("locale", "en")),
	}
}

func (h *StaffScheduleHandler) changed(c *gin.Context, businessID uint, meta any) {
	actor := principal(c)
	h.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		ActorID:    &actor.ID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionShiftsChanged,
		Entity:     "staff_schedule",
		EntityID:   &actor.ID,
		Metadata:   meta,
	})
}

// Mine lists the caller's shifts.
func (h *StaffScheduleHandler) Mine(c *gin.Context) {
	p := principal(c)
	week, ok := loadWeek[models.StaffSchedule](c, h.db, "staff_id", p.ID)
	if !ok {
		return
	}
	httpresp.OK(c, renderShifts(c, p.ID, p.BusinessID, week))
}

// Add creates shifts for days that have none yet. Days that already have
// shifts must be replaced with PUT.
func (h *StaffScheduleHandler) Add(c *gin.Context) {
	p := principal(c)

	req, week, ok := h.requestedShifts(c, p.BusinessID)
	if !ok {
		return
	}
	if len(week) == 0 {
		respondError(c, httperr.Field(httperr.CodeValidation, "schedule", "At least one day is required."))
		return
	}

	current, ok := loadWeek[models.StaffSchedule](c, h.db, "staff_id", p.ID)
	if !ok {
		return
	}
	for i, day := range req.Schedule {
		wd, _ := schedule.ParseWeekday(day.DayOfWeek)
		if _, taken := current[wd]; taken {
			respondError(c, httperr.Field(httperr.CodeConflict, fmt.Sprintf("schedule.%d.day_of_week", i),
				fmt.Sprintf("%s already has shifts. Replace them with PUT.", wd.Display("en"))))
			return
		}
	}

	rows := shiftRows(p.ID, week)
	if err := h.db.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&rows).Error; err != nil {
		respondError(c, err)
		return
	}
	for d, intervals := range week {
		current[d] = intervals
	}

	h.changed(c, p.BusinessID, map[string]int{"days_added": len(week)})
	httpresp.Created(c, renderShifts(c, p.ID, p.BusinessID, current))
}

// Replace overwrites every shift of the caller.
func (h *StaffScheduleHandler) Replace(c *gin.Context) {
	p := principal(c)

	_, week, ok := h.requestedShifts(c, p.BusinessID)
	if !ok {
		return
	}

	rows := shiftRows(p.ID, week)
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", p.ID).Delete(&models.StaffSchedule{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&rows).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.changed(c, p.BusinessID, map[string]int{"days": len(week), "shifts": len(rows)})
	httpresp.OK(c, renderShifts(c, p.ID, p.BusinessID, week))
}

// DeleteDay clears the caller's shifts on one weekday.
func (h *StaffScheduleHandler) DeleteDay(c *gin.Context) {
	p := principal(c)

	wd, ok := schedule.ParseWeekday(c.Param("day"))
	if !ok {
		respondError(c, httperr.Field(httperr.CodeValidation, "day", "Unknown day of the week."))
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("staff_id = ? AND weekday = ?", p.ID, int(wd)).
		Delete(&models.StaffSchedule{})
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, httperr.Field(httperr.CodeNotFound, "day", ""))
		return
	}

	h.changed(c, p.BusinessID, map[string]string{"day_cleared": wd.String()})
	httpresp.Message(c, http.StatusOK, fmt.Sprintf("Shifts for %s deleted.", wd.Display("en")))
}

// ForStaff is the owner's read-only view of one staff member's shifts.
func (h *StaffScheduleHandler) ForStaff(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}
	s, ok := ownedStaff(c, h.db, b.ID, false)
	if !ok {
		return
	}

	week, ok := loadWeek[models.StaffSchedule](c, h.db, "staff_id", s.ID)
	if !ok {
		return
	}
	httpresp.OK(c, renderShifts(c, s.ID, b.ID, week))
}
