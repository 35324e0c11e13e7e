package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

type ScheduleHandler struct {
	db    *gorm.DB
	audit audit.Sink
}

func NewScheduleHandler(db *gorm.DB, sink audit.Sink) *ScheduleHandler {
	return &ScheduleHandler{db: db, audit: sink}
}

type TimeSlotRequest struct {
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
}

// DayOfWeek takes English or Spanish day names, or "0".."6" with 0 = Sunday.
type DayScheduleRequest struct {
	DayOfWeek string            `json:"day_of_week" binding:"required,weekday"`
	TimeSlots []TimeSlotRequest `json:"time_slots" binding:"required,min=1,dive"`
}

type ScheduleRequest struct {
	Schedule []DayScheduleRequest `json:"schedule" binding:"required,dive"`
}

type timeSlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type dayResponse struct {
	Weekday   int                `json:"weekday"`
	DayOfWeek string             `json:"day_of_week"`
	DayName   string             `json:"day_name"`
	TimeSlots []timeSlotResponse `json:"time_slots"`
}

type scheduleResponse struct {
	BusinessID uint          `json:"business_id"`
	Schedule   []dayResponse `json:"schedule"`
}

// buildWeek validates the request into a Week. Each day may appear once and
// its slots must not overlap.
func buildWeek(req ScheduleRequest) (schedule.Week, error) {
	week := schedule.Week{}

	for i, day := range req.Schedule {
		field := fmt.Sprintf("schedule.%d", i)

		wd, ok := schedule.ParseWeekday(day.DayOfWeek)
		if !ok {
			return nil, httperr.Field(httperr.CodeValidation, field+".day_of_week", "Unknown day of the week.")
		}
		if _, dup := week[wd]; dup {
			return nil, httperr.Field(httperr.CodeValidation, field+".day_of_week",
				fmt.Sprintf("%s appears more than once.", wd.Display("en")))
		}

		intervals := make([]schedule.Interval, 0, len(day.TimeSlots))
		for j, slot := range day.TimeSlots {
			open, err := schedule.ParseClock(slot.StartTime)
			if err != nil {
				return nil, httperr.Field(httperr.CodeValidation, fmt.Sprintf("%s.time_slots.%d.start_time", field, j), err.Error())
			}
			closing, err := schedule.ParseClock(slot.EndTime)
			if err != nil {
				return nil, httperr.Field(httperr.CodeValidation, fmt.Sprintf("%s.time_slots.%d.end_time", field, j), err.Error())
			}
			intervals = append(intervals, schedule.Interval{Open: open, Close: closing})
		}

		normalized, err := schedule.Normalize(intervals)
		if err != nil {
			return nil, httperr.Field(httperr.CodeValidation, field+".time_slots", err.Error())
		}
		week[wd] = normalized
	}

	return week, nil
}

// eachInterval visits the week day by day, Sunday first.
func eachInterval(week schedule.Week, fn func(d schedule.Weekday, iv schedule.Interval)) {
	for d := schedule.Sunday; d <= schedule.Saturday; d++ {
		for _, iv := range week[d] {
			fn(d, iv)
		}
	}
}

func weekRows(businessID uint, week schedule.Week) []models.BusinessSchedule {
	var rows []models.BusinessSchedule
	eachInterval(week, func(d schedule.Weekday, iv schedule.Interval) {
		rows = append(rows, models.BusinessSchedule{
			BusinessID: businessID,
			Weekday:    int(d),
			StartTime:  iv.Open.String(),
			EndTime:    iv.Close.String(),
		})
	})
	return rows
}

func weekFromRows[R models.ScheduleRow](rows []R) (schedule.Week, error) {
	byDay := map[schedule.Weekday][]R{}
	for _, r := range rows {
		d := schedule.Weekday(r.Day())
		byDay[d] = append(byDay[d], r)
	}

	week := schedule.Week{}
	for d, dayRows := range byDay {
		intervals, err := repository.IntervalsFromRows(dayRows)
		if err != nil {
			return nil, err
		}
		week[d] = intervals
	}
	return week, nil
}

func renderWeek(businessID uint, week schedule.Week, locale string) scheduleResponse {
	return scheduleResponse{BusinessID: businessID, Schedule: renderDays(week, locale)}
}

func renderDays(week schedule.Week, locale string) []dayResponse {
	out := []dayResponse{}
	for d := schedule.Sunday; d <= schedule.Saturday; d++ {
		intervals, ok := week[d]
		if !ok {
			continue
		}
		day := dayResponse{
			Weekday:   int(d),
			DayOfWeek: d.String(),
			DayName:   d.Display(locale),
			TimeSlots: make([]timeSlotResponse, 0, len(intervals)),
		}
		for _, iv := range intervals {
			day.TimeSlots = append(day.TimeSlots, timeSlotResponse{
				StartTime: iv.Open.String(),
				EndTime:   iv.Close.String(),
			})
		}
		out = append(out, day)
	}
	return out
}

func (h *ScheduleHandler) loadWeek(c *gin.Context, businessID uint) (schedule.Week, bool) {
	return loadWeek[models.BusinessSchedule](c, h.db, "business_id", businessID)
}

// loadWeek reads the stored rows of one business or staff member, keyed by
// column, into a Week.
func loadWeek[R models.ScheduleRow](c *gin.Context, db *gorm.DB, column string, id uint) (schedule.Week, bool) {
	var rows []R
	if err := db.WithContext(c.Request.Context()).
		Where(column+" = ?", id).
		Order("weekday ASC, start_time ASC").
		Find(&rows).Error; err != nil {
		respondError(c, err)
		return nil, false
	}

	week, err := weekFromRows(rows)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return week, true
}

// Get is public. ?locale=es renders Spanish day names.
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var b models.Business
	if err := h.db.WithContext(c.Request.Context()).First(&b, id).Error; err != nil {
		respondError(c, err)
		return
	}

	week, ok := h.loadWeek(c, b.ID)
	if !ok {
		return
	}
	httpresp.OK(c, renderWeek(b.ID, week, c.DefaultQuery("locale", "en")))
}

// Replace overwrites the whole week: days missing from the request end up
// closed.
func (h *ScheduleHandler) Replace(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}

	var req ScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	week, err := buildWeek(req)
	if err != nil {
		respondError(c, err)
		return
	}

	rows := weekRows(b.ID, week)
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", b.ID).Delete(&models.BusinessSchedule{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	actor := principal(c)
	h.audit.Dispatch(audit.Event{
		BusinessID: b.ID,
		ActorID:    &actor.ID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionScheduleReplaced,
		Entity:     "business_schedule",
		EntityID:   &b.ID,
		Metadata:   map[string]int{"days": len(week), "intervals": len(rows)},
	})

	httpresp.OK(c, renderWeek(b.ID, week, c.DefaultQuery("locale", "en")))
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Where("business_id = ?", b.ID).
		Delete(&models.BusinessSchedule{}).Error; err != nil {
		respondError(c, err)
		return
	}

	actor := principal(c)
	h.audit.Dispatch(audit.Event{
		BusinessID: b.ID,
		ActorID:    &actor.ID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionScheduleDeleted,
		Entity:     "business_schedule",
		EntityID:   &b.ID,
	})

	httpresp.Message(c, http.StatusOK, "Schedule deleted.")
}
