package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/geocoding"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/middleware"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/validators"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validators.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

// --------- schedule ---------

func TestBuildWeek_NormalizesDays(t *testing.T) {
	week, err := buildWeek(ScheduleRequest{Schedule: []DayScheduleRequest{
		{DayOfWeek: "Lunes", TimeSlots: []TimeSlotRequest{
			{StartTime: "14:00", EndTime: "18:00"},
			{StartTime: "09:00", EndTime: "13:00"},
		}},
		{DayOfWeek: "6", TimeSlots: []TimeSlotRequest{{StartTime: "10:00", EndTime: "14:00"}}},
	}})
	require.NoError(t, err)

	assert.Len(t, week, 2)
	assert.Equal(t, []schedule.Interval{
		{Open: 9 * 60, Close: 13 * 60},
		{Open: 14 * 60, Close: 18 * 60},
	}, week[schedule.Monday])

	rows := weekRows(1, week)
	require.Len(t, rows, 3)
	assert.Equal(t, int(schedule.Monday), rows[0].Weekday)
	assert.Equal(t, "09:00", rows[0].StartTime)
	assert.Equal(t, int(schedule.Saturday), rows[2].Weekday)

	back, err := weekFromRows(rows)
	require.NoError(t, err)
	assert.Equal(t, week, back)
}

func TestBuildWeek_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		req   ScheduleRequest
		field string
	}{
		{
			name: "duplicate day",
			req: ScheduleRequest{Schedule: []DayScheduleRequest{
				{DayOfWeek: "monday", TimeSlots: []TimeSlotRequest{{StartTime: "09:00", EndTime: "10:00"}}},
				{DayOfWeek: "Lunes", TimeSlots: []TimeSlotRequest{{StartTime: "11:00", EndTime: "12:00"}}},
			}},
			field: "schedule.1.day_of_week",
		},
		{
			name: "overlap",
			req: ScheduleRequest{Schedule: []DayScheduleRequest{
				{DayOfWeek: "friday", TimeSlots: []TimeSlotRequest{
					{StartTime: "09:00", EndTime: "13:00"},
					{StartTime: "12:00", EndTime: "15:00"},
				}},
			}},
			field: "schedule.0.time_slots",
		},
		{
			name: "inverted",
			req: ScheduleRequest{Schedule: []DayScheduleRequest{
				{DayOfWeek: "friday", TimeSlots: []TimeSlotRequest{{StartTime: "18:00", EndTime: "09:00"}}},
			}},
			field: "schedule.0.time_slots",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildWeek(tc.req)
			be, ok := httperr.AsBusiness(err)
			require.True(t, ok)
			assert.Equal(t, httperr.CodeValidation, be.Code)
			assert.Equal(t, tc.field, be.Field)
		})
	}
}

func TestRenderWeek_Locale(t *testing.T) {
	week := schedule.Week{schedule.Wednesday: {{Open: 9 * 60, Close: 17 * 60}}}

	out := renderWeek(3, week, "es")
	require.Len(t, out.Schedule, 1)
	assert.Equal(t, "wednesday", out.Schedule[0].DayOfWeek)
	assert.Equal(t, "Miércoles", out.Schedule[0].DayName)
	assert.Equal(t, "17:00", out.Schedule[0].TimeSlots[0].EndTime)
}

// --------- offers ---------

func TestValidateOffer(t *testing.T) {
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	ok := OfferRequest{DiscountPrice: 150, OfferStart: start, OfferEnd: start.AddDate(0, 0, 7)}
	assert.NoError(t, validateOffer(ok, 200))

	tooHigh := ok
	tooHigh.DiscountPrice = 200
	be, _ := httperr.AsBusiness(validateOffer(tooHigh, 200))
	assert.Equal(t, "discount_price", be.Field)

	backwards := ok
	backwards.OfferEnd = start
	be, _ = httperr.AsBusiness(validateOffer(backwards, 200))
	assert.Equal(t, "offer_end", be.Field)
}

// --------- helpers ---------

func TestPagination(t *testing.T) {
	cases := []struct {
		query   string
		ok      bool
		page    int
		perPage int
	}{
		{"", true, 1, defaultPerPage},
		{"page=3&per_page=5", true, 3, 5},
		{"per_page=1000", true, 1, maxPerPage},
		{"page=0", false, 0, 0},
		{"per_page=-1", false, 0, 0},
		{"page=abc", false, 0, 0},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)

		page, perPage, ok := pagination(c)
		assert.Equal(t, tc.ok, ok, tc.query)
		if tc.ok {
			assert.Equal(t, tc.page, page, tc.query)
			assert.Equal(t, tc.perPage, perPage, tc.query)
		} else {
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, tc.query)
		}
	}
}

func TestRespondError_HidesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

// --------- appointments ---------

type stubRepo struct {
	domain.Repository

	business models.Business
	services map[uint]models.Service
	day      []schedule.Interval
	booked   int
	starts   []time.Time
}

func (r *stubRepo) FindBusiness(_ context.Context, id uint) (*models.Business, error) {
	if id != r.business.ID {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	b := r.business
	return &b, nil
}

func (r *stubRepo) FindService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return &s, nil
}

func (r *stubRepo) FindWeeklySchedule(_ context.Context, _ uint, d schedule.Weekday) ([]schedule.Interval, error) {
	if d != schedule.Monday {
		return nil, nil
	}
	return r.day, nil
}

func (r *stubRepo) CountConcurrentBookings(context.Context, uint, time.Time) (int, error) {
	return r.booked, nil
}

func (r *stubRepo) ListBookedStarts(context.Context, uint, time.Time, time.Time) ([]time.Time, error) {
	return r.starts, nil
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		business: models.Business{ID: 1, BusinessOwnerID: 10, Timezone: "UTC"},
		services: map[uint]models.Service{
			40: {ID: 40, BusinessID: 1, Name: "Grooming", Duration: 30, MaxServicesSimultaneously: 2},
		},
		day: []schedule.Interval{{Open: 9 * 60, Close: 17 * 60}},
	}
}

func appointmentEngine(repo domain.Repository, actor *auth.Principal) *gin.Engine {
	h := NewAppointmentHandler(repo, audit.Discard{})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ContextPrincipal, *actor)
		}
		c.Next()
	})
	r.GET("/services/:id/availability", h.Availability)
	r.GET("/services/:id/slots", h.Slots)
	r.POST("/appointments", h.Create)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestAvailability_Available(t *testing.T) {
	repo := newStubRepo()
	repo.booked = 1
	r := appointmentEngine(repo, nil)

	// 2026-10-19 is a Monday.
	w := get(r, "/services/40/availability?appointment_time=2026-10-19+16:00:00")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res domain.AvailabilityResult
	decode(t, w, &res)
	assert.True(t, res.Available)
	assert.Empty(t, res.Reason)
	assert.Equal(t, 1, res.Booked)
	assert.Equal(t, 2, res.Capacity)
}

func TestAvailability_ReportsReason(t *testing.T) {
	repo := newStubRepo()
	repo.booked = 2
	r := appointmentEngine(repo, nil)

	cases := map[string]string{
		"2026-10-19+16:45:00": httperr.CodeClosedAtTime,
		"2026-10-20+10:00:00": httperr.CodeClosedAtDay,
		"2026-10-19+10:00:00": httperr.CodeFull,
	}
	for at, reason := range cases {
		w := get(r, "/services/40/availability?appointment_time="+at)
		require.Equal(t, http.StatusOK, w.Code, at)

		var res domain.AvailabilityResult
		decode(t, w, &res)
		assert.False(t, res.Available, at)
		assert.Equal(t, reason, res.Reason, at)
	}
}

func TestAvailability_Errors(t *testing.T) {
	r := appointmentEngine(newStubRepo(), nil)

	w := get(r, "/services/40/availability")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"appointment_time"`)

	w = get(r, "/services/40/availability?appointment_time=19/10/2026")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = get(r, "/services/99/availability?appointment_time=2026-10-19+16:00:00")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"service_id"`)

	w = get(r, "/services/abc/availability?appointment_time=2026-10-19+16:00:00")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSlots_SkipsFullStarts(t *testing.T) {
	repo := newStubRepo()
	repo.day = []schedule.Interval{{Open: 9 * 60, Close: 10 * 60}}
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	repo.starts = []time.Time{at, at, at.Add(30 * time.Minute)}
	r := appointmentEngine(repo, nil)

	w := get(r, "/services/40/slots?date=2026-10-19")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data  []domain.TimeSlot `json:"data"`
		Total int               `json:"total"`
	}
	decode(t, w, &body)
	require.Equal(t, 1, body.Total)
	assert.Equal(t, domain.TimeSlot{Start: "09:30", End: "10:00", Remaining: 1}, body.Data[0])
}

func TestCreateAppointment_BindingErrors(t *testing.T) {
	actor := auth.Principal{ID: 20, Role: auth.RolePetOwner}
	r := appointmentEngine(newStubRepo(), &actor)

	cases := map[string]string{
		`{"business_id":1,"appointment_time":"2026-10-19 16:00:00","pets_services":[]}`:               "pets_services",
		`{"business_id":1,"appointment_time":"2026-10-19 16:00:00","pets_services":[{"pet_id":30}]}`:  "pets_services.0.service_id",
		`{"appointment_time":"2026-10-19 16:00:00","pets_services":[{"pet_id":30,"service_id":40}]}`:  "business_id",
		`{"business_id":1,"appointment_time":"2026-10-19 16:00:00","pets_services":[{"pet_id":"x"}]}`: "body",
	}

	for body, field := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)

		var he httperr.HTTPError
		decode(t, w, &he)
		assert.Equal(t, httperr.CodeValidation, he.Code, body)
		assert.Equal(t, field, he.Field, body)
	}
}

// --------- geolocation ---------

type stubGeocoder struct {
	place *geocoding.Place
	err   error
}

func (s stubGeocoder) Reverse(context.Context, float64, float64) (*geocoding.Place, error) {
	return s.place, s.err
}

func TestGeolocation_Reverse(t *testing.T) {
	cases := []struct {
		name   string
		geo    stubGeocoder
		query  string
		status int
	}{
		{"ok", stubGeocoder{place: &geocoding.Place{FormattedAddress: "Av. Reforma 1, CDMX"}}, "lat=19.43&lon=-99.13", http.StatusOK},
		{"not a number", stubGeocoder{}, "lat=north&lon=-99.13", http.StatusUnprocessableEntity},
		{"out of range", stubGeocoder{err: geocoding.ErrInvalidCoordinates}, "lat=91&lon=0", http.StatusUnprocessableEntity},
		{"nothing there", stubGeocoder{err: geocoding.ErrNotFound}, "lat=0&lon=0", http.StatusNotFound},
		{"upstream down", stubGeocoder{err: geocoding.ErrUpstream}, "lat=1&lon=1", http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/reverse", NewGeolocationHandler(tc.geo).Reverse)

			w := get(r, "/reverse?"+tc.query)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"formatted_address":"Av. Reforma 1, CDMX"`)
			}
		})
	}
}
