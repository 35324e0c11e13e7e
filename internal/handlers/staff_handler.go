package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/storage"
	"github.com/BruksfildServices01/petcare-scheduler/internal/validators"
)

// StaffHandler lets a business owner manage the accounts that book on
// behalf of pet owners at the front desk.
type StaffHandler struct {
	db               *gorm.DB
	store            storage.ObjectStore
	audit            audit.Sink
	checkEmailDomain func(email string) bool
}

func NewStaffHandler(db *gorm.DB, store storage.ObjectStore, sink audit.Sink) *StaffHandler {
	return &StaffHandler{
		db:               db,
		store:            store,
		audit:            sink,
		checkEmailDomain: validators.IsEmailDomainValid,
	}
}

type CreateStaffRequest struct {
	Name        string `json:"name" binding:"required,max=45"`
	LastName    string `json:"last_name" binding:"required,max=45"`
	Email       string `json:"email" binding:"required,email,max=70"`
	Password    string `json:"password" binding:"required,password"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,phone"`
}

type UpdateStaffRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=45"`
	LastName    *string `json:"last_name" binding:"omitempty,max=45"`
	Email       *string `json:"email" binding:"omitempty,email,max=70"`
	Password    *string `json:"password" binding:"omitempty,password"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,phone"`
}

// ownedStaff loads :staff_id within businessID. With trashed set only soft
// deleted staff are found.
func ownedStaff(c *gin.Context, db *gorm.DB, businessID uint, trashed bool) (*models.Staff, bool) {
	staffID, ok := idParam(c, "staff_id")
	if !ok {
		return nil, false
	}

	q := db.WithContext(c.Request.Context())
	if trashed {
		q = q.Unscoped().Where("deleted_at IS NOT NULL")
	}

	var s models.Staff
	if err := q.Where("id = ? AND business_id = ?", staffID, businessID).First(&s).Error; err != nil {
		respondError(c, err)
		return nil, false
	}
	return &s, true
}

func (h *StaffHandler) record(c *gin.Context, s *models.Staff, action string) {
	actor := principal(c)
	h.audit.Dispatch(audit.Event{
		BusinessID: s.BusinessID,
		ActorID:    &actor.ID,
		ActorRole:  string(actor.Role),
		Action:     action,
		Entity:     "staff",
		EntityID:   &s.ID,
	})
}

func (h *StaffHandler) List(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}

	var staff []models.Staff
	if err := h.db.WithContext(c.Request.Context()).
		Where("business_id = ?", b.ID).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, staff)
}

func (h *StaffHandler) Trashed(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}

	var staff []models.Staff
	if err := h.db.WithContext(c.Request.Context()).
		Unscoped().
		Where("business_id = ? AND deleted_at IS NOT NULL", b.ID).
		Order("deleted_at DESC").
		Find(&staff).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, staff)
}

func (h *StaffHandler) Show(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}
	s, ok := ownedStaff(c, h.db, b.ID, false)
	if !ok {
		return
	}
	httpresp.OK(c, s)
}

func (h *StaffHandler) Create(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}

	var req CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.checkEmailDomain(email) {
		respondError(c, httperr.Field(httperr.CodeValidation, "email", "The email domain does not look valid."))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
		return
	}

	s := models.Staff{
		BusinessID:   b.ID,
		Name:         req.Name,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
	}
	if err := h.db.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&s).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "account_already_exists", "An account with these details already exists.")
			return
		}
		respondError(c, err)
		return
	}
	httpresp.Created(c, s)
}

func (h *StaffHandler) Delete(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}
	staffID, ok := idParam(c, "staff_id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", staffID, b.ID).
		Delete(&models.Staff{})
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, httperr.ErrBusiness(httperr.CodeNotFound))
		return
	}
	httpresp.Message(c, http.StatusOK, "Staff member deleted.")
}

// Update changes the given fields only. A staff member stays with the
// business they were created for.
func (h *StaffHandler) Update(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}

	var req UpdateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	s, ok := ownedStaff(c, h.db, b.ID, false)
	if !ok {
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !h.checkEmailDomain(email) {
			respondError(c, httperr.Field(httperr.CodeValidation, "email", "The email domain does not look valid."))
			return
		}
		updates["email"] = email
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
			return
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(s).Updates(updates).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				httperr.Conflict(c, "account_already_exists", "An account with these details already exists.")
				return
			}
			respondError(c, err)
			return
		}
	}
	httpresp.OK(c, s)
}

func (h *StaffHandler) Restore(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}
	s, ok := ownedStaff(c, h.db, b.ID, true)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Unscoped().
		Model(s).
		Update("deleted_at", nil).Error; err != nil {
		respondError(c, err)
		return
	}
	s.DeletedAt = gorm.DeletedAt{}

	h.record(c, s, audit.ActionStaffRestored)
	httpresp.OK(c, s)
}

// ForceDelete permanently removes a trashed staff member with their shifts
// and profile photo. Appointments they booked are kept.
func (h *StaffHandler) ForceDelete(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}
	s, ok := ownedStaff(c, h.db, b.ID, true)
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", s.ID).Delete(&models.StaffSchedule{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(s).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	discardObject(c, h.store, s.ProfilePhotoKey)
	h.record(c, s, audit.ActionStaffForceDeleted)
	httpresp.Message(c, http.StatusOK, "Staff member permanently deleted.")
}
